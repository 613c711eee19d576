package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	projectTitle  = "ECGenius - Healthy Heart - Anytime, Anywhere"
	projectAuthor = "Rishabh Kumar"

	welcomeText = `
        Welcome to ECGenius - Healthy Heart - Anytime, Anywhere

        _||_ Author - Rishabh Kumar
        _||_ Submit ECG samples with POST /predict
        _||_ Register the patient with POST /register, then POST /get_report
`
	predictGuidanceText = `
        Welcome to ECGenius!

        __][__ GET method is not allowed in "/predict", go for POST method.
`
)

// APIDoc 单个接口说明
type APIDoc struct {
	Method             string                 `json:"method"`
	Description        string                 `json:"description"`
	Body               []string               `json:"body,omitempty"`
	Statuses           []int                  `json:"statuses,omitempty"`
	InputFormatExample map[string]interface{} `json:"input_format_example,omitempty"`
}

// CapabilityDoc GET /api 返回的能力说明，apis 以路径为键
type CapabilityDoc struct {
	Project     string            `json:"project"`
	Description string            `json:"description"`
	Author      string            `json:"author"`
	APIs        map[string]APIDoc `json:"apis"`
}

var capabilityDoc = CapabilityDoc{
	Project:     projectTitle,
	Description: "ECGenius takes raw ECG samples, runs them through multiple analysis functions / models, and returns risk or diagnostic insights.",
	Author:      projectAuthor,
	APIs: map[string]APIDoc{
		"/":       {Method: http.MethodGet, Description: "Welcome text.", Statuses: []int{200}},
		"/api":    {Method: http.MethodGet, Description: "Project info and list of APIs.", Statuses: []int{200}},
		"/health": {Method: http.MethodGet, Description: "Liveness probe.", Statuses: []int{200}},
		"/predict": {
			Method:      http.MethodPost,
			Description: "Takes a list of ECG samples (any length) and runs 4 diagnostic functions plus heart rate; GET returns usage guidance.",
			Body:        []string{"samples"},
			Statuses:    []int{200, 400, 500},
			InputFormatExample: map[string]interface{}{
				"samples": []interface{}{0.12, -0.03, 0.45, "... more values ..."},
			},
		},
		"/register": {
			Method:      http.MethodPost,
			Description: "Attach patient information to a prediction, once.",
			Body:        []string{"prediction_id", "name", "age", "gender", "phone_no", "previous_medication"},
			Statuses:    []int{200, 400, 404, 409, 500},
		},
		"/update_patient_info": {
			Method:      http.MethodPost,
			Description: "Update patient information before the first visit.",
			Body:        []string{"prediction_id", "name", "age", "gender", "previous_medication"},
			Statuses:    []int{200, 400, 403, 404, 500},
		},
		"/get_report": {
			Method:      http.MethodPost,
			Description: "Diagnostics, patient information and samples of a registered prediction.",
			Body:        []string{"prediction_id"},
			Statuses:    []int{200, 400, 403, 404, 500},
		},
		"/export_report": {
			Method:      http.MethodPost,
			Description: "The report as an .xlsx workbook.",
			Body:        []string{"prediction_id"},
			Statuses:    []int{200, 400, 403, 404, 413, 500},
		},
	},
}

// InfoHandler 静态说明接口
type InfoHandler struct{}

func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

// Home 欢迎页
// @Summary 欢迎页
// @Tags 说明
// @Produce plain
// @Success 200 {string} string "欢迎文本"
// @Router / [get]
func (h *InfoHandler) Home(c *gin.Context) {
	c.String(http.StatusOK, welcomeText)
}

// API 能力说明
// @Summary 接口能力说明
// @Tags 说明
// @Produce json
// @Success 200 {object} CapabilityDoc
// @Router /api [get]
func (h *InfoHandler) API(c *gin.Context) {
	c.JSON(http.StatusOK, capabilityDoc)
}

// PredictGuidance GET /predict 提示改用 POST
// @Summary 预测接口用法
// @Tags 说明
// @Produce plain
// @Success 200 {string} string "用法说明"
// @Router /predict [get]
func (h *InfoHandler) PredictGuidance(c *gin.Context) {
	c.String(http.StatusOK, predictGuidanceText)
}

// Health 存活检查
// @Summary 存活检查
// @Tags 说明
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *InfoHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
