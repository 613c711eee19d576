package api

import (
	"net/http"

	"ecgenius/logger"
	"ecgenius/models"
	"ecgenius/store"

	"github.com/gin-gonic/gin"
)

const notRegisteredMessage = "Patient information not registered. Please register via /register before requesting the report."

// Report 诊断结果、患者信息与原始样本
type Report struct {
	PredictionID       string         `json:"prediction_id"`
	Timestamp          string         `json:"timestamp"`
	Results            models.Results `json:"results"`
	Name               string         `json:"name"`
	Age                models.Age     `json:"age" swaggertype:"integer"`
	Gender             string         `json:"gender"`
	PhoneNo            string         `json:"phone_no"`
	PreviousMedication string         `json:"previous_medication"`
	Samples            []float64      `json:"samples"`
}

// ReportResponse POST /get_report 成功响应
type ReportResponse struct {
	Report Report `json:"report"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NewReport 由已登记的记录生成报告
func NewReport(rec *models.PredictionRecord) Report {
	r := Report{
		PredictionID:       rec.PredictionID,
		Timestamp:          rec.Timestamp,
		Results:            rec.Results(),
		Name:               deref(rec.Name),
		Gender:             deref(rec.Gender),
		PhoneNo:            deref(rec.PhoneNo),
		PreviousMedication: deref(rec.PreviousMedication),
		Samples:            []float64(rec.Samples),
	}
	if rec.Age != nil {
		r.Age = *rec.Age
	}
	if r.Samples == nil {
		r.Samples = []float64{}
	}
	return r
}

// ReportHandler 报告查询与导出
type ReportHandler struct {
	store store.RecordStore
	log   *logger.Logger
}

func NewReportHandler(s store.RecordStore, log *logger.Logger) *ReportHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportHandler{store: s, log: log}
}

// registeredRecord 解析请求并加载已登记的记录；失败时已写出响应
func (h *ReportHandler) registeredRecord(c *gin.Context) *models.PredictionRecord {
	body, err := readBody(c)
	if err != nil {
		BadRequest(c, "Unable to read request body.")
		return nil
	}
	id, err := ParsePredictionID(body)
	if err != nil {
		h.log.Info("report request rejected", "error", err.Error())
		respondInvalid(c, err)
		return nil
	}
	rec := lookup(c, h.store, h.log, id)
	if rec == nil {
		return nil
	}
	if !rec.IsAlreadyVisited {
		h.log.Info("report requested before registration", "prediction_id", id)
		Forbidden(c, notRegisteredMessage)
		return nil
	}
	return rec
}

// GetReport 获取报告，仅已登记的预测可查询
// @Summary 获取报告
// @Tags 报告
// @Accept json
// @Produce json
// @Param request body PredictionIDRequest true "预测编号"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} ErrorResponse "缺少 prediction_id"
// @Failure 403 {object} ErrorResponse "尚未登记"
// @Failure 404 {object} ErrorResponse "prediction_id 不存在"
// @Failure 500 {object} ErrorResponse "存储失败"
// @Router /get_report [post]
func (h *ReportHandler) GetReport(c *gin.Context) {
	rec := h.registeredRecord(c)
	if rec == nil {
		return
	}
	c.JSON(http.StatusOK, ReportResponse{Report: NewReport(rec)})
}
