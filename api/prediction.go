package api

import (
	"net/http"

	"ecgenius/diagnostics"
	"ecgenius/logger"
	"ecgenius/models"
	"ecgenius/store"

	"github.com/gin-gonic/gin"
)

// PredictResponse POST /predict 成功响应
type PredictResponse struct {
	Project      string         `json:"project" example:"ECGenius"`
	NumSamples   int            `json:"num_samples" example:"3"`
	PredictionID string         `json:"prediction_id" example:"20261018-9f86d081884c"`
	Timestamp    string         `json:"timestamp" example:"2026-10-18T09:30:00.000000Z"`
	Results      models.Results `json:"results"`
}

// PredictionHandler 预测接口
type PredictionHandler struct {
	store store.RecordStore
	diag  diagnostics.Diagnostics
	ids   IDGenerator
	log   *logger.Logger
}

func NewPredictionHandler(s store.RecordStore, diag diagnostics.Diagnostics, ids IDGenerator, log *logger.Logger) *PredictionHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PredictionHandler{store: s, diag: diag, ids: ids, log: log}
}

// Predict 运行诊断并保存预测记录
// @Summary 提交心电样本
// @Description 校验样本后运行诊断，生成 prediction_id 并持久化记录
// @Tags 预测
// @Accept json
// @Produce json
// @Param request body PredictRequest true "心电样本"
// @Success 200 {object} PredictResponse
// @Failure 400 {object} ErrorResponse "请求体或样本不合法"
// @Failure 500 {object} ErrorResponse "诊断或存储失败"
// @Router /predict [post]
func (h *PredictionHandler) Predict(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		BadRequest(c, "Unable to read request body.")
		return
	}
	samples, err := ParseSamples(body)
	if err != nil {
		h.log.Info("predict rejected", "error", err.Error())
		respondInvalid(c, err)
		return
	}

	results, err := h.diag.Evaluate(c.Request.Context(), samples)
	if err != nil {
		h.log.Error("diagnostics failed", "num_samples", len(samples), "error", err)
		InternalError(c, "Internal error in prediction functions.", err)
		return
	}

	id, ts, err := h.ids.Generate()
	if err != nil {
		h.log.Error("prediction id generation failed", "error", err)
		InternalError(c, "Failed to generate prediction id.", err)
		return
	}

	rec := models.NewPredictionRecord(id, ts, results, samples)
	if err := h.store.Put(c.Request.Context(), rec); err != nil {
		h.log.Error("storing prediction failed", "prediction_id", id, "error", err)
		InternalError(c, "Failed to store prediction.", err)
		return
	}

	h.log.Info("prediction stored", "prediction_id", id, "num_samples", len(samples))
	c.JSON(http.StatusOK, PredictResponse{
		Project:      "ECGenius",
		NumSamples:   len(samples),
		PredictionID: id,
		Timestamp:    ts,
		Results:      results,
	})
}
