package api

import (
	"context"
	"errors"
	"net/http"

	"ecgenius/logger"
	"ecgenius/models"
	"ecgenius/store"

	"github.com/gin-gonic/gin"
)

// RegisterResponse 登记成功响应
type RegisterResponse struct {
	Message      string                   `json:"message" example:"Patient registered successfully."`
	PredictionID string                   `json:"prediction_id" example:"20261018-9f86d081884c"`
	Record       *models.PredictionRecord `json:"record"`
}

// PatientHandler 患者登记与信息更新
type PatientHandler struct {
	store    store.RecordStore
	notifier RegistrationNotifier
	log      *logger.Logger
}

// NewPatientHandler notifier 可为 nil
func NewPatientHandler(s store.RecordStore, notifier RegistrationNotifier, log *logger.Logger) *PatientHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &PatientHandler{store: s, notifier: notifier, log: log}
}

// lookup 读取记录，不存在或失败时已写出响应并返回 nil
func lookup(c *gin.Context, s store.RecordStore, log *logger.Logger, id string) *models.PredictionRecord {
	rec, err := s.Get(c.Request.Context(), id)
	if err != nil {
		log.Error("loading prediction failed", "prediction_id", id, "error", err)
		InternalError(c, "Failed to load prediction.", err)
		return nil
	}
	if rec == nil {
		log.Info("prediction not found", "prediction_id", id)
		NotFound(c, "Prediction ID not found.")
		return nil
	}
	return rec
}

// Register 为预测登记患者信息，只允许一次
// @Summary 登记患者信息
// @Description 首次登记成功后置位 is_already_visited，重复登记返回 409
// @Tags 患者
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "患者信息"
// @Success 200 {object} RegisterResponse
// @Failure 400 {object} ErrorResponse "缺少字段或字段不合法"
// @Failure 404 {object} ErrorResponse "prediction_id 不存在"
// @Failure 409 {object} ErrorResponse "已登记"
// @Failure 500 {object} ErrorResponse "存储失败"
// @Router /register [post]
func (h *PatientHandler) Register(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		BadRequest(c, "Unable to read request body.")
		return
	}
	req, err := ParseRegistration(body)
	if err != nil {
		h.log.Info("registration rejected", "error", err.Error())
		respondInvalid(c, err)
		return
	}
	if lookup(c, h.store, h.log, req.PredictionID) == nil {
		return
	}

	rec, err := h.store.RegisterPatient(c.Request.Context(), req.PredictionID, req.PatientInfo())
	switch {
	case errors.Is(err, store.ErrAlreadyRegistered):
		h.log.Info("patient already registered", "prediction_id", req.PredictionID)
		Conflict(c, "Patient already registered for this prediction ID.")
		return
	case errors.Is(err, store.ErrNotFound):
		NotFound(c, "Prediction ID not found.")
		return
	case err != nil:
		h.log.Error("registering patient failed", "prediction_id", req.PredictionID, "error", err)
		InternalError(c, "Failed to register patient.", err)
		return
	}

	h.log.Info("patient registered", "prediction_id", req.PredictionID)
	if h.notifier != nil {
		if err := h.notifier.NotifyRegistration(context.WithoutCancel(c.Request.Context()), rec); err != nil {
			h.log.Warn("registration notice failed", "prediction_id", req.PredictionID, "error", err)
		}
	}
	c.JSON(http.StatusOK, RegisterResponse{
		Message:      "Patient registered successfully.",
		PredictionID: req.PredictionID,
		Record:       rec,
	})
}

// UpdatePatientInfo 就诊前更新患者信息（手机号不可改）
// @Summary 更新患者信息
// @Description 守卫已置位时返回 403
// @Tags 患者
// @Accept json
// @Produce json
// @Param request body UpdatePatientRequest true "患者信息"
// @Success 200 {object} RegisterResponse
// @Failure 400 {object} ErrorResponse "缺少字段或字段不合法"
// @Failure 403 {object} ErrorResponse "患者已就诊"
// @Failure 404 {object} ErrorResponse "prediction_id 不存在"
// @Failure 500 {object} ErrorResponse "存储失败"
// @Router /update_patient_info [post]
func (h *PatientHandler) UpdatePatientInfo(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		BadRequest(c, "Unable to read request body.")
		return
	}
	req, err := ParsePatientUpdate(body)
	if err != nil {
		h.log.Info("patient update rejected", "error", err.Error())
		respondInvalid(c, err)
		return
	}
	if lookup(c, h.store, h.log, req.PredictionID) == nil {
		return
	}

	rec, err := h.store.UpdatePatientInfo(c.Request.Context(), req.PredictionID, req.PatientUpdate())
	switch {
	case errors.Is(err, store.ErrAlreadyVisited):
		h.log.Info("patient already visited", "prediction_id", req.PredictionID)
		Forbidden(c, "Patient has already visited; information can no longer be updated.")
		return
	case errors.Is(err, store.ErrNotFound):
		NotFound(c, "Prediction ID not found.")
		return
	case err != nil:
		h.log.Error("updating patient failed", "prediction_id", req.PredictionID, "error", err)
		InternalError(c, "Failed to update patient information.", err)
		return
	}

	h.log.Info("patient information updated", "prediction_id", req.PredictionID)
	c.JSON(http.StatusOK, RegisterResponse{
		Message:      "Patient information updated successfully.",
		PredictionID: req.PredictionID,
		Record:       rec,
	})
}
