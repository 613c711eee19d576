package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"ecgenius/models"

	"github.com/gin-gonic/gin/binding"
)

// InvalidInputError 请求参数不合法
type InvalidInputError struct {
	Message string
	Details string
	Missing []string
}

func (e *InvalidInputError) Error() string {
	if len(e.Missing) > 0 {
		return e.Message + ": " + strings.Join(e.Missing, ", ")
	}
	return e.Message
}

func invalid(format string, args ...interface{}) *InvalidInputError {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// RegisterRequest 登记请求（长度上限与存储列宽一致）
type RegisterRequest struct {
	PredictionID       string     `json:"prediction_id" binding:"max=64" example:"20261018-9f86d081884c"`
	Name               string     `json:"name" binding:"max=100" example:"Asha Verma"`
	Age                models.Age `json:"age" binding:"gte=0,lte=150" swaggertype:"integer" example:"34"`
	Gender             string     `json:"gender" binding:"max=20" example:"female"`
	PhoneNo            string     `json:"phone_no" binding:"max=32" example:"9876543210"`
	PreviousMedication string     `json:"previous_medication" binding:"max=2000" example:"none"`
}

// UpdatePatientRequest 更新患者信息请求
type UpdatePatientRequest struct {
	PredictionID       string     `json:"prediction_id" binding:"max=64" example:"20261018-9f86d081884c"`
	Name               string     `json:"name" binding:"max=100" example:"Asha Verma"`
	Age                models.Age `json:"age" binding:"gte=0,lte=150" swaggertype:"integer" example:"35"`
	Gender             string     `json:"gender" binding:"max=20" example:"female"`
	PreviousMedication string     `json:"previous_medication" binding:"max=2000" example:"metoprolol"`
}

// PredictionIDRequest 只携带 prediction_id 的请求
type PredictionIDRequest struct {
	PredictionID string `json:"prediction_id" example:"20261018-9f86d081884c"`
}

// PredictRequest 预测请求
type PredictRequest struct {
	Samples []float64 `json:"samples" example:"0.12,-0.03,0.45"`
}

var (
	registerFields = []string{"prediction_id", "name", "age", "gender", "phone_no", "previous_medication"}
	updateFields   = []string{"prediction_id", "name", "age", "gender", "previous_medication"}
)

// decodeObject 请求体必须是 JSON 对象
func decodeObject(body []byte) (map[string]json.RawMessage, *InvalidInputError) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil, invalid("Request body must be JSON.")
	}
	var obj map[string]json.RawMessage
	if trimmed[0] != '{' || json.Unmarshal(trimmed, &obj) != nil {
		return nil, invalid("Request body must be a JSON object.")
	}
	return obj, nil
}

// requireKeys 检查键是否存在（值为空、0、false 也算存在）
func requireKeys(obj map[string]json.RawMessage, keys []string) *InvalidInputError {
	var missing []string
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &InvalidInputError{Message: "Missing required fields", Missing: missing}
	}
	return nil
}

// ParseSamples 解析并规范化 samples：数字或数字字符串，长度不限
func ParseSamples(body []byte) ([]float64, error) {
	obj, verr := decodeObject(body)
	if verr != nil {
		return nil, verr
	}
	raw, ok := obj["samples"]
	if !ok {
		return nil, invalid("Missing 'samples' field in JSON body.")
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, invalid("'samples' must be a list.")
	}
	samples := make([]float64, 0, len(items))
	for i, item := range items {
		v, err := toFloat(item)
		if err != nil {
			e := invalid("All values in 'samples' must be numeric.")
			e.Details = fmt.Sprintf("samples[%d]: %v", i, err)
			return nil, e
		}
		samples = append(samples, v)
	}
	return samples, nil
}

func toFloat(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, fmt.Errorf("empty value")
	}
	var s string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		s = string(raw)
	default:
		return 0, fmt.Errorf("%s is not a number", string(raw))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	// JSON 无法表示 NaN/Inf，拒绝以免响应编码失败
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}

// toText 文本字段：字符串原样保留，其它 JSON 值保留其紧凑文本，null 视为空串
func toText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func parsePredictionID(obj map[string]json.RawMessage) (string, *InvalidInputError) {
	var id string
	if err := json.Unmarshal(obj["prediction_id"], &id); err != nil {
		return "", invalid("'prediction_id' must be a string.")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", invalid("'prediction_id' must not be empty.")
	}
	return id, nil
}

func parseAge(obj map[string]json.RawMessage) (models.Age, *InvalidInputError) {
	var age models.Age
	if err := json.Unmarshal(obj["age"], &age); err != nil {
		e := invalid("'age' must be an integer.")
		e.Details = err.Error()
		return 0, e
	}
	return age, nil
}

func validateStruct(req interface{}) error {
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return &InvalidInputError{Message: "Invalid field value.", Details: err.Error()}
	}
	return nil
}

// ParseRegistration 解析登记请求，缺失字段一次性列出
func ParseRegistration(body []byte) (*RegisterRequest, error) {
	obj, verr := decodeObject(body)
	if verr != nil {
		return nil, verr
	}
	if verr := requireKeys(obj, registerFields); verr != nil {
		return nil, verr
	}
	id, verr := parsePredictionID(obj)
	if verr != nil {
		return nil, verr
	}
	age, verr := parseAge(obj)
	if verr != nil {
		return nil, verr
	}
	req := &RegisterRequest{
		PredictionID:       id,
		Name:               toText(obj["name"]),
		Age:                age,
		Gender:             toText(obj["gender"]),
		PhoneNo:            toText(obj["phone_no"]),
		PreviousMedication: toText(obj["previous_medication"]),
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

// PatientInfo 转换为存储模型
func (r *RegisterRequest) PatientInfo() models.PatientInfo {
	return models.PatientInfo{
		Name:               r.Name,
		Age:                r.Age,
		Gender:             r.Gender,
		PhoneNo:            r.PhoneNo,
		PreviousMedication: r.PreviousMedication,
	}
}

// ParsePatientUpdate 解析患者信息更新请求
func ParsePatientUpdate(body []byte) (*UpdatePatientRequest, error) {
	obj, verr := decodeObject(body)
	if verr != nil {
		return nil, verr
	}
	if verr := requireKeys(obj, updateFields); verr != nil {
		return nil, verr
	}
	id, verr := parsePredictionID(obj)
	if verr != nil {
		return nil, verr
	}
	age, verr := parseAge(obj)
	if verr != nil {
		return nil, verr
	}
	req := &UpdatePatientRequest{
		PredictionID:       id,
		Name:               toText(obj["name"]),
		Age:                age,
		Gender:             toText(obj["gender"]),
		PreviousMedication: toText(obj["previous_medication"]),
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return req, nil
}

// PatientUpdate 转换为存储模型
func (r *UpdatePatientRequest) PatientUpdate() models.PatientUpdate {
	return models.PatientUpdate{
		Name:               r.Name,
		Age:                r.Age,
		Gender:             r.Gender,
		PreviousMedication: r.PreviousMedication,
	}
}

// ParsePredictionID 解析只需要 prediction_id 的请求
func ParsePredictionID(body []byte) (string, error) {
	obj, verr := decodeObject(body)
	if verr != nil {
		return "", verr
	}
	if verr := requireKeys(obj, []string{"prediction_id"}); verr != nil {
		verr.Message = "Missing 'prediction_id' field in JSON body."
		return "", verr
	}
	id, verr := parsePredictionID(obj)
	if verr != nil {
		return "", verr
	}
	return id, nil
}
