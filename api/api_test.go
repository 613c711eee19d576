package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"ecgenius/config"
	"ecgenius/diagnostics"
	"ecgenius/logger"
	"ecgenius/models"
	"ecgenius/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var predictionIDPattern = regexp.MustCompile(`^\d{8}-[0-9a-f]{12}$`)

const registerBody = `{"prediction_id":"%s","name":"Asha Verma","age":34,"gender":"female","phone_no":"9876543210","previous_medication":"none"}`

func init() {
	gin.SetMode(gin.TestMode)
}

type testDeps struct {
	store store.RecordStore
	diag  diagnostics.Diagnostics
}

func newTestRouter(t *testing.T, deps testDeps) *gin.Engine {
	t.Helper()
	if deps.store == nil {
		deps.store = store.NewMemoryStore()
	}
	if deps.diag == nil {
		deps.diag = diagnostics.NewStub(config.DiagnosticsConfig{HeartRateMode: "random", MinHeartRate: 70, MaxHeartRate: 75})
	}
	log := logger.Nop()
	info := NewInfoHandler()
	predict := NewPredictionHandler(deps.store, deps.diag, models.NewIDGenerator(), log)
	patient := NewPatientHandler(deps.store, nil, log)
	report := NewReportHandler(deps.store, log)

	r := gin.New()
	r.GET("/", info.Home)
	r.GET("/api", info.API)
	r.GET("/predict", info.PredictGuidance)
	r.POST("/predict", predict.Predict)
	r.POST("/register", patient.Register)
	r.POST("/update_patient_info", patient.UpdatePatientInfo)
	r.POST("/get_report", report.GetReport)
	r.POST("/export_report", report.ExportReport)
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func predictID(t *testing.T, r http.Handler, body string) string {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/predict", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["prediction_id"].(string)
}

// failingStore 写入与登记均返回存储错误
type failingStore struct {
	*store.MemoryStore
}

func (s failingStore) Put(context.Context, *models.PredictionRecord) error {
	return &store.StorageError{Op: "put", Err: errors.New("connection refused")}
}

func (s failingStore) RegisterPatient(context.Context, string, models.PatientInfo) (*models.PredictionRecord, error) {
	return nil, &store.StorageError{Op: "register", Err: errors.New("throttled")}
}

type brokenDiagnostics struct{}

func (brokenDiagnostics) Evaluate(context.Context, []float64) (models.Results, error) {
	return models.Results{}, errors.New("afib: model unavailable")
}
