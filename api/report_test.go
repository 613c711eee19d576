package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"testing"

	"ecgenius/models"
	"ecgenius/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGetReport_Gating(t *testing.T) {
	r := newTestRouter(t, testDeps{})
	id := predictID(t, r, `{"samples":[0.5,-0.25]}`)
	reportBody := fmt.Sprintf(`{"prediction_id":"%s"}`, id)

	w := doRequest(r, http.MethodPost, "/get_report", reportBody)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, notRegisteredMessage, decode(t, w)["error"])

	require.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/register", fmt.Sprintf(registerBody, id)).Code)

	w = doRequest(r, http.MethodPost, "/get_report", reportBody)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode(t, w)["report"].(map[string]interface{})
	assert.Equal(t, id, report["prediction_id"])
	assert.Equal(t, "Asha Verma", report["name"])
	assert.Equal(t, float64(34), report["age"])
	assert.Equal(t, "female", report["gender"])
	assert.Equal(t, "9876543210", report["phone_no"])
	assert.Equal(t, "none", report["previous_medication"])
	assert.Equal(t, []interface{}{0.5, -0.25}, report["samples"])
	assert.Contains(t, report["results"], "heart_rate")
}

func TestGetReport_Errors(t *testing.T) {
	r := newTestRouter(t, testDeps{})

	w := doRequest(r, http.MethodPost, "/get_report", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing 'prediction_id' field in JSON body.", decode(t, w)["error"])

	w = doRequest(r, http.MethodPost, "/get_report", `{"prediction_id":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPost, "/get_report", `{"prediction_id":"20260101-000000000000"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportReport(t *testing.T) {
	r := newTestRouter(t, testDeps{})
	id := predictID(t, r, `{"samples":[0.1,0.2,0.3]}`)
	body := fmt.Sprintf(`{"prediction_id":"%s"}`, id)

	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodPost, "/export_report", body).Code)
	require.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/register", fmt.Sprintf(registerBody, id)).Code)

	w := doRequest(r, http.MethodPost, "/export_report", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), id)

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"prediction_id", id}, rows[1])
	assert.Equal(t, []string{"name", "Asha Verma"}, rows[3])

	samples, err := f.GetRows(samplesSheet)
	require.NoError(t, err)
	require.Len(t, samples, 4)
	assert.Equal(t, []string{"index", "value"}, samples[0])
	assert.Equal(t, []string{"2", "0.3"}, samples[3])
}

func TestBuildReportWorkbook_RowLimit(t *testing.T) {
	_, err := BuildReportWorkbook(Report{Samples: make([]float64, MaxExportSamples+1)})
	assert.ErrorIs(t, err, ErrTooManySamples)
}

func TestExportReport_TooManySamples(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	rec := models.NewPredictionRecord("20261018-cccccccccccc", "2026-10-18T00:00:00.000000Z",
		models.Results{}, make([]float64, MaxExportSamples+1))
	require.NoError(t, s.Put(ctx, rec))
	_, err := s.RegisterPatient(ctx, rec.PredictionID, models.PatientInfo{Name: "A", Age: 30})
	require.NoError(t, err)

	r := newTestRouter(t, testDeps{store: s})
	w := doRequest(r, http.MethodPost, "/export_report", fmt.Sprintf(`{"prediction_id":"%s"}`, rec.PredictionID))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, decode(t, w)["details"], "worksheet row limit")
}
