package api

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"ecgenius/logger"
	"ecgenius/models"
	"ecgenius/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_ExactlyOnce(t *testing.T) {
	s := store.NewMemoryStore()
	r := newTestRouter(t, testDeps{store: s})
	id := predictID(t, r, `{"samples":[0.1,0.2]}`)

	w := doRequest(r, http.MethodPost, "/register", fmt.Sprintf(registerBody, id))
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Patient registered successfully.", resp["message"])
	assert.Equal(t, id, resp["prediction_id"])
	record := resp["record"].(map[string]interface{})
	assert.Equal(t, true, record["is_already_visited"])
	assert.Equal(t, "Asha Verma", record["name"])

	second := fmt.Sprintf(`{"prediction_id":"%s","name":"Someone Else","age":"71","gender":"male","phone_no":"1","previous_medication":"aspirin"}`, id)
	w = doRequest(r, http.MethodPost, "/register", second)
	assert.Equal(t, http.StatusConflict, w.Code)

	rec, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Asha Verma", *rec.Name)
	assert.Equal(t, models.Age(34), *rec.Age)
	assert.Equal(t, "9876543210", *rec.PhoneNo)
}

func TestRegister_ConcurrentSingleWinner(t *testing.T) {
	r := newTestRouter(t, testDeps{})
	id := predictID(t, r, `{"samples":[1]}`)

	const n = 12
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = doRequest(r, http.MethodPost, "/register", fmt.Sprintf(registerBody, id)).Code
		}(i)
	}
	wg.Wait()

	ok, conflict := 0, 0
	for _, c := range codes {
		switch c {
		case http.StatusOK:
			ok++
		case http.StatusConflict:
			conflict++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflict)
}

func TestRegister_Validation(t *testing.T) {
	r := newTestRouter(t, testDeps{})
	id := predictID(t, r, `{"samples":[1]}`)

	t.Run("missing fields are listed", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/register", fmt.Sprintf(`{"prediction_id":"%s","name":""}`, id))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "Missing required fields", resp["error"])
		assert.Equal(t, []interface{}{"age", "gender", "phone_no", "previous_medication"}, resp["missing"])
	})

	t.Run("falsy values count as present", func(t *testing.T) {
		other := predictID(t, r, `{"samples":[1]}`)
		body := fmt.Sprintf(`{"prediction_id":"%s","name":"","age":0,"gender":"","phone_no":"","previous_medication":null}`, other)
		w := doRequest(r, http.MethodPost, "/register", body)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("age out of range", func(t *testing.T) {
		body := fmt.Sprintf(`{"prediction_id":"%s","name":"A","age":151,"gender":"f","phone_no":"1","previous_medication":""}`, id)
		w := doRequest(r, http.MethodPost, "/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("age not an integer", func(t *testing.T) {
		body := fmt.Sprintf(`{"prediction_id":"%s","name":"A","age":"old","gender":"f","phone_no":"1","previous_medication":""}`, id)
		w := doRequest(r, http.MethodPost, "/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "'age' must be an integer.", decode(t, w)["error"])
	})

	t.Run("not an object", func(t *testing.T) {
		w := doRequest(r, http.MethodPost, "/register", `["x"]`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRegister_UnknownID(t *testing.T) {
	r := newTestRouter(t, testDeps{})
	w := doRequest(r, http.MethodPost, "/register", fmt.Sprintf(registerBody, "20260101-000000000000"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Prediction ID not found.", decode(t, w)["error"])
}

func TestRegister_StorageFailure(t *testing.T) {
	mem := store.NewMemoryStore()
	rec := models.NewPredictionRecord("20261018-aaaaaaaaaaaa", "2026-10-18T00:00:00.000000Z", models.Results{}, nil)
	require.NoError(t, mem.Put(context.Background(), rec))
	r := newTestRouter(t, testDeps{store: failingStore{mem}})

	w := doRequest(r, http.MethodPost, "/register", fmt.Sprintf(registerBody, rec.PredictionID))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode(t, w)["details"], "throttled")
}

type recordingNotifier struct {
	mu  sync.Mutex
	ids []string
}

func (n *recordingNotifier) NotifyRegistration(_ context.Context, rec *models.PredictionRecord) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, rec.PredictionID)
	return nil
}

func TestRegister_NotifiesOnlyOnSuccess(t *testing.T) {
	s := store.NewMemoryStore()
	rec := models.NewPredictionRecord("20261018-bbbbbbbbbbbb", "2026-10-18T00:00:00.000000Z", models.Results{}, nil)
	require.NoError(t, s.Put(context.Background(), rec))

	n := &recordingNotifier{}
	r := gin.New()
	r.POST("/register", NewPatientHandler(s, n, logger.Nop()).Register)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/register", fmt.Sprintf(registerBody, rec.PredictionID)).Code)
	assert.Equal(t, http.StatusConflict, doRequest(r, http.MethodPost, "/register", fmt.Sprintf(registerBody, rec.PredictionID)).Code)
	assert.Equal(t, []string{rec.PredictionID}, n.ids)
}

func TestUpdatePatientInfo(t *testing.T) {
	r := newTestRouter(t, testDeps{})
	id := predictID(t, r, `{"samples":[1]}`)
	body := fmt.Sprintf(`{"prediction_id":"%s","name":"Asha","age":"35","gender":"female","previous_medication":"metoprolol"}`, id)

	w := doRequest(r, http.MethodPost, "/update_patient_info", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	record := decode(t, w)["record"].(map[string]interface{})
	assert.Equal(t, float64(35), record["age"])
	assert.NotContains(t, record, "phone_no")

	w = doRequest(r, http.MethodPost, "/update_patient_info", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodPost, "/register", fmt.Sprintf(registerBody, id))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(r, http.MethodPost, "/update_patient_info", `{"prediction_id":"20260101-000000000000","name":"","age":1,"gender":"","previous_medication":""}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
