package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"edakit/app"
	"edakit/domain/screening"
	"edakit/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	service, err := app.NewScreeningService(screening.DefaultPolicy(), 0.5, nil)
	require.NoError(t, err)
	return NewServer(service, nil)
}

func do(t *testing.T, s *Server, method, target, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

// monotoneBody is 40 rows whose tenure column separates the label tails.
func monotoneBody(t *testing.T) []byte {
	t.Helper()
	rows := make([][]interface{}, 40)
	for i := range rows {
		label := 0
		if i >= 20 {
			label = 1
		}
		rows[i] = []interface{}{i, label}
	}
	rows[7][0] = nil

	body, err := json.Marshal(map[string]interface{}{
		"columns": []string{"tenure", "churned"},
		"rows":    rows,
		"target":  "churned",
	})
	require.NoError(t, err)
	return body
}

func TestRecommend_JSON(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodPost, "/v1/recommend", "application/json", monotoneBody(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ID       string `json:"id"`
		Features []string
		Decision screening.Decision
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, []string{"tenure"}, resp.Features)
	assert.Equal(t, screening.LogisticRegression, resp.Decision.Recommendation)
	assert.Equal(t, []int{0}, resp.Decision.Scan.LR)
}

func TestRecommend_CSVMarkdown(t *testing.T) {
	var b strings.Builder
	b.WriteString("tenure,outcome\n")
	for i := 0; i < 40; i++ {
		outcome := "left"
		if i >= 20 {
			outcome = "stayed"
		}
		fmt.Fprintf(&b, "%d,%s\n", i, outcome)
	}

	w := do(t, newTestServer(t), http.MethodPost, "/v1/recommend?target=outcome&format=markdown", "text/csv", []byte(b.String()))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, w.Body.String(), "## Recommendation: Logistic Regression")
}

func TestRecommend_HTML(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodPost, "/v1/recommend?format=html", "application/json", monotoneBody(t))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<table>")
}

func TestRecommend_SingleClass(t *testing.T) {
	body := []byte(`{"columns":["x","y"],"rows":[[1,0],[2,0],[3,0]],"target":"y"}`)
	w := do(t, newTestServer(t), http.MethodPost, "/v1/recommend", "application/json", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errors.CodeInvalidInput, resp["code"])
	assert.Contains(t, resp["error"], "class absent")
}

func TestRecommend_BadRequests(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		status      int
	}{
		{"malformed json", "/v1/recommend", "application/json", `{"columns":`, http.StatusBadRequest},
		{"missing target", "/v1/recommend", "application/json", `{"columns":["x"],"rows":[[1]]}`, http.StatusBadRequest},
		{"ragged row", "/v1/recommend", "application/json", `{"columns":["x","y"],"rows":[[1]],"target":"y"}`, http.StatusBadRequest},
		{"unknown target", "/v1/recommend", "application/json", `{"columns":["x","y"],"rows":[[1,0]],"target":"z"}`, http.StatusUnprocessableEntity},
		{"csv without target", "/v1/scan", "text/csv", "x,y\n1,0\n", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tt.target, tt.contentType, []byte(tt.body))
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestScan(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodPost, "/v1/scan", "application/json", monotoneBody(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out app.ScanOutput
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, []int{0}, out.Result.RF)
	require.Len(t, out.Verdicts, 1)
	assert.True(t, out.Verdicts[0].External.Separable)
}

func TestImpute(t *testing.T) {
	body := []byte(`{"columns":["a","b"],"rows":[[1,null],[null,null],[3,null],[5,4]],"drop_threshold":0.5}`)
	w := do(t, newTestServer(t), http.MethodPost, "/v1/impute", "application/json", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Table struct {
			Columns []string    `json:"columns"`
			Rows    [][]float64 `json:"rows"`
		} `json:"table"`
		Medians map[string]float64 `json:"medians"`
		Dropped []string           `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"b"}, resp.Dropped)
	assert.Equal(t, []string{"a"}, resp.Table.Columns)
	assert.Equal(t, 3.0, resp.Medians["a"])
	assert.Equal(t, [][]float64{{1}, {3}, {3}, {5}}, resp.Table.Rows)
}

func TestRatio(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/v1/ratio?n=50&f=500", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]float64
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 0.10, resp["score"], 1e-12)

	w = do(t, s, http.MethodGet, "/v1/ratio?n=50&f=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/v1/ratio?n=abc&f=3", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/healthz", "", nil)
	generated := w.Header().Get(requestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(requestIDHeader))
}

func TestRecommend_CSVInfiniteCell(t *testing.T) {
	var b strings.Builder
	b.WriteString("tenure,churned\n")
	for i := 0; i < 40; i++ {
		label := 0
		if i >= 20 {
			label = 1
		}
		tenure := strconv.Itoa(i)
		if i == 39 {
			tenure = "Inf"
		}
		fmt.Fprintf(&b, "%s,%d\n", tenure, label)
	}

	w := do(t, newTestServer(t), http.MethodPost, "/v1/recommend?target=churned", "text/csv", []byte(b.String()))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotEmpty(t, w.Body.Bytes())

	var resp struct {
		DataErrors int `json:"data_errors"`
		Profiles   []struct {
			Name    string  `json:"name"`
			Missing int     `json:"missing"`
			Mean    float64 `json:"mean"`
		} `json:"profiles"`
		Decision screening.Decision `json:"decision"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.DataErrors)
	require.NotEmpty(t, resp.Profiles)
	assert.Equal(t, "tenure", resp.Profiles[0].Name)
	assert.Equal(t, 1, resp.Profiles[0].Missing)
	assert.Equal(t, []int{0}, resp.Decision.Scan.LR)
}
