package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Skufu/medpredict/internal/app"
	"github.com/Skufu/medpredict/internal/audit"
	"github.com/Skufu/medpredict/internal/diagnosis"
)

type fakeDB struct {
	err error
}

func (f fakeDB) Ping(ctx context.Context) error {
	return f.err
}

type constModel float64

func (c constModel) Predict(rows [][]float64) ([]float64, error) {
	return []float64{float64(c)}, nil
}

type fakeAudit struct {
	entries []audit.Entry
	err     error
}

func (f *fakeAudit) Record(ctx context.Context, e audit.Entry) error {
	f.entries = append(f.entries, e)
	return f.err
}

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	svc, err := app.NewWithModels(map[string]diagnosis.Model{
		diagnosis.Diabetes:     constModel(1),
		diagnosis.Heart:        constModel(0),
		diagnosis.BreastCancer: constModel(0.98),
		diagnosis.Parkinsons:   constModel(1),
	}, nil)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	return svc
}

func newTestRouter(t *testing.T, deps routerDeps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if deps.App == nil {
		deps.App = newTestApp(t)
	}
	if deps.StaticRoot == "" {
		deps.StaticRoot = "."
	}
	return setupRouter(deps)
}

func postJSON(router http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decodePredict(t *testing.T, w *httptest.ResponseRecorder) PredictResponse {
	t.Helper()
	var resp PredictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter(t, routerDeps{DB: fakeDB{}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRouterReadyz(t *testing.T) {
	tests := []struct {
		name string
		db   HealthChecker
		code int
		want string
	}{
		{name: "db disabled", db: nil, code: http.StatusOK, want: `"db":"disabled"`},
		{name: "db healthy", db: fakeDB{}, code: http.StatusOK, want: `"db":"ok"`},
		{name: "db down", db: fakeDB{err: errors.New("refused")}, code: http.StatusServiceUnavailable, want: "unhealthy: refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, routerDeps{DB: tt.db})
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/readyz", nil)
			router.ServeHTTP(w, req)

			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Fatalf("expected %q in %s", tt.want, w.Body.String())
			}
		})
	}
}

// Ensure limitBodySize middleware allows small payloads and blocks large ones.
func TestLimitBodySize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limitBodySize(10))
	router.POST("/echo", func(c *gin.Context) {
		_, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	t.Run("within limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/echo", strings.NewReader("12345"))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/echo", strings.NewReader("01234567890"))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", w.Code)
		}
	})
}

func TestPanelsEndpoint(t *testing.T) {
	router := newTestRouter(t, routerDeps{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/panels", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Panels []diagnosis.Panel `json:"panels"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(body.Panels) != 4 {
		t.Fatalf("expected 4 panels, got %d", len(body.Panels))
	}
	if body.Panels[0].ID != diagnosis.Diabetes || len(body.Panels[0].Fields) != 8 {
		t.Fatalf("unexpected first panel: %+v", body.Panels[0])
	}
	if strings.Contains(w.Body.String(), "high probability") {
		t.Fatalf("result messages must not be part of the catalogue: %s", w.Body.String())
	}
}

func TestPredictEndpoint(t *testing.T) {
	diabetes := `{"fields":["2","120","70","20","80","25.0","0.5","33"]}`
	heartMissing := `{"fields":["63","1","3","","233","1","0","150","0","2.3","0","0","1"]}`

	tests := []struct {
		name     string
		path     string
		body     string
		code     int
		ok       bool
		result   string
		errorMsg string
	}{
		{
			name:   "diabetes positive",
			path:   "/api/panels/diabetes/predict",
			body:   diabetes,
			code:   http.StatusOK,
			ok:     true,
			result: "The person has a high probability of being Diabetic",
		},
		{
			name:     "heart missing trestbps",
			path:     "/api/panels/heart/predict",
			body:     heartMissing,
			code:     http.StatusOK,
			ok:       false,
			result:   "Prediction error",
			errorMsg: "Error predicting heart disease:",
		},
		{
			name:     "wrong field count",
			path:     "/api/panels/diabetes/predict",
			body:     `{"fields":["1","2"]}`,
			code:     http.StatusOK,
			ok:       false,
			result:   "Prediction error",
			errorMsg: "Error predicting diabetes:",
		},
		{
			name: "unknown panel",
			path: "/api/panels/kidney/predict",
			body: diabetes,
			code: http.StatusNotFound,
		},
		{
			name: "malformed json",
			path: "/api/panels/diabetes/predict",
			body: `{"fields":`,
			code: http.StatusBadRequest,
		},
		{
			name: "no values",
			path: "/api/panels/diabetes/predict",
			body: `{}`,
			code: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, routerDeps{})
			w := postJSON(router, tt.path, tt.body)

			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
			if tt.code != http.StatusOK {
				return
			}

			resp := decodePredict(t, w)
			if resp.OK != tt.ok || resp.Result != tt.result {
				t.Fatalf("unexpected response: %+v", resp)
			}
			if !strings.HasPrefix(resp.Error, tt.errorMsg) {
				t.Fatalf("expected error prefix %q, got %q", tt.errorMsg, resp.Error)
			}
		})
	}
}

func TestPredictStrictEquality(t *testing.T) {
	router := newTestRouter(t, routerDeps{})

	fields := make([]string, 30)
	for i := range fields {
		fields[i] = fmt.Sprintf("%d.5", i)
	}
	payload, _ := json.Marshal(PredictRequest{Fields: fields})

	resp := decodePredict(t, postJSON(router, "/api/panels/breast_cancer/predict", string(payload)))
	if !resp.OK || resp.Positive {
		t.Fatalf("0.98 must be a negative finding, got %+v", resp)
	}
	if resp.Result != "The person is less likely to have Breast Cancer" {
		t.Fatalf("unexpected result: %s", resp.Result)
	}
}

func TestPredictKeyedValues(t *testing.T) {
	router := newTestRouter(t, routerDeps{})
	panel, _ := diagnosis.Lookup(diagnosis.Diabetes)

	values := make(map[string]string)
	for _, f := range panel.Fields {
		values[f.Key] = "1"
	}
	payload, _ := json.Marshal(PredictRequest{Values: values})
	resp := decodePredict(t, postJSON(router, "/api/panels/diabetes/predict", string(payload)))
	if !resp.OK || !resp.Positive {
		t.Fatalf("expected positive result, got %+v", resp)
	}

	delete(values, "BMI")
	payload, _ = json.Marshal(PredictRequest{Values: values})
	resp = decodePredict(t, postJSON(router, "/api/panels/diabetes/predict", string(payload)))
	if resp.OK || resp.Result != diagnosis.ErrorText {
		t.Fatalf("expected error for missing key, got %+v", resp)
	}
}

func TestPredictRecordsAudit(t *testing.T) {
	rec := &fakeAudit{err: errors.New("db gone")}
	router := newTestRouter(t, routerDeps{Audit: rec})

	w := postJSON(router, "/api/panels/parkinsons/predict", `{"fields":["1"]}`)
	resp := decodePredict(t, w)
	if resp.Result != diagnosis.ErrorText {
		t.Fatalf("unexpected result: %+v", resp)
	}
	if len(rec.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Panel != diagnosis.Parkinsons || e.Outcome != "error" || e.RequestID != resp.RequestID {
		t.Fatalf("unexpected audit entry: %+v", e)
	}
	if w.Header().Get(requestIDHeader) != resp.RequestID {
		t.Fatalf("request id header mismatch")
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := newTestRouter(t, routerDeps{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	router.ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected request id abc-123, got %q", got)
	}
}

func TestRequestIDRejectsUnsafeValues(t *testing.T) {
	router := newTestRouter(t, routerDeps{})

	for _, id := range []string{strings.Repeat("a", 65), "abc 123", "id\"quoted"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/healthz", nil)
		req.Header.Set(requestIDHeader, id)
		router.ServeHTTP(w, req)

		got := w.Header().Get(requestIDHeader)
		if got == id || len(got) != 36 {
			t.Fatalf("expected a generated request id for %q, got %q", id, got)
		}
	}
}

func TestAccessLogAtInfo(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	router := newTestRouter(t, routerDeps{Logger: zap.New(core)})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	router.ServeHTTP(w, req)

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/healthz" || fields["status"] != int64(http.StatusOK) {
		t.Fatalf("unexpected access log fields: %v", fields)
	}
}

func TestIndexLogsAccess(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>panels</html>"), 0o600); err != nil {
		t.Fatal(err)
	}
	core, logs := observer.New(zap.InfoLevel)
	router := newTestRouter(t, routerDeps{Logger: zap.New(core), StaticRoot: dir})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "panels") {
			t.Fatalf("unexpected index response %d: %s", w.Code, w.Body.String())
		}
	}

	if n := logs.FilterMessage("User accessed the app.").Len(); n != 2 {
		t.Fatalf("expected 2 access entries, got %d", n)
	}
}

func TestPanelsCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"panels"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := out.String()
	for _, want := range []string{"Diabetes Disease Prediction (diabetes)", "Glucose concentration [30.46-199]", "Worst Fractal Dimension [0.055-0.208]"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in output:\n%s", want, body)
		}
	}
}

// setModelEnv writes a linear artifact per panel whose decision depends on
// the first feature only, and points the environment at them.
func setModelEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	env := map[string]string{
		diagnosis.Diabetes:     "DIABETES_MODEL_PATH",
		diagnosis.Heart:        "HEART_MODEL_PATH",
		diagnosis.BreastCancer: "BREAST_CANCER_MODEL_PATH",
		diagnosis.Parkinsons:   "PARKINSONS_MODEL_PATH",
	}
	for _, p := range diagnosis.Panels() {
		coef := make([]string, len(p.Fields))
		for i := range coef {
			coef[i] = "0"
		}
		coef[0] = "1"
		body := fmt.Sprintf("kind: linear\nn_features: %d\ncoef: [%s]\nintercept: -1\n", len(p.Fields), strings.Join(coef, ", "))
		path := filepath.Join(dir, p.ID+".yaml")
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv(env[p.ID], path)
	}
	t.Setenv("LOG_FILE", filepath.Join(dir, "app.log"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("ENABLE_DB", "false")
}

func TestPredictCommand(t *testing.T) {
	setModelEnv(t)

	run := func(args ...string) (string, error) {
		cmd := newRootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs(append([]string{"predict"}, args...))
		err := cmd.Execute()
		return out.String(), err
	}

	out, err := run("--panel", "diabetes", "--", "2", "120", "70", "20", "80", "25.0", "0.5", "33")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "The person has a high probability of being Diabetic" {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = run("--panel", "diabetes", "--", "0", "120", "70", "20", "80", "25.0", "0.5", "33")
	if err != nil || strings.TrimSpace(out) != "The person has a low probability of being Diabetic" {
		t.Fatalf("unexpected result %q, %v", out, err)
	}

	out, err = run("--panel", "diabetes", "--", "abc")
	if err == nil || strings.TrimSpace(out) != diagnosis.ErrorText {
		t.Fatalf("expected prediction error, got %q, %v", out, err)
	}
}

func TestPredictCommandFailsWhenModelMissing(t *testing.T) {
	setModelEnv(t)
	t.Setenv("HEART_MODEL_PATH", filepath.Join(t.TempDir(), "missing.json"))

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"predict", "--panel", "diabetes", "--", "1", "1", "1", "1", "1", "1", "1", "1"})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "error loading models") {
		t.Fatalf("expected model loading error, got %v", err)
	}
}
