package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sportform/predictui/pkg/predict"
	"github.com/sportform/predictui/pkg/renderers/vanilla"
)

const testSchemaPayload = `{
	"fields": [
		{"name": "gender", "type": "select", "options": ["M", "F"]},
		{"name": "age", "type": "number"},
		{"name": "motivation_level", "type": "number"}
	],
	"note": "Compila i campi e premi Predici."
}`

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/schema", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, testSchemaPayload)
	})
	mux.HandleFunc("/api/predict", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Features map[string]any `json:"features"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, `{"detail":"payload non valido"}`, http.StatusBadRequest)
			return
		}
		if body.Features["age"] == nil {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"detail":"eta mancante"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"prediction": "High",
			"proba": {"Low": 0.25, "High": 0.75},
			"used_features": ["age", "gender"],
			"model_name": "RandomForest",
			"message": "OK"
		}`)
	})
	mux.HandleFunc("/api/parse_text", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(body.Text, "motivato") {
			_, _ = io.WriteString(w, `{
				"features": {"motivation_level": 5, "unknown_field": 1},
				"message": "Features generate dal testo con successo!"
			}`)
			return
		}
		_, _ = io.WriteString(w, `{"features": {}, "message": "Nessuna feature riconosciuta"}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestServer(t *testing.T, apiURL string) *Server {
	t.Helper()
	srv, err := New(predict.NewClient(apiURL), vanilla.New(), zap.NewNop())
	require.NoError(t, err)
	return srv
}

func TestIndexRendersEmptyForm(t *testing.T) {
	api := newFakeAPI(t)
	srv := newTestServer(t, api.URL)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "PE Performance Predictor")
	assert.Contains(t, body, "Compila i campi e premi Predici.")
	assert.Contains(t, body, `<select id="gender" name="gender">`)
	assert.Contains(t, body, `<input type="number" id="age" name="age" step="any">`)
	assert.Contains(t, body, "-- seleziona --")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestIndexReportsSchemaFailure(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"modello non caricato"}`)
	}))
	t.Cleanup(api.Close)
	srv := newTestServer(t, api.URL)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "modello non caricato")
}

func TestPredictRendersResultAndKeepsValues(t *testing.T) {
	api := newFakeAPI(t)
	srv := newTestServer(t, api.URL)

	form := url.Values{"gender": {"M"}, "age": {"15"}}
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Modello: RandomForest")
	assert.Contains(t, body, "High: 75.00%")
	assert.Contains(t, body, "Low: 25.00%")
	// submitted values survive the round trip
	assert.Contains(t, body, `value="15"`)
	assert.Contains(t, body, `<option value="M" selected>`)
}

func TestPredictShowsAPIErrorInline(t *testing.T) {
	api := newFakeAPI(t)
	srv := newTestServer(t, api.URL)

	form := url.Values{"gender": {"F"}}
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Errore: eta mancante")
	assert.Contains(t, body, `<option value="F" selected>`)
}

func TestFillPrefillsEveryField(t *testing.T) {
	api := newFakeAPI(t)
	srv := newTestServer(t, api.URL)

	req := httptest.NewRequest(http.MethodPost, "/fill", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Valori casuali generati.")
	// both options cannot be selected, but one of them must be
	if !strings.Contains(body, `<option value="M" selected>`) &&
		!strings.Contains(body, `<option value="F" selected>`) {
		t.Fatalf("no select option prefilled:\n%s", body)
	}
	assert.Regexp(t, `id="age" name="age" step="any" value="\d+"`, body)
}

func TestParsePrefillsMatchedFields(t *testing.T) {
	api := newFakeAPI(t)
	srv := newTestServer(t, api.URL)

	form := url.Values{"text": {"studente molto motivato"}}
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Features generate dal testo con successo!")
	assert.Contains(t, body, `id="motivation_level" name="motivation_level" step="any" value="5"`)
	// the unmatched key is dropped silently
	assert.NotContains(t, body, "unknown_field")
}

func TestParseRejectsEmptyText(t *testing.T) {
	api := newFakeAPI(t)
	srv := newTestServer(t, api.URL)

	form := url.Values{"text": {"   "}}
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Inserisci del testo da analizzare.")
	// the empty form is still rendered for another attempt
	assert.Contains(t, body, `<select id="gender" name="gender">`)
}

func TestHealthz(t *testing.T) {
	api := newFakeAPI(t)
	srv := newTestServer(t, api.URL)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
