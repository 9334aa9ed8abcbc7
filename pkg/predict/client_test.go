package predict

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportform/predictui/pkg/schema"
)

func TestClientSchema(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/schema", r.URL.Path)
		_, _ = w.Write([]byte(`{"fields": [
			{"name": "Age", "type": "number"},
			{"name": "Gender", "type": "select", "options": ["Male", "Female"]}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	got, err := client.Schema(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Fields, 2)
	assert.Equal(t, schema.KindNumber, got.Fields[0].Kind)
	assert.Equal(t, []string{"Male", "Female"}, got.Fields[1].Options)
}

func TestClientPredict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/predict", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Features map[string]any `json:"features"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(16), body.Features["Age"])
		assert.Equal(t, "Male", body.Features["Gender"])

		_, _ = w.Write([]byte(`{
			"prediction": "High",
			"proba": {"Low": 0.05, "Medium": 0.1, "High": 0.85},
			"used_features": ["Age", "Gender"],
			"model_name": "RandomForestClassifier",
			"message": "OK"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.Predict(context.Background(), Features{"Age": 16, "Gender": "Male"})
	require.NoError(t, err)
	assert.Equal(t, "High", result.Prediction)
	assert.InDelta(t, 0.85, result.Proba["High"], 1e-9)
	assert.Equal(t, "RandomForestClassifier", result.ModelName)
}

func TestClientPredictStructuredFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "Colonne non numeriche prima dello scaling"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Predict(context.Background(), Features{"Age": "abc"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Colonne non numeriche prima dello scaling", apiErr.Error())
}

func TestClientPredictFailureWithoutDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Predict(context.Background(), Features{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "prediction server returned status 502", apiErr.Error())
}

func TestClientParseText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/parse_text", r.URL.Path)

		var body struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "studente molto motivato", body.Text)

		_, _ = w.Write([]byte(`{
			"features": {"Motivation_Level": "High", "Age": 16},
			"message": "Features generate dal testo con successo!"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	parsed, err := client.ParseText(context.Background(), "studente molto motivato")
	require.NoError(t, err)
	assert.Equal(t, "High", parsed.Features["Motivation_Level"])
	assert.Equal(t, float64(16), parsed.Features["Age"])
	assert.Contains(t, parsed.Message, "successo")
}

func TestClientTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close() // connection refused from here on

	client := NewClient(server.URL)
	_, err := client.Schema(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures should not be APIErrors")
}

func TestClientRejectsInvalidSchemaPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"fields": [{"name": "Age"}, {"name": "Age"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Schema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field name")
}
