package server

import (
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sportform/predictui/pkg/collect"
	"github.com/sportform/predictui/pkg/randomfill"
	"github.com/sportform/predictui/pkg/render"
	"github.com/sportform/predictui/pkg/schema"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sch, err := s.client.Schema(r.Context())
	if err != nil {
		s.logger.Warn("fetch schema", zap.Error(err))
		s.renderPage(w, http.StatusBadGateway, pageData{
			Error: "Impossibile caricare lo schema: " + err.Error(),
		})
		return
	}

	formHTML, err := s.renderer.RenderForm(r.Context(), sch, render.FormOptions{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderPage(w, http.StatusOK, pageData{Note: sch.Note, Form: string(formHTML)})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	sch, err := s.client.Schema(r.Context())
	if err != nil {
		s.logger.Warn("fetch schema", zap.Error(err))
		s.renderPage(w, http.StatusBadGateway, pageData{
			Error: "Impossibile caricare lo schema: " + err.Error(),
		})
		return
	}

	features := collect.Features(sch, r.PostForm)
	result, err := s.client.Predict(r.Context(), features)
	if err != nil {
		s.logger.Warn("predict", zap.Error(err))
	}

	resultHTML, rerr := s.renderer.RenderResult(r.Context(), render.Outcome{Result: result, Err: err})
	if rerr != nil {
		http.Error(w, rerr.Error(), http.StatusInternalServerError)
		return
	}

	// Submitted values stay in the controls so a failed prediction can be
	// corrected without retyping everything.
	formHTML, rerr := s.renderer.RenderForm(r.Context(), sch, render.FormOptions{
		Values: submittedValues(sch, r.PostForm),
	})
	if rerr != nil {
		http.Error(w, rerr.Error(), http.StatusInternalServerError)
		return
	}

	s.renderPage(w, http.StatusOK, pageData{
		Note:   sch.Note,
		Form:   string(formHTML),
		Result: string(resultHTML),
	})
}

func (s *Server) handleFill(w http.ResponseWriter, r *http.Request) {
	sch, err := s.client.Schema(r.Context())
	if err != nil {
		s.logger.Warn("fetch schema", zap.Error(err))
		s.renderPage(w, http.StatusBadGateway, pageData{
			Error: "Impossibile caricare lo schema: " + err.Error(),
		})
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	formHTML, err := s.renderer.RenderForm(r.Context(), sch, render.FormOptions{
		Values: randomfill.Values(sch, rng),
		Notice: "Valori casuali generati.",
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderPage(w, http.StatusOK, pageData{Note: sch.Note, Form: string(formHTML)})
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	sch, err := s.client.Schema(r.Context())
	if err != nil {
		s.logger.Warn("fetch schema", zap.Error(err))
		s.renderPage(w, http.StatusBadGateway, pageData{
			Error: "Impossibile caricare lo schema: " + err.Error(),
		})
		return
	}

	text := strings.TrimSpace(r.PostForm.Get("text"))
	if text == "" {
		formHTML, rerr := s.renderer.RenderForm(r.Context(), sch, render.FormOptions{})
		if rerr != nil {
			http.Error(w, rerr.Error(), http.StatusInternalServerError)
			return
		}
		s.renderPage(w, http.StatusBadRequest, pageData{
			Note:  sch.Note,
			Form:  string(formHTML),
			Error: "Inserisci del testo da analizzare.",
		})
		return
	}

	parsed, err := s.client.ParseText(r.Context(), text)
	if err != nil {
		s.logger.Warn("parse text", zap.Error(err))
		formHTML, rerr := s.renderer.RenderForm(r.Context(), sch, render.FormOptions{})
		if rerr != nil {
			http.Error(w, rerr.Error(), http.StatusInternalServerError)
			return
		}
		s.renderPage(w, http.StatusBadGateway, pageData{
			Note:  sch.Note,
			Form:  string(formHTML),
			Error: "Analisi del testo fallita: " + err.Error(),
		})
		return
	}

	// Only features matching a schema field land in the form. Extra keys
	// from the parser are dropped.
	values := make(map[string]string, len(parsed.Features))
	for name, value := range parsed.Features {
		if _, ok := sch.Field(name); ok {
			values[name] = formatFeature(value)
		}
	}

	formHTML, rerr := s.renderer.RenderForm(r.Context(), sch, render.FormOptions{
		Values: values,
		Notice: parsed.Message,
	})
	if rerr != nil {
		http.Error(w, rerr.Error(), http.StatusInternalServerError)
		return
	}
	s.renderPage(w, http.StatusOK, pageData{Note: sch.Note, Form: string(formHTML)})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// submittedValues keeps the first submitted value of every schema field so
// renderers can re-populate controls after a round trip.
func submittedValues(sch schema.Schema, form url.Values) map[string]string {
	values := make(map[string]string, len(sch.Fields))
	for _, field := range sch.Fields {
		if v := form.Get(field.Name); v != "" {
			values[field.Name] = v
		}
	}
	return values
}

func formatFeature(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
