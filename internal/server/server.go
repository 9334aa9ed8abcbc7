// Package server exposes the prediction form as a small HTML front-end.
// Every user action is a full POST round trip: the page carries no state
// beyond the values baked into the rendered controls.
package server

import (
	"embed"
	"fmt"
	"net/http"

	"github.com/flosch/pongo2/v6"
	"go.uber.org/zap"

	"github.com/sportform/predictui/pkg/predict"
	"github.com/sportform/predictui/pkg/render"
)

//go:embed templates/*.html
var templatesFS embed.FS

const pageTitle = "PE Performance Predictor"

// Server wires the prediction client and a renderer behind an HTTP mux.
type Server struct {
	client   *predict.Client
	renderer render.Renderer
	logger   *zap.Logger
	page     *pongo2.Template
}

// New builds a Server. The renderer is looked up by the caller (usually from
// render.List via the registry) so the handler code stays renderer-agnostic.
func New(client *predict.Client, renderer render.Renderer, logger *zap.Logger) (*Server, error) {
	if client == nil {
		return nil, fmt.Errorf("server: prediction client is required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("server: renderer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	set := pongo2.NewSet("predictui", pongo2.NewFSLoader(templatesFS))
	page, err := set.FromFile("templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("server: load page template: %w", err)
	}

	return &Server{
		client:   client,
		renderer: renderer,
		logger:   logger,
		page:     page,
	}, nil
}

// Handler returns the routed handler with logging and recovery applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("POST /fill", s.handleFill)
	mux.HandleFunc("POST /parse", s.handleParse)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	return s.withRequestLog(s.withRecovery(mux))
}

// pageData feeds the pongo2 page shell. Form and Result hold markup already
// escaped by the renderer, Error and Note are plain text the template escapes.
type pageData struct {
	Note   string
	Form   string
	Result string
	Error  string
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	err := s.page.ExecuteWriter(pongo2.Context{
		"title":  pageTitle,
		"note":   data.Note,
		"form":   data.Form,
		"result": data.Result,
		"error":  data.Error,
	}, w)
	if err != nil {
		s.logger.Error("render page", zap.Error(err))
	}
}
