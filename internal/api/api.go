// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the metadata, identifier and matching core over HTTP
// for layout-application plugins that cannot link Go code.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/imprint/internal/assemble"
	"github.com/pdiddy/imprint/internal/catalog"
	"github.com/pdiddy/imprint/internal/fields"
	"github.com/pdiddy/imprint/internal/isbn"
	"github.com/pdiddy/imprint/internal/match"
	"github.com/pdiddy/imprint/internal/meta"
	"github.com/pdiddy/imprint/pkg/types"
)

const defaultMaxBody = 1 << 20

// Config configures a Handler.
type Config struct {
	// Store enables the /v1/books routes when set.
	Store *catalog.Store

	Logger *slog.Logger

	// MaxBody limits request bodies, in bytes (default 1 MiB).
	MaxBody int64
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.MaxBody <= 0 {
		c.MaxBody = defaultMaxBody
	}
}

// Handler serves the HTTP surface.
type Handler struct {
	store   *catalog.Store
	logger  *slog.Logger
	maxBody int64
}

// New returns a Handler.
func New(cfg Config) *Handler {
	cfg.defaults()
	return &Handler{store: cfg.Store, logger: cfg.Logger, maxBody: cfg.MaxBody}
}

// RegisterHTTP registers the routes on r.
func (h *Handler) RegisterHTTP(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/v1/metadata/parse", h.handleParse)
	r.Post("/v1/metadata/stringify", h.handleStringify)
	r.Get("/v1/isbn/{code}", h.handleValidate)
	r.Get("/v1/isbn/{code}/bars", h.handleBars)
	r.Post("/v1/plan", h.handlePlan)

	if h.store != nil {
		r.Get("/v1/books", h.handleBooks)
		r.Get("/v1/books/{id}", h.handleBook)
		r.Get("/v1/books/{id}/plans", h.handlePlans)
	}
}

// Router returns a chi router with every route registered.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(h.logRequests)
	h.RegisterHTTP(r)
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// parseResponse is the body returned by POST /v1/metadata/parse.
type parseResponse struct {
	Record      *meta.Mapping              `json:"record"`
	Extra       []string                   `json:"extra,omitempty"`
	Body        string                     `json:"body,omitempty"`
	Identifiers []assemble.IdentifierCheck `json:"identifiers,omitempty"`
}

// handleParse reads metadata text and returns the canonical record.
func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	record, body := assemble.ParseMetadata(string(data))
	writeJSON(w, http.StatusOK, parseResponse{
		Record:      record.Mapping(),
		Extra:       record.Extra(),
		Body:        body,
		Identifiers: assemble.CheckIdentifiers(record),
	})
}

// handleStringify renders a JSON object as front matter. With
// ?canonical=true the object is a canonical record and is converted to the
// external convention first.
func (h *Handler) handleStringify(w http.ResponseWriter, r *http.Request) {
	var m meta.Mapping
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBody)).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding body: %w", err))
		return
	}
	out := &m
	if r.URL.Query().Get("canonical") == "true" {
		out = fields.ToExternal(fields.RecordOf(&m))
	}
	w.Header().Set("Content-Type", "text/yaml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, meta.StringifyFrontMatter(out))
}

// handleValidate always answers 200: an invalid identifier is a result,
// not a request error.
func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, isbn.Validate(chi.URLParam(r, "code")))
}

type barsResponse struct {
	Code    string     `json:"code"`
	Pattern string     `json:"pattern"`
	Bars    []isbn.Bar `json:"bars"`
}

func (h *Handler) handleBars(w http.ResponseWriter, r *http.Request) {
	res := isbn.Validate(chi.URLParam(r, "code"))
	if !res.Valid || res.Placeholder {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	pattern, err := isbn.Encode(res.Code)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, barsResponse{Code: res.Code, Pattern: pattern, Bars: isbn.Bars(pattern)})
}

// planRequest is the body of POST /v1/plan. Names are bare filenames.
type planRequest struct {
	Content   []string              `json:"content"`
	Templates []string              `json:"templates"`
	Manifest  *types.LayoutManifest `json:"manifest,omitempty"`

	// Outputs, when given, are paired with the plan entries by ordinal.
	Outputs []string `json:"outputs,omitempty"`
}

type planResponse struct {
	Plan    types.MatchPlan `json:"plan"`
	Pairing *types.Pairing  `json:"pairing,omitempty"`
}

func (h *Handler) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding body: %w", err))
		return
	}
	templates := match.DescribeAll(req.Templates, req.Manifest)
	plan := match.BuildPlan(match.ContentFiles(req.Content), templates, req.Manifest)

	resp := planResponse{Plan: plan}
	if req.Outputs != nil {
		p := match.PairOutputs(plan, req.Outputs)
		resp.Pairing = &p
	}
	h.logger.Debug("plan built", "content", len(req.Content), "templates", len(templates))
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleBooks(w http.ResponseWriter, r *http.Request) {
	var (
		books []catalog.Book
		err   error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		books, err = h.store.Search(r.Context(), q, 0)
	} else {
		books, err = h.store.List(r.Context())
	}
	if err != nil {
		h.logger.Error("listing books", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if books == nil {
		books = []catalog.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

type bookResponse struct {
	catalog.Book
	Metadata *meta.Mapping `json:"metadata"`
}

func (h *Handler) handleBook(w http.ResponseWriter, r *http.Request) {
	b, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookResponse{Book: *b, Metadata: fields.ToExternal(b.Record)})
}

func (h *Handler) handlePlans(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.store.Get(r.Context(), id); err != nil {
		h.storeError(w, err)
		return
	}
	plans, err := h.store.Plans(r.Context(), id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	if plans == nil {
		plans = []catalog.StoredPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *Handler) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	h.logger.Error("catalog", "error", err)
	writeError(w, http.StatusInternalServerError, err)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
