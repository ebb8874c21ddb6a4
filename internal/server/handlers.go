package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sppgrowth/pkg/bound"
	"github.com/matzehuels/sppgrowth/pkg/buildinfo"
	errs "github.com/matzehuels/sppgrowth/pkg/errors"
	"github.com/matzehuels/sppgrowth/pkg/pattern"
	"github.com/matzehuels/sppgrowth/pkg/pipeline"
	"github.com/matzehuels/sppgrowth/pkg/render/nodelink"
	"github.com/matzehuels/sppgrowth/pkg/store"
)

// mineRequest is the body of POST /v1/mine.
type mineRequest struct {
	Transactions [][]int      `json:"transactions"`
	MinSupport   int          `json:"min_support"`
	TopK         int          `json:"top_k"`
	MaxLength    int          `json:"max_length"`
	Bound        bound.Config `json:"bound"`
	Refresh      bool         `json:"refresh"`
}

// treeRequest is the body of POST /v1/tree.
type treeRequest struct {
	mineRequest
	Format    string `json:"format"`
	ShowTIDs  bool   `json:"show_tids"`
	ShowLinks bool   `json:"show_links"`
	MaxNodes  int    `json:"max_nodes"`
}

func (req mineRequest) options() (pipeline.Options, error) {
	if len(req.Transactions) == 0 {
		return pipeline.Options{}, errs.New(errs.ErrCodeInvalidInput, "transactions must not be empty")
	}
	opts := pipeline.Options{
		Transactions: req.Transactions,
		MinSupport:   req.MinSupport,
		TopK:         req.TopK,
		MaxLength:    req.MaxLength,
		Bound:        req.Bound,
		Refresh:      req.Refresh,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// mineResponse is the body answered by POST /v1/mine and GET /v1/runs/{id}.
type mineResponse struct {
	RunID        string            `json:"run_id"`
	DatabaseHash string            `json:"database_hash"`
	Patterns     []pattern.Itemset `json:"patterns"`
	Stats        pipeline.Stats    `json:"stats"`
	Cached       bool              `json:"cached"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleMine(w http.ResponseWriter, r *http.Request) {
	var req mineRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := req.options()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	run := store.NewRun(opts, res)
	if err := s.store.SaveRun(r.Context(), run); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("mined", "run", run.ID, "patterns", len(res.Patterns), "cached", res.CacheInfo.ResultHit)

	writeJSON(w, http.StatusOK, mineResponse{
		RunID:        run.ID,
		DatabaseHash: res.DatabaseHash,
		Patterns:     res.Patterns,
		Stats:        res.Stats,
		Cached:       res.CacheInfo.ResultHit,
	})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.Run(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mineResponse{
		RunID:        run.ID,
		DatabaseHash: run.DatabaseHash,
		Patterns:     run.Patterns,
		Stats:        run.Stats,
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	var req treeRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := req.options()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := pipeline.FormatSVG
	if req.Format != "" {
		if format, err = errs.ValidateFormat(req.Format, pipeline.TreeFormats...); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	db, err := pipeline.Load(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render := nodelink.Options{ShowTIDs: req.ShowTIDs, ShowLinks: req.ShowLinks, MaxNodes: req.MaxNodes}
	data, err := s.runner.RenderTree(r.Context(), db, opts, render, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	contentType := "text/vnd.graphviz; charset=utf-8"
	if format == pipeline.FormatSVG {
		contentType = "image/svg+xml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// decode reads a size-limited JSON body into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "request body exceeds %d bytes", s.maxBody)
		}
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

// writeError answers with the status and code carried by err.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		err = errs.Wrap(errs.ErrCodeTimeout, err, "request timed out")
	}
	status := errs.HTTPStatus(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}

	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = errs.UserMessage(err)
	body.Error.RequestID = requestID(r)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		body.Error.Message = fmt.Sprintf("internal error (%s)", body.Error.Code)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
