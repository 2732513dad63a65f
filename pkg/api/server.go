package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/spiralstair/pkg/buildinfo"
	"github.com/matzehuels/spiralstair/pkg/compliance"
	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/pipeline"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Server exposes a pipeline runner over HTTP.
type Server struct {
	Runner *pipeline.Runner
	// Defaults seeds every request's pipeline options (layout tuning,
	// default profile). Request fields override it.
	Defaults pipeline.Options
	Logger   *log.Logger
}

// New creates a server. A nil runner gets an uncached one; a nil logger
// discards output.
func New(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{Runner: runner, Defaults: defaults, Logger: logger}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/profiles", s.handleProfiles)
		r.Get("/profiles/{name}", s.handleProfile)
		r.Get("/schema/input", s.handleSchema)
		r.Post("/layout", s.handleLayout)
		r.Post("/check", s.handleCheck)
		r.Post("/render/{format}", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

// Request is the body of every POST endpoint.
type Request struct {
	Input    stair.Input `json:"input"`
	Profile  string      `json:"profile,omitempty"`
	Strategy string      `json:"strategy,omitempty"`
}

// LayoutResponse is returned by /v1/layout.
type LayoutResponse struct {
	InputHash string     `json:"input_hash"`
	Cached    bool       `json:"cached"`
	Plan      stair.Plan `json:"plan"`
}

// CheckResponse is returned by /v1/check.
type CheckResponse struct {
	InputHash  string                 `json:"input_hash"`
	Profile    string                 `json:"profile"`
	CodeRef    string                 `json:"code_ref,omitempty"`
	Compliant  bool                   `json:"compliant"`
	Parameters stair.Parameters       `json:"parameters"`
	Violations []compliance.Violation `json:"violations"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "server": buildinfo.UserAgent()})
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	ps, err := profile.Builtins()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := profile.LoadBuiltin(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stair.InputSchema())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	res, err := s.evaluate(w, r, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		InputHash: res.InputHash,
		Cached:    res.CacheInfo.LayoutHit,
		Plan:      res.Plan,
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	res, err := s.evaluate(w, r, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	vs := res.Violations
	if vs == nil {
		vs = []compliance.Violation{}
	}
	writeJSON(w, http.StatusOK, CheckResponse{
		InputHash:  res.InputHash,
		Profile:    res.Profile.Name,
		CodeRef:    res.Profile.CodeRef,
		Compliant:  res.Compliant(),
		Parameters: res.Plan.Parameters,
		Violations: vs,
	})
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	labels, _ := strconv.ParseBool(q.Get("labels"))
	res, err := s.evaluate(w, r, func(o *pipeline.Options) {
		o.Formats = []string{format}
		o.View = q.Get("view")
		o.Labels = labels
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Compliant", strconv.FormatBool(res.Compliant()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// evaluate decodes the request body and runs the pipeline.
func (s *Server) evaluate(w http.ResponseWriter, r *http.Request, tweak func(*pipeline.Options)) (*pipeline.Result, error) {
	req, err := decodeRequest(w, r)
	if err != nil {
		return nil, err
	}

	opts := s.Defaults.Copy()
	opts.Profile = nil
	opts.Logger = s.Logger
	if req.Profile != "" {
		p, err := profile.LoadBuiltin(req.Profile)
		if err != nil {
			return nil, err
		}
		opts.Profile = &p
	} else if s.Defaults.Profile != nil {
		p := *s.Defaults.Profile
		opts.Profile = &p
	}
	if req.Strategy != "" {
		opts.Strategy = req.Strategy
	}
	if tweak != nil {
		tweak(&opts)
	}
	return s.Runner.Evaluate(r.Context(), req.Input, opts)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (Request, error) {
	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return Request{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	if req.Input.Direction != stair.DirectionUnset {
		d, err := stair.ParseDirection(string(req.Input.Direction))
		if err != nil {
			return Request{}, err
		}
		req.Input.Direction = d
	}
	return req, nil
}
