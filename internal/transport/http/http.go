// Package http implements the HTTP transport for podcaster.
//
// This transport exposes a small REST API: a banner at / and
// POST /generate_podcast, which runs the pipeline synchronously and answers
// with the produced file names. Runs execute on a bounded worker pool; when
// every worker is busy the request is refused with 429.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/panjf2000/ants/v2"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/nadzzz/podcaster/docs"
	"github.com/nadzzz/podcaster/internal/podcast"
	"github.com/nadzzz/podcaster/internal/transport"
)

const (
	defaultAudioFile  = "podcast.wav"
	defaultScriptFile = "script.txt"
)

// Options configures the HTTP transport.
type Options struct {
	Port int

	// OutputDir is the directory generated files are written to.
	OutputDir string

	// MaxConcurrent bounds the number of runs executing at once.
	MaxConcurrent int

	// CheckCredentials is consulted before every run. A non-nil error
	// refuses the request with 503.
	CheckCredentials func() error

	// Ready reports whether the service accepts runs. When it returns false
	// the request is refused with 503.
	Ready func() bool
}

// Transport implements transport.Transport over HTTP.
type Transport struct {
	opts      Options
	generator transport.Generator
	pool      *ants.Pool
	server    *http.Server
}

// New creates a new HTTP transport.
func New(gen transport.Generator, opts Options) (*Transport, error) {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	pool, err := ants.NewPool(opts.MaxConcurrent, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}
	return &Transport{opts: opts, generator: gen, pool: pool}, nil
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Handler returns the router with every route registered.
func (t *Transport) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger)

	r.Get("/", t.handleRoot)
	r.Post("/generate_podcast", t.handleGenerate)

	// Swagger UI serves the registered OpenAPI docs.
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	return r
}

// Listen starts the HTTP server. It blocks until the context is cancelled.
func (t *Transport) Listen(ctx context.Context) error {
	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.opts.Port),
		Handler:           t.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http transport listening", "port", t.opts.Port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// Close gracefully shuts down the HTTP server and waits for running generations.
func (t *Transport) Close() error {
	var err error
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = t.server.Shutdown(ctx)
	}
	t.pool.Release()
	return err
}

// GenerateRequest is the body of POST /generate_podcast.
type GenerateRequest struct {
	Topic        string `json:"topic" example:"space exploration"`
	OutputAudio  string `json:"output_audio,omitempty" example:"podcast.wav"`
	OutputScript string `json:"output_script,omitempty" example:"script.txt"`
	HostVoice    string `json:"host_voice,omitempty"`
	GuestVoice   string `json:"guest_voice,omitempty"`
	Model        string `json:"model,omitempty"`
	Provider     string `json:"provider,omitempty" enums:"groq,openai,local"`
}

// LineStatus reports the outcome of one dialogue line.
type LineStatus struct {
	Index int          `json:"index"`
	Role  podcast.Role `json:"role"`
	Voice string       `json:"voice"`
	Text  string       `json:"text"`
	Error string       `json:"error,omitempty"`
}

// GenerateResponse is the success body of POST /generate_podcast.
type GenerateResponse struct {
	Success    bool         `json:"success"`
	ScriptFile string       `json:"script_file"`
	AudioFile  string       `json:"audio_file"`
	Topic      string       `json:"topic"`
	Lines      []LineStatus `json:"lines"`
	Skipped    []int        `json:"skipped"`
	DurationMS int64        `json:"duration_ms"`
	RunID      string       `json:"run_id"`
	ScriptURL  string       `json:"script_url,omitempty"`
	AudioURL   string       `json:"audio_url,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleRoot answers GET /.
//
// @Summary  Service banner
// @Tags     meta
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   / [get]
func (t *Transport) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Podcast Generator API"})
}

// handleGenerate processes a POST /generate_podcast request.
//
// @Summary     Generate a podcast
// @Description Requests a six-line dialogue about the topic, writes the raw script,
// @Description voices the lines alternately with the host and guest voices and
// @Description exports the joined track as WAV. File names are placed under the
// @Description configured output directory.
// @Tags        podcast
// @Accept      json
// @Produce     json
// @Param       request  body      GenerateRequest   true  "Generation request"
// @Success     200      {object}  GenerateResponse
// @Failure     400      {object}  ErrorResponse  "Invalid body or missing topic"
// @Failure     422      {object}  ErrorResponse  "Script did not contain exactly six lines"
// @Failure     429      {object}  ErrorResponse  "Too many generations running"
// @Failure     500      {object}  ErrorResponse  "Internal processing error"
// @Failure     502      {object}  ErrorResponse  "Completion endpoint failed"
// @Failure     503      {object}  ErrorResponse  "Missing API keys or service not ready"
// @Router      /generate_podcast [post]
func (t *Transport) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	if body.Topic == "" {
		writeError(w, http.StatusBadRequest, podcast.ErrEmptyTopic.Error())
		return
	}
	if t.opts.Ready != nil && !t.opts.Ready() {
		writeError(w, http.StatusServiceUnavailable, "service not ready")
		return
	}
	if t.opts.CheckCredentials != nil {
		if err := t.opts.CheckCredentials(); err != nil {
			slog.Warn("refusing generation", "error", err)
			writeError(w, http.StatusServiceUnavailable, "Missing API keys")
			return
		}
	}

	req := podcast.Request{
		Topic:        body.Topic,
		OutputAudio:  t.outputPath(body.OutputAudio, defaultAudioFile),
		OutputScript: t.outputPath(body.OutputScript, defaultScriptFile),
		HostVoice:    body.HostVoice,
		GuestVoice:   body.GuestVoice,
		Model:        body.Model,
		Provider:     body.Provider,
	}

	type outcome struct {
		res *podcast.Result
		err error
	}
	done := make(chan outcome, 1)
	ctx := r.Context()
	err := t.pool.Submit(func() {
		defer func() {
			if p := recover(); p != nil {
				slog.Error("panic in generation worker", "panic", p)
				done <- outcome{err: fmt.Errorf("generation panicked: %v", p)}
			}
		}()
		res, err := t.generator.Generate(ctx, req)
		done <- outcome{res, err}
	})
	if errors.Is(err, ants.ErrPoolOverload) {
		writeError(w, http.StatusTooManyRequests, "too many podcasts are being generated, try again later")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := <-done
	if out.err != nil {
		slog.Error("podcast generation failed", "topic", req.Topic, "error", out.err,
			"request_id", chimw.GetReqID(ctx))
		writeError(w, statusFor(out.err), out.err.Error())
		return
	}

	writeJSON(w, http.StatusOK, newGenerateResponse(req.Topic, out.res))
}

// outputPath reduces name to its base name under the output directory.
func (t *Transport) outputPath(name, fallback string) string {
	base := filepath.Base(name)
	if name == "" || base == "." || base == ".." || base == string(filepath.Separator) {
		base = fallback
	}
	return filepath.Join(t.opts.OutputDir, base)
}

func statusFor(err error) int {
	var (
		verr *podcast.ValidationError
		gerr *podcast.GenerationError
	)
	switch {
	case errors.Is(err, podcast.ErrEmptyTopic):
		return http.StatusBadRequest
	case errors.Is(err, podcast.ErrMissingCredentials):
		return http.StatusServiceUnavailable
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &gerr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newGenerateResponse(topic string, res *podcast.Result) GenerateResponse {
	lines := make([]LineStatus, len(res.Lines))
	for i, l := range res.Lines {
		lines[i] = LineStatus{Index: l.Index, Role: l.Role, Voice: l.Voice, Text: l.Text}
		if l.Err != nil {
			lines[i].Error = l.Err.Error()
		}
	}
	return GenerateResponse{
		Success:    true,
		ScriptFile: res.ScriptPath,
		AudioFile:  res.AudioPath,
		Topic:      topic,
		Lines:      lines,
		Skipped:    res.Skipped(),
		DurationMS: res.Duration.Milliseconds(),
		RunID:      res.RunID,
		ScriptURL:  res.ScriptURL,
		AudioURL:   res.AudioURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()))
	})
}
