// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"encoding/json"
	"mime"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/jeranaias/sopchat/internal/backend"
	"github.com/jeranaias/sopchat/internal/model"
)

// Config wires a Server.
type Config struct {
	Addr     string
	FilesDir string
	Fixtures *Fixtures
	// BaseURL prefixes generated file links (default: http://Addr).
	BaseURL string
	Logger  zerolog.Logger
}

// Server is the fake backend.
type Server struct {
	cfg      Config
	log      zerolog.Logger
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	metrics  fasthttp.RequestHandler
	srv      *fasthttp.Server
}

// New builds a server with its own metrics registry.
func New(cfg Config) *Server {
	if cfg.Fixtures == nil {
		cfg.Fixtures = &Fixtures{}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://" + cfg.Addr
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	reg := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sopchat",
		Subsystem: "devserver",
		Name:      "requests_total",
		Help:      "Requests served, by route and status code.",
	}, []string{"route", "status"})
	reg.MustRegister(requests)

	s := &Server{
		cfg:      cfg,
		log:      cfg.Logger.With().Str("component", "devserver").Logger(),
		registry: reg,
		requests: requests,
		metrics:  fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	}

	const (
		maxRequestBodySize = 1 << 20
		readTimeout        = 10 * time.Second
		writeTimeout       = 30 * time.Second
		idleTimeout        = 30 * time.Second
	)
	s.srv = &fasthttp.Server{
		Handler:            s.Handler(),
		Name:               "sopchat-devserver",
		MaxRequestBodySize: maxRequestBodySize,
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		IdleTimeout:        idleTimeout,
	}
	return s
}

// Registry exposes the metrics registry.
func (s *Server) Registry() *prometheus.Registry { return s.registry }

// ListenAndServe serves on cfg.Addr until Shutdown.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.cfg.Addr).Str("files", s.cfg.FilesDir).
		Int("fixtures", len(s.cfg.Fixtures.Replies)).Msg("listening")
	return s.srv.ListenAndServe(s.cfg.Addr)
}

// Serve serves on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

// Shutdown stops accepting connections and waits for open ones.
func (s *Server) Shutdown() error {
	return s.srv.Shutdown()
}

// =============================================================================
// ROUTING
// =============================================================================

// Handler routes a request and counts it.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		route := "other"
		switch {
		case path == "/chat":
			route = "chat"
			s.handleChat(ctx)
		case strings.HasPrefix(path, "/files/"):
			route = "files"
			s.handleFile(ctx, strings.TrimPrefix(path, "/files/"))
		case path == "/metrics":
			route = "metrics"
			s.metrics(ctx)
		default:
			writeError(ctx, fasthttp.StatusNotFound, "not found")
		}
		status := ctx.Response.StatusCode()
		s.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.log.Debug().Str("method", string(ctx.Method())).Str("path", path).Int("status", status).Msg("request")
	}
}

func (s *Server) handleChat(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "POST only")
		return
	}
	var req backend.Request
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
		return
	}

	question := lastUserMessage(req.Messages)
	fx, ok := s.cfg.Fixtures.Find(question)
	if !ok {
		writeJSON(ctx, fasthttp.StatusOK, backend.Reply{Content: question})
		return
	}
	if fx.Status != 0 && (fx.Status < 200 || fx.Status > 299) {
		writeError(ctx, fx.Status, "fixture failure")
		return
	}

	reply := backend.Reply{Content: fx.Content}
	if len(fx.Files) > 0 {
		meta := &model.Metadata{}
		for _, f := range fx.Files {
			link := f.URL
			if link == "" {
				link = s.cfg.BaseURL + "/files/" + url.PathEscape(f.Name)
			}
			meta.Files = append(meta.Files, model.Attachment{
				Name: f.Name,
				Type: model.AttachmentType(f.Type),
				URL:  link,
			})
		}
		reply.Metadata = meta
	}
	writeJSON(ctx, fasthttp.StatusOK, reply)
}

func (s *Server) handleFile(ctx *fasthttp.RequestCtx, escaped string) {
	if !ctx.IsGet() && !ctx.IsHead() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "GET or HEAD only")
		return
	}
	name, err := url.PathUnescape(escaped)
	if err != nil || name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		writeError(ctx, fasthttp.StatusNotFound, "not found")
		return
	}
	data, err := os.ReadFile(filepath.Join(s.cfg.FilesDir, name))
	if err != nil {
		writeError(ctx, fasthttp.StatusNotFound, "not found")
		return
	}

	ctype := mime.TypeByExtension(filepath.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	ctx.SetContentType(ctype)
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(data)
}

// =============================================================================
// HELPERS
// =============================================================================

func lastUserMessage(msgs []backend.WireMessage) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == model.RoleUser.String() {
			return msgs[i].Content
		}
	}
	return ""
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "encode failed")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, msg string) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
