// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package api exposes the switch commands and settings over HTTP.
//
// All routes require an admin bearer token:
//
//	GET  /api/gpio       states of all configured switches
//	POST /api/gpio       {"command": "turnGpioOn", "id": 0}
//	GET  /api/settings   the persisted configurations
//	POST /api/settings   replace the configurations
package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/warthog618/go-gpiocontrol"
	"github.com/warthog618/go-gpiocontrol/settings"
)

const maxBody = 1 << 16

// Commander executes switch commands.
type Commander interface {
	Handle(cmd gpiocontrol.Command, id int) (string, error)
	States() ([]string, error)
}

// SettingsStore holds the persisted configurations.
type SettingsStore interface {
	Records() []settings.Record
	Save(records []settings.Record) error
}

// Server serves the API.
type Server struct {
	ctrl  Commander
	store SettingsStore
	auth  Authenticator
	log   *slog.Logger
	rl    *rateLimiter
	h     http.Handler
}

// Option defines the interface required to provide an option to New.
type Option interface {
	applyOption(*Server)
}

// LoggerOption sets the logger used by the Server.
type LoggerOption struct {
	log *slog.Logger
}

// WithLogger sets the logger used to report rejected and failed requests.
func WithLogger(log *slog.Logger) LoggerOption {
	return LoggerOption{log}
}

func (o LoggerOption) applyOption(s *Server) {
	s.log = o.log
}

// RateLimitOption limits the request rate of each client.
type RateLimitOption struct {
	requestsPerMin int
	burst          int
}

// WithRateLimit limits each client IP to requestsPerMin, with bursts of up to
// burst requests.
func WithRateLimit(requestsPerMin, burst int) RateLimitOption {
	return RateLimitOption{requestsPerMin, burst}
}

func (o RateLimitOption) applyOption(s *Server) {
	s.rl = newRateLimiter(o.requestsPerMin, o.burst)
}

// New creates a Server that dispatches commands to ctrl and settings to store.
func New(ctrl Commander, store SettingsStore, auth Authenticator, options ...Option) *Server {
	s := &Server{
		ctrl:  ctrl,
		store: store,
		auth:  auth,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, o := range options {
		o.applyOption(s)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/gpio", s.getStates)
	mux.HandleFunc("POST /api/gpio", s.postCommand)
	mux.HandleFunc("GET /api/settings", s.getSettings)
	mux.HandleFunc("POST /api/settings", s.postSettings)
	s.h = requireAdmin(auth, s.log, mux)
	if s.rl != nil {
		s.h = s.rl.middleware(s.h)
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.h.ServeHTTP(w, r)
}

// ListenAndServe serves the API on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	s.log.Info("serving api", "addr", addr)
	select {
	case err := <-errc:
		return errors.Wrap(err, "serve api")
	case <-ctx.Done():
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return errors.Wrap(err, "shutdown api")
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serve api")
	}
	return nil
}

type commandRequest struct {
	Command string `json:"command"`
	ID      *int   `json:"id"`
}

func (s *Server) getStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.ctrl.States()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func (s *Server) postCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cmd, err := gpiocontrol.ParseCommand(req.Command)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == nil {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}
	state, err := s.ctrl.Handle(cmd, *req.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	records := s.store.Records()
	if records == nil {
		records = []settings.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) postSettings(w http.ResponseWriter, r *http.Request) {
	var records []settings.Record
	if err := decode(r, &records); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := settings.Parse(records); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Save(records); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Records())
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, gpiocontrol.ErrUnknownIndex) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, "decode request")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
