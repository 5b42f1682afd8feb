// Package server exposes the ring as a virtual strip over HTTP and websockets.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/lguibr/ringrace/bollywood"
	"github.com/lguibr/ringrace/game"
	"github.com/lguibr/ringrace/log"
	"github.com/lguibr/ringrace/utils"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/websocket"
)

// EdgeInjector is the part of input.EdgeSource the virtual buttons need.
type EdgeInjector interface {
	OnEdge(pin utils.Pin, level utils.Level, timestampMs uint32) error
	Press(pin utils.Pin, hold time.Duration) error
	Now() uint32
}

// SnapshotReader is satisfied by game.SnapshotStore.
type SnapshotReader interface {
	Snapshot() game.Snapshot
}

type Options struct {
	Addr        string
	Engine      *bollywood.Engine
	Broadcaster *bollywood.PID
	Snapshots   SnapshotReader
	Edges       EdgeInjector
}

type Server struct {
	engine      *bollywood.Engine
	broadcaster *bollywood.PID
	snapshots   SnapshotReader
	edges       EdgeInjector

	server   *http.Server
	listener net.Listener
}

func New(opts Options) *Server {
	s := &Server{
		engine:      opts.Engine,
		broadcaster: opts.Broadcaster,
		snapshots:   opts.Snapshots,
		edges:       opts.Edges,
	}
	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Router builds the route table; tests mount it on httptest.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.HandleHealth()).Methods(http.MethodGet)
	r.HandleFunc("/state", s.HandleGetState()).Methods(http.MethodGet)
	r.HandleFunc("/edge", s.HandlePostEdge()).Methods(http.MethodPost)
	r.HandleFunc("/press/{button}", s.HandlePostPress()).Methods(http.MethodPost)
	r.Handle("/subscribe", websocket.Handler(s.HandleSubscribe()))
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln
	log.Info("Virtual strip listening on %s", ln.Addr())
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Virtual strip server failed: %v", err)
		}
	}()
	return nil
}

// Addr is the bound address once Start has returned.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
