/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package rpcserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	"go.uber.org/zap"
)

// Server is the HTTP front door: a single POST / route handling every
// eth_* JSON-RPC 2.0 request, wrapped in access logging and panic
// recovery the way the chaincode relay's mux router did, generalized
// to a configurable bind address and graceful shutdown.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds a Server bound to addr (e.g. ":7546") serving gateway over
// the Codec JSON-RPC transport.
func New(addr string, gateway *Gateway, logger *zap.Logger) (*Server, error) {
	rpcServer := rpc.NewServer()
	rpcServer.RegisterCodec(NewCodec(), "application/json")
	if err := rpcServer.RegisterService(gateway, "Gateway"); err != nil {
		return nil, fmt.Errorf("rpcserver: registering gateway: %w", err)
	}

	router := mux.NewRouter()
	router.Handle("/", rpcServer).Methods(http.MethodPost)
	router.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	loggingWriter := zap.NewStdLog(logger).Writer()
	handler := handlers.CombinedLoggingHandler(loggingWriter, handlers.RecoveryHandler()(router))

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		logger: logger,
	}, nil
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Start blocks serving HTTP until the listener fails or Shutdown is
// called from another goroutine.
func (s *Server) Start() error {
	s.logger.Info("rpc server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully drains in-flight requests before closing the
// listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP lets a Server stand in directly for its handler chain in
// tests, without binding a real listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
