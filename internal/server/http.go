package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

type HTTP struct {
	srv *http.Server
}

func NewHTTP(addr string, h http.Handler) *HTTP {
	return &HTTP{srv: &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}}
}

// Start serves until Stop is called; a graceful stop is not an error.
func (h *HTTP) Start() error {
	if err := h.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve is Start on an existing listener.
func (h *HTTP) Serve(ln net.Listener) error {
	if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *HTTP) Stop(ctx context.Context) error {
	return h.srv.Shutdown(ctx)
}
