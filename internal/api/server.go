package api

import (
	"context"
	"net"
	"net/http"
	"time"
)

// NewServer wraps handler in an http.Server. Request contexts derive from a
// server-wide context that Shutdown cancels, so long-lived streams such as
// /events end instead of holding Shutdown until its deadline.
func NewServer(addr string, handler http.Handler) *http.Server {
	base, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return base },
	}
	srv.RegisterOnShutdown(cancel)
	return srv
}
