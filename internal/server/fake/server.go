// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"context"
	"sync"
	"testing"

	"github.com/mia-platform/fivetran-sync/internal/server"
)

var _ server.Server = &Server{}

// Server is an in memory server.Server that only tracks its lifecycle.
type Server struct {
	tb testing.TB

	startErr  error
	startOnce sync.Once
	stopOnce  sync.Once

	startedChan chan struct{}
	closedChan  chan struct{}
}

// NewFakeServer returns a Server whose Start blocks until Stop is called.
func NewFakeServer(tb testing.TB) *Server {
	tb.Helper()

	return &Server{
		tb:          tb,
		startedChan: make(chan struct{}),
		closedChan:  make(chan struct{}),
	}
}

// NewFailingServer returns a Server whose Start fails immediately with err.
func NewFailingServer(tb testing.TB, err error) *Server {
	tb.Helper()

	s := NewFakeServer(tb)
	s.startErr = err
	return s
}

func (s *Server) Start() error {
	s.tb.Helper()
	s.startOnce.Do(func() { close(s.startedChan) })
	if s.startErr != nil {
		return s.startErr
	}

	<-s.closedChan
	return nil
}

func (s *Server) Stop() error {
	s.tb.Helper()
	s.stopOnce.Do(func() { close(s.closedChan) })
	return nil
}

func (s *Server) StartAsync(_ context.Context) {
	s.tb.Helper()
	go func() {
		_ = s.Start()
	}()
}

// StartedServer is closed once Start has been called.
func (s *Server) StartedServer() <-chan struct{} {
	s.tb.Helper()
	return s.startedChan
}

// StoppedServer is closed once Stop has been called.
func (s *Server) StoppedServer() <-chan struct{} {
	s.tb.Helper()
	return s.closedChan
}
