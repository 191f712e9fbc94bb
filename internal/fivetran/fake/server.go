// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mia-platform/fivetran-sync/internal/fivetran"
)

const (
	// APIKey is the only api key accepted by the fake server.
	APIKey = "fake-key"
	// APISecret is the only api secret accepted by the fake server.
	APISecret = "fake-secret"
)

// Server emulates the Fivetran connector endpoints for a single connector.
// Every GET returns the next scripted snapshot; the last one is repeated forever.
type Server struct {
	connectorID string
	server      *httptest.Server

	lock          sync.Mutex
	snapshots     []*fivetran.Connector
	fetches       int
	triggerBodies []fivetran.SyncRequestBody
	failFetch     int
	failTrigger   int
	slowFrom      int
	slowDelay     time.Duration
}

// NewServer starts a fake API serving the snapshots for connectorID. The server
// is closed when the test ends.
func NewServer(tb testing.TB, connectorID string, snapshots ...*fivetran.Connector) *Server {
	tb.Helper()

	s := &Server{
		connectorID: connectorID,
		snapshots:   snapshots,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v2/connectors/{connectorID}", s.handleFetch)
	mux.HandleFunc("POST /v2/connectors/{connectorID}/sync", s.handleTrigger)
	s.server = httptest.NewServer(mux)
	tb.Cleanup(s.server.Close)

	return s
}

// URL returns the base url of the fake API.
func (s *Server) URL() string {
	return s.server.URL
}

// ClientConfig returns a client configuration pointing to the fake API with valid credentials.
func (s *Server) ClientConfig() fivetran.ClientConfig {
	return fivetran.ClientConfig{
		BaseURL:   s.server.URL,
		APIKey:    APIKey,
		APISecret: APISecret,
	}
}

// FailFetchWith makes every following GET answer with statusCode.
func (s *Server) FailFetchWith(statusCode int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failFetch = statusCode
}

// FailTriggerWith makes every following POST answer with statusCode.
func (s *Server) FailTriggerWith(statusCode int) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failTrigger = statusCode
}

// SlowFetchesAfter delays by delay every GET after the first count ones, or until
// the client gives up on the request.
func (s *Server) SlowFetchesAfter(count int, delay time.Duration) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.slowFrom = count
	s.slowDelay = delay
}

// Fetches returns how many GET requests have been received.
func (s *Server) Fetches() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.fetches
}

// Triggers returns the bodies of the received POST requests.
func (s *Server) Triggers() []fivetran.SyncRequestBody {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]fivetran.SyncRequestBody(nil), s.triggerBodies...)
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}

	s.lock.Lock()
	delay := time.Duration(0)
	if s.slowDelay > 0 && s.fetches >= s.slowFrom {
		delay = s.slowDelay
	}
	s.lock.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.failFetch != 0 {
		writeJSON(w, s.failFetch, map[string]string{"code": "Error", "message": http.StatusText(s.failFetch)})
		return
	}

	if r.PathValue("connectorID") != s.connectorID || len(s.snapshots) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"code": "NotFound_Connector", "message": "Connector not found"})
		return
	}

	index := min(s.fetches, len(s.snapshots)-1)
	s.fetches++
	writeJSON(w, http.StatusOK, fivetran.ConnectorResponse{
		Code: "Success",
		Data: s.snapshots[index],
	})
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(w, r) {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.failTrigger != 0 {
		writeJSON(w, s.failTrigger, map[string]string{"code": "Error", "message": http.StatusText(s.failTrigger)})
		return
	}

	if r.PathValue("connectorID") != s.connectorID {
		writeJSON(w, http.StatusNotFound, map[string]string{"code": "NotFound_Connector", "message": "Connector not found"})
		return
	}

	var body fivetran.SyncRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"code": "InvalidInput", "message": err.Error()})
		return
	}

	s.triggerBodies = append(s.triggerBodies, body)
	writeJSON(w, http.StatusOK, fivetran.SyncResponse{
		Code:    "Success",
		Message: "Sync has been successfully triggered for connector with id '" + s.connectorID + "'",
	})
}

func (s *Server) authorized(w http.ResponseWriter, r *http.Request) bool {
	key, secret, ok := r.BasicAuth()
	if ok && key == APIKey && secret == APISecret && strings.HasPrefix(r.Header.Get("Accept"), "application/json") {
		return true
	}

	writeJSON(w, http.StatusUnauthorized, map[string]string{"code": "AuthFailed", "message": "Missing or invalid API key"})
	return false
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}
