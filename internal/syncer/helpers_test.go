// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package syncer

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/mia-platform/fivetran-sync/internal/fivetran"
)

// fakeClock advances its time only when After is called, firing immediately.
type fakeClock struct {
	lock sync.Mutex
	now  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.now = c.now.Add(d)
	channel := make(chan time.Time, 1)
	channel <- c.now
	return channel
}

// stoppedClock never fires, so the poll loop can only exit through its context.
type stoppedClock struct{}

func (stoppedClock) Now() time.Time                       { return time.Time{} }
func (stoppedClock) After(time.Duration) <-chan time.Time { return nil }

// fakeFetcher returns the scripted snapshots in order, repeating the last one.
type fakeFetcher struct {
	tb        testing.TB
	lock      sync.Mutex
	snapshots []*fivetran.Connector
	errors    map[int]error
	calls     int
}

func newFakeFetcher(tb testing.TB, snapshots ...*fivetran.Connector) *fakeFetcher {
	tb.Helper()
	return &fakeFetcher{tb: tb, snapshots: snapshots, errors: map[int]error{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, connectorID string) (*fivetran.Connector, error) {
	f.tb.Helper()
	f.lock.Lock()
	defer f.lock.Unlock()

	call := f.calls
	f.calls++
	if err := f.errors[call]; err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := *f.snapshots[min(call, len(f.snapshots)-1)]
	snapshot.ID = connectorID
	return &snapshot, nil
}

func (f *fakeFetcher) Calls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.calls
}

type requesterCall struct {
	method string
	path   string
	body   any
}

// fakeRequester answers every request with response or err.
type fakeRequester struct {
	tb       testing.TB
	lock     sync.Mutex
	response *fivetran.SyncResponse
	err      error
	calls    []requesterCall
}

func newFakeRequester(tb testing.TB) *fakeRequester {
	tb.Helper()
	return &fakeRequester{
		tb:       tb,
		response: &fivetran.SyncResponse{Code: "Success", Message: "Sync has been successfully triggered"},
	}
}

func (f *fakeRequester) Do(_ context.Context, method, path string, body, out any) (*fivetran.Response, error) {
	f.tb.Helper()
	f.lock.Lock()
	defer f.lock.Unlock()

	f.calls = append(f.calls, requesterCall{method: method, path: path, body: body})
	if f.err != nil {
		return nil, f.err
	}

	if target, ok := out.(**fivetran.SyncResponse); ok && f.response != nil {
		response := *f.response
		*target = &response
	}

	return &fivetran.Response{StatusCode: http.StatusOK, Header: http.Header{}}, nil
}

func (f *fakeRequester) Calls() []requesterCall {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]requesterCall(nil), f.calls...)
}

// recordingObserver keeps the notifications it receives.
type recordingObserver struct {
	lock     sync.Mutex
	outcomes []*Outcome
	errs     []error
}

func (r *recordingObserver) ObserveOutcome(_ string, outcome *Outcome, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.outcomes = append(r.outcomes, outcome)
	r.errs = append(r.errs, err)
}

func timestamp(value string) *time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &parsed
}

func connector(succeededAt, failedAt string) *fivetran.Connector {
	snapshot := &fivetran.Connector{Name: "postgres_main"}
	if succeededAt != "" {
		snapshot.SucceededAt = timestamp(succeededAt)
	}
	if failedAt != "" {
		snapshot.FailedAt = timestamp(failedAt)
	}
	return snapshot
}
