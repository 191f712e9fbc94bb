// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package syncer

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mia-platform/fivetran-sync/internal/fivetran"
	"github.com/mia-platform/fivetran-sync/internal/logger"
)

const (
	// DefaultPollInterval is the time waited between two connector fetches.
	DefaultPollInterval = 1 * time.Second

	loggerName = "fivetran-sync:orchestrator"
)

// ConnectorFetcher returns fresh connector snapshots.
type ConnectorFetcher interface {
	Fetch(ctx context.Context, connectorID string) (*fivetran.Connector, error)
}

// Observer is notified once for every executed Request, either with its outcome or
// with the error that aborted it.
type Observer interface {
	ObserveOutcome(connectorID string, outcome *Outcome, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveOutcome(string, *Outcome, error) {}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the time source of the poll loop.
func WithClock(clock Clock) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// WithPollInterval changes the time waited between two fetches.
func WithPollInterval(interval time.Duration) Option {
	return func(o *Orchestrator) {
		if interval > 0 {
			o.pollInterval = interval
		}
	}
}

// WithObserver registers an Observer for the executed requests.
func WithObserver(observer Observer) Option {
	return func(o *Orchestrator) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// Orchestrator triggers connector syncs and waits for their completion.
// It holds no state between calls and can run multiple requests concurrently.
type Orchestrator struct {
	fetcher   ConnectorFetcher
	requester fivetran.Requester

	clock        Clock
	pollInterval time.Duration
	observer     Observer
}

// New returns an Orchestrator reading connectors with fetcher and triggering syncs with requester.
func New(fetcher ConnectorFetcher, requester fivetran.Requester, options ...Option) *Orchestrator {
	orchestrator := &Orchestrator{
		fetcher:      fetcher,
		requester:    requester,
		clock:        RealClock{},
		pollInterval: DefaultPollInterval,
		observer:     nopObserver{},
	}

	for _, option := range options {
		option(orchestrator)
	}

	return orchestrator
}

// NewFromClient returns an Orchestrator talking with the Fivetran API through client.
func NewFromClient(client *fivetran.Client, options ...Option) *Orchestrator {
	return New(fivetran.NewRepository(client), client, options...)
}

// Run executes request and returns nil only if the sync succeeded, or was triggered
// when the request does not wait.
func (o *Orchestrator) Run(ctx context.Context, request Request) error {
	outcome, err := o.Execute(ctx, request)
	if err != nil {
		return err
	}

	return outcome.Err()
}

// Execute triggers the sync described by request and, if requested, waits for the
// completion of the sync cycle it started.
func (o *Orchestrator) Execute(ctx context.Context, request Request) (outcome *Outcome, err error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	ctx = logger.WithValues(ctx, "connectorId", request.ConnectorID)
	log := logger.FromContext(ctx).WithName(loggerName)
	defer func() {
		o.observer.ObserveOutcome(request.ConnectorID, outcome, err)
	}()

	baseline, err := o.fetcher.Fetch(ctx, request.ConnectorID)
	if err != nil {
		return nil, err
	}

	baselineDate := baseline.CompletedDate()
	log.Debug("baseline captured", "completedDate", baselineDate)

	if err := o.trigger(ctx, request); err != nil {
		return nil, err
	}

	if !request.Wait {
		log.Debug("not waiting for sync completion")
		return &Outcome{Status: StatusSuccess, ConnectorID: request.ConnectorID}, nil
	}

	return o.waitForCompletion(ctx, request, baselineDate)
}

// trigger starts the sync on the remote connector.
func (o *Orchestrator) trigger(ctx context.Context, request Request) error {
	log := logger.FromContext(ctx).WithName(loggerName)

	var response *fivetran.SyncResponse
	body := fivetran.SyncRequestBody{Force: request.Force}
	httpResponse, err := o.requester.Do(ctx, http.MethodPost, fivetran.SyncPath(request.ConnectorID), body, &response)
	if err != nil {
		return err
	}

	if response == nil {
		return &fivetran.MissingBodyError{}
	}

	log.Info("sync triggered",
		"statusCode", httpResponse.StatusCode,
		"code", response.Code,
		"message", response.Message,
	)
	return nil
}

// waitForCompletion polls the connector until it reports a completion newer than
// baselineDate or until request.MaxDuration has elapsed.
func (o *Orchestrator) waitForCompletion(ctx context.Context, request Request, baselineDate *time.Time) (*Outcome, error) {
	log := logger.FromContext(ctx).WithName(loggerName)

	start := o.clock.Now()
	deadline := start.Add(request.MaxDuration)
	timeout := func() *Outcome {
		elapsed := o.clock.Now().Sub(start)
		log.Warn("sync completion not observed in time", "elapsed", elapsed.String())
		return &Outcome{Status: StatusTimeout, ConnectorID: request.ConnectorID, Elapsed: elapsed}
	}

	for polls := 1; ; polls++ {
		remaining := deadline.Sub(o.clock.Now())
		if remaining <= 0 {
			return timeout(), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-o.clock.After(min(o.pollInterval, remaining)):
		}

		remaining = deadline.Sub(o.clock.Now())
		if remaining <= 0 {
			return timeout(), nil
		}

		current, expired, err := o.fetchWithin(ctx, request.ConnectorID, remaining)
		switch {
		case err != nil && expired:
			return timeout(), nil
		case err != nil:
			return nil, err
		}

		completedDate := current.CompletedDate()
		log.Trace("connector polled", "poll", polls, "completedDate", completedDate)
		if !isNewCompletion(baselineDate, completedDate) {
			continue
		}

		outcome := &Outcome{
			Status:      StatusSuccess,
			ConnectorID: request.ConnectorID,
			Snapshot:    current,
			Elapsed:     o.clock.Now().Sub(start),
		}
		if current.FailedAt != nil {
			outcome.Status = StatusFailure
		}

		log.Info("sync completed", "status", outcome.Status, "elapsed", outcome.Elapsed.String())
		return outcome, nil
	}
}

// fetchWithin fetches the connector aborting the request once timeout has elapsed.
// expired reports whether the fetch failed because that timeout elapsed.
func (o *Orchestrator) fetchWithin(ctx context.Context, connectorID string, timeout time.Duration) (connector *fivetran.Connector, expired bool, err error) {
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	connector, err = o.fetcher.Fetch(fetchCtx, connectorID)
	if err != nil {
		expired = ctx.Err() == nil && errors.Is(fetchCtx.Err(), context.DeadlineExceeded)
	}
	return connector, expired, err
}

// isNewCompletion reports whether current marks a sync cycle ended after baseline.
// Equal timestamps are not a new completion.
func isNewCompletion(baseline, current *time.Time) bool {
	if current == nil {
		return false
	}

	return baseline == nil || current.After(*baseline)
}
