// Package server exposes the vesting ledger over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/groblegark/vestd/internal/engine"
	"github.com/groblegark/vestd/internal/events"
	"github.com/groblegark/vestd/internal/model"
	"github.com/groblegark/vestd/internal/store"
)

// Server handles HTTP requests against the vesting ledger.
type Server struct {
	ledger    *engine.Ledger
	store     store.Store
	publisher events.Publisher
}

// NewServer returns a Server backed by the given ledger, store, and publisher.
func NewServer(l *engine.Ledger, s store.Store, p events.Publisher) *Server {
	return &Server{ledger: l, store: s, publisher: p}
}

// recordAndPublish persists an event to the store and publishes it to NATS.
// Both operations are best-effort; failures are logged but do not block the caller.
func (s *Server) recordAndPublish(ctx context.Context, topic, address, actor string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event", "topic", topic, "address", address, "error", err)
		return
	}
	if err := s.store.RecordEvent(ctx, &model.Event{
		Topic:   topic,
		Address: address,
		Actor:   actor,
		Payload: payload,
	}); err != nil {
		slog.Warn("failed to record event", "topic", topic, "address", address, "error", err)
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "address", address, "error", err)
	}
}

// statusFor maps ledger errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotRegistered):
		return http.StatusNotFound
	case errors.Is(err, model.ErrAlreadyRegistered),
		errors.Is(err, model.ErrOnlyOneDAOAllowed),
		errors.Is(err, model.ErrAlreadyInitialized),
		errors.Is(err, model.ErrNotInitialized):
		return http.StatusConflict
	case errors.Is(err, model.ErrNotVestingPeriod),
		errors.Is(err, model.ErrNotAllowedAfterVestingStarted):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrInsufficientContractFunds):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// writeLedgerError writes an error response with the mapped status code.
func writeLedgerError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}
