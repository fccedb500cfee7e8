// internal/service/websites.go
//
// User-facing operations on website requests.
//
// Context
// -------
// Every call is scoped to the caller's identity, which the HTTP layer takes
// from a trusted header.  Get reports a record owned by someone else
// exactly like a missing one, so callers cannot probe for other users'
// site ids.
//
// Notes
// -----
//   - Create validates before touching the store and never pre-checks the
//     name.  The store's unique constraint decides races.
//   - Oxford commas, two spaces after periods.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yanizio/cloudself/internal/events"
	"github.com/yanizio/cloudself/internal/metrics"
	"github.com/yanizio/cloudself/internal/website"
)

// ConflictError reports a website name that is already taken.
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Website with name %q already exists", e.Name)
}

func (e *ConflictError) Unwrap() error { return website.ErrDuplicateName }

// Websites serves the user-facing API.
type Websites struct {
	store  website.Store
	events events.Publisher
	log    *zap.SugaredLogger
}

// NewWebsites wires the service.  A nil publisher disables events.
func NewWebsites(store website.Store, pub events.Publisher, log *zap.SugaredLogger) *Websites {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Websites{store: store, events: pub, log: log}
}

// Create validates and stores a new pending request for userID.
func (s *Websites) Create(ctx context.Context, userID, name, title, html string) (*website.Record, error) {
	if err := website.ValidateCreate(name, title, html); err != nil {
		return nil, err
	}

	rec, err := s.store.Insert(ctx, &website.Record{
		UserID:       userID,
		WebsiteName:  name,
		WebsiteTitle: title,
		HTMLContent:  html,
	})
	if err != nil {
		if errors.Is(err, website.ErrDuplicateName) {
			metrics.CreateConflictsTotal.Inc()
			return nil, &ConflictError{Name: name}
		}
		return nil, fmt.Errorf("create website: %w", err)
	}

	metrics.WebsitesCreatedTotal.Inc()
	s.log.Infow("website requested", "id", rec.ID, "name", rec.WebsiteName, "user", userID)
	publish(ctx, s.events, s.log, events.TypeCreated, rec)
	return rec, nil
}

// List returns userID's requests, newest first.
func (s *Websites) List(ctx context.Context, userID string) ([]website.Record, error) {
	recs, err := s.store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list websites: %w", err)
	}
	return recs, nil
}

// Get returns one of userID's requests or website.ErrNotFound.
func (s *Websites) Get(ctx context.Context, id int64, userID string) (*website.Record, error) {
	if userID == "" {
		// An empty owner would make the store lookup unscoped.
		return nil, website.ErrNotFound
	}
	rec, err := s.store.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, website.ErrNotFound) {
			return nil, website.ErrNotFound
		}
		return nil, fmt.Errorf("get website: %w", err)
	}
	return rec, nil
}

// publish sends a lifecycle event; failures are logged and counted only.
func publish(ctx context.Context, pub events.Publisher, log *zap.SugaredLogger, typ string, rec *website.Record) {
	if err := pub.Publish(ctx, events.FromRecord(typ, rec)); err != nil {
		metrics.EventPublishErrorsTotal.Inc()
		log.Warnw("event publish failed", "type", typ, "id", rec.ID, "err", err)
	}
}
