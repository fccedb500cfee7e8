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

// Provisioner serves the provisioner-facing API.  Nothing here is scoped
// to a user.
type Provisioner struct {
	store  website.Store
	engine *website.Engine
	events events.Publisher
	log    *zap.SugaredLogger
}

// NewProvisioner wires the service.  A nil publisher disables events.
func NewProvisioner(store website.Store, engine *website.Engine, pub events.Publisher, log *zap.SugaredLogger) *Provisioner {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Provisioner{store: store, engine: engine, events: pub, log: log}
}

// Pending returns the work backlog, oldest first.
func (s *Provisioner) Pending(ctx context.Context) ([]website.Record, error) {
	recs, err := s.store.ListByStatus(ctx, website.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("pending queue: %w", err)
	}
	metrics.PendingQueueSize.Set(float64(len(recs)))
	return recs, nil
}

// UpdateStatus validates the payload once and applies it through the
// lifecycle engine.
func (s *Provisioner) UpdateStatus(ctx context.Context, id int64, status, podIP, errorMsg string) (*website.Record, error) {
	tr, err := website.NewTransition(status, podIP, errorMsg)
	if err != nil {
		return nil, err
	}

	rec, err := s.engine.Apply(ctx, id, tr)
	if err != nil {
		if errors.Is(err, website.ErrNotFound) {
			return nil, website.ErrNotFound
		}
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(tr.Status())).Inc()
	s.log.Infow("website status updated",
		"id", rec.ID, "name", rec.WebsiteName, "status", rec.Status, "pod_ip", tr.PodIP())
	publish(ctx, s.events, s.log, events.TypeStatusChanged, rec)
	return rec, nil
}
