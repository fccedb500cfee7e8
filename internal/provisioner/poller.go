// internal/provisioner/poller.go
//
// Pending-queue poller.
//
// Context
// -------
// Poller asks the service for pending websites every Interval and hands
// each one to a ProvisionFunc.  A returned pod IP is reported as
// `provisioned`, an error as `failed` with the error text.  What
// "provisioning" means (a container, a directory, a bucket) is entirely up
// to the ProvisionFunc.
//
// Records are processed one at a time in queue order.  Only a single
// poller may run against one service: the pending read is not a claim.
//
// Notes
// -----
//   - A report that fails is logged and retried naturally on the next
//     round, since the record is still pending.
//   - Oxford commas, two spaces after periods.
package provisioner

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/cloudself/internal/website"
)

// ProvisionFunc deploys rec and returns the address it is reachable at.
type ProvisionFunc func(ctx context.Context, rec website.Record) (podIP string, err error)

// Queue is the subset of *Client the poller uses.
type Queue interface {
	Pending(ctx context.Context) ([]website.Record, error)
	Provisioned(ctx context.Context, id int64, podIP string) (*website.Record, error)
	Failed(ctx context.Context, id int64, reason string) (*website.Record, error)
}

// Poller drives a ProvisionFunc from the pending queue.
type Poller struct {
	Queue     Queue
	Provision ProvisionFunc
	Interval  time.Duration
	Log       *zap.SugaredLogger
}

// Run polls immediately and then every Interval until ctx is cancelled.
// It returns nil on cancellation.
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		if _, err := p.Poll(ctx); err != nil && ctx.Err() == nil {
			p.log().Warnw("poll failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

// Poll runs one round and returns how many records were reported.
func (p *Poller) Poll(ctx context.Context) (int, error) {
	recs, err := p.Queue.Pending(ctx)
	if err != nil {
		return 0, err
	}
	if len(recs) > 0 {
		p.log().Infow("pending websites", "count", len(recs))
	}

	reported := 0
	for _, rec := range recs {
		if ctx.Err() != nil {
			return reported, ctx.Err()
		}
		if err := p.handle(ctx, rec); err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.NotFound() {
				continue
			}
			p.log().Warnw("status report failed", "id", rec.ID, "name", rec.WebsiteName, "err", err)
			continue
		}
		reported++
	}
	return reported, nil
}

func (p *Poller) handle(ctx context.Context, rec website.Record) error {
	podIP, perr := p.Provision(ctx, rec)
	if perr == nil && podIP == "" {
		perr = errors.New("provisioner returned no address")
	}
	if perr != nil {
		p.log().Warnw("provision failed", "id", rec.ID, "name", rec.WebsiteName, "err", perr)
		_, err := p.Queue.Failed(ctx, rec.ID, perr.Error())
		return err
	}
	p.log().Infow("website provisioned", "id", rec.ID, "name", rec.WebsiteName, "pod_ip", podIP)
	_, err := p.Queue.Provisioned(ctx, rec.ID, podIP)
	return err
}

func (p *Poller) log() *zap.SugaredLogger {
	if p.Log == nil {
		return zap.S()
	}
	return p.Log
}
