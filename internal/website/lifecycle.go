// internal/website/lifecycle.go
//
// Status transitions for website requests.
//
// Context
// -------
// The lifecycle is loose.  Engine.Apply does not consult the
// current status; it only checks that the payload satisfies the target
// status:
//
//	pending      – no extra fields
//	provisioned  – podIpAddress required
//	failed       – errorMessage required
//
// A record may therefore move failed → provisioned or back again.  The
// pod IP and error message are only overwritten by non-empty values, so a
// failure after an earlier provisioning keeps the stale pod IP.
//
// NewTransition is the single place a status payload is accepted.  A
// Transition can only be obtained from it, so Apply never sees an
// unchecked payload and never needs to re-validate.
package website

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Transition is a validated status change.  The zero value is invalid.
type Transition struct {
	status   Status
	podIP    string
	errorMsg string
}

// Status returns the target status.
func (t Transition) Status() Status { return t.status }

// PodIP returns the pod IP carried by the transition, possibly empty.
func (t Transition) PodIP() string { return t.podIP }

// ErrorMessage returns the failure reason carried by the transition,
// possibly empty.
func (t Transition) ErrorMessage() string { return t.errorMsg }

// NewTransition validates a status payload.  podIP and errorMsg are
// optional in general and required only by their respective targets.
func NewTransition(status, podIP, errorMsg string) (Transition, error) {
	s := Status(status)
	if !s.Valid() {
		names := make([]string, len(Statuses))
		for i, v := range Statuses {
			names[i] = string(v)
		}
		return Transition{}, invalid(FieldStatus, ReasonInvalidStatus,
			"Invalid status. Must be one of: "+strings.Join(names, ", "))
	}

	switch {
	case s == StatusProvisioned && podIP == "":
		return Transition{}, invalid(FieldPodIP, ReasonMissingField,
			fmt.Sprintf("%s is required when status is %s", FieldPodIP, s))
	case s == StatusFailed && errorMsg == "":
		return Transition{}, invalid(FieldErrorMessage, ReasonMissingField,
			fmt.Sprintf("%s is required when status is %s", FieldErrorMessage, s))
	}

	return Transition{status: s, podIP: podIP, errorMsg: errorMsg}, nil
}

// Store persists website requests.  Implementations must enforce name
// uniqueness themselves (ErrDuplicateName) rather than relying on callers
// to check first.
type Store interface {
	Insert(ctx context.Context, rec *Record) (*Record, error)
	// FindByID returns ErrNotFound when id is unknown, or when owner is
	// non-empty and does not match.
	FindByID(ctx context.Context, id int64, owner string) (*Record, error)
	ListByOwner(ctx context.Context, userID string) ([]Record, error)
	ListByStatus(ctx context.Context, status Status) ([]Record, error)
	// UpdateStatus sets status, overwrites podIP and errorMsg only when they
	// are non-empty, and refreshes updated_at in one mutation.
	UpdateStatus(ctx context.Context, id int64, status Status, podIP, errorMsg string) (*Record, error)
	Ping(ctx context.Context) error
}

// Engine applies transitions through a Store.
type Engine struct {
	store Store
}

// NewEngine returns an Engine bound to store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Apply persists t for record id.  A zero Transition is rejected without
// touching the store.
func (e *Engine) Apply(ctx context.Context, id int64, t Transition) (*Record, error) {
	if !t.status.Valid() {
		return nil, errors.New("website: transition not built by NewTransition")
	}
	rec, err := e.store.UpdateStatus(ctx, id, t.status, t.podIP, t.errorMsg)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("apply %s to website %d: %w", t.status, id, err)
	}
	return rec, nil
}
