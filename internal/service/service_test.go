package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yanizio/cloudself/internal/events"
	"github.com/yanizio/cloudself/internal/store"
	"github.com/yanizio/cloudself/internal/website"
)

// capturePublisher records events and can be told to fail.
type capturePublisher struct {
	mu   sync.Mutex
	got  []events.Event
	fail bool
}

func (p *capturePublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("redis down")
	}
	p.got = append(p.got, ev)
	return nil
}
func (p *capturePublisher) Ping(context.Context) error { return nil }
func (p *capturePublisher) Close() error               { return nil }

type fixture struct {
	store *store.Memory
	pub   *capturePublisher
	users *Websites
	prov  *Provisioner
}

func setup(t *testing.T) fixture {
	t.Helper()
	st := store.NewMemory()
	pub := &capturePublisher{}
	log := zap.NewNop().Sugar()
	return fixture{
		store: st,
		pub:   pub,
		users: NewWebsites(st, pub, log),
		prov:  NewProvisioner(st, website.NewEngine(st), pub, log),
	}
}

func TestCreate_Pending(t *testing.T) {
	f := setup(t)

	rec, err := f.users.Create(context.Background(), "alice", "my-site", "My Site", "<html></html>")
	require.NoError(t, err)
	assert.Equal(t, website.StatusPending, rec.Status)
	assert.Equal(t, "alice", rec.UserID)
	assert.Nil(t, rec.PodIPAddress)

	require.Len(t, f.pub.got, 1)
	assert.Equal(t, events.TypeCreated, f.pub.got[0].Type)
}

func TestCreate_ValidationOrder(t *testing.T) {
	f := setup(t)

	_, err := f.users.Create(context.Background(), "alice", "INVALID_NAME", "", "")
	var ve *website.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, website.FieldName, ve.Field)
	assert.Contains(t, err.Error(), "lowercase")

	_, err = f.users.Create(context.Background(), "alice", "ok", "Title", strings.Repeat("x", 102401))
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), "100KB")

	recs, _ := f.store.ListByStatus(context.Background(), website.StatusPending)
	assert.Empty(t, recs)
	assert.Empty(t, f.pub.got, "no event for rejected input")
}

func TestCreate_ConcurrentDuplicate(t *testing.T) {
	f := setup(t)

	var (
		mu        sync.Mutex
		successes int
		conflicts int
	)
	var g errgroup.Group
	for _, user := range []string{"alice", "bob"} {
		user := user
		g.Go(func() error {
			_, err := f.users.Create(context.Background(), user, "shared", "Shared", "<p>hi</p>")
			mu.Lock()
			defer mu.Unlock()
			var ce *ConflictError
			switch {
			case err == nil:
				successes++
			case errors.As(err, &ce):
				conflicts++
				assert.ErrorIs(t, err, website.ErrDuplicateName)
				assert.Equal(t, `Website with name "shared" already exists`, err.Error())
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
}

func TestGet_OwnershipIsNotFound(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	rec, err := f.users.Create(ctx, "alice", "my-site", "My Site", "<p>")
	require.NoError(t, err)

	_, err = f.users.Get(ctx, rec.ID, "bob")
	assert.ErrorIs(t, err, website.ErrNotFound)

	_, err = f.users.Get(ctx, rec.ID, "")
	assert.ErrorIs(t, err, website.ErrNotFound)

	got, err := f.users.Get(ctx, rec.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
}

func TestList_ScopedToOwner(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, _ = f.users.Create(ctx, "alice", "a-one", "A", "<p>")
	_, _ = f.users.Create(ctx, "bob", "b-one", "B", "<p>")
	_, _ = f.users.Create(ctx, "alice", "a-two", "A2", "<p>")

	recs, err := f.users.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.Equal(t, "alice", r.UserID)
	}
}

func TestUpdateStatus_MissingPodIPLeavesRecord(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	rec, _ := f.users.Create(ctx, "alice", "my-site", "My Site", "<p>")

	_, err := f.prov.UpdateStatus(ctx, rec.ID, "provisioned", "", "")
	var ve *website.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, website.ReasonMissingField, ve.Reason)
	assert.Equal(t, "podIpAddress is required when status is provisioned", err.Error())

	after, err := f.store.FindByID(ctx, rec.ID, "")
	require.NoError(t, err)
	assert.Equal(t, website.StatusPending, after.Status)
	assert.Equal(t, rec.UpdatedAt, after.UpdatedAt)
}

func TestUpdateStatus_FailedKeepsPodIP(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	rec, _ := f.users.Create(ctx, "alice", "my-site", "My Site", "<p>")

	_, err := f.prov.UpdateStatus(ctx, rec.ID, "provisioned", "10.2.0.8", "")
	require.NoError(t, err)

	got, err := f.prov.UpdateStatus(ctx, rec.ID, "failed", "", "x")
	require.NoError(t, err)
	assert.Equal(t, website.StatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "x", *got.ErrorMessage)
	require.NotNil(t, got.PodIPAddress)
	assert.Equal(t, "10.2.0.8", *got.PodIPAddress)

	// failed → provisioned is allowed; the engine ignores the current state.
	got, err = f.prov.UpdateStatus(ctx, rec.ID, "provisioned", "10.2.0.9", "")
	require.NoError(t, err)
	assert.Equal(t, website.StatusProvisioned, got.Status)
	assert.Equal(t, "10.2.0.9", *got.PodIPAddress)
	assert.Equal(t, "x", *got.ErrorMessage)
}

func TestUpdateStatus_InvalidStatusAndNotFound(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.prov.UpdateStatus(ctx, 1, "done", "", "")
	assert.True(t, website.IsValidation(err))
	assert.Contains(t, err.Error(), "pending, provisioned, failed")

	_, err = f.prov.UpdateStatus(ctx, 77, "failed", "", "boom")
	assert.ErrorIs(t, err, website.ErrNotFound)
}

func TestPending_FIFOAndUnscoped(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	first, _ := f.users.Create(ctx, "alice", "first", "F", "<p>")
	second, _ := f.users.Create(ctx, "bob", "second", "S", "<p>")
	third, _ := f.users.Create(ctx, "carol", "third", "T", "<p>")
	_, err := f.prov.UpdateStatus(ctx, second.ID, "provisioned", "10.0.0.2", "")
	require.NoError(t, err)

	queue, err := f.prov.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, first.ID, queue[0].ID)
	assert.Equal(t, third.ID, queue[1].ID)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	f := setup(t)
	f.pub.fail = true

	rec, err := f.users.Create(context.Background(), "alice", "my-site", "My Site", "<p>")
	require.NoError(t, err)
	_, err = f.prov.UpdateStatus(context.Background(), rec.ID, "failed", "", "x")
	require.NoError(t, err)
}
