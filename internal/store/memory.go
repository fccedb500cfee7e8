// internal/store/memory.go
//
// In-process website.Store for local development (`database.driver: memory`)
// and tests.  One mutex serialises every operation and a name index plays
// the role of the UNIQUE constraint, so duplicate detection is race-free
// exactly like the SQL store.  Data is lost on restart.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yanizio/cloudself/internal/website"
)

var _ website.Store = (*Memory)(nil)

// Memory implements website.Store in RAM.  Zero value is unusable.
type Memory struct {
	mu     sync.Mutex
	rows   map[int64]*website.Record
	byName map[string]int64
	nextID int64
	now    func() time.Time
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		rows:   make(map[int64]*website.Record),
		byName: make(map[string]int64),
		now:    time.Now,
	}
}

func (m *Memory) Insert(_ context.Context, rec *website.Record) (*website.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byName[rec.WebsiteName]; taken {
		return nil, website.ErrDuplicateName
	}

	m.nextID++
	out := rec.Clone()
	out.ID = m.nextID
	out.Status = website.StatusPending
	out.PodIPAddress, out.ErrorMessage = nil, nil
	out.CreatedAt = m.now().UTC()
	out.UpdatedAt = out.CreatedAt

	m.rows[out.ID] = out
	m.byName[out.WebsiteName] = out.ID
	return out.Clone(), nil
}

func (m *Memory) FindByID(_ context.Context, id int64, owner string) (*website.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.rows[id]
	if !ok || (owner != "" && rec.UserID != owner) {
		return nil, website.ErrNotFound
	}
	return rec.Clone(), nil
}

func (m *Memory) ListByOwner(_ context.Context, userID string) ([]website.Record, error) {
	out := m.filter(func(r *website.Record) bool { return r.UserID == userID })
	sort.Slice(out, func(i, j int) bool { return newer(&out[i], &out[j]) })
	return out, nil
}

func (m *Memory) ListByStatus(_ context.Context, status website.Status) ([]website.Record, error) {
	out := m.filter(func(r *website.Record) bool { return r.Status == status })
	sort.Slice(out, func(i, j int) bool { return newer(&out[j], &out[i]) })
	return out, nil
}

func (m *Memory) UpdateStatus(_ context.Context, id int64, status website.Status, podIP, errorMsg string) (*website.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.rows[id]
	if !ok {
		return nil, website.ErrNotFound
	}
	rec.Status = status
	if podIP != "" {
		rec.PodIPAddress = &podIP
	}
	if errorMsg != "" {
		rec.ErrorMessage = &errorMsg
	}
	rec.UpdatedAt = m.now().UTC()
	return rec.Clone(), nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) filter(keep func(*website.Record) bool) []website.Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []website.Record{}
	for _, r := range m.rows {
		if keep(r) {
			out = append(out, *r.Clone())
		}
	}
	return out
}

// newer orders by created_at, then id, descending.
func newer(a, b *website.Record) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
