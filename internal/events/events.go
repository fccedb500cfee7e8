// internal/events/events.go
//
// Lifecycle event publishing.
//
// Context
// -------
// Every create and status change is appended to a Redis stream so other
// processes (dashboards, a provisioner that prefers to block on XREAD
// instead of polling) can react without hitting the API.  Publishing is
// best effort: the HTTP request has already committed its row, so a Redis
// failure is logged and swallowed by the caller.
//
// When no Redis address is configured the Nop publisher is used.
//
// Notes
// -----
//   - Stream entries carry flat string fields; XADD has no nested values.
//   - MAXLEN ~ keeps the stream bounded without exact trimming cost.
package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/yanizio/cloudself/internal/website"
)

// Event types written to the stream's `type` field.
const (
	TypeCreated       = "website.created"
	TypeStatusChanged = "website.status_changed"
)

// Event is one lifecycle notification.
type Event struct {
	Type        string
	WebsiteID   int64
	WebsiteName string
	UserID      string
	Status      website.Status
	PodIP       string
	At          time.Time
}

// FromRecord builds an Event of typ describing rec.
func FromRecord(typ string, rec *website.Record) Event {
	ev := Event{
		Type:        typ,
		WebsiteID:   rec.ID,
		WebsiteName: rec.WebsiteName,
		UserID:      rec.UserID,
		Status:      rec.Status,
		At:          rec.UpdatedAt,
	}
	if rec.PodIPAddress != nil {
		ev.PodIP = *rec.PodIPAddress
	}
	return ev
}

func (e Event) values() map[string]interface{} {
	return map[string]interface{}{
		"type":         e.Type,
		"website_id":   strconv.FormatInt(e.WebsiteID, 10),
		"website_name": e.WebsiteName,
		"user_id":      e.UserID,
		"status":       string(e.Status),
		"pod_ip":       e.PodIP,
		"at":           e.At.UTC().Format(time.RFC3339Nano),
	}
}

// Publisher delivers lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Ping(ctx context.Context) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Ping(context.Context) error           { return nil }
func (Nop) Close() error                         { return nil }

// RedisStream appends events to one Redis stream.
type RedisStream struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisStream wraps client.  maxLen <= 0 disables trimming.
func NewRedisStream(client *redis.Client, stream string, maxLen int64) *RedisStream {
	return &RedisStream{client: client, stream: stream, maxLen: maxLen}
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr, password string, db int, stream string, maxLen int64) (*RedisStream, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}
	return NewRedisStream(client, stream, maxLen), nil
}

// Publish XADDs ev to the stream.
func (p *RedisStream) Publish(ctx context.Context, ev Event) error {
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: ev.values(),
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publish %s for website %d: %w", ev.Type, ev.WebsiteID, err)
	}
	return nil
}

func (p *RedisStream) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }

func (p *RedisStream) Close() error { return p.client.Close() }
