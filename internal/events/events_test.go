package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/cloudself/internal/website"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisStream_Publish(t *testing.T) {
	_, client := setupRedis(t)
	pub := NewRedisStream(client, "websites:events", 100)

	ip := "10.0.0.4"
	rec := &website.Record{
		ID:           12,
		UserID:       "alice",
		WebsiteName:  "my-site",
		Status:       website.StatusProvisioned,
		PodIPAddress: &ip,
		UpdatedAt:    time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC),
	}

	ctx := context.Background()
	require.NoError(t, pub.Publish(ctx, FromRecord(TypeStatusChanged, rec)))

	msgs, err := client.XRange(ctx, "websites:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	v := msgs[0].Values
	assert.Equal(t, TypeStatusChanged, v["type"])
	assert.Equal(t, "12", v["website_id"])
	assert.Equal(t, "my-site", v["website_name"])
	assert.Equal(t, "provisioned", v["status"])
	assert.Equal(t, "10.0.0.4", v["pod_ip"])
	assert.Equal(t, "2026-10-01T08:00:00Z", v["at"])
}

func TestRedisStream_PublishFailsWhenServerGone(t *testing.T) {
	mr, client := setupRedis(t)
	pub := NewRedisStream(client, "websites:events", 0)
	mr.Close()

	err := pub.Publish(context.Background(), Event{Type: TypeCreated, WebsiteID: 1})
	assert.Error(t, err)
}

func TestDial(t *testing.T) {
	mr := miniredis.RunT(t)
	pub, err := Dial(context.Background(), mr.Addr(), "", 0, "s", 10)
	require.NoError(t, err)
	defer pub.Close()
	assert.NoError(t, pub.Ping(context.Background()))
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), Event{}))
	assert.NoError(t, p.Ping(context.Background()))
	assert.NoError(t, p.Close())
}
