// internal/vault/vault.go
//
// Vault client wrapper for cloudself.
//
// Context
// -------
//   - Wraps the HashiCorp Vault Go SDK for the one thing the service needs:
//     reading KV-v2 secrets referenced from configuration.
//   - A reference looks like `vault:secret/cloudself/db#password`, where the
//     first path segment is the KV mount and the fragment names the key.
//   - Values are cached per reference and the token is kept alive in the
//     background.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx, 10*time.Minute)        // during boot.
//  2. cfg, err := config.Load(ctx, cli)                 // resolves refs.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – token (falls back to ~/.vault-token via the SDK).
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/yanizio/cloudself/internal/cache"
)

// Prefix introduces a secret reference in configuration values.
const Prefix = "vault:"

// ErrBadRef is returned for references that do not parse.
var ErrBadRef = errors.New("vault: malformed secret reference")

//
// SECTION 1.  Public façade
//

// cacheSize bounds the number of distinct secret references kept.
const cacheSize = 256

// Client is safe for concurrent use.  Zero value is invalid.
type Client struct {
	api   *vault.Client
	cache *cache.LRU[string, string] // nil when caching is off
}

// New builds a client from the VAULT_* environment and starts token
// renewal, which stops when ctx is cancelled.  ttl bounds how long a
// resolved value is reused; zero disables caching.
func New(ctx context.Context, ttl time.Duration) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	c, err := NewWithConfig(cfg, ttl)
	if err != nil {
		return nil, err
	}
	go c.renewLoop(ctx)
	return c, nil
}

// NewWithConfig builds a client without background renewal.
func NewWithConfig(cfg *vault.Config, ttl time.Duration) (*Client, error) {
	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	c := &Client{api: apiCli}
	if ttl > 0 {
		c.cache = cache.New[string, string](cacheSize, ttl)
	}
	return c, nil
}

// SetToken overrides the token picked up from the environment.
func (c *Client) SetToken(tok string) { c.api.SetToken(tok) }

// Resolve implements config.SecretResolver.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	path, key, err := ParseRef(ref)
	if err != nil {
		return "", err
	}
	return c.GetKV(ctx, path, key)
}

// GetKV fetches a single key from a KV-v2 secret, honouring the cache.
func (c *Client) GetKV(ctx context.Context, secretPath, key string) (string, error) {
	canonical := secretPath + "#" + key
	if c.cache != nil {
		if v, ok := c.cache.Get(canonical); ok {
			return v, nil
		}
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	sval, ok := sec.Data[key].(string)
	if !ok {
		return "", fmt.Errorf("vault: key %q missing or not a string in %q", key, secretPath)
	}

	if c.cache != nil {
		c.cache.Add(canonical, sval)
	}
	return sval, nil
}

// ParseRef splits `vault:mount/path#key` into ("mount/path", "key").
func ParseRef(ref string) (path, key string, err error) {
	rest, ok := strings.CutPrefix(ref, Prefix)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	path, key, ok = strings.Cut(rest, "#")
	if !ok || key == "" || !strings.Contains(path, "/") || strings.HasPrefix(path, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrBadRef, ref)
	}
	return path, key, nil
}

//
// SECTION 2.  Background token renewal
//

func (c *Client) renewLoop(ctx context.Context) {
	log := zap.S().With("component", "vault")
	for ctx.Err() == nil {
		sec, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0)
		if err != nil {
			log.Warnw("token renew self failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			log.Infow("token is not renewable, rechecking in 1h")
			backoff(ctx, time.Hour)
			continue
		}

		w, err := c.api.NewLifetimeWatcher(&vault.LifetimeWatcherInput{
			Secret: sec,
			Grace:  15 * time.Second,
		})
		if err != nil {
			log.Warnw("lifetime watcher init failed", "err", err)
			backoff(ctx, 30*time.Second)
			continue
		}
		c.watch(ctx, w, log)
	}
}

func (c *Client) watch(ctx context.Context, w *vault.LifetimeWatcher, log *zap.SugaredLogger) {
	go w.Start()
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				log.Warnw("token renewal stopped", "err", err)
			}
			backoff(ctx, 15*time.Second)
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				log.Debugw("token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

//
// SECTION 3.  Helpers
//

func splitMount(p string) (mount, rel string) {
	mount, rel, _ = strings.Cut(p, "/")
	return
}

func backoff(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
