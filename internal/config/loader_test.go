package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
http:
  listen_addr: "127.0.0.1:3001"
  max_body_bytes: 153600
  cors_origins: ["http://localhost:5173"]
  read_timeout: 10s
database:
  driver: mysql
  dsn: "cloudself:%s@tcp(127.0.0.1:3306)/cloudself?parseTime=true"
  password: "vault:secret/cloudself/db#password"
  conn_max_lifetime: 5m
auth:
  user_header: X-User-ID
  default_user: demo-user
log:
  level: info
`

type fakeResolver map[string]string

func (f fakeResolver) Resolve(_ context.Context, ref string) (string, error) {
	if v, ok := f[ref]; ok {
		return v, nil
	}
	return "", errors.New("no such secret")
}

func writeRoot(t *testing.T, yaml string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "conf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644))
	t.Setenv(EnvPrefix+"ROOT", root)
}

func TestLoad_LayersAndSecrets(t *testing.T) {
	writeRoot(t, baseYAML)
	t.Setenv("CLOUDSELF_HTTP__LISTEN_ADDR", "0.0.0.0:8080")

	cfg, err := Load(context.Background(), fakeResolver{
		"vault:secret/cloudself/db#password": "s3cr3t",
	})
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.ListenAddr)
	assert.Equal(t, int64(153600), cfg.HTTP.MaxBodyBytes)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "s3cr3t", cfg.Database.Password)
	assert.Equal(t,
		"cloudself:s3cr3t@tcp(127.0.0.1:3306)/cloudself?parseTime=true",
		cfg.Database.ConnString())
	assert.NotEmpty(t, cfg.Paths.Root)
	assert.Same(t, cfg, Get())
}

func TestLoad_SecretWithoutResolver(t *testing.T) {
	writeRoot(t, baseYAML)
	_, err := Load(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.password")
}

func TestLoad_ResolverFailure(t *testing.T) {
	writeRoot(t, baseYAML)
	_, err := Load(context.Background(), fakeResolver{})
	require.Error(t, err)
}

func TestLoad_MemoryDriverNeedsNoDSN(t *testing.T) {
	writeRoot(t, `
http:
  listen_addr: ":3001"
  max_body_bytes: 1024
database:
  driver: memory
auth:
  user_header: X-User-ID
  default_user: demo-user
`)
	cfg, err := Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Empty(t, cfg.Database.ConnString())
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := map[string]string{
		"missing dsn": `
http: {listen_addr: ":3001", max_body_bytes: 1}
database: {driver: postgres}
auth: {user_header: X-User-ID, default_user: demo-user}
`,
		"unknown driver": `
http: {listen_addr: ":3001", max_body_bytes: 1}
database: {driver: sqlite, dsn: "file.db"}
auth: {user_header: X-User-ID, default_user: demo-user}
`,
		"two password verbs": `
http: {listen_addr: ":3001", max_body_bytes: 1}
database: {driver: mysql, dsn: "%s:%s@tcp(db)/x"}
auth: {user_header: X-User-ID, default_user: demo-user}
`,
		"stream required with redis": `
http: {listen_addr: ":3001", max_body_bytes: 1}
database: {driver: memory}
auth: {user_header: X-User-ID, default_user: demo-user}
events: {redis_addr: "127.0.0.1:6379"}
`,
	}
	for name, yaml := range cases {
		t.Run(name, func(t *testing.T) {
			writeRoot(t, yaml)
			_, err := Load(context.Background(), nil)
			assert.Error(t, err)
		})
	}
}

func TestConnString_NoVerb(t *testing.T) {
	d := Database{DSN: "postgres://u:p@db/cloudself?sslmode=disable", Password: "ignored"}
	assert.Equal(t, d.DSN, d.ConnString())
}

func TestAbs(t *testing.T) {
	c := &Config{Paths: Paths{Root: "/srv/cloudself"}}
	assert.Equal(t, "/srv/cloudself/logs", c.Abs("", "logs"))
	assert.Equal(t, "/srv/cloudself/var/log", c.Abs("var/log", "logs"))
	assert.Equal(t, "/var/log/cloudself", c.Abs("/var/log/cloudself", "logs"))
}
