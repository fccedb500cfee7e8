package provisioner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yanizio/cloudself/internal/website"
)

// Local "provisions" a website by writing its HTML to
// <Dir>/<websiteName>/index.html for a static file server listening on
// Addr.  It is meant for development, where no cluster is available.
type Local struct {
	Dir  string
	Addr string // reported as the pod address
}

// Provision satisfies ProvisionFunc.
func (l *Local) Provision(_ context.Context, rec website.Record) (string, error) {
	// The name already passed DNS-label validation, but never trust a
	// path element from the network.
	if err := website.ValidateName(rec.WebsiteName); err != nil {
		return "", fmt.Errorf("refusing to provision %q: %w", rec.WebsiteName, err)
	}

	dir := filepath.Join(l.Dir, rec.WebsiteName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("site dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".index-*.html")
	if err != nil {
		return "", fmt.Errorf("site file: %w", err)
	}
	if _, err := tmp.WriteString(rec.HTMLContent); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("site file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("site file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("site file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, "index.html")); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("site file: %w", err)
	}
	return l.Addr, nil
}
