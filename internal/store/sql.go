// internal/store/sql.go
//
// SQL-backed website.Store.
//
// Context
// -------
// All statements are written with `?` placeholders and passed through
// db.Rebind, so the same store serves MySQL and PostgreSQL.  Uniqueness of
// website_name is left to the UNIQUE constraint: Insert never pre-checks,
// it translates the driver's duplicate-key error into ErrDuplicateName.
// That keeps two racing inserts for one name from both succeeding.
//
// UpdateStatus is one UPDATE followed by a re-read inside a transaction.
// COALESCE(NULLIF(?, ''), col) keeps the existing pod IP or error message
// when the caller supplies an empty value.
//
// Notes
// -----
//   - MySQL needs `parseTime=true` in the DSN to scan TIMESTAMP columns.
//   - Listings return an empty, non-nil slice so JSON renders `[]`.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/cloudself/internal/database"
	"github.com/yanizio/cloudself/internal/website"
)

const columns = `id, user_id, website_name, website_title, html_content, status,
               pod_ip_address, error_message, created_at, updated_at`

var _ website.Store = (*SQL)(nil)

// SQL implements website.Store on a *sqlx.DB.
type SQL struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQL wraps db.  The driver name decides placeholder style and how the
// generated id is read back.
func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db, now: time.Now}
}

func (s *SQL) stamp() time.Time { return s.now().UTC().Truncate(time.Microsecond) }

// Insert stores rec as a new pending request and returns the stored copy.
func (s *SQL) Insert(ctx context.Context, rec *website.Record) (*website.Record, error) {
	out := rec.Clone()
	out.Status = website.StatusPending
	out.PodIPAddress, out.ErrorMessage = nil, nil
	out.CreatedAt = s.stamp()
	out.UpdatedAt = out.CreatedAt

	q := `INSERT INTO websites
	          (user_id, website_name, website_title, html_content, status, created_at, updated_at)
	      VALUES (?, ?, ?, ?, ?, ?, ?)`
	args := []any{out.UserID, out.WebsiteName, out.WebsiteTitle, out.HTMLContent,
		string(out.Status), out.CreatedAt, out.UpdatedAt}

	var err error
	if s.db.DriverName() == database.DriverPostgres {
		err = s.db.QueryRowxContext(ctx, s.db.Rebind(q+` RETURNING id`), args...).Scan(&out.ID)
	} else {
		var res sql.Result
		if res, err = s.db.ExecContext(ctx, s.db.Rebind(q), args...); err == nil {
			out.ID, err = res.LastInsertId()
		}
	}
	if err != nil {
		if database.IsDuplicateKey(err) {
			return nil, website.ErrDuplicateName
		}
		return nil, fmt.Errorf("insert website %q: %w", out.WebsiteName, err)
	}
	return out, nil
}

// FindByID fetches one record.  A non-empty owner scopes the lookup.
func (s *SQL) FindByID(ctx context.Context, id int64, owner string) (*website.Record, error) {
	q := `SELECT ` + columns + ` FROM websites WHERE id = ?`
	args := []any{id}
	if owner != "" {
		q += ` AND user_id = ?`
		args = append(args, owner)
	}

	var rec website.Record
	if err := s.db.GetContext(ctx, &rec, s.db.Rebind(q), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, website.ErrNotFound
		}
		return nil, fmt.Errorf("find website %d: %w", id, err)
	}
	return &rec, nil
}

// ListByOwner returns userID's requests, newest first.
func (s *SQL) ListByOwner(ctx context.Context, userID string) ([]website.Record, error) {
	const q = `SELECT ` + columns + ` FROM websites
	            WHERE user_id = ?
	            ORDER BY created_at DESC, id DESC`
	rows := []website.Record{}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), userID); err != nil {
		return nil, fmt.Errorf("list websites for %q: %w", userID, err)
	}
	return rows, nil
}

// ListByStatus returns every request in status, oldest first.
func (s *SQL) ListByStatus(ctx context.Context, status website.Status) ([]website.Record, error) {
	const q = `SELECT ` + columns + ` FROM websites
	            WHERE status = ?
	            ORDER BY created_at ASC, id ASC`
	rows := []website.Record{}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), string(status)); err != nil {
		return nil, fmt.Errorf("list %s websites: %w", status, err)
	}
	return rows, nil
}

// UpdateStatus applies one status mutation and returns the updated row.
func (s *SQL) UpdateStatus(ctx context.Context, id int64, status website.Status, podIP, errorMsg string) (*website.Record, error) {
	const upd = `UPDATE websites
	                SET status         = ?,
	                    pod_ip_address = COALESCE(NULLIF(?, ''), pod_ip_address),
	                    error_message  = COALESCE(NULLIF(?, ''), error_message),
	                    updated_at     = ?
	              WHERE id = ?`
	const sel = `SELECT ` + columns + ` FROM websites WHERE id = ?`

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update website %d: begin: %w", id, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.ExecContext(ctx, tx.Rebind(upd),
		string(status), podIP, errorMsg, s.stamp(), id); err != nil {
		return nil, fmt.Errorf("update website %d: %w", id, err)
	}

	var rec website.Record
	if err := tx.GetContext(ctx, &rec, tx.Rebind(sel), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, website.ErrNotFound
		}
		return nil, fmt.Errorf("reload website %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update website %d: commit: %w", id, err)
	}
	return &rec, nil
}

// Ping checks storage reachability.
func (s *SQL) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }
