// internal/website/model.go
//
// Website request record and status enum.
//
// Context
// -------
// A website request is the only entity the service manages.  Users create
// one per static site; the provisioner reads the pending ones and reports
// back a pod IP or a failure reason.  The struct doubles as the sqlx scan
// target and the JSON payload returned by the API.
//
// Schema reference
//
//	CREATE TABLE websites (
//	    id              BIGINT AUTO_INCREMENT PRIMARY KEY,
//	    user_id         VARCHAR(255) NOT NULL,
//	    website_name    VARCHAR(63)  NOT NULL UNIQUE,
//	    website_title   VARCHAR(255) NOT NULL,
//	    html_content    MEDIUMTEXT   NOT NULL,
//	    status          VARCHAR(16)  NOT NULL DEFAULT 'pending',
//	    pod_ip_address  VARCHAR(45)  NULL,
//	    error_message   TEXT         NULL,
//	    created_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// Notes
// -----
//   - Nullable columns map to *string so JSON renders them as null.
//   - Oxford commas, two spaces after periods.
package website

import "time"

// Status is the provisioning state of a website request.
type Status string

const (
	StatusPending     Status = "pending"
	StatusProvisioned Status = "provisioned"
	StatusFailed      Status = "failed"
)

// Statuses lists every recognised status in lifecycle order.
var Statuses = []Status{StatusPending, StatusProvisioned, StatusFailed}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProvisioned, StatusFailed:
		return true
	}
	return false
}

// Record mirrors one row in the `websites` table.
type Record struct {
	ID           int64     `db:"id"             json:"id"`
	UserID       string    `db:"user_id"        json:"userId"`
	WebsiteName  string    `db:"website_name"   json:"websiteName"`
	WebsiteTitle string    `db:"website_title"  json:"websiteTitle"`
	HTMLContent  string    `db:"html_content"   json:"htmlContent"`
	Status       Status    `db:"status"         json:"status"`
	PodIPAddress *string   `db:"pod_ip_address" json:"podIpAddress"`
	ErrorMessage *string   `db:"error_message"  json:"errorMessage"`
	CreatedAt    time.Time `db:"created_at"     json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at"     json:"updatedAt"`
}

// Clone returns a deep copy so callers cannot alias nullable fields.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.PodIPAddress != nil {
		v := *r.PodIPAddress
		c.PodIPAddress = &v
	}
	if r.ErrorMessage != nil {
		v := *r.ErrorMessage
		c.ErrorMessage = &v
	}
	return &c
}
