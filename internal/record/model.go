// internal/record/model.go
//
// Scoped document envelope.
//
// Context
// -------
// Pages, posts, products, categories, tags, media, and orders share one
// storage envelope: identity, scope tags, slug, title, a free-form body
// document, and lifecycle timestamps.  Collection-specific fields live
// inside `body`; this core defines only the scoping contract layered on
// top.  Each collection is its own table with the same columns:
//
//	CREATE TABLE page (
//	    id          CHAR(36)     PRIMARY KEY,
//	    tenant_id   CHAR(36)     NOT NULL REFERENCES tenant(id),
//	    website_id  CHAR(36)     NULL REFERENCES website(id),
//	    slug        VARCHAR(256) NOT NULL,
//	    title       VARCHAR(512) NOT NULL,
//	    body        MEDIUMTEXT   NOT NULL,
//	    status      VARCHAR(16)  NOT NULL DEFAULT 'draft',
//	    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    KEY (tenant_id, website_id, slug)
//	);
//
// A NULL website_id marks a tenant-wide record, visible from every
// website under its tenant.
package record

import (
	"time"

	"github.com/google/uuid"
)

// Record is one scoped document.
type Record struct {
	ID        uuid.UUID     `db:"id"`
	TenantID  uuid.UUID     `db:"tenant_id"`
	WebsiteID uuid.NullUUID `db:"website_id"`
	Slug      string        `db:"slug"`
	Title     string        `db:"title"`
	Body      string        `db:"body"`
	Status    string        `db:"status"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

// Draft carries the caller-supplied fields of a write.  Scope tags are
// deliberately absent: they are stamped server-side from the request
// Scope, so client payloads cannot steer a record into another tenant
// or website.
type Draft struct {
	Slug   string `json:"slug"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Status string `json:"status"`
}
