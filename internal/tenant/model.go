// internal/tenant/model.go
//
// `tenant` table row model.
//
// Context
// -------
// A tenant is the top-level account owning one or more websites.  Tenants
// are never physically deleted; the `status` column transitions instead
// (active → suspended, pending → active, and so on).  Only active tenants
// resolve and sign in.
//
// Schema reference (2026-08-14)
//
//	CREATE TABLE tenant (
//	    id          CHAR(36)      PRIMARY KEY,
//	    slug        VARCHAR(64)   NOT NULL UNIQUE,
//	    name        VARCHAR(256)  NOT NULL,
//	    status      ENUM('active','suspended','pending')
//	                              NOT NULL DEFAULT 'pending',
//	    plan        VARCHAR(32)   NOT NULL DEFAULT 'starter',
//	    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// Notes
// -----
// • `slug` is globally unique and assigned at onboarding.
// • This struct contains no behaviour—pure data model for sqlx scans.
package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Tenant status values.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusPending   = "pending"
)

// Record mirrors one row in the `tenant` table.
type Record struct {
	ID        uuid.UUID `db:"id"`
	Slug      string    `db:"slug"`
	Name      string    `db:"name"`
	Status    string    `db:"status"`
	Plan      string    `db:"plan"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Active reports whether the tenant may serve traffic and sign in.
func (r *Record) Active() bool { return r.Status == StatusActive }
