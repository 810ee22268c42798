// internal/website/model.go
//
// `website` and `website_domain` row models.
//
// Context
// -------
// A website belongs to exactly one tenant.  It is always reachable via
// its system-assigned subdomain (immutable after creation) and may claim
// any number of custom domains, each globally unique across all
// websites.  Every website therefore resolves via at least one name.
//
// Schema reference (2026-08-14)
//
//	CREATE TABLE website (
//	    id          CHAR(36)      PRIMARY KEY,
//	    tenant_id   CHAR(36)      NOT NULL REFERENCES tenant(id),
//	    name        VARCHAR(256)  NOT NULL,
//	    subdomain   VARCHAR(64)   NOT NULL UNIQUE,
//	    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
//	    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
//	CREATE TABLE website_domain (
//	    domain      VARCHAR(256)  PRIMARY KEY,
//	    website_id  CHAR(36)      NOT NULL REFERENCES website(id),
//	    tenant_id   CHAR(36)      NOT NULL REFERENCES tenant(id),
//	    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// Notes
// -----
// • `website_domain.tenant_id` is denormalised so domain lookups reach
//   the owning tenant in one indexed read.
// • Domain rows are stored lower-cased; the resolver normalises before
//   lookup and the admin API before insert.
package website

import (
	"time"

	"github.com/google/uuid"
)

// Record mirrors one row in the `website` table.
type Record struct {
	ID        uuid.UUID `db:"id"`
	TenantID  uuid.UUID `db:"tenant_id"`
	Name      string    `db:"name"`
	Subdomain string    `db:"subdomain"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Domain mirrors one row in the `website_domain` table.
type Domain struct {
	Domain    string    `db:"domain"`
	WebsiteID uuid.UUID `db:"website_id"`
	TenantID  uuid.UUID `db:"tenant_id"`
	CreatedAt time.Time `db:"created_at"`
}
