// internal/tenant/settings.go
//
// Per-tenant key-value settings fetcher.
//
// Context
// -------
// Branding and feature flags live in the `tenant_setting` table as
// arbitrary string pairs.  The whole set is pulled with one query when a
// handler needs it and folded into a map; keys are case-sensitive and
// unique per tenant.
package tenant

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SettingsByTenant loads all rows from `tenant_setting` for one tenant
// and returns them as a map[key]value.
func SettingsByTenant(ctx context.Context, db *sqlx.DB, tenantID uuid.UUID) (map[string]string, error) {
	const q = `
	    SELECT  ` + "`key`, value" + `
	    FROM    tenant_setting
	    WHERE   tenant_id = ?`

	// Small slice cap avoids reallocations for the common handful of
	// settings.  It grows automatically for larger tenants.
	rows := make([]struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}, 0, 8)

	if err := db.SelectContext(ctx, &rows, q, tenantID); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}
