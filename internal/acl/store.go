// internal/acl/store.go
//
// Small query helpers for role-based access control.
//
// Context
// -------
// Admin screens are gated per role.  Roles are tenant-scoped rows in the
// control-plane database:
//
//	role        (id PK, tenant_id, name, enabled)
//	role_acl    (role_id, component, action, permitted)
//	user_role   (user_id, role_id)
//
// Middleware needs fast answers to two questions:
//  1. Which *role names* does user X have within tenant T?  → UserRoles()
//  2. Is any of those roles permitted for component/action?  → RoleAllowed()
//
// The tenant condition on every query keeps a role granted under one
// tenant from ever authorising actions under another.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
// • Max line length 100 columns.
package acl

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// UserRoles returns the role *names* bound to userID within tenantID.
// Disabled roles are filtered out.
func UserRoles(ctx context.Context, db *sql.DB, userID, tenantID uuid.UUID) ([]string, error) {
	const q = `SELECT r.name
                 FROM user_role ur
                 JOIN role r ON r.id = ur.role_id
                WHERE ur.user_id = ? AND r.tenant_id = ? AND r.enabled = TRUE`

	rows, err := db.QueryContext(ctx, q, userID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]string, 0, 4)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

// RoleAllowed reports whether *any* of the candidate roles is permitted for
// the given component + action within tenantID.  One query using IN (? … ?).
//
// Empty roles slice returns false, nil.
func RoleAllowed(ctx context.Context, db *sql.DB, tenantID uuid.UUID,
	roles []string, component, action string) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}

	// Construct the IN clause placeholders dynamically.
	placeholders := make([]byte, 0, len(roles)*2)
	args := make([]any, 0, len(roles)+3)
	for i, r := range roles {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args = append(args, r)
	}
	args = append(args, tenantID, component, action)

	q := `SELECT 1
            FROM role_acl ra
            JOIN role r ON r.id = ra.role_id
           WHERE r.name IN (` + string(placeholders) + `)
             AND r.tenant_id = ?
             AND ra.component = ?
             AND ra.action   = ?
             AND ra.permitted = TRUE
           LIMIT 1` // early exit once we find a hit

	var dummy int
	err := db.QueryRowContext(ctx, q, args...).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
