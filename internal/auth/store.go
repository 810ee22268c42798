// internal/auth/store.go
//
// User lookup and credential verification.
//
// Context
// -------
// The `user` table binds each account to one tenant:
//
//	CREATE TABLE user (
//	    id            CHAR(36)     PRIMARY KEY,
//	    tenant_id     CHAR(36)     NOT NULL REFERENCES tenant(id),
//	    email         VARCHAR(256) NOT NULL UNIQUE,
//	    password_hash VARCHAR(128) NOT NULL,
//	    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
//
// Email is globally unique, so sign-in needs no tenant picker; the
// session inherits its tenant from the user row.  Users of non-active
// tenants cannot sign in.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials covers unknown email, wrong password, and inactive
// tenant alike, so sign-in failures reveal nothing about which.
var ErrBadCredentials = errors.New("auth: invalid credentials")

// User mirrors one row in the `user` table.
type User struct {
	ID           uuid.UUID `db:"id"`
	TenantID     uuid.UUID `db:"tenant_id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// VerifyCredentials checks email + password against the store and
// returns the resulting Identity.  Any failure maps to
// ErrBadCredentials.
func VerifyCredentials(ctx context.Context, db *sqlx.DB, email, password string) (Identity, error) {
	const q = `
        SELECT u.id, u.tenant_id, u.email, u.password_hash, u.created_at
        FROM   user u
        JOIN   tenant t ON t.id = u.tenant_id
        WHERE  u.email = ? AND t.status = 'active'
        LIMIT  1`
	var u User
	if err := db.GetContext(ctx, &u, q, strings.ToLower(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, ErrBadCredentials
		}
		return Identity{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Identity{}, ErrBadCredentials
	}
	return Identity{UserID: u.ID, TenantID: u.TenantID, Email: u.Email}, nil
}

// HashPassword produces a bcrypt hash for storage at onboarding.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}
