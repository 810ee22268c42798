// internal/acl/store_test.go
//
// Unit-tests for acl.store helpers using sqlmock.
//
// Run: go test ./internal/acl -v

package acl

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestUserRoles(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	userID := uuid.New()
	tenantID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT r.name FROM user_role ur JOIN role r ON r.id = ur.role_id WHERE ur.user_id = ? AND r.tenant_id = ? AND r.enabled = TRUE`,
	)).
		WithArgs(userID, tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("editor").AddRow("admin"))

	got, err := UserRoles(context.Background(), db, userID, tenantID)
	if err != nil {
		t.Fatalf("UserRoles error: %v", err)
	}
	if len(got) != 2 || got[0] != "editor" || got[1] != "admin" {
		t.Fatalf("unexpected result: %#v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRoleAllowed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	tenantID := uuid.New()

	inClause := "?,?" // two role names
	q := `SELECT 1 FROM role_acl ra JOIN role r ON r.id = ra.role_id WHERE r.name IN (` + inClause + `) AND r.tenant_id = ? AND ra.component = ? AND ra.action = ? AND ra.permitted = TRUE LIMIT 1`

	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs("editor", "admin", tenantID, "pages", "edit").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	ok, err := RoleAllowed(context.Background(), db, tenantID,
		[]string{"editor", "admin"}, "pages", "edit")
	if err != nil {
		t.Fatalf("RoleAllowed error: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok = true, got false")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestRoleAllowed_NoRoles(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	ok, err := RoleAllowed(context.Background(), db, uuid.New(), nil, "pages", "edit")
	if err != nil {
		t.Fatalf("RoleAllowed error: %v", err)
	}
	if ok {
		t.Fatalf("no roles must never be permitted")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}
