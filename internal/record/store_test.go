// internal/record/store_test.go
//
// Verifies that every store operation carries the scope predicate into
// its SQL, that writes stamp scope tags server-side, and that targets
// outside the scope collapse into ErrNotFound.

package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/loomsites/loom/internal/scope"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func recordRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "website_id", "slug", "title", "body", "status",
		"created_at", "updated_at",
	})
}

func TestNewStore_RejectsUnknownCollection(t *testing.T) {
	db, _ := newMockDB(t)
	if _, err := NewStore(db, "user; DROP TABLE user"); err == nil {
		t.Fatal("expected an error for an unlisted collection")
	}
	if _, err := NewStore(db, "page"); err != nil {
		t.Fatalf("page is a listed collection: %v", err)
	}
}

func TestList_WebsiteScopedPredicate(t *testing.T) {
	db, mock := newMockDB(t)
	tenantID := uuid.New()
	websiteID := uuid.New()
	sc := scope.ForWebsite(tenantID, websiteID)

	now := time.Now()
	mock.ExpectQuery(`SELECT id, tenant_id, website_id, slug, title, body, status, created_at, updated_at FROM page WHERE tenant_id = \? AND \(website_id IS NULL OR website_id = \?\) ORDER BY created_at DESC`).
		WithArgs(tenantID, websiteID).
		WillReturnRows(recordRows().
			AddRow(uuid.New().String(), tenantID.String(), websiteID.String(),
				"welcome", "Welcome", "…", "published", now, now).
			AddRow(uuid.New().String(), tenantID.String(), nil,
				"about", "About", "…", "published", now, now))

	st, err := NewStore(db, "page")
	if err != nil {
		t.Fatal(err)
	}
	rows, err := st.List(context.Background(), sc)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if !rows[0].WebsiteID.Valid || rows[1].WebsiteID.Valid {
		t.Fatalf("website tags scanned wrong: %+v", rows)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestList_TenantWidePredicate(t *testing.T) {
	db, mock := newMockDB(t)
	tenantID := uuid.New()
	sc := scope.TenantOnly(tenantID)

	mock.ExpectQuery(`SELECT id, tenant_id, website_id, slug, title, body, status, created_at, updated_at FROM post WHERE tenant_id = \? AND website_id IS NULL ORDER BY created_at DESC`).
		WithArgs(tenantID).
		WillReturnRows(recordRows())

	st, err := NewStore(db, "post")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.List(context.Background(), sc); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreate_StampsScopeAndDefaults(t *testing.T) {
	db, mock := newMockDB(t)
	tenantID := uuid.New()
	websiteID := uuid.New()
	sc := scope.ForWebsite(tenantID, websiteID)

	mock.ExpectExec(`INSERT INTO page \(id, tenant_id, website_id, slug, title, body, status\) VALUES \(\?, \?, \?, \?, \?, \?, \?\)`).
		WithArgs(sqlmock.AnyArg(), tenantID, websiteID, "hello-world", "Hello, World!", "body", "draft").
		WillReturnResult(sqlmock.NewResult(0, 1))

	st, err := NewStore(db, "page")
	if err != nil {
		t.Fatal(err)
	}
	rec, err := st.Create(context.Background(), sc, Draft{Title: "Hello, World!", Body: "body"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.TenantID != tenantID {
		t.Fatalf("tenant tag = %v, want %v", rec.TenantID, tenantID)
	}
	if !rec.WebsiteID.Valid || rec.WebsiteID.UUID != websiteID {
		t.Fatalf("website tag = %+v, want %v", rec.WebsiteID, websiteID)
	}
	if rec.Slug != "hello-world" || rec.Status != "draft" {
		t.Fatalf("defaults not applied: %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreate_TenantWideLeavesWebsiteNull(t *testing.T) {
	db, mock := newMockDB(t)
	tenantID := uuid.New()
	sc := scope.TenantOnly(tenantID)

	mock.ExpectExec(`INSERT INTO page`).
		WithArgs(sqlmock.AnyArg(), tenantID, nil, "shared", "Shared", "", "published").
		WillReturnResult(sqlmock.NewResult(0, 1))

	st, err := NewStore(db, "page")
	if err != nil {
		t.Fatal(err)
	}
	rec, err := st.Create(context.Background(), sc, Draft{Slug: "shared", Title: "Shared", Status: "published"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.WebsiteID.Valid {
		t.Fatalf("tenant-wide record must carry no website tag: %+v", rec.WebsiteID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdate_OutsideScopeIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	sc := scope.TenantOnly(uuid.New())
	id := uuid.New()

	// The row exists under another tenant: the scoped UPDATE touches
	// nothing, and the scoped re-read confirms it is invisible.
	mock.ExpectExec(`UPDATE page SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, tenant_id, website_id, slug, title, body, status, created_at, updated_at FROM page WHERE id = \? AND tenant_id = \? AND website_id IS NULL LIMIT 1`).
		WithArgs(id, sc.TenantID).
		WillReturnRows(recordRows())

	st, err := NewStore(db, "page")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Update(context.Background(), sc, id, Draft{Title: "Hijack"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdate_UnchangedRowIsNotAMiss(t *testing.T) {
	db, mock := newMockDB(t)
	tenantID := uuid.New()
	sc := scope.TenantOnly(tenantID)
	id := uuid.New()

	// Re-submitting identical values changes no rows (the driver counts
	// changed rows, not matched rows), yet the record is owned and
	// present, so the update must still succeed.
	now := time.Now()
	mock.ExpectExec(`UPDATE page SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, tenant_id, website_id, slug, title, body, status, created_at, updated_at FROM page WHERE id = \? AND tenant_id = \? AND website_id IS NULL LIMIT 1`).
		WithArgs(id, tenantID).
		WillReturnRows(recordRows().
			AddRow(id.String(), tenantID.String(), nil,
				"about", "About", "…", "published", now, now))

	st, err := NewStore(db, "page")
	if err != nil {
		t.Fatal(err)
	}
	rec, err := st.Update(context.Background(), sc, id,
		Draft{Slug: "about", Title: "About", Body: "…", Status: "published"})
	if err != nil {
		t.Fatalf("no-op rewrite of an owned record must not fail: %v", err)
	}
	if rec.ID != id || rec.Title != "About" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDelete_OutsideScopeIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	sc := scope.ForWebsite(uuid.New(), uuid.New())

	mock.ExpectExec(`DELETE FROM media WHERE id = \? AND tenant_id = \? AND \(website_id IS NULL OR website_id = \?\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	st, err := NewStore(db, "media")
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Delete(context.Background(), sc, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestBySlug_WebsiteSpecificWins(t *testing.T) {
	db, mock := newMockDB(t)
	tenantID := uuid.New()
	websiteID := uuid.New()
	sc := scope.ForWebsite(tenantID, websiteID)

	now := time.Now()
	mock.ExpectQuery(`SELECT id, tenant_id, website_id, slug, title, body, status, created_at, updated_at FROM page WHERE slug = \? AND tenant_id = \? AND \(website_id IS NULL OR website_id = \?\) ORDER BY website_id IS NULL LIMIT 1`).
		WithArgs("home", tenantID, websiteID).
		WillReturnRows(recordRows().
			AddRow(uuid.New().String(), tenantID.String(), websiteID.String(),
				"home", "Site Home", "…", "published", now, now))

	st, err := NewStore(db, "page")
	if err != nil {
		t.Fatal(err)
	}
	rec, err := st.BySlug(context.Background(), sc, "home")
	if err != nil {
		t.Fatalf("BySlug: %v", err)
	}
	if rec.Title != "Site Home" {
		t.Fatalf("got %q, want the website-specific record", rec.Title)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestMissingTenant_NeverReachesSQL(t *testing.T) {
	db, mock := newMockDB(t)
	st, err := NewStore(db, "page")
	if err != nil {
		t.Fatal(err)
	}

	var sc scope.Scope
	if _, err := st.List(context.Background(), sc); !errors.Is(err, scope.ErrMissingTenant) {
		t.Fatalf("List err = %v, want ErrMissingTenant", err)
	}
	if _, err := st.Create(context.Background(), sc, Draft{Title: "x"}); !errors.Is(err, scope.ErrMissingTenant) {
		t.Fatalf("Create err = %v, want ErrMissingTenant", err)
	}
	if err := st.Delete(context.Background(), sc, uuid.New()); !errors.Is(err, scope.ErrMissingTenant) {
		t.Fatalf("Delete err = %v, want ErrMissingTenant", err)
	}
	// No expectations were registered: a scope without a tenant must not
	// produce a query at all.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
