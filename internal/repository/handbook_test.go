package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/pontush81/portal/internal/config"
	"github.com/pontush81/portal/internal/database"
	"github.com/pontush81/portal/internal/domain/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// setupTestDB starts a PostgreSQL container and applies the migrations.
// Returns a connection pool; cleanup runs via t.Cleanup.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("skipping integration test: TEST_INTEGRATION is not set")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("portal_test"),
		postgres.WithUsername("portal"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	// Environment for config.Load()
	os.Setenv("HB_DB_HOST", host)
	os.Setenv("HB_DB_PORT", port.Port())
	os.Setenv("HB_DB_NAME", "portal_test")
	os.Setenv("HB_DB_USER", "portal")
	os.Setenv("HB_DB_PASSWORD", "test-password")
	os.Setenv("HB_DB_SSL_MODE", "disable")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	return pool
}

func strPtr(s string) *string { return &s }

// testDraft returns a complete draft for insert tests.
func testDraft(name string) *model.HandbookDraft {
	return &model.HandbookDraft{
		AssociationName:   name,
		AssociationType:   model.AssociationBRF,
		Address:           "Testgatan 1",
		ZipCode:           strPtr("12345"),
		City:              strPtr("Stockholm"),
		ContactPerson:     strPtr("Anna Andersson"),
		ContactEmail:      strPtr("anna@example.se"),
		ContactPhone:      strPtr("070-1234567"),
		CustomerEmail:     "kund@example.se",
		SelectedSections:  []string{"intro", "rules", "economy"},
		CustomInformation: strPtr("Tvättstugan bokas via appen."),
	}
}

func TestHandbookCreateGet(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewHandbookRepository(pool)

	created, err := repo.Create(ctx, testDraft("Brf Testet"))
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if created.ID == "" {
		t.Error("ID not assigned")
	}
	if created.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if created.PaymentStatus != model.PaymentPending {
		t.Errorf("PaymentStatus = %q, want pending", created.PaymentStatus)
	}
	if created.Version != 1 {
		t.Errorf("Version = %d, want 1", created.Version)
	}
	if created.LogoURL != nil {
		t.Errorf("LogoURL = %v, want nil", *created.LogoURL)
	}

	got, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got.AssociationName != "Brf Testet" {
		t.Errorf("AssociationName = %q, want %q", got.AssociationName, "Brf Testet")
	}
	if got.AssociationType != model.AssociationBRF {
		t.Errorf("AssociationType = %q, want brf", got.AssociationType)
	}
	if len(got.SelectedSections) != 3 {
		t.Errorf("SelectedSections = %v, want 3 entries", got.SelectedSections)
	}
	if got.CustomInformation == nil || *got.CustomInformation != "Tvättstugan bokas via appen." {
		t.Errorf("CustomInformation not round-tripped: %v", got.CustomInformation)
	}
}

func TestHandbookGetNotFound(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewHandbookRepository(pool)

	_, err := repo.GetByID(ctx, uuid.New().String())
	if err != ErrNotFound {
		t.Errorf("GetByID() on unknown id: got %v, want ErrNotFound", err)
	}
}

func TestHandbookUpdate(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewHandbookRepository(pool)

	created, err := repo.Create(ctx, testDraft("Brf Uppdatering"))
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	status := model.PaymentCompleted
	updated, err := repo.Update(ctx, created.ID, &model.HandbookUpdate{
		PaymentStatus: &status,
		PaymentID:     strPtr("pi_test_123"),
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.PaymentStatus != model.PaymentCompleted {
		t.Errorf("PaymentStatus = %q, want completed", updated.PaymentStatus)
	}
	if updated.PaymentID == nil || *updated.PaymentID != "pi_test_123" {
		t.Errorf("PaymentID = %v, want pi_test_123", updated.PaymentID)
	}
	// Trigger bumps version and updated_at.
	if updated.Version != created.Version+1 {
		t.Errorf("Version = %d, want %d", updated.Version, created.Version+1)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt not advanced: %v → %v", created.UpdatedAt, updated.UpdatedAt)
	}
	// Untouched fields stay intact.
	if updated.AssociationName != "Brf Uppdatering" {
		t.Errorf("AssociationName changed to %q", updated.AssociationName)
	}

	// Updating an unknown id reports not found.
	if _, err := repo.Update(ctx, uuid.New().String(), &model.HandbookUpdate{PaymentID: strPtr("x")}); err != ErrNotFound {
		t.Errorf("Update() on unknown id: got %v, want ErrNotFound", err)
	}
}

func TestHandbookListPagination(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	repo := NewHandbookRepository(pool)

	for i := 0; i < 5; i++ {
		if _, err := repo.Create(ctx, testDraft(fmt.Sprintf("Brf Lista %d", i))); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		time.Sleep(10 * time.Millisecond) // distinct created_at for ordering
	}

	total, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if total != 5 {
		t.Errorf("Count() = %d, want 5", total)
	}

	page1, err := repo.List(ctx, 3, 0)
	if err != nil {
		t.Fatalf("List() page 1 error: %v", err)
	}
	if len(page1) != 3 {
		t.Fatalf("page 1 length = %d, want 3", len(page1))
	}
	// Newest first.
	if page1[0].AssociationName != "Brf Lista 4" {
		t.Errorf("page 1 first = %q, want Brf Lista 4", page1[0].AssociationName)
	}

	page2, err := repo.List(ctx, 3, 3)
	if err != nil {
		t.Fatalf("List() page 2 error: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("page 2 length = %d, want 2", len(page2))
	}
	if page2[1].AssociationName != "Brf Lista 0" {
		t.Errorf("page 2 last = %q, want Brf Lista 0", page2[1].AssociationName)
	}

	// Negative parameters are rejected without hitting the database.
	if _, err := repo.List(ctx, -1, 0); err == nil {
		t.Error("List() with negative limit should fail")
	}
	if _, err := repo.List(ctx, 10, -1); err == nil {
		t.Error("List() with negative offset should fail")
	}
}
