package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"stationery-catalog/internal/database"
	"stationery-catalog/internal/domain"
	"stationery-catalog/internal/repository"
	"stationery-catalog/internal/repository/postgres"
	"stationery-catalog/internal/repository/repositorytest"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "catalog"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := tcpostgres.Run(
		context.Background(),
		"postgres:15",
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername(dbUser),
		tcpostgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := dbContainer.ConnectionString(context.Background(), "sslmode=disable")
	if err != nil {
		return dbContainer.Terminate, err
	}

	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	if err := database.RunMigrations(testDB, zap.NewNop()); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Printf("postgres container unavailable, skipping adapter tests: %v", err)
		testDB = nil
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("could not teardown postgres container: %v", err)
		}
	}
	os.Exit(code)
}

func newStore(t *testing.T) repository.Store {
	t.Helper()
	if testDB == nil {
		t.Skip("docker is not available")
	}

	_, err := testDB.Exec(`TRUNCATE products, categories, ads, offers, orders, admins CASCADE`)
	if err != nil {
		t.Fatalf("Failed to reset tables: %v", err)
	}
	return postgres.New(testDB)
}

func TestStoreContract(t *testing.T) {
	repositorytest.Run(t, newStore)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	if testDB == nil {
		t.Skip("docker is not available")
	}
	if err := database.RunMigrations(testDB, zap.NewNop()); err != nil {
		t.Fatalf("second migration run failed: %v", err)
	}
}

func TestColumnOverflowIsValidationError(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	err := store.Categories().Create(ctx, &domain.Category{
		ID:        uuid.New(),
		Name:      strings.Repeat("x", 80),
		CreatedAt: time.Now().UTC(),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ValidationError for an 80 character name, got %v", err)
	}

	categories, err := store.Categories().List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("rejected category was stored: %v", categories)
	}
}
