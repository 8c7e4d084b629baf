// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/vestd/internal/model"
	"github.com/groblegark/vestd/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreatePool(ctx context.Context, pool *model.Pool) error {
	return queryCreatePool(ctx, s.db, pool)
}

func (s *PostgresStore) GetPool(ctx context.Context, kind model.PoolKind) (*model.Pool, error) {
	return queryGetPool(ctx, s.db, kind)
}

func (s *PostgresStore) GetPoolForUpdate(ctx context.Context, kind model.PoolKind) (*model.Pool, error) {
	return queryGetPoolForUpdate(ctx, s.db, kind)
}

func (s *PostgresStore) ListPools(ctx context.Context) ([]*model.Pool, error) {
	return queryListPools(ctx, s.db)
}

func (s *PostgresStore) UpdatePool(ctx context.Context, pool *model.Pool) error {
	return queryUpdatePool(ctx, s.db, pool)
}

func (s *PostgresStore) CreateBeneficiary(ctx context.Context, b *model.Beneficiary) error {
	return queryCreateBeneficiary(ctx, s.db, b)
}

func (s *PostgresStore) GetBeneficiary(ctx context.Context, address string) (*model.Beneficiary, error) {
	return queryGetBeneficiary(ctx, s.db, address)
}

func (s *PostgresStore) GetBeneficiaryForUpdate(ctx context.Context, address string) (*model.Beneficiary, error) {
	return queryGetBeneficiaryForUpdate(ctx, s.db, address)
}

func (s *PostgresStore) ListBeneficiaries(ctx context.Context, kind model.PoolKind) ([]*model.Beneficiary, error) {
	return queryListBeneficiaries(ctx, s.db, kind)
}

func (s *PostgresStore) UpdateBeneficiary(ctx context.Context, b *model.Beneficiary) error {
	return queryUpdateBeneficiary(ctx, s.db, b)
}

func (s *PostgresStore) CountBeneficiaries(ctx context.Context, kind model.PoolKind) (int, error) {
	return queryCountBeneficiaries(ctx, s.db, kind)
}

func (s *PostgresStore) GetBalance(ctx context.Context, account string) (*big.Int, error) {
	return queryGetBalance(ctx, s.db, account)
}

func (s *PostgresStore) AddBalance(ctx context.Context, account string, delta *big.Int) error {
	return queryAddBalance(ctx, s.db, account, delta)
}

func (s *PostgresStore) Transfer(ctx context.Context, from, to string, amount *big.Int) error {
	return queryTransfer(ctx, s.db, from, to, amount)
}

func (s *PostgresStore) CreateClaim(ctx context.Context, claim *model.Claim) error {
	return queryCreateClaim(ctx, s.db, claim)
}

func (s *PostgresStore) ListClaims(ctx context.Context, address string) ([]*model.Claim, error) {
	return queryListClaims(ctx, s.db, address)
}

func (s *PostgresStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.db, event)
}

func (s *PostgresStore) ListEvents(ctx context.Context, address string) ([]*model.Event, error) {
	return queryListEvents(ctx, s.db, address)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreatePool(ctx context.Context, pool *model.Pool) error {
	return queryCreatePool(ctx, s.tx, pool)
}

func (s *txStore) GetPool(ctx context.Context, kind model.PoolKind) (*model.Pool, error) {
	return queryGetPool(ctx, s.tx, kind)
}

func (s *txStore) GetPoolForUpdate(ctx context.Context, kind model.PoolKind) (*model.Pool, error) {
	return queryGetPoolForUpdate(ctx, s.tx, kind)
}

func (s *txStore) ListPools(ctx context.Context) ([]*model.Pool, error) {
	return queryListPools(ctx, s.tx)
}

func (s *txStore) UpdatePool(ctx context.Context, pool *model.Pool) error {
	return queryUpdatePool(ctx, s.tx, pool)
}

func (s *txStore) CreateBeneficiary(ctx context.Context, b *model.Beneficiary) error {
	return queryCreateBeneficiary(ctx, s.tx, b)
}

func (s *txStore) GetBeneficiary(ctx context.Context, address string) (*model.Beneficiary, error) {
	return queryGetBeneficiary(ctx, s.tx, address)
}

func (s *txStore) GetBeneficiaryForUpdate(ctx context.Context, address string) (*model.Beneficiary, error) {
	return queryGetBeneficiaryForUpdate(ctx, s.tx, address)
}

func (s *txStore) ListBeneficiaries(ctx context.Context, kind model.PoolKind) ([]*model.Beneficiary, error) {
	return queryListBeneficiaries(ctx, s.tx, kind)
}

func (s *txStore) UpdateBeneficiary(ctx context.Context, b *model.Beneficiary) error {
	return queryUpdateBeneficiary(ctx, s.tx, b)
}

func (s *txStore) CountBeneficiaries(ctx context.Context, kind model.PoolKind) (int, error) {
	return queryCountBeneficiaries(ctx, s.tx, kind)
}

func (s *txStore) GetBalance(ctx context.Context, account string) (*big.Int, error) {
	return queryGetBalance(ctx, s.tx, account)
}

func (s *txStore) AddBalance(ctx context.Context, account string, delta *big.Int) error {
	return queryAddBalance(ctx, s.tx, account, delta)
}

func (s *txStore) Transfer(ctx context.Context, from, to string, amount *big.Int) error {
	return queryTransfer(ctx, s.tx, from, to, amount)
}

func (s *txStore) CreateClaim(ctx context.Context, claim *model.Claim) error {
	return queryCreateClaim(ctx, s.tx, claim)
}

func (s *txStore) ListClaims(ctx context.Context, address string) ([]*model.Claim, error) {
	return queryListClaims(ctx, s.tx, address)
}

func (s *txStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.tx, event)
}

func (s *txStore) ListEvents(ctx context.Context, address string) ([]*model.Event, error) {
	return queryListEvents(ctx, s.tx, address)
}

// RunInTransaction on a txStore reuses the already-open transaction;
// nesting does not open a savepoint.
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction-scoped store; the owning
// PostgresStore manages the connection.
func (s *txStore) Close() error {
	return nil
}
