package store

import (
	"context"
	"math/big"

	"github.com/groblegark/vestd/internal/model"
)

// Store defines the persistence interface for the vesting ledger.
type Store interface {
	// Pools
	CreatePool(ctx context.Context, pool *model.Pool) error
	GetPool(ctx context.Context, kind model.PoolKind) (*model.Pool, error)
	GetPoolForUpdate(ctx context.Context, kind model.PoolKind) (*model.Pool, error)
	ListPools(ctx context.Context) ([]*model.Pool, error)
	UpdatePool(ctx context.Context, pool *model.Pool) error

	// Beneficiaries
	CreateBeneficiary(ctx context.Context, b *model.Beneficiary) error
	GetBeneficiary(ctx context.Context, address string) (*model.Beneficiary, error)
	GetBeneficiaryForUpdate(ctx context.Context, address string) (*model.Beneficiary, error)
	ListBeneficiaries(ctx context.Context, kind model.PoolKind) ([]*model.Beneficiary, error)
	UpdateBeneficiary(ctx context.Context, b *model.Beneficiary) error
	CountBeneficiaries(ctx context.Context, kind model.PoolKind) (int, error)

	// Balances
	GetBalance(ctx context.Context, account string) (*big.Int, error)
	AddBalance(ctx context.Context, account string, delta *big.Int) error
	Transfer(ctx context.Context, from, to string, amount *big.Int) error

	// Claims
	CreateClaim(ctx context.Context, claim *model.Claim) error
	ListClaims(ctx context.Context, address string) ([]*model.Claim, error)

	// Events
	RecordEvent(ctx context.Context, event *model.Event) error
	ListEvents(ctx context.Context, address string) ([]*model.Event, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
