package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/groblegark/vestd/internal/model"
)

// Pools lists every pool with its sizing and window.
func (l *Ledger) Pools(ctx context.Context) ([]*model.Pool, error) {
	pools, err := l.store.ListPools(ctx)
	if err != nil {
		return nil, err
	}
	if len(pools) == 0 {
		return nil, model.ErrNotInitialized
	}
	return pools, nil
}

// Beneficiary returns the vesting record for an address.
func (l *Ledger) Beneficiary(ctx context.Context, address string) (*model.Beneficiary, error) {
	addr, err := model.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	b, err := l.store.GetBeneficiary(ctx, addr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", model.ErrNotRegistered, addr)
	}
	return b, err
}

// BeneficiariesOf lists the members of a pool in registration order.
func (l *Ledger) BeneficiariesOf(ctx context.Context, kind model.PoolKind) ([]*model.Beneficiary, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown pool %q", model.ErrInvalidInput, kind)
	}
	return l.store.ListBeneficiaries(ctx, kind)
}

// Claims lists the claim receipts for an address, oldest first.
func (l *Ledger) Claims(ctx context.Context, address string) ([]*model.Claim, error) {
	addr, err := model.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	return l.store.ListClaims(ctx, addr)
}

// Balance returns the token balance of any account: the treasury, a
// pool account, or a beneficiary address.
func (l *Ledger) Balance(ctx context.Context, account string) (*model.Amount, error) {
	if account == "" {
		return nil, fmt.Errorf("%w: empty account", model.ErrInvalidInput)
	}
	bal, err := l.store.GetBalance(ctx, account)
	if err != nil {
		return nil, err
	}
	return model.FromBig(bal), nil
}

// Owner returns the treasury account name.
func (l *Ledger) Owner() string {
	return l.owner
}
