package snapshot

import (
	"context"
	"database/sql"
	"math/big"

	"github.com/groblegark/vestd/internal/model"
	"github.com/groblegark/vestd/internal/store"
)

// mockStore is a minimal in-memory store.Store for snapshot tests.
type mockStore struct {
	pools         []*model.Pool
	beneficiaries []*model.Beneficiary
	balances      map[string]*big.Int
	claims        []*model.Claim
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) CreatePool(context.Context, *model.Pool) error { return nil }

func (m *mockStore) GetPool(_ context.Context, kind model.PoolKind) (*model.Pool, error) {
	for _, p := range m.pools {
		if p.Kind == kind {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) GetPoolForUpdate(ctx context.Context, kind model.PoolKind) (*model.Pool, error) {
	return m.GetPool(ctx, kind)
}

func (m *mockStore) ListPools(context.Context) ([]*model.Pool, error) { return m.pools, nil }

func (m *mockStore) UpdatePool(context.Context, *model.Pool) error { return nil }

func (m *mockStore) CreateBeneficiary(context.Context, *model.Beneficiary) error { return nil }

func (m *mockStore) GetBeneficiary(_ context.Context, address string) (*model.Beneficiary, error) {
	for _, b := range m.beneficiaries {
		if b.Address == address {
			return b, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) GetBeneficiaryForUpdate(ctx context.Context, address string) (*model.Beneficiary, error) {
	return m.GetBeneficiary(ctx, address)
}

func (m *mockStore) ListBeneficiaries(_ context.Context, kind model.PoolKind) ([]*model.Beneficiary, error) {
	var out []*model.Beneficiary
	for _, b := range m.beneficiaries {
		if b.Pool == kind {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateBeneficiary(context.Context, *model.Beneficiary) error { return nil }

func (m *mockStore) CountBeneficiaries(_ context.Context, kind model.PoolKind) (int, error) {
	bs, _ := m.ListBeneficiaries(context.Background(), kind)
	return len(bs), nil
}

func (m *mockStore) GetBalance(_ context.Context, account string) (*big.Int, error) {
	if bal, ok := m.balances[account]; ok {
		return new(big.Int).Set(bal), nil
	}
	return new(big.Int), nil
}

func (m *mockStore) AddBalance(context.Context, string, *big.Int) error { return nil }

func (m *mockStore) Transfer(context.Context, string, string, *big.Int) error { return nil }

func (m *mockStore) CreateClaim(context.Context, *model.Claim) error { return nil }

func (m *mockStore) ListClaims(_ context.Context, address string) ([]*model.Claim, error) {
	var out []*model.Claim
	for _, c := range m.claims {
		if c.Address == address {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockStore) RecordEvent(context.Context, *model.Event) error { return nil }

func (m *mockStore) ListEvents(context.Context, string) ([]*model.Event, error) { return nil, nil }

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }
