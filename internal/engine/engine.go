// Package engine implements the vesting ledger: pool initialization,
// beneficiary registration, and claim settlement on top of store.Store.
package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"github.com/jonboulle/clockwork"

	"github.com/groblegark/vestd/internal/curve"
	"github.com/groblegark/vestd/internal/model"
	"github.com/groblegark/vestd/internal/plan"
	"github.com/groblegark/vestd/internal/store"
)

// Ledger orchestrates all vesting operations. Mutations run inside a
// single store transaction with row locks on the touched pool and
// beneficiary, so concurrent claims and registrations serialize.
type Ledger struct {
	store store.Store
	clock clockwork.Clock
	plan  plan.Plan
	owner string
}

// New creates a Ledger. owner is the treasury account that funding
// credits and distribution initialization debits.
func New(s store.Store, clock clockwork.Clock, p plan.Plan, owner string) *Ledger {
	return &Ledger{store: s, clock: clock, plan: p, owner: owner}
}

// poolAccount is the internal balance account holding a pool's undistributed tokens.
func poolAccount(kind model.PoolKind) string {
	return "pool:" + string(kind)
}

// Fund credits the treasury account. Funding is accepted at any time;
// distribution sizing snapshots the balance at initialization.
func (l *Ledger) Fund(ctx context.Context, amount *model.Amount) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: fund amount must be positive", model.ErrInvalidInput)
	}
	return l.store.AddBalance(ctx, l.owner, amount.Int())
}

// InitializeDistribution sizes the team, investor and DAO pools from the
// treasury balance and moves each pool's share (vesting allocation plus
// unlock-bonus carve-out) into its pool account. It also creates the
// empty core pool. Runs exactly once.
func (l *Ledger) InitializeDistribution(ctx context.Context) ([]*model.Pool, error) {
	var pools []*model.Pool
	err := l.store.RunInTransaction(ctx, func(tx store.Store) error {
		existing, err := tx.ListPools(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return model.ErrAlreadyInitialized
		}

		balance, err := tx.GetBalance(ctx, l.owner)
		if err != nil {
			return err
		}
		if balance.Sign() <= 0 {
			return fmt.Errorf("%w: treasury is empty", model.ErrInsufficientContractFunds)
		}

		now := l.clock.Now().UTC()
		for _, kind := range []model.PoolKind{model.PoolTeam, model.PoolInvestor, model.PoolDAO} {
			pp, _ := l.plan.For(kind)
			alloc, bonus := pp.Size(balance)

			p := &model.Pool{
				Kind:             kind,
				TotalAllocation:  model.FromBig(alloc),
				TotalUnlockBonus: model.FromBig(bonus),
				DurationSeconds:  pp.DurationSeconds,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if err := tx.CreatePool(ctx, p); err != nil {
				return err
			}

			share := new(big.Int).Add(alloc, bonus)
			if share.Sign() > 0 {
				if err := tx.Transfer(ctx, l.owner, poolAccount(kind), share); err != nil {
					return err
				}
			}
			pools = append(pools, p)
		}

		// The core pool starts empty; each core grant funds it at
		// registration time.
		core := &model.Pool{
			Kind:             model.PoolCore,
			TotalAllocation:  model.NewAmount(0),
			TotalUnlockBonus: model.NewAmount(0),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tx.CreatePool(ctx, core); err != nil {
			return err
		}
		pools = append(pools, core)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pools, nil
}

// SetStartDate opens the vesting window for the team and DAO pools.
// Rejected once either pool's window has already opened.
func (l *Ledger) SetStartDate(ctx context.Context, ts int64) error {
	return l.setWindowStart(ctx, ts, model.PoolTeam, model.PoolDAO)
}

// SetDexLaunchDate opens the vesting window for the investor pool.
func (l *Ledger) SetDexLaunchDate(ctx context.Context, ts int64) error {
	return l.setWindowStart(ctx, ts, model.PoolInvestor)
}

func (l *Ledger) setWindowStart(ctx context.Context, ts int64, kinds ...model.PoolKind) error {
	now := l.clock.Now().Unix()
	if ts <= 0 {
		return fmt.Errorf("%w: start timestamp must be positive", model.ErrInvalidInput)
	}
	if ts <= now {
		return fmt.Errorf("%w: start timestamp %d is not in the future", model.ErrInvalidInput, ts)
	}

	return l.store.RunInTransaction(ctx, func(tx store.Store) error {
		for _, kind := range kinds {
			p, err := tx.GetPoolForUpdate(ctx, kind)
			if err != nil {
				return mapPoolErr(err)
			}
			if p.Started(now) {
				return fmt.Errorf("%w: %s pool vesting already started", model.ErrNotAllowedAfterVestingStarted, kind)
			}
			p.StartTimestamp = ts
			p.UpdatedAt = l.clock.Now().UTC()
			if err := tx.UpdatePool(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// Register adds an address to an even-split pool. Registration closes
// the moment the pool's window opens, and an address can belong to only
// one pool across the whole ledger.
func (l *Ledger) Register(ctx context.Context, kind model.PoolKind, address string) (*model.Beneficiary, error) {
	var b *model.Beneficiary
	err := l.store.RunInTransaction(ctx, func(tx store.Store) error {
		var err error
		b, err = l.registerInTx(ctx, tx, kind, address)
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// RegisterBatch registers several addresses in one transaction. Any
// failure rolls back the whole batch, so addresses past the failing one
// are never committed.
func (l *Ledger) RegisterBatch(ctx context.Context, kind model.PoolKind, addresses []string) ([]*model.Beneficiary, error) {
	if len(addresses) == 0 {
		return nil, fmt.Errorf("%w: empty address batch", model.ErrInvalidInput)
	}
	var out []*model.Beneficiary
	err := l.store.RunInTransaction(ctx, func(tx store.Store) error {
		out = out[:0]
		for _, addr := range addresses {
			b, err := l.registerInTx(ctx, tx, kind, addr)
			if err != nil {
				return fmt.Errorf("register %s: %w", addr, err)
			}
			out = append(out, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Ledger) registerInTx(ctx context.Context, tx store.Store, kind model.PoolKind, address string) (*model.Beneficiary, error) {
	if !kind.EvenSplit() {
		return nil, fmt.Errorf("%w: pool %q does not take registrations", model.ErrInvalidInput, kind)
	}
	addr, err := model.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	p, err := tx.GetPoolForUpdate(ctx, kind)
	if err != nil {
		return nil, mapPoolErr(err)
	}
	now := l.clock.Now()
	if p.Started(now.Unix()) {
		return nil, fmt.Errorf("%w: %s pool vesting already started", model.ErrNotAllowedAfterVestingStarted, kind)
	}
	// The duplicate check must come first: an already-registered address
	// gets AlreadyRegistered even when the DAO pool is full.
	if _, err := tx.GetBeneficiary(ctx, addr); err == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrAlreadyRegistered, addr)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if kind == model.PoolDAO {
		n, err := tx.CountBeneficiaries(ctx, model.PoolDAO)
		if err != nil {
			return nil, err
		}
		if n >= 1 {
			return nil, model.ErrOnlyOneDAOAllowed
		}
	}

	b := &model.Beneficiary{
		Address:      addr,
		Pool:         kind,
		Claimed:      model.NewAmount(0),
		RegisteredAt: now.UTC(),
		UpdatedAt:    now.UTC(),
	}
	if err := tx.CreateBeneficiary(ctx, b); err != nil {
		return nil, err
	}

	p.MemberCount++
	p.UpdatedAt = now.UTC()
	if err := tx.UpdatePool(ctx, p); err != nil {
		return nil, err
	}
	return b, nil
}

// RegisterCoreMember grants a fixed allocation on the member's own
// vesting window. The grant moves from the treasury into the core pool
// account immediately; the bonus carve-out follows the configured core
// bonus percentage.
func (l *Ledger) RegisterCoreMember(ctx context.Context, address string, grant *model.Amount, start, duration int64) (*model.Beneficiary, error) {
	addr, err := model.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}
	if grant.Sign() <= 0 {
		return nil, fmt.Errorf("%w: grant must be positive", model.ErrInvalidInput)
	}
	if start <= 0 || duration <= 0 {
		return nil, fmt.Errorf("%w: start and duration must be positive", model.ErrInvalidInput)
	}
	now := l.clock.Now()
	if now.Unix() >= start {
		return nil, fmt.Errorf("%w: member vesting window already open", model.ErrNotAllowedAfterVestingStarted)
	}

	var b *model.Beneficiary
	err = l.store.RunInTransaction(ctx, func(tx store.Store) error {
		p, err := tx.GetPoolForUpdate(ctx, model.PoolCore)
		if err != nil {
			return mapPoolErr(err)
		}

		if _, err := tx.GetBeneficiary(ctx, addr); err == nil {
			return fmt.Errorf("%w: %s", model.ErrAlreadyRegistered, addr)
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		bonus := curve.Bonus(grant.Int(), l.plan.CoreBonusPercent)
		alloc := new(big.Int).Sub(grant.Int(), bonus)

		if err := tx.Transfer(ctx, l.owner, poolAccount(model.PoolCore), grant.Int()); err != nil {
			return err
		}

		b = &model.Beneficiary{
			Address:         addr,
			Pool:            model.PoolCore,
			Allocation:      model.FromBig(alloc),
			UnlockBonus:     model.FromBig(bonus),
			Claimed:         model.NewAmount(0),
			StartTimestamp:  start,
			DurationSeconds: duration,
			RegisteredAt:    now.UTC(),
			UpdatedAt:       now.UTC(),
		}
		if err := tx.CreateBeneficiary(ctx, b); err != nil {
			return err
		}

		p.TotalAllocation = model.FromBig(new(big.Int).Add(p.TotalAllocation.Int(), alloc))
		p.TotalUnlockBonus = model.FromBig(new(big.Int).Add(p.TotalUnlockBonus.Int(), bonus))
		p.MemberCount++
		p.UpdatedAt = now.UTC()
		return tx.UpdatePool(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// mapPoolErr converts a missing pool row into ErrNotInitialized.
func mapPoolErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotInitialized
	}
	return err
}
