package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"github.com/groblegark/vestd/internal/curve"
	"github.com/groblegark/vestd/internal/idgen"
	"github.com/groblegark/vestd/internal/model"
	"github.com/groblegark/vestd/internal/store"
)

// Claim settles everything the address is entitled to right now: the
// linearly released portion of its allocation plus, on the first claim,
// the unlock bonus. A repeat claim with nothing newly released succeeds
// with a zero amount and moves no tokens.
func (l *Ledger) Claim(ctx context.Context, address string) (*model.Claim, error) {
	addr, err := model.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	var receipt *model.Claim
	err = l.store.RunInTransaction(ctx, func(tx store.Store) error {
		b, err := tx.GetBeneficiaryForUpdate(ctx, addr)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", model.ErrNotRegistered, addr)
		}
		if err != nil {
			return err
		}

		p, err := tx.GetPoolForUpdate(ctx, b.Pool)
		if err != nil {
			return mapPoolErr(err)
		}

		now := l.clock.Now()
		start, duration := window(b, p)
		if start == 0 || now.Unix() < start {
			return fmt.Errorf("%w: window opens at %d", model.ErrNotVestingPeriod, start)
		}

		// Even-split members get their allocation assigned on first
		// claim, dividing the pool by the member count as it stood when
		// the window closed to registrations.
		if !b.Allocated() {
			b.Allocation = model.FromBig(evenShare(p.TotalAllocation.Int(), p.MemberCount))
			b.UnlockBonus = model.FromBig(evenShare(p.TotalUnlockBonus.Int(), p.MemberCount))
			b.MemberCountSnapshot = p.MemberCount
		}

		released := curve.Released(b.Allocation.Int(), start, duration, now.Unix())
		entitled := new(big.Int).Add(released, b.UnlockBonus.Int())
		payout := new(big.Int).Sub(entitled, b.Claimed.Int())
		if payout.Sign() < 0 {
			payout.SetInt64(0)
		}

		bonusPart := new(big.Int)
		if !b.HasClaimedUnlocked {
			bonusPart.Set(b.UnlockBonus.Int())
			b.HasClaimedUnlocked = true
		}

		if payout.Sign() == 0 {
			// Nothing newly vested. Persist the lazy allocation and the
			// unlock flag, but write no receipt and move no tokens.
			b.UpdatedAt = now.UTC()
			if err := tx.UpdateBeneficiary(ctx, b); err != nil {
				return err
			}
			receipt = &model.Claim{
				Address:      addr,
				Pool:         b.Pool,
				Amount:       model.NewAmount(0),
				BonusAmount:  model.NewAmount(0),
				ClaimedTotal: b.Claimed,
				CreatedAt:    now.UTC(),
			}
			return nil
		}

		if err := tx.Transfer(ctx, poolAccount(b.Pool), addr, payout); err != nil {
			return err
		}

		b.Claimed = model.FromBig(new(big.Int).Add(b.Claimed.Int(), payout))
		b.UpdatedAt = now.UTC()
		if err := tx.UpdateBeneficiary(ctx, b); err != nil {
			return err
		}

		id, err := idgen.Generate()
		if err != nil {
			return err
		}
		receipt = &model.Claim{
			ID:           id,
			Address:      addr,
			Pool:         b.Pool,
			Amount:       model.FromBig(payout),
			BonusAmount:  model.FromBig(bonusPart),
			ClaimedTotal: b.Claimed,
			CreatedAt:    now.UTC(),
		}
		return tx.CreateClaim(ctx, receipt)
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Claimable returns what the address could claim right now.
func (l *Ledger) Claimable(ctx context.Context, address string) (*model.Amount, error) {
	return l.ClaimableAt(ctx, address, l.clock.Now().Unix())
}

// ClaimableAt projects the claimable amount at an arbitrary timestamp
// without mutating anything. For an even-split member whose allocation
// has not been assigned yet, the projection divides by the current
// member count.
func (l *Ledger) ClaimableAt(ctx context.Context, address string, ts int64) (*model.Amount, error) {
	addr, err := model.NormalizeAddress(address)
	if err != nil {
		return nil, err
	}

	b, err := l.store.GetBeneficiary(ctx, addr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", model.ErrNotRegistered, addr)
	}
	if err != nil {
		return nil, err
	}

	p, err := l.store.GetPool(ctx, b.Pool)
	if err != nil {
		return nil, mapPoolErr(err)
	}

	start, duration := window(b, p)
	if start == 0 || ts < start {
		return model.NewAmount(0), nil
	}

	alloc := b.Allocation.Int()
	bonus := b.UnlockBonus.Int()
	if !b.Allocated() {
		alloc = evenShare(p.TotalAllocation.Int(), p.MemberCount)
		bonus = evenShare(p.TotalUnlockBonus.Int(), p.MemberCount)
	}

	released := curve.Released(alloc, start, duration, ts)
	entitled := new(big.Int).Add(released, bonus)
	payout := new(big.Int).Sub(entitled, b.Claimed.Int())
	if payout.Sign() < 0 {
		payout.SetInt64(0)
	}
	return model.FromBig(payout), nil
}

// window resolves the vesting window for a beneficiary: core members
// carry their own, everyone else inherits the pool's.
func window(b *model.Beneficiary, p *model.Pool) (start, duration int64) {
	if b.StartTimestamp > 0 {
		return b.StartTimestamp, b.DurationSeconds
	}
	return p.StartTimestamp, p.DurationSeconds
}

// evenShare divides a pool total across members with floor division.
func evenShare(total *big.Int, members int) *big.Int {
	if members <= 0 {
		return new(big.Int)
	}
	return new(big.Int).Quo(total, big.NewInt(int64(members)))
}
