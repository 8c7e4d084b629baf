// Package plan defines the distribution plan: how the funded balance is
// split into pools, which fraction of each pool is the immediate unlock
// bonus, and how long each pool vests. The compiled-in defaults match
// the standard launch plan; deployments can override them with a TOML
// file.
package plan

import (
	"fmt"
	"math/big"

	"github.com/BurntSushi/toml"

	"github.com/groblegark/vestd/internal/curve"
	"github.com/groblegark/vestd/internal/model"
)

// PoolPlan sizes one pool.
type PoolPlan struct {
	// PercentOfBalance is this pool's share of the funded balance.
	PercentOfBalance int64 `toml:"percent_of_balance"`
	// BonusPercent is the share of the pool carved out as the unlock
	// bonus pool, released on first claim rather than linearly.
	BonusPercent int64 `toml:"bonus_percent"`
	// DurationSeconds is the length of the linear vesting window.
	DurationSeconds int64 `toml:"duration_seconds"`
}

// Plan is the full distribution plan.
type Plan struct {
	Team     PoolPlan `toml:"team"`
	Investor PoolPlan `toml:"investor"`
	DAO      PoolPlan `toml:"dao"`

	// CoreBonusPercent is the unlock-bonus percentage applied to each
	// core member's own grant.
	CoreBonusPercent int64 `toml:"core_bonus_percent"`
}

const yearSeconds = 365 * 24 * 60 * 60

// Default returns the standard plan: team 20% of the balance, investors
// and DAO 5% each; team and investor pools carve 5% of themselves as the
// unlock bonus; the DAO vests its whole allocation linearly (no bonus)
// unless overridden.
func Default() Plan {
	return Plan{
		Team:             PoolPlan{PercentOfBalance: 20, BonusPercent: 5, DurationSeconds: 2 * yearSeconds},
		Investor:         PoolPlan{PercentOfBalance: 5, BonusPercent: 5, DurationSeconds: yearSeconds},
		DAO:              PoolPlan{PercentOfBalance: 5, BonusPercent: 0, DurationSeconds: yearSeconds},
		CoreBonusPercent: 5,
	}
}

// Load reads a plan from a TOML file, starting from the defaults so a
// partial file only overrides what it names.
func Load(path string) (Plan, error) {
	p := Default()
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Plan{}, fmt.Errorf("decode plan %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// Validate checks percent ranges and that the pool shares do not exceed
// the whole balance.
func (p Plan) Validate() error {
	sum := int64(0)
	for _, pp := range []struct {
		name string
		pp   PoolPlan
	}{
		{"team", p.Team},
		{"investor", p.Investor},
		{"dao", p.DAO},
	} {
		if pp.pp.PercentOfBalance < 0 || pp.pp.PercentOfBalance > 100 {
			return fmt.Errorf("plan: %s percent_of_balance out of range: %d", pp.name, pp.pp.PercentOfBalance)
		}
		if pp.pp.BonusPercent < 0 || pp.pp.BonusPercent > 100 {
			return fmt.Errorf("plan: %s bonus_percent out of range: %d", pp.name, pp.pp.BonusPercent)
		}
		if pp.pp.DurationSeconds <= 0 {
			return fmt.Errorf("plan: %s duration_seconds must be positive", pp.name)
		}
		sum += pp.pp.PercentOfBalance
	}
	if sum > 100 {
		return fmt.Errorf("plan: pool shares sum to %d%%, exceeding the balance", sum)
	}
	if p.CoreBonusPercent < 0 || p.CoreBonusPercent > 100 {
		return fmt.Errorf("plan: core_bonus_percent out of range: %d", p.CoreBonusPercent)
	}
	return nil
}

// For returns the pool plan for an even-split pool kind.
func (p Plan) For(kind model.PoolKind) (PoolPlan, bool) {
	switch kind {
	case model.PoolTeam:
		return p.Team, true
	case model.PoolInvestor:
		return p.Investor, true
	case model.PoolDAO:
		return p.DAO, true
	}
	return PoolPlan{}, false
}

// Size computes the pool's total allocation and unlock-bonus carve-out
// from the funded balance. The bonus is carved out of the pool, so
// totalAllocation + totalBonus equals the pool's share of the balance.
func (pp PoolPlan) Size(balance *big.Int) (totalAllocation, totalBonus *big.Int) {
	share := curve.Bonus(balance, pp.PercentOfBalance)
	totalBonus = curve.Bonus(share, pp.BonusPercent)
	totalAllocation = new(big.Int).Sub(share, totalBonus)
	return totalAllocation, totalBonus
}
