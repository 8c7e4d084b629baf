package model

import "time"

// PoolKind identifies which vesting pool a beneficiary belongs to.
type PoolKind string

const (
	// PoolTeam, PoolInvestor and PoolDAO split a pool-level allocation
	// evenly across their registered members.
	PoolTeam     PoolKind = "team"
	PoolInvestor PoolKind = "investor"
	PoolDAO      PoolKind = "dao"

	// PoolCore is the fixed-allocation variant: each core member vests
	// their own grant on their own window.
	PoolCore PoolKind = "core"
)

// String returns the string representation of the pool kind.
func (k PoolKind) String() string {
	return string(k)
}

// IsValid checks whether the pool kind is a known value.
func (k PoolKind) IsValid() bool {
	switch k {
	case PoolTeam, PoolInvestor, PoolDAO, PoolCore:
		return true
	}
	return false
}

// EvenSplit reports whether the pool's allocation is split evenly across
// its members (as opposed to per-member fixed grants).
func (k PoolKind) EvenSplit() bool {
	switch k {
	case PoolTeam, PoolInvestor, PoolDAO:
		return true
	}
	return false
}

// Pool is a vesting pool aggregate. Sizing fields are written exactly
// once by distribution initialization; MemberCount is mutated only
// during the registration phase and is frozen once the pool's window
// opens.
type Pool struct {
	Kind             PoolKind  `json:"kind"`
	TotalAllocation  *Amount   `json:"total_allocation"`
	TotalUnlockBonus *Amount   `json:"total_unlock_bonus"`
	MemberCount      int       `json:"member_count"`
	StartTimestamp   int64     `json:"start_timestamp,omitempty"` // 0 = not set yet
	DurationSeconds  int64     `json:"duration_seconds"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Started reports whether the pool's vesting window has opened at ts.
func (p *Pool) Started(ts int64) bool {
	return p.StartTimestamp > 0 && ts >= p.StartTimestamp
}
