package model

import "time"

// Beneficiary is the per-address vesting record. An address belongs to
// exactly one pool across the whole system; the store enforces this with
// a primary key on the address.
type Beneficiary struct {
	Address string   `json:"address"`
	Pool    PoolKind `json:"pool"`

	// Allocation is the linearly vesting amount, excluding the unlock
	// bonus. For even-split pools it is nil until the first claim, when
	// it is assigned as totalAllocation / memberCount. Core members get
	// it at registration.
	Allocation  *Amount `json:"allocation,omitempty"`
	UnlockBonus *Amount `json:"unlock_bonus,omitempty"`

	// Claimed is the cumulative amount already transferred. It never
	// decreases and never exceeds Allocation + UnlockBonus.
	Claimed *Amount `json:"claimed"`

	// HasClaimedUnlocked is set exactly once, on the first successful
	// claim after the vesting window opens.
	HasClaimedUnlocked bool `json:"has_claimed_unlocked"`

	// MemberCountSnapshot records the divisor used when Allocation was
	// lazily assigned. Zero for core members.
	MemberCountSnapshot int `json:"member_count_snapshot,omitempty"`

	// StartTimestamp and DurationSeconds override the pool window for
	// core members; zero means the pool's window applies.
	StartTimestamp  int64 `json:"start_timestamp,omitempty"`
	DurationSeconds int64 `json:"duration_seconds,omitempty"`

	RegisteredAt time.Time `json:"registered_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Allocated reports whether the beneficiary's allocation has been
// assigned (at registration for core members, on first claim otherwise).
func (b *Beneficiary) Allocated() bool {
	return b.Allocation != nil
}

// Remaining returns allocation + bonus - claimed, clamped at zero.
func (b *Beneficiary) Remaining() *Amount {
	total := b.Allocation.Int()
	total.Add(total, b.UnlockBonus.Int())
	total.Sub(total, b.Claimed.Int())
	if total.Sign() < 0 {
		return NewAmount(0)
	}
	return FromBig(total)
}
