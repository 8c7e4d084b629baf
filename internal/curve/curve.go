// Package curve implements the release curve shared by every vesting
// pool and schedule: a linear unlock over [start, start+duration] with
// floor division, so rounding never over-releases.
package curve

import "math/big"

// Released returns the vested portion of allocation at the given unix
// timestamp. Before start it returns zero (callers gate the
// not-yet-vesting case separately); at or after start+duration it
// returns the full allocation.
func Released(allocation *big.Int, start, duration, now int64) *big.Int {
	if allocation == nil || allocation.Sign() <= 0 {
		return new(big.Int)
	}
	if now < start {
		return new(big.Int)
	}
	if duration <= 0 || now >= start+duration {
		return new(big.Int).Set(allocation)
	}

	elapsed := big.NewInt(now - start)
	released := new(big.Int).Mul(allocation, elapsed)
	return released.Div(released, big.NewInt(duration))
}

// Bonus returns percent% of total, floor division. A zero percent yields
// zero without allocating intermediate products.
func Bonus(total *big.Int, percent int64) *big.Int {
	if total == nil || percent <= 0 {
		return new(big.Int)
	}
	b := new(big.Int).Mul(total, big.NewInt(percent))
	return b.Div(b, big.NewInt(100))
}
