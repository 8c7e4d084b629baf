package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/groblegark/vestd/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// nullAmount converts a possibly-nil Amount into a driver argument; nil
// maps to SQL NULL (an even-split beneficiary before allocation).
func nullAmount(a *model.Amount) any {
	if a == nil {
		return nil
	}
	return a.String()
}

// jsonbBytes converts a raw JSON payload into a driver argument, mapping
// an empty payload to SQL NULL.
func jsonbBytes(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

// scanPool scans a single row into a model.Pool. The row must contain
// columns in the order defined by poolColumns.
func scanPool(row scannable) (*model.Pool, error) {
	var p model.Pool
	var totalAllocation, totalBonus model.Amount

	err := row.Scan(
		&p.Kind,
		&totalAllocation,
		&totalBonus,
		&p.MemberCount,
		&p.StartTimestamp,
		&p.DurationSeconds,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.TotalAllocation = &totalAllocation
	p.TotalUnlockBonus = &totalBonus
	return &p, nil
}

// scanBeneficiary scans a single row into a model.Beneficiary. The row
// must contain columns in the order defined by beneficiaryColumns.
func scanBeneficiary(row scannable) (*model.Beneficiary, error) {
	var b model.Beneficiary
	var (
		allocation  sql.NullString
		unlockBonus sql.NullString
		claimed     model.Amount
	)

	err := row.Scan(
		&b.Address,
		&b.Pool,
		&allocation,
		&unlockBonus,
		&claimed,
		&b.HasClaimedUnlocked,
		&b.MemberCountSnapshot,
		&b.StartTimestamp,
		&b.DurationSeconds,
		&b.RegisteredAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if allocation.Valid {
		a, err := model.ParseAmount(allocation.String)
		if err != nil {
			return nil, err
		}
		b.Allocation = a
	}
	if unlockBonus.Valid {
		a, err := model.ParseAmount(unlockBonus.String)
		if err != nil {
			return nil, err
		}
		b.UnlockBonus = a
	}
	b.Claimed = &claimed
	return &b, nil
}

// scanClaim scans a single row into a model.Claim. The row must contain
// columns in the order defined by claimColumns.
func scanClaim(row scannable) (*model.Claim, error) {
	var c model.Claim
	var amount, bonus, total model.Amount

	err := row.Scan(
		&c.ID,
		&c.Address,
		&c.Pool,
		&amount,
		&bonus,
		&total,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Amount = &amount
	c.BonusAmount = &bonus
	c.ClaimedTotal = &total
	return &c, nil
}

func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var payload []byte

	err := row.Scan(
		&e.ID,
		&e.Topic,
		&e.Address,
		&e.Actor,
		&payload,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
	}
	return &e, nil
}
