package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	"github.com/groblegark/vestd/internal/model"
)

// poolColumns is the column list used for SELECT statements on the pools table.
const poolColumns = `kind, total_allocation, total_unlock_bonus, member_count,
	start_timestamp, duration_seconds, created_at, updated_at`

// beneficiaryColumns is the column list used for SELECT statements on the
// beneficiaries table.
const beneficiaryColumns = `address, pool, allocation, unlock_bonus, claimed,
	has_claimed_unlocked, member_count_snapshot, start_timestamp,
	duration_seconds, registered_at, updated_at`

// claimColumns is the column list used for SELECT statements on the claims table.
const claimColumns = `id, address, pool, amount, bonus_amount, claimed_total, created_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreatePool(ctx context.Context, db executor, p *model.Pool) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO pools (
			kind, total_allocation, total_unlock_bonus, member_count,
			start_timestamp, duration_seconds, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(p.Kind),
		p.TotalAllocation.String(),
		p.TotalUnlockBonus.String(),
		p.MemberCount,
		p.StartTimestamp,
		p.DurationSeconds,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func queryGetPool(ctx context.Context, db executor, kind model.PoolKind) (*model.Pool, error) {
	row := db.QueryRowContext(ctx, `SELECT `+poolColumns+` FROM pools WHERE kind = $1`, string(kind))
	return scanPool(row)
}

func queryGetPoolForUpdate(ctx context.Context, db executor, kind model.PoolKind) (*model.Pool, error) {
	row := db.QueryRowContext(ctx, `SELECT `+poolColumns+` FROM pools WHERE kind = $1 FOR UPDATE`, string(kind))
	return scanPool(row)
}

func queryListPools(ctx context.Context, db executor) ([]*model.Pool, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+poolColumns+` FROM pools ORDER BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools []*model.Pool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

func queryUpdatePool(ctx context.Context, db executor, p *model.Pool) error {
	res, err := db.ExecContext(ctx, `
		UPDATE pools SET
			total_allocation = $2,
			total_unlock_bonus = $3,
			member_count = $4,
			start_timestamp = $5,
			duration_seconds = $6,
			updated_at = $7
		WHERE kind = $1`,
		string(p.Kind),
		p.TotalAllocation.String(),
		p.TotalUnlockBonus.String(),
		p.MemberCount,
		p.StartTimestamp,
		p.DurationSeconds,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryCreateBeneficiary(ctx context.Context, db executor, b *model.Beneficiary) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO beneficiaries (
			address, pool, allocation, unlock_bonus, claimed,
			has_claimed_unlocked, member_count_snapshot, start_timestamp,
			duration_seconds, registered_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.Address,
		string(b.Pool),
		nullAmount(b.Allocation),
		nullAmount(b.UnlockBonus),
		b.Claimed.String(),
		b.HasClaimedUnlocked,
		b.MemberCountSnapshot,
		b.StartTimestamp,
		b.DurationSeconds,
		b.RegisteredAt,
		b.UpdatedAt,
	)
	return err
}

func queryGetBeneficiary(ctx context.Context, db executor, address string) (*model.Beneficiary, error) {
	row := db.QueryRowContext(ctx, `SELECT `+beneficiaryColumns+` FROM beneficiaries WHERE address = $1`, address)
	return scanBeneficiary(row)
}

func queryGetBeneficiaryForUpdate(ctx context.Context, db executor, address string) (*model.Beneficiary, error) {
	row := db.QueryRowContext(ctx, `SELECT `+beneficiaryColumns+` FROM beneficiaries WHERE address = $1 FOR UPDATE`, address)
	return scanBeneficiary(row)
}

func queryListBeneficiaries(ctx context.Context, db executor, kind model.PoolKind) ([]*model.Beneficiary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+beneficiaryColumns+` FROM beneficiaries
		WHERE pool = $1 ORDER BY registered_at, address`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Beneficiary
	for rows.Next() {
		b, err := scanBeneficiary(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func queryUpdateBeneficiary(ctx context.Context, db executor, b *model.Beneficiary) error {
	res, err := db.ExecContext(ctx, `
		UPDATE beneficiaries SET
			pool = $2,
			allocation = $3,
			unlock_bonus = $4,
			claimed = $5,
			has_claimed_unlocked = $6,
			member_count_snapshot = $7,
			start_timestamp = $8,
			duration_seconds = $9,
			updated_at = $10
		WHERE address = $1`,
		b.Address,
		string(b.Pool),
		nullAmount(b.Allocation),
		nullAmount(b.UnlockBonus),
		b.Claimed.String(),
		b.HasClaimedUnlocked,
		b.MemberCountSnapshot,
		b.StartTimestamp,
		b.DurationSeconds,
		b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryCountBeneficiaries(ctx context.Context, db executor, kind model.PoolKind) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM beneficiaries WHERE pool = $1`, string(kind)).Scan(&count)
	return count, err
}

func queryGetBalance(ctx context.Context, db executor, account string) (*big.Int, error) {
	var amt model.Amount
	err := db.QueryRowContext(ctx,
		`SELECT amount FROM balances WHERE account = $1`, account).Scan(&amt)
	if err == sql.ErrNoRows {
		return new(big.Int), nil
	}
	if err != nil {
		return nil, err
	}
	return amt.Int(), nil
}

func queryAddBalance(ctx context.Context, db executor, account string, delta *big.Int) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO balances (account, amount, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (account) DO UPDATE
		SET amount = balances.amount + EXCLUDED.amount, updated_at = now()`,
		account, delta.String(),
	)
	return err
}

// queryTransfer moves amount from one account to another. The debit only
// matches when the source balance can cover the amount, so an overdraw
// surfaces as ErrInsufficientContractFunds instead of a negative balance.
func queryTransfer(ctx context.Context, db executor, from, to string, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return fmt.Errorf("transfer amount must be positive, got %s", amount)
	}
	res, err := db.ExecContext(ctx, `
		UPDATE balances SET amount = amount - $2, updated_at = now()
		WHERE account = $1 AND amount >= $2`,
		from, amount.String(),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrInsufficientContractFunds
	}
	return queryAddBalance(ctx, db, to, amount)
}

func queryCreateClaim(ctx context.Context, db executor, c *model.Claim) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO claims (id, address, pool, amount, bonus_amount, claimed_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID,
		c.Address,
		string(c.Pool),
		c.Amount.String(),
		c.BonusAmount.String(),
		c.ClaimedTotal.String(),
		c.CreatedAt,
	)
	return err
}

func queryListClaims(ctx context.Context, db executor, address string) ([]*model.Claim, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+claimColumns+` FROM claims
		WHERE address = $1 ORDER BY created_at`, address)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []*model.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (topic, address, actor, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		e.Topic,
		e.Address,
		e.Actor,
		jsonbBytes(e.Payload),
		e.CreatedAt,
	).Scan(&e.ID)
}

func queryListEvents(ctx context.Context, db executor, address string) ([]*model.Event, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, topic, address, actor, payload, created_at FROM events
		WHERE address = $1 ORDER BY id`, address)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
