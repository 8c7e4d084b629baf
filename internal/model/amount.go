package model

import (
	"database/sql/driver"
	"fmt"
	"math/big"
)

// Amount is an arbitrary-precision token quantity in the smallest token
// unit. It marshals to JSON as a decimal string (token amounts routinely
// exceed float64 precision) and maps to a NUMERIC column.
type Amount struct {
	i big.Int
}

// NewAmount returns an Amount holding v.
func NewAmount(v int64) *Amount {
	a := &Amount{}
	a.i.SetInt64(v)
	return a
}

// ParseAmount parses a non-negative base-10 amount.
func ParseAmount(s string) (*Amount, error) {
	a := &Amount{}
	if _, ok := a.i.SetString(s, 10); !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if a.i.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", s)
	}
	return a, nil
}

// FromBig returns an Amount holding a copy of v.
func FromBig(v *big.Int) *Amount {
	a := &Amount{}
	a.i.Set(v)
	return a
}

// Int returns a copy of the amount as a big.Int, safe for the caller to
// mutate.
func (a *Amount) Int() *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(&a.i)
}

func (a *Amount) String() string {
	if a == nil {
		return "0"
	}
	return a.i.String()
}

func (a *Amount) Sign() int {
	if a == nil {
		return 0
	}
	return a.i.Sign()
}

// Cmp compares a and b; nil is treated as zero.
func (a *Amount) Cmp(b *Amount) int {
	return a.Int().Cmp(b.Int())
}

// IsZero reports whether the amount is zero (or nil).
func (a *Amount) IsZero() bool {
	return a.Sign() == 0
}

func (a *Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	a.i.Set(&parsed.i)
	return nil
}

// Value implements driver.Valuer; amounts are sent to NUMERIC columns as
// decimal strings.
func (a *Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

// Scan implements sql.Scanner for NUMERIC columns.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		a.i.SetInt64(0)
		return nil
	case []byte:
		return a.setString(string(v))
	case string:
		return a.setString(v)
	case int64:
		a.i.SetInt64(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Amount", src)
	}
}

func (a *Amount) setString(s string) error {
	if _, ok := a.i.SetString(s, 10); !ok {
		return fmt.Errorf("invalid amount %q", s)
	}
	return nil
}
