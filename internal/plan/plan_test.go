package plan

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/groblegark/vestd/internal/model"
)

func TestDefaultSizing(t *testing.T) {
	p := Default()
	balance := big.NewInt(1_000_000_000)

	alloc, bonus := p.Team.Size(balance)
	if bonus.Cmp(big.NewInt(10_000_000)) != 0 {
		t.Fatalf("team bonus = %s, want 10000000", bonus)
	}
	if alloc.Cmp(big.NewInt(190_000_000)) != 0 {
		t.Fatalf("team allocation = %s, want 190000000", alloc)
	}

	alloc, bonus = p.Investor.Size(balance)
	if bonus.Cmp(big.NewInt(2_500_000)) != 0 {
		t.Fatalf("investor bonus = %s, want 2500000", bonus)
	}
	if alloc.Cmp(big.NewInt(47_500_000)) != 0 {
		t.Fatalf("investor allocation = %s, want 47500000", alloc)
	}

	alloc, bonus = p.DAO.Size(balance)
	if bonus.Sign() != 0 {
		t.Fatalf("dao bonus = %s, want 0", bonus)
	}
	if alloc.Cmp(big.NewInt(50_000_000)) != 0 {
		t.Fatalf("dao allocation = %s, want 50000000", alloc)
	}
}

func TestValidate(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default plan invalid: %v", err)
	}

	bad := Default()
	bad.Team.PercentOfBalance = 101
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for percent over 100")
	}

	bad = Default()
	bad.Investor.DurationSeconds = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for zero duration")
	}

	bad = Default()
	bad.Team.PercentOfBalance = 60
	bad.Investor.PercentOfBalance = 60
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for shares over 100%")
	}

	bad = Default()
	bad.CoreBonusPercent = -1
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for negative core bonus")
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.toml")
	data := `
[dao]
percent_of_balance = 5
bonus_percent = 5
duration_seconds = 31536000
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.DAO.BonusPercent != 5 {
		t.Fatalf("dao bonus_percent = %d, want 5", p.DAO.BonusPercent)
	}
	// Untouched sections keep their defaults.
	if p.Team.PercentOfBalance != 20 {
		t.Fatalf("team percent = %d, want 20", p.Team.PercentOfBalance)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.toml")
	data := `
[team]
percent_of_balance = 200
duration_seconds = 1
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestFor(t *testing.T) {
	p := Default()
	if _, ok := p.For(model.PoolTeam); !ok {
		t.Fatal("team plan missing")
	}
	if _, ok := p.For(model.PoolCore); ok {
		t.Fatal("core is not an even-split pool")
	}
}
