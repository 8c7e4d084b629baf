// Package snapshot exports the whole ledger as JSONL and ships periodic
// copies to external destinations such as S3.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/groblegark/vestd/internal/model"
	"github.com/groblegark/vestd/internal/store"
)

// header is the first JSONL record written by Export.
type header struct {
	Version          string    `json:"version"`
	Type             string    `json:"type"`
	Timestamp        time.Time `json:"timestamp"`
	PoolCount        int       `json:"pool_count"`
	BeneficiaryCount int       `json:"beneficiary_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// balanceRecord captures one account's balance at export time.
type balanceRecord struct {
	Account string        `json:"account"`
	Balance *model.Amount `json:"balance"`
}

// Export writes every pool, beneficiary, claim receipt, and account
// balance from the store as JSONL to w. Beneficiaries are sorted by
// address so consecutive exports diff cleanly.
func Export(ctx context.Context, s store.Store, w io.Writer) error {
	pools, err := s.ListPools(ctx)
	if err != nil {
		return fmt.Errorf("list pools: %w", err)
	}

	var beneficiaries []*model.Beneficiary
	for _, p := range pools {
		bs, err := s.ListBeneficiaries(ctx, p.Kind)
		if err != nil {
			return fmt.Errorf("list %s beneficiaries: %w", p.Kind, err)
		}
		beneficiaries = append(beneficiaries, bs...)
	}
	sort.Slice(beneficiaries, func(i, j int) bool {
		return beneficiaries[i].Address < beneficiaries[j].Address
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:          "1",
		Type:             "header",
		Timestamp:        time.Now().UTC(),
		PoolCount:        len(pools),
		BeneficiaryCount: len(beneficiaries),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, p := range pools {
		if err := enc.Encode(record{Type: "pool", Data: p}); err != nil {
			return fmt.Errorf("encode pool %s: %w", p.Kind, err)
		}
		bal, err := s.GetBalance(ctx, "pool:"+string(p.Kind))
		if err != nil {
			return fmt.Errorf("get pool %s balance: %w", p.Kind, err)
		}
		if err := enc.Encode(record{Type: "balance", Data: balanceRecord{
			Account: "pool:" + string(p.Kind),
			Balance: model.FromBig(bal),
		}}); err != nil {
			return fmt.Errorf("encode pool %s balance: %w", p.Kind, err)
		}
	}

	for _, b := range beneficiaries {
		if err := enc.Encode(record{Type: "beneficiary", Data: b}); err != nil {
			return fmt.Errorf("encode beneficiary %s: %w", b.Address, err)
		}
		claims, err := s.ListClaims(ctx, b.Address)
		if err != nil {
			return fmt.Errorf("list claims for %s: %w", b.Address, err)
		}
		for _, c := range claims {
			if err := enc.Encode(record{Type: "claim", Data: c}); err != nil {
				return fmt.Errorf("encode claim %s: %w", c.ID, err)
			}
		}
	}

	return nil
}
