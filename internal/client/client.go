// Package client provides a transport-agnostic interface for the vestd service
// and an HTTP/JSON implementation that talks to the vestd REST API.
package client

import (
	"context"
	"io"

	"github.com/groblegark/vestd/internal/model"
)

// VestingClient is the interface that all vestd CLI commands use to
// communicate with the vesting server. It is implemented by HTTPClient
// (default) and can be backed by any transport.
type VestingClient interface {
	// Admin operations
	Fund(ctx context.Context, amount *model.Amount, actor string) (*model.Amount, error)
	InitializeDistribution(ctx context.Context, actor string) ([]*model.Pool, error)
	SetStartDate(ctx context.Context, ts int64, actor string) error
	SetDexLaunchDate(ctx context.Context, ts int64, actor string) error

	// Registration
	Register(ctx context.Context, pool, address, actor string) (*model.Beneficiary, error)
	RegisterBatch(ctx context.Context, pool string, addresses []string, actor string) ([]*model.Beneficiary, error)
	RegisterCoreMember(ctx context.Context, req *RegisterCoreMemberRequest) (*model.Beneficiary, error)

	// Claims
	Claim(ctx context.Context, address string) (*model.Claim, error)
	Claimable(ctx context.Context, address string, at int64) (*ClaimableResponse, error)

	// Views
	ListPools(ctx context.Context) ([]*model.Pool, error)
	ListBeneficiaries(ctx context.Context, pool string) ([]*model.Beneficiary, error)
	GetBeneficiary(ctx context.Context, address string) (*model.Beneficiary, error)
	ListClaims(ctx context.Context, address string) ([]*model.Claim, error)
	ListEvents(ctx context.Context, address string) ([]*model.Event, error)
	GetBalance(ctx context.Context, account string) (*BalanceResponse, error)

	// Export streams the whole ledger as JSONL to w.
	Export(ctx context.Context, w io.Writer) error

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// RegisterCoreMemberRequest holds parameters for registering a core member.
type RegisterCoreMemberRequest struct {
	Address         string        `json:"address"`
	Grant           *model.Amount `json:"grant"`
	StartTimestamp  int64         `json:"start_timestamp"`
	DurationSeconds int64         `json:"duration_seconds"`
	Actor           string        `json:"actor,omitempty"`
}

// ClaimableResponse is the response from Claimable.
type ClaimableResponse struct {
	Address   string        `json:"address"`
	Claimable *model.Amount `json:"claimable"`
	At        int64         `json:"at,omitempty"`
}

// BalanceResponse is the response from GetBalance.
type BalanceResponse struct {
	Account string        `json:"account"`
	Balance *model.Amount `json:"balance"`
}
