package events

import (
	"context"

	"github.com/groblegark/vestd/internal/model"
)

// Event topic constants
const (
	TopicFunded                  = "vesting.funded"
	TopicDistributionInitialized = "vesting.distribution.initialized"
	TopicStartDateSet            = "vesting.start_date.set"
	TopicDexLaunchDateSet        = "vesting.dex_launch_date.set"
	TopicBeneficiaryRegistered   = "vesting.beneficiary.registered"
	TopicCoreMemberRegistered    = "vesting.core_member.registered"
	TopicClaimed                 = "vesting.claimed"
)

// Event types

type Funded struct {
	Amount *model.Amount `json:"amount"`
	Actor  string        `json:"actor,omitempty"`
}

type DistributionInitialized struct {
	Pools []*model.Pool `json:"pools"`
	Actor string        `json:"actor,omitempty"`
}

type StartDateSet struct {
	Pools          []string `json:"pools"`
	StartTimestamp int64    `json:"start_timestamp"`
	Actor          string   `json:"actor,omitempty"`
}

type BeneficiaryRegistered struct {
	Beneficiary *model.Beneficiary `json:"beneficiary"`
	Actor       string             `json:"actor,omitempty"`
}

type CoreMemberRegistered struct {
	Beneficiary *model.Beneficiary `json:"beneficiary"`
	Grant       *model.Amount      `json:"grant"`
	Actor       string             `json:"actor,omitempty"`
}

type Claimed struct {
	Claim *model.Claim `json:"claim"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
