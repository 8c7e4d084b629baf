package model

import (
	"encoding/json"
	"time"
)

// Claim is the receipt written for every claim that transferred tokens.
type Claim struct {
	ID           string    `json:"id"`
	Address      string    `json:"address"`
	Pool         PoolKind  `json:"pool"`
	Amount       *Amount   `json:"amount"`
	BonusAmount  *Amount   `json:"bonus_amount"`
	ClaimedTotal *Amount   `json:"claimed_total"`
	CreatedAt    time.Time `json:"created_at"`
}

// Event is a persisted ledger event, mirrored onto the event bus.
type Event struct {
	ID        int64           `json:"id"`
	Topic     string          `json:"topic"`
	Address   string          `json:"address,omitempty"`
	Actor     string          `json:"actor,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
