package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/groblegark/vestd/internal/events"
	"github.com/groblegark/vestd/internal/model"
	"github.com/groblegark/vestd/internal/snapshot"
)

type fundInput struct {
	Amount *model.Amount `json:"amount"`
	Actor  string        `json:"actor,omitempty"`
}

type actorInput struct {
	Actor string `json:"actor,omitempty"`
}

type startDateInput struct {
	StartTimestamp int64  `json:"start_timestamp"`
	Actor          string `json:"actor,omitempty"`
}

type registerInput struct {
	Pool    string `json:"pool"`
	Address string `json:"address"`
	Actor   string `json:"actor,omitempty"`
}

type registerBatchInput struct {
	Pool      string   `json:"pool"`
	Addresses []string `json:"addresses"`
	Actor     string   `json:"actor,omitempty"`
}

type coreMemberInput struct {
	Address         string        `json:"address"`
	Grant           *model.Amount `json:"grant"`
	StartTimestamp  int64         `json:"start_timestamp"`
	DurationSeconds int64         `json:"duration_seconds"`
	Actor           string        `json:"actor,omitempty"`
}

type claimInput struct {
	Address string `json:"address"`
}

// handleFund handles POST /v1/fund.
func (s *Server) handleFund(w http.ResponseWriter, r *http.Request) {
	var in fundInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.ledger.Fund(r.Context(), in.Amount); err != nil {
		writeLedgerError(w, err)
		return
	}

	s.recordAndPublish(r.Context(), events.TopicFunded, "", in.Actor,
		events.Funded{Amount: in.Amount, Actor: in.Actor})

	balance, err := s.ledger.Balance(r.Context(), s.ledger.Owner())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
}

// handleInitializeDistribution handles POST /v1/distribution.
func (s *Server) handleInitializeDistribution(w http.ResponseWriter, r *http.Request) {
	var in actorInput
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	pools, err := s.ledger.InitializeDistribution(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	s.recordAndPublish(r.Context(), events.TopicDistributionInitialized, "", in.Actor,
		events.DistributionInitialized{Pools: pools, Actor: in.Actor})
	writeJSON(w, http.StatusCreated, pools)
}

// handleSetStartDate handles POST /v1/start-date.
func (s *Server) handleSetStartDate(w http.ResponseWriter, r *http.Request) {
	s.setWindowStart(w, r, true)
}

// handleSetDexLaunchDate handles POST /v1/dex-launch-date.
func (s *Server) handleSetDexLaunchDate(w http.ResponseWriter, r *http.Request) {
	s.setWindowStart(w, r, false)
}

func (s *Server) setWindowStart(w http.ResponseWriter, r *http.Request, teamAndDAO bool) {
	var in startDateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var (
		err   error
		topic string
		pools []string
	)
	if teamAndDAO {
		err = s.ledger.SetStartDate(r.Context(), in.StartTimestamp)
		topic = events.TopicStartDateSet
		pools = []string{model.PoolTeam.String(), model.PoolDAO.String()}
	} else {
		err = s.ledger.SetDexLaunchDate(r.Context(), in.StartTimestamp)
		topic = events.TopicDexLaunchDateSet
		pools = []string{model.PoolInvestor.String()}
	}
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	s.recordAndPublish(r.Context(), topic, "", in.Actor,
		events.StartDateSet{Pools: pools, StartTimestamp: in.StartTimestamp, Actor: in.Actor})
	writeJSON(w, http.StatusOK, map[string]any{"start_timestamp": in.StartTimestamp, "pools": pools})
}

// handleRegister handles POST /v1/beneficiaries.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b, err := s.ledger.Register(r.Context(), model.PoolKind(in.Pool), in.Address)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	s.recordAndPublish(r.Context(), events.TopicBeneficiaryRegistered, b.Address, in.Actor,
		events.BeneficiaryRegistered{Beneficiary: b, Actor: in.Actor})
	writeJSON(w, http.StatusCreated, b)
}

// handleRegisterBatch handles POST /v1/beneficiaries/batch.
func (s *Server) handleRegisterBatch(w http.ResponseWriter, r *http.Request) {
	var in registerBatchInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	bs, err := s.ledger.RegisterBatch(r.Context(), model.PoolKind(in.Pool), in.Addresses)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	for _, b := range bs {
		s.recordAndPublish(r.Context(), events.TopicBeneficiaryRegistered, b.Address, in.Actor,
			events.BeneficiaryRegistered{Beneficiary: b, Actor: in.Actor})
	}
	writeJSON(w, http.StatusCreated, bs)
}

// handleRegisterCoreMember handles POST /v1/core-members.
func (s *Server) handleRegisterCoreMember(w http.ResponseWriter, r *http.Request) {
	var in coreMemberInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b, err := s.ledger.RegisterCoreMember(r.Context(), in.Address, in.Grant, in.StartTimestamp, in.DurationSeconds)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	s.recordAndPublish(r.Context(), events.TopicCoreMemberRegistered, b.Address, in.Actor,
		events.CoreMemberRegistered{Beneficiary: b, Grant: in.Grant, Actor: in.Actor})
	writeJSON(w, http.StatusCreated, b)
}

// handleClaim handles POST /v1/claims.
func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var in claimInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	receipt, err := s.ledger.Claim(r.Context(), in.Address)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	// A zero-amount claim moved nothing, so there is nothing to announce.
	if receipt.Amount.Sign() > 0 {
		s.recordAndPublish(r.Context(), events.TopicClaimed, receipt.Address, receipt.Address,
			events.Claimed{Claim: receipt})
	}
	writeJSON(w, http.StatusOK, receipt)
}

// handleListPools handles GET /v1/pools.
func (s *Server) handleListPools(w http.ResponseWriter, r *http.Request) {
	pools, err := s.ledger.Pools(r.Context())
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pools)
}

// handleListBeneficiaries handles GET /v1/pools/{kind}/beneficiaries.
func (s *Server) handleListBeneficiaries(w http.ResponseWriter, r *http.Request) {
	bs, err := s.ledger.BeneficiariesOf(r.Context(), model.PoolKind(r.PathValue("kind")))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	if bs == nil {
		bs = []*model.Beneficiary{}
	}
	writeJSON(w, http.StatusOK, bs)
}

// handleGetBeneficiary handles GET /v1/beneficiaries/{address}.
func (s *Server) handleGetBeneficiary(w http.ResponseWriter, r *http.Request) {
	b, err := s.ledger.Beneficiary(r.Context(), r.PathValue("address"))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// handleClaimable handles GET /v1/beneficiaries/{address}/claimable.
// The optional "at" query parameter projects the amount at a future
// (or past) unix timestamp.
func (s *Server) handleClaimable(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	var (
		amt *model.Amount
		err error
		at  int64
	)
	if v := r.URL.Query().Get("at"); v != "" {
		at, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'at' timestamp")
			return
		}
		amt, err = s.ledger.ClaimableAt(r.Context(), address, at)
	} else {
		amt, err = s.ledger.Claimable(r.Context(), address)
	}
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	resp := map[string]any{"address": address, "claimable": amt}
	if at != 0 {
		resp["at"] = at
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListClaims handles GET /v1/beneficiaries/{address}/claims.
func (s *Server) handleListClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := s.ledger.Claims(r.Context(), r.PathValue("address"))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	if claims == nil {
		claims = []*model.Claim{}
	}
	writeJSON(w, http.StatusOK, claims)
}

// handleListEvents handles GET /v1/beneficiaries/{address}/events.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	addr, err := model.NormalizeAddress(r.PathValue("address"))
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	evs, err := s.store.ListEvents(r.Context(), addr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if evs == nil {
		evs = []*model.Event{}
	}
	writeJSON(w, http.StatusOK, evs)
}

// handleGetBalance handles GET /v1/balances/{account}.
func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	account := r.PathValue("account")
	bal, err := s.ledger.Balance(r.Context(), account)
	if err != nil {
		writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"account": account, "balance": bal})
}

// handleExport handles GET /v1/export, streaming the whole ledger as JSONL.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	if err := snapshot.Export(r.Context(), s.store, w); err != nil {
		// Headers are already out; log and cut the stream.
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
