package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *Server) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/fund", s.handleFund)
	mux.HandleFunc("POST /v1/distribution", s.handleInitializeDistribution)
	mux.HandleFunc("POST /v1/start-date", s.handleSetStartDate)
	mux.HandleFunc("POST /v1/dex-launch-date", s.handleSetDexLaunchDate)
	mux.HandleFunc("POST /v1/beneficiaries", s.handleRegister)
	mux.HandleFunc("POST /v1/beneficiaries/batch", s.handleRegisterBatch)
	mux.HandleFunc("POST /v1/core-members", s.handleRegisterCoreMember)
	mux.HandleFunc("POST /v1/claims", s.handleClaim)
	mux.HandleFunc("GET /v1/pools", s.handleListPools)
	mux.HandleFunc("GET /v1/pools/{kind}/beneficiaries", s.handleListBeneficiaries)
	mux.HandleFunc("GET /v1/beneficiaries/{address}", s.handleGetBeneficiary)
	mux.HandleFunc("GET /v1/beneficiaries/{address}/claimable", s.handleClaimable)
	mux.HandleFunc("GET /v1/beneficiaries/{address}/claims", s.handleListClaims)
	mux.HandleFunc("GET /v1/beneficiaries/{address}/events", s.handleListEvents)
	mux.HandleFunc("GET /v1/balances/{account}", s.handleGetBalance)
	mux.HandleFunc("GET /v1/export", s.handleExport)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AuthMiddleware wraps an http.Handler and checks the Authorization header for
// a valid Bearer token. When token is empty, auth is disabled and all requests
// pass through. GET /v1/health is always exempt.
func AuthMiddleware(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Exempt health check.
		if r.Method == http.MethodGet && r.URL.Path == "/v1/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		if !strings.HasPrefix(auth, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "invalid authorization scheme")
			return
		}

		provided := strings.TrimPrefix(auth, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
