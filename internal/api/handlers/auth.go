// Package handlers provides HTTP request handlers for the SRP-6a demo API.
package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-srp/srp6a/internal/auth"
	"github.com/go-srp/srp6a/pkg/srp"
)

// AuthHandler handles SRP-6a authentication endpoints. It bridges the
// stateless HTTP request/response cycle across Init and Verify by
// parking the in-progress *srp.Server in sessionStore between the two
// calls, keyed by a random session ID handed back to the client.
type AuthHandler struct {
	record         *auth.VerifierRecord
	sessionStore   HandshakeStore
	sessionManager SessionIssuer
	rateLimiter    FailureLimiter
	logger         *log.Logger
}

// NewAuthHandler creates a new authentication handler bound to a single
// account's verifier record.
func NewAuthHandler(
	record *auth.VerifierRecord,
	sessionStore HandshakeStore,
	sessionManager SessionIssuer,
	rateLimiter FailureLimiter,
	logger *log.Logger,
) *AuthHandler {
	return &AuthHandler{
		record:         record,
		sessionStore:   sessionStore,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
		logger:         logger,
	}
}

// SRPSaltResponse represents the GET /auth/srp/salt response body. It
// lets a client learn its salt (and the group it must use to derive x
// and A) before it commits to an ephemeral secret, without yet
// revealing anything about the verifier itself.
type SRPSaltResponse struct {
	Salt      string `json:"salt"` // base64-encoded salt
	GroupBits int    `json:"group_bits"`
}

// SRPInitRequest represents the POST /auth/srp/init request body.
type SRPInitRequest struct {
	Identity string `json:"identity"`
	A        string `json:"A"` // client ephemeral public value (base64)
}

// SRPInitResponse represents the POST /auth/srp/init response body.
type SRPInitResponse struct {
	Salt      string `json:"salt"`       // base64-encoded salt
	B         string `json:"B"`          // server ephemeral public value (base64)
	SessionID string `json:"session_id"` // opaque handle for the verify step
}

// SRPVerifyRequest represents the POST /auth/srp/verify request body.
type SRPVerifyRequest struct {
	SessionID string `json:"session_id"`
	M1        string `json:"M1"` // client proof (base64)
}

// SRPVerifyResponse represents the POST /auth/srp/verify response body.
type SRPVerifyResponse struct {
	M2           string `json:"M2"`            // server proof (base64)
	SessionToken string `json:"session_token"` // post-auth bearer token
}

// HandleSRPSalt handles GET /auth/srp/salt?identity=...: it hands back
// the stored salt and group size for an identity so a client can
// derive x and its ephemeral A before starting the handshake proper.
// This demo serves exactly one account; any other identity is answered
// with 401 authentication_failed.
func (ah *AuthHandler) HandleSRPSalt(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)

	identity := r.URL.Query().Get("identity")
	if identity == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Missing required query parameter: identity")
		return
	}
	if identity != ah.record.Identity {
		ah.logAuthEvent("srp_salt_invalid_identity", clientIP, identity, "identity mismatch")
		writeJSONError(w, http.StatusUnauthorized, "authentication_failed", "Authentication failed")
		return
	}

	salt, err := ah.record.SaltBytes()
	if err != nil {
		ah.logAuthEvent("srp_salt_decode_error", clientIP, identity, fmt.Sprintf("salt decode failed: %v", err))
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "Internal server error")
		return
	}

	resp := SRPSaltResponse{
		Salt:      base64.StdEncoding.EncodeToString(salt),
		GroupBits: ah.record.GroupBits,
	}
	writeJSONResponse(w, http.StatusOK, resp)
}

// HandleSRPInit handles POST /auth/srp/init: it derives B from the
// stored verifier and the client's A, and parks the server-side
// session for the subsequent verify call.
func (ah *AuthHandler) HandleSRPInit(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)

	locked, retryAfter, _ := ah.rateLimiter.CheckLimit(clientIP)
	if locked {
		ah.logAuthEvent("srp_init_rate_limited", clientIP, "", "client locked out")
		w.Header().Set("Retry-After", fmt.Sprintf("%d", auth.FormatRetryAfter(retryAfter)))
		writeJSONError(w, http.StatusTooManyRequests, "too_many_requests",
			"Too many failed authentication attempts. Please try again later.")
		return
	}

	var req SRPInitRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		ah.logAuthEvent("srp_init_invalid_request", clientIP, "", fmt.Sprintf("parse error: %v", err))
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Identity == "" {
		ah.logAuthEvent("srp_init_missing_identity", clientIP, "", "identity missing")
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Missing required field: identity")
		return
	}
	if req.A == "" {
		ah.logAuthEvent("srp_init_missing_A", clientIP, req.Identity, "ephemeral public value A missing")
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Missing required field: A")
		return
	}

	if req.Identity != ah.record.Identity {
		ah.logAuthEvent("srp_init_invalid_identity", clientIP, req.Identity, "identity mismatch")
		// Don't reveal whether the identity is known; treat as a failed attempt.
		delay := ah.rateLimiter.RecordFailure(clientIP)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", auth.FormatRetryAfter(delay)))
		writeJSONError(w, http.StatusUnauthorized, "authentication_failed", "Authentication failed")
		return
	}

	params, err := ah.record.Group()
	if err != nil {
		ah.logAuthEvent("srp_init_group_error", clientIP, req.Identity, fmt.Sprintf("group lookup failed: %v", err))
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "Internal server error")
		return
	}
	verifier, err := ah.record.VerifierBytes()
	if err != nil {
		ah.logAuthEvent("srp_init_verifier_error", clientIP, req.Identity, fmt.Sprintf("verifier decode failed: %v", err))
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "Internal server error")
		return
	}

	secretB, err := srp.GenKey(0)
	if err != nil {
		ah.logAuthEvent("srp_init_genkey_error", clientIP, req.Identity, fmt.Sprintf("ephemeral generation failed: %v", err))
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "Internal server error")
		return
	}

	server, err := srp.NewServer(params, verifier, secretB)
	if err != nil {
		ah.logAuthEvent("srp_init_server_error", clientIP, req.Identity, fmt.Sprintf("server creation failed: %v", err))
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "Internal server error")
		return
	}

	A, err := base64.StdEncoding.DecodeString(req.A)
	if err != nil {
		ah.logAuthEvent("srp_init_invalid_A_encoding", clientIP, req.Identity, fmt.Sprintf("A decode failed: %v", err))
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid base64 encoding for A")
		return
	}
	if err := server.SetA(A); err != nil {
		ah.logAuthEvent("srp_init_failed", clientIP, req.Identity, fmt.Sprintf("SetA failed: %v", err))
		delay := ah.rateLimiter.RecordFailure(clientIP)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", auth.FormatRetryAfter(delay)))
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid ephemeral public value A")
		return
	}

	salt, err := ah.record.SaltBytes()
	if err != nil {
		ah.logAuthEvent("srp_init_salt_error", clientIP, req.Identity, fmt.Sprintf("salt decode failed: %v", err))
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "Internal server error")
		return
	}

	sessionID, err := ah.sessionStore.Store(server)
	if err != nil {
		ah.logAuthEvent("srp_init_store_error", clientIP, req.Identity, fmt.Sprintf("session store failed: %v", err))
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "Internal server error")
		return
	}

	resp := SRPInitResponse{
		Salt:      base64.StdEncoding.EncodeToString(salt),
		B:         base64.StdEncoding.EncodeToString(server.ComputeB()),
		SessionID: sessionID,
	}

	ah.logAuthEvent("srp_init_success", clientIP, req.Identity, "SRP init successful")
	writeJSONResponse(w, http.StatusOK, resp)
}

// HandleSRPVerify handles POST /auth/srp/verify: it resumes the
// server session parked by HandleSRPInit, checks the client's proof
// M1, and on success issues a session token and returns M2.
func (ah *AuthHandler) HandleSRPVerify(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)

	locked, retryAfter, _ := ah.rateLimiter.CheckLimit(clientIP)
	if locked {
		ah.logAuthEvent("srp_verify_rate_limited", clientIP, "", "client locked out")
		w.Header().Set("Retry-After", fmt.Sprintf("%d", auth.FormatRetryAfter(retryAfter)))
		writeJSONError(w, http.StatusTooManyRequests, "too_many_requests",
			"Too many failed authentication attempts. Please try again later.")
		return
	}

	var req SRPVerifyRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		ah.logAuthEvent("srp_verify_invalid_request", clientIP, "", fmt.Sprintf("parse error: %v", err))
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.SessionID == "" {
		ah.logAuthEvent("srp_verify_missing_session", clientIP, "", "session_id missing")
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Missing required field: session_id")
		return
	}
	if req.M1 == "" {
		ah.logAuthEvent("srp_verify_missing_M1", clientIP, "", "proof M1 missing")
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Missing required field: M1")
		return
	}

	server := ah.sessionStore.Retrieve(req.SessionID)
	if server == nil {
		ah.logAuthEvent("srp_verify_unknown_session", clientIP, "", "session expired or unknown")
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Unknown or expired session")
		return
	}

	M1, err := base64.StdEncoding.DecodeString(req.M1)
	if err != nil {
		ah.logAuthEvent("srp_verify_invalid_M1_encoding", clientIP, "", fmt.Sprintf("M1 decode failed: %v", err))
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid base64 encoding for M1")
		return
	}

	M2, err := server.CheckM1(M1)
	if err != nil {
		ah.logAuthEvent("srp_verify_failed", clientIP, ah.record.Identity, fmt.Sprintf("verification failed: %v", err))
		delay := ah.rateLimiter.RecordFailure(clientIP)
		w.Header().Set("Retry-After", fmt.Sprintf("%d", auth.FormatRetryAfter(delay)))
		writeJSONError(w, http.StatusUnauthorized, "authentication_failed", "Authentication failed")
		return
	}

	ah.rateLimiter.RecordSuccess(clientIP)

	sessionToken, err := ah.sessionManager.CreateSession(ah.record.Identity)
	if err != nil {
		ah.logAuthEvent("srp_verify_session_error", clientIP, ah.record.Identity, fmt.Sprintf("session creation failed: %v", err))
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "Internal server error")
		return
	}

	resp := SRPVerifyResponse{
		M2:           base64.StdEncoding.EncodeToString(M2),
		SessionToken: sessionToken,
	}

	ah.logAuthEvent("srp_verify_success", clientIP, ah.record.Identity, "authentication successful")
	writeJSONResponse(w, http.StatusOK, resp)
}

// logAuthEvent logs an authentication event. Secret-bearing fields
// (A, B, M1, M2, session tokens) are never passed in details.
func (ah *AuthHandler) logAuthEvent(event, clientIP, identity, details string) {
	ah.logger.Printf("[AUTH] event=%s client_ip=%s identity=%s details=%s",
		event, clientIP, identity, details)
}

// getClientIP extracts the client IP address from the request.
// Checks X-Forwarded-For header first (for proxies), then RemoteAddr.
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := splitAndTrim(xff, ",")
		if len(ips) > 0 && ips[0] != "" {
			return ips[0]
		}
	}

	remoteAddr := r.RemoteAddr
	if idx := lastIndex(remoteAddr, ":"); idx != -1 {
		return remoteAddr[:idx]
	}
	return remoteAddr
}

// writeJSONResponse writes a JSON success response.
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return
	}
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]string{
		"error":   errorCode,
		"message": message,
	}

	_ = json.NewEncoder(w).Encode(response)
}

// Helper functions

func splitAndTrim(s, sep string) []string {
	parts := make([]string, 0)
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i:i+len(sep)] == sep {
			parts = append(parts, trim(s[start:i]))
			start = i + len(sep)
			i += len(sep) - 1
		}
	}
	parts = append(parts, trim(s[start:]))
	return parts
}

func trim(s string) string {
	start := 0
	end := len(s)
	for start < end && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	for start < end && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}

func lastIndex(s, substr string) int {
	for i := len(s) - len(substr); i >= 0; i-- {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
