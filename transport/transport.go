// Package transport binds service.AuthServer to HTTP/JSON, a concrete RPC
// framing external to the core protocol engine and registry. Every bytes
// field from the wire protocol is carried base64-encoded inside JSON.
package transport

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/zkauthproto/sigma-auth/service"
)

type registerRequest struct {
	User string `json:"user"`
	Y1   string `json:"y1"`
	Y2   string `json:"y2"`
}

type challengeRequest struct {
	User string `json:"user"`
	R1   string `json:"r1"`
	R2   string `json:"r2"`
}

type challengeResponse struct {
	AuthID string `json:"auth_id"`
	C      string `json:"c"`
}

type verifyRequest struct {
	AuthID string `json:"auth_id"`
	S      string `json:"s"`
}

type verifyResponse struct {
	SessionID string `json:"session_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter returns a mux.Router exposing srv as POST /v1/register,
// POST /v1/challenge and POST /v1/verify. A nil logger disables logging
// (used by tests that want a quiet router).
func NewRouter(srv service.AuthServer, log *zap.SugaredLogger) *mux.Router {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	r := mux.NewRouter()
	r.HandleFunc("/v1/register", registerHandler(srv, log)).Methods(http.MethodPost)
	r.HandleFunc("/v1/challenge", challengeHandler(srv, log)).Methods(http.MethodPost)
	r.HandleFunc("/v1/verify", verifyHandler(srv, log)).Methods(http.MethodPost)
	return r
}

func registerHandler(srv service.AuthServer, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var in registerRequest
		if !decodeJSON(w, req, &in, log) {
			return
		}
		y1, err := base64.StdEncoding.DecodeString(in.Y1)
		if err != nil {
			writeError(w, service.ErrDeserialization, log, "register")
			return
		}
		y2, err := base64.StdEncoding.DecodeString(in.Y2)
		if err != nil {
			writeError(w, service.ErrDeserialization, log, "register")
			return
		}

		if err := srv.Register(in.User, y1, y2); err != nil {
			writeError(w, err, log, "register")
			return
		}
		log.Infow("transport: request served", "route", "register", "user", in.User)
		writeJSON(w, http.StatusOK, struct{}{})
	}
}

func challengeHandler(srv service.AuthServer, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var in challengeRequest
		if !decodeJSON(w, req, &in, log) {
			return
		}
		r1, err := base64.StdEncoding.DecodeString(in.R1)
		if err != nil {
			writeError(w, service.ErrDeserialization, log, "challenge")
			return
		}
		r2, err := base64.StdEncoding.DecodeString(in.R2)
		if err != nil {
			writeError(w, service.ErrDeserialization, log, "challenge")
			return
		}

		authID, c, err := srv.CreateAuthenticationChallenge(in.User, r1, r2)
		if err != nil {
			writeError(w, err, log, "challenge")
			return
		}
		log.Infow("transport: request served", "route", "challenge", "user", in.User, "auth_id", authID)
		writeJSON(w, http.StatusOK, challengeResponse{
			AuthID: authID,
			C:      base64.StdEncoding.EncodeToString(c),
		})
	}
}

func verifyHandler(srv service.AuthServer, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var in verifyRequest
		if !decodeJSON(w, req, &in, log) {
			return
		}
		s, err := base64.StdEncoding.DecodeString(in.S)
		if err != nil {
			writeError(w, service.ErrDeserialization, log, "verify")
			return
		}

		sessionID, err := srv.VerifyAuthentication(in.AuthID, s)
		if err != nil {
			writeError(w, err, log, "verify")
			return
		}
		log.Infow("transport: request served", "route", "verify", "auth_id", in.AuthID, "session_id", sessionID)
		writeJSON(w, http.StatusOK, verifyResponse{SessionID: sessionID})
	}
}

func decodeJSON(w http.ResponseWriter, req *http.Request, v interface{}, log *zap.SugaredLogger) bool {
	defer req.Body.Close()
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		writeError(w, service.ErrDeserialization, log, "decode")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a typed service error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnknownUser), errors.Is(err, service.ErrUnknownAuthID):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrDeserialization), errors.Is(err, service.ErrConfigurationMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error, log *zap.SugaredLogger, route string) {
	status := statusFor(err)
	log.Warnw("transport: request failed", "route", route, "status", status, "error", err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// Client is a service.AuthServer that talks to a transport.NewRouter
// server over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
}

// NewClient returns a Client that issues requests against baseURL
// (e.g. "http://[::1]:50051"). A nil logger disables logging (used by
// tests that want a quiet client).
func NewClient(baseURL string, log *zap.SugaredLogger) *Client {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Client{baseURL: baseURL, http: &http.Client{}, log: log}
}

func (c *Client) Register(user string, y1, y2 []byte) error {
	body := registerRequest{
		User: user,
		Y1:   base64.StdEncoding.EncodeToString(y1),
		Y2:   base64.StdEncoding.EncodeToString(y2),
	}
	return c.post("/v1/register", body, nil)
}

func (c *Client) CreateAuthenticationChallenge(user string, r1, r2 []byte) (string, []byte, error) {
	body := challengeRequest{
		User: user,
		R1:   base64.StdEncoding.EncodeToString(r1),
		R2:   base64.StdEncoding.EncodeToString(r2),
	}
	var out challengeResponse
	if err := c.post("/v1/challenge", body, &out); err != nil {
		return "", nil, err
	}
	c2, err := base64.StdEncoding.DecodeString(out.C)
	if err != nil {
		return "", nil, service.ErrDeserialization
	}
	return out.AuthID, c2, nil
}

func (c *Client) VerifyAuthentication(authID string, s []byte) (string, error) {
	body := verifyRequest{
		AuthID: authID,
		S:      base64.StdEncoding.EncodeToString(s),
	}
	var out verifyResponse
	if err := c.post("/v1/verify", body, &out); err != nil {
		return "", err
	}
	return out.SessionID, nil
}

func (c *Client) post(path string, body, out interface{}) error {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return fmt.Errorf("transport: encode request: %w", err)
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", buf)
	if err != nil {
		c.log.Warnw("transport: request failed", "path", path, "error", err)
		return fmt.Errorf("transport: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		err := errorForStatus(resp.StatusCode, errBody.Error)
		c.log.Warnw("transport: request failed", "path", path, "status", resp.StatusCode, "error", err)
		return err
	}
	if out == nil {
		c.log.Infow("transport: request served", "path", path)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("transport: decode response: %w", err)
	}
	c.log.Infow("transport: request served", "path", path)
	return nil
}

// errorForStatus recovers a coarse typed service error kind from an HTTP
// status, so a remote client driver can still use errors.Is. The mapping
// is by status alone: 404 always yields ErrUnknownUser and 400 always
// ErrDeserialization, so ErrUnknownAuthID and ErrConfigurationMismatch are
// not recovered on the client side.
func errorForStatus(status int, msg string) error {
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", msg, service.ErrUnknownUser)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", msg, service.ErrAuthenticationFailed)
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %w", msg, service.ErrDeserialization)
	default:
		return fmt.Errorf("%s: %w", msg, service.ErrInternal)
	}
}
