// Package service implements the three-RPC authentication state machine:
// register, create challenge, verify answer. It orchestrates the sigma
// protocol engine and the registry, and is the only core layer that logs
// (the transport layer outside the core logs too).
package service

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/zkauthproto/sigma-auth/group"
	"github.com/zkauthproto/sigma-auth/registry"
	"github.com/zkauthproto/sigma-auth/sigma"
	"github.com/zkauthproto/sigma-auth/wire"
)

// AuthServer is the three-RPC surface of the authentication service, in
// wire-friendly terms (octet strings rather than group.Element/*big.Int).
// service.Service implements it directly for in-process callers; the
// transport package implements it over HTTP so the same client driver
// code runs against either.
type AuthServer interface {
	Register(user string, y1, y2 []byte) error
	CreateAuthenticationChallenge(user string, r1, r2 []byte) (authID string, c []byte, err error)
	VerifyAuthentication(authID string, s []byte) (sessionID string, err error)
}

// Service is the in-process AuthServer implementation, bound to one
// group.Group backend chosen at process start.
type Service struct {
	group group.Group
	reg   *registry.Registry
	log   *zap.SugaredLogger
}

// New returns a Service backed by g, with all state in reg. A nil logger
// disables logging (used by tests that want a quiet engine).
func New(g group.Group, reg *registry.Registry, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{group: g, reg: reg, log: log}
}

// Register decodes y1, y2 and records them as user's public commitment,
// overwriting any prior registration.
func (s *Service) Register(user string, y1b, y2b []byte) error {
	y1, err := wire.UnmarshalElement(s.group, y1b)
	if err != nil {
		s.log.Warnw("register: malformed y1", "user", user)
		return errors.Wrap(ErrDeserialization, "decode y1")
	}
	y2, err := wire.UnmarshalElement(s.group, y2b)
	if err != nil {
		s.log.Warnw("register: malformed y2", "user", user)
		return errors.Wrap(ErrDeserialization, "decode y2")
	}

	s.reg.Register(user, registry.Commitment{Y1: y1, Y2: y2})
	s.log.Infow("register", "user", user)
	return nil
}

// CreateAuthenticationChallenge looks up user, mints a fresh auth_id and
// challenge c, and records the pending state.
func (s *Service) CreateAuthenticationChallenge(user string, r1b, r2b []byte) (string, []byte, error) {
	if _, ok := s.reg.Lookup(user); !ok {
		s.log.Warnw("challenge: unknown user", "user", user)
		return "", nil, errors.Wrapf(ErrUnknownUser, "user %q", user)
	}

	r1, err := wire.UnmarshalElement(s.group, r1b)
	if err != nil {
		s.log.Warnw("challenge: malformed r1", "user", user)
		return "", nil, errors.Wrap(ErrDeserialization, "decode r1")
	}
	r2, err := wire.UnmarshalElement(s.group, r2b)
	if err != nil {
		s.log.Warnw("challenge: malformed r2", "user", user)
		return "", nil, errors.Wrap(ErrDeserialization, "decode r2")
	}

	c := sigma.Challenge(s.group)
	authID, err := s.reg.CreatePending(registry.PendingAuth{User: user, C: c, R1: r1, R2: r2})
	if err != nil {
		s.log.Warnw("challenge: auth_id generation failed", "user", user, "error", err)
		return "", nil, errors.Wrap(ErrInternal, "generate auth_id")
	}

	s.log.Infow("challenge", "user", user, "auth_id", authID)
	return authID, wire.MarshalScalar(c), nil
}

// VerifyAuthentication consumes the pending challenge under authID
// (whether or not the response verifies) and runs the sigma verification
// equations against the user's registered commitment.
func (s *Service) VerifyAuthentication(authID string, sBytes []byte) (string, error) {
	p, ok := s.reg.TakePending(authID)
	if !ok {
		s.log.Warnw("verify: unknown auth_id", "auth_id", authID)
		return "", errors.Wrapf(ErrUnknownAuthID, "auth_id %q", authID)
	}

	commitment, ok := s.reg.Lookup(p.User)
	if !ok {
		// The user was registered when the challenge was created but has
		// since been removed; treat as an internal inconsistency since
		// the core never deletes users.
		s.log.Errorw("verify: user vanished between challenge and verify", "user", p.User)
		return "", errors.Wrap(ErrInternal, "user no longer registered")
	}

	resp := wire.UnmarshalScalar(s.group, sBytes)

	ok = sigma.Verify(s.group, commitment.Y1, commitment.Y2, p.R1, p.R2, p.C, resp)
	if !ok {
		s.log.Warnw("verify: authentication failed", "user", p.User, "auth_id", authID)
		return "", errors.Wrapf(ErrAuthenticationFailed, "user %q", p.User)
	}

	sessionID, err := newSessionID()
	if err != nil {
		s.log.Errorw("verify: session id generation failed", "error", err)
		return "", errors.Wrap(ErrInternal, "generate session id")
	}

	s.log.Infow("verify", "user", p.User, "auth_id", authID, "session_id", sessionID)
	return sessionID, nil
}
