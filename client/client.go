// Package client implements the Chaum-Pedersen prover: derive a secret
// scalar, run the three-message exchange against an AuthServer, and
// report the session identifier.
package client

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"

	"github.com/zkauthproto/sigma-auth/group"
	"github.com/zkauthproto/sigma-auth/service"
	"github.com/zkauthproto/sigma-auth/sigma"
	"github.com/zkauthproto/sigma-auth/wire"
)

// xInfo is the fixed HKDF info string binding a derived secret to this
// protocol, so the same passphrase used elsewhere doesn't yield the same
// scalar here.
const xInfo = "sigma-auth/x"

// DeriveSecret turns an optional passphrase into the prover's secret
// scalar x. An empty phrase yields a uniformly random x; a non-empty
// phrase is stretched through HKDF-SHA256 so the reduction into [1, q)
// carries no structural bias toward the low end of the range, then
// reduced mod q.
func DeriveSecret(g group.Group, phrase string) (*big.Int, error) {
	if phrase == "" {
		return g.ScalarRandom(), nil
	}

	qLen := (g.N().BitLen() + 7) / 8
	kdf := hkdf.New(sha256.New, []byte(phrase), nil, []byte(xInfo))
	okm := make([]byte, qLen+8) // extra bytes reduce modular bias further
	if _, err := io.ReadFull(kdf, okm); err != nil {
		return nil, fmt.Errorf("client: derive secret: %w", err)
	}

	x := new(big.Int).SetBytes(okm)
	x.Mod(x, g.N())
	if x.Sign() == 0 {
		x.SetInt64(1)
	}
	return x, nil
}

// Driver runs the authentication protocol as a prover against an
// AuthServer, using the group backend g.
type Driver struct {
	group  group.Group
	server service.AuthServer
}

// New returns a Driver talking to server over group backend g.
func New(g group.Group, server service.AuthServer) *Driver {
	return &Driver{group: g, server: server}
}

// Register derives (y1, y2) from x and registers them under user.
func (d *Driver) Register(user string, x *big.Int) error {
	y1 := d.group.Element().BaseScale(x)
	y2 := d.group.Element().Scale(d.group.H(), x)

	y1b, err := wire.MarshalElement(y1)
	if err != nil {
		return fmt.Errorf("client: marshal y1: %w", err)
	}
	y2b, err := wire.MarshalElement(y2)
	if err != nil {
		return fmt.Errorf("client: marshal y2: %w", err)
	}
	return d.server.Register(user, y1b, y2b)
}

// Authenticate runs the full commit/challenge/respond/verify exchange for
// user with secret x, and returns the session identifier on success.
func (d *Driver) Authenticate(user string, x *big.Int) (string, error) {
	com := sigma.Commit(d.group, x)

	r1b, err := wire.MarshalElement(com.R1)
	if err != nil {
		return "", fmt.Errorf("client: marshal r1: %w", err)
	}
	r2b, err := wire.MarshalElement(com.R2)
	if err != nil {
		return "", fmt.Errorf("client: marshal r2: %w", err)
	}

	authID, cBytes, err := d.server.CreateAuthenticationChallenge(user, r1b, r2b)
	if err != nil {
		return "", fmt.Errorf("client: create challenge: %w", err)
	}

	c := wire.UnmarshalScalar(d.group, cBytes)
	s := sigma.Respond(d.group, x, com.K, c)

	sessionID, err := d.server.VerifyAuthentication(authID, wire.MarshalScalar(s))
	if err != nil {
		return "", fmt.Errorf("client: verify: %w", err)
	}
	return sessionID, nil
}

// RegisterAndAuthenticate is the full client-driver flow: derive x,
// register, then authenticate.
func (d *Driver) RegisterAndAuthenticate(user, secretPhrase string) (string, error) {
	x, err := DeriveSecret(d.group, secretPhrase)
	if err != nil {
		return "", err
	}
	if err := d.Register(user, x); err != nil {
		return "", err
	}
	return d.Authenticate(user, x)
}
