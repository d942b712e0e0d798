package client

import (
	"math/big"
	"testing"

	"github.com/zkauthproto/sigma-auth/group"
	"github.com/zkauthproto/sigma-auth/service"
	"github.com/zkauthproto/sigma-auth/sigma"
	"github.com/zkauthproto/sigma-auth/wire"
)

func commitFor(t *testing.T, g group.Group, x *big.Int) sigma.Commitment {
	t.Helper()
	return sigma.Commit(g, x)
}

func challengeFor(t *testing.T, srv service.AuthServer, user string, com sigma.Commitment) (string, []byte) {
	t.Helper()
	r1b, err := wire.MarshalElement(com.R1)
	if err != nil {
		t.Fatal(err)
	}
	r2b, err := wire.MarshalElement(com.R2)
	if err != nil {
		t.Fatal(err)
	}
	authID, cBytes, err := srv.CreateAuthenticationChallenge(user, r1b, r2b)
	if err != nil {
		t.Fatal(err)
	}
	return authID, cBytes
}

func respondFor(g group.Group, x *big.Int, com sigma.Commitment, c *big.Int) *big.Int {
	return sigma.Respond(g, x, com.K, c)
}
