package service

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/zkauthproto/sigma-auth/group"
	"github.com/zkauthproto/sigma-auth/registry"
	"github.com/zkauthproto/sigma-auth/sigma"
	"github.com/zkauthproto/sigma-auth/wire"
)

// honestRun drives the three RPCs for one user against svc using secret
// x, and returns the session id on success.
func honestRun(t *testing.T, svc *Service, g group.Group, user string, x *big.Int) (string, error) {
	t.Helper()

	com := sigma.Commit(g, x)
	y1b, _ := wire.MarshalElement(com.Y1)
	y2b, _ := wire.MarshalElement(com.Y2)
	if err := svc.Register(user, y1b, y2b); err != nil {
		t.Fatalf("Register: %v", err)
	}

	r1b, _ := wire.MarshalElement(com.R1)
	r2b, _ := wire.MarshalElement(com.R2)
	authID, cBytes, err := svc.CreateAuthenticationChallenge(user, r1b, r2b)
	if err != nil {
		t.Fatalf("CreateAuthenticationChallenge: %v", err)
	}

	c := wire.UnmarshalScalar(g, cBytes)
	s := sigma.Respond(g, x, com.K, c)
	return svc.VerifyAuthentication(authID, wire.MarshalScalar(s))
}

// concurrentHonestRun is honestRun's logic without *testing.T, since
// t.Fatalf is only safe to call from the goroutine running the test
// itself, not from goroutines spawned by it.
func concurrentHonestRun(svc *Service, g group.Group, user string, x *big.Int) (string, error) {
	com := sigma.Commit(g, x)
	y1b, err := wire.MarshalElement(com.Y1)
	if err != nil {
		return "", err
	}
	y2b, err := wire.MarshalElement(com.Y2)
	if err != nil {
		return "", err
	}
	if err := svc.Register(user, y1b, y2b); err != nil {
		return "", err
	}

	r1b, err := wire.MarshalElement(com.R1)
	if err != nil {
		return "", err
	}
	r2b, err := wire.MarshalElement(com.R2)
	if err != nil {
		return "", err
	}
	authID, cBytes, err := svc.CreateAuthenticationChallenge(user, r1b, r2b)
	if err != nil {
		return "", err
	}

	c := wire.UnmarshalScalar(g, cBytes)
	s := sigma.Respond(g, x, com.K, c)
	return svc.VerifyAuthentication(authID, wire.MarshalScalar(s))
}

func TestHonestRunSucceeds(t *testing.T) {
	g := group.RFC5114ModP1024160()
	svc := New(g, registry.New(), nil)

	sessionID, err := honestRun(t, svc, g, "foo", g.ScalarRandom())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected a non-empty session id")
	}
}

func TestChallengeSingleUse(t *testing.T) {
	g := group.Ristretto255()
	svc := New(g, registry.New(), nil)

	x := g.ScalarRandom()
	com := sigma.Commit(g, x)
	y1b, _ := wire.MarshalElement(com.Y1)
	y2b, _ := wire.MarshalElement(com.Y2)
	if err := svc.Register("alice", y1b, y2b); err != nil {
		t.Fatal(err)
	}

	r1b, _ := wire.MarshalElement(com.R1)
	r2b, _ := wire.MarshalElement(com.R2)
	authID, cBytes, err := svc.CreateAuthenticationChallenge("alice", r1b, r2b)
	if err != nil {
		t.Fatal(err)
	}

	c := wire.UnmarshalScalar(g, cBytes)
	s := sigma.Respond(g, x, com.K, c)
	sBytes := wire.MarshalScalar(s)

	if _, err := svc.VerifyAuthentication(authID, sBytes); err != nil {
		t.Fatalf("first verify should succeed: %v", err)
	}
	if _, err := svc.VerifyAuthentication(authID, sBytes); !errors.Is(err, ErrUnknownAuthID) {
		t.Fatalf("replayed verify should fail with ErrUnknownAuthID, got %v", err)
	}
}

func TestUnknownUser(t *testing.T) {
	g := group.Pallas()
	svc := New(g, registry.New(), nil)

	r1b, _ := wire.MarshalElement(g.Random())
	r2b, _ := wire.MarshalElement(g.Random())
	if _, _, err := svc.CreateAuthenticationChallenge("nobody", r1b, r2b); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestTamperedResponseFails(t *testing.T) {
	g := group.Vesta()
	svc := New(g, registry.New(), nil)

	x := g.ScalarRandom()
	com := sigma.Commit(g, x)
	y1b, _ := wire.MarshalElement(com.Y1)
	y2b, _ := wire.MarshalElement(com.Y2)
	svc.Register("bob", y1b, y2b)

	r1b, _ := wire.MarshalElement(com.R1)
	r2b, _ := wire.MarshalElement(com.R2)
	authID, cBytes, err := svc.CreateAuthenticationChallenge("bob", r1b, r2b)
	if err != nil {
		t.Fatal(err)
	}

	c := wire.UnmarshalScalar(g, cBytes)
	s := sigma.Respond(g, x, com.K, c)
	tampered := new(big.Int).Xor(s, big.NewInt(1))

	if _, err := svc.VerifyAuthentication(authID, wire.MarshalScalar(tampered)); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("expected ErrAuthenticationFailed, got %v", err)
	}
}

// TestConcurrentRegistrationsYieldDistinctSessionIDs drives N goroutines,
// each registering a distinct user and completing a full authentication
// against a single shared Service, and asserts no two end up with the
// same session id.
func TestConcurrentRegistrationsYieldDistinctSessionIDs(t *testing.T) {
	const n = 200
	g := group.Ristretto255()
	svc := New(g, registry.New(), nil)

	sessionIDs := make([]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("user-%d", i)
			sessionID, err := concurrentHonestRun(svc, g, user, g.ScalarRandom())
			if err != nil {
				t.Errorf("user %s: unexpected error: %v", user, err)
				return
			}
			sessionIDs[i] = sessionID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for i, id := range sessionIDs {
		if id == "" {
			t.Fatalf("user-%d: empty session id", i)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("session id %q was issued more than once", id)
		}
		seen[id] = struct{}{}
	}
}

func TestParameterMismatch(t *testing.T) {
	server := group.RFC5114ModP1024160()
	client := group.RFC5114ModP2048256()
	svc := New(server, registry.New(), nil)

	x := client.ScalarRandom()
	y1, _ := wire.MarshalElement(client.Element().BaseScale(x))
	y2, _ := wire.MarshalElement(client.Element().Scale(client.H(), x))

	// The server decodes the client's 2048-bit-group bytes as its own
	// 1024-bit field; this either fails to deserialize or silently
	// produces the wrong element, but never a successful proof.
	err := svc.Register("mismatched", y1, y2)
	if err != nil {
		return
	}

	r1, _ := wire.MarshalElement(client.Random())
	r2, _ := wire.MarshalElement(client.Random())
	authID, cBytes, err := svc.CreateAuthenticationChallenge("mismatched", r1, r2)
	if err != nil {
		return
	}

	c := wire.UnmarshalScalar(server, cBytes)
	s := sigma.Respond(client, x, client.ScalarRandom(), c)
	if _, err := svc.VerifyAuthentication(authID, wire.MarshalScalar(s)); err == nil {
		t.Fatal("cross-parameter verification must not succeed")
	}
}
