// Package registry holds the process-wide, in-memory state of the
// authentication service: registered users' public commitments and
// pending authentication challenges. Both maps are guarded by their own
// mutex so a reader of one is never blocked by a writer of the other.
package registry

import (
	"math/big"
	"sync"

	"github.com/google/uuid"

	"github.com/zkauthproto/sigma-auth/group"
)

// Commitment is a user's public (y1, y2) pair, fixed at registration.
type Commitment struct {
	Y1, Y2 group.Element
}

// PendingAuth is the server-side state of a challenge awaiting its
// response: the challenge c and the prover's commitment r1, r2, bound to
// the user that requested it.
type PendingAuth struct {
	User   string
	C      *big.Int
	R1, R2 group.Element
}

// Registry is the process-wide user and pending-challenge store. The zero
// value is not usable; construct with New.
type Registry struct {
	usersMu sync.RWMutex
	users   map[string]Commitment

	pendingMu sync.Mutex
	pending   map[string]PendingAuth
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		users:   make(map[string]Commitment),
		pending: make(map[string]PendingAuth),
	}
}

// Register records (or overwrites) user's public commitment.
func (r *Registry) Register(user string, c Commitment) {
	r.usersMu.Lock()
	defer r.usersMu.Unlock()
	r.users[user] = c
}

// Lookup returns user's commitment and whether it is registered.
func (r *Registry) Lookup(user string) (Commitment, bool) {
	r.usersMu.RLock()
	defer r.usersMu.RUnlock()
	c, ok := r.users[user]
	return c, ok
}

// CreatePending mints a fresh auth_id and records p under it in a single
// critical section, so two concurrent callers can never receive the same
// auth_id.
func (r *Registry) CreatePending(p PendingAuth) (string, error) {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()

	authID, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	r.pending[authID.String()] = p
	return authID.String(), nil
}

// TakePending removes and returns the pending challenge under authID, if
// any. It is single-use: a second call with the same authID returns
// ok == false.
func (r *Registry) TakePending(authID string) (PendingAuth, bool) {
	r.pendingMu.Lock()
	defer r.pendingMu.Unlock()
	p, ok := r.pending[authID]
	if ok {
		delete(r.pending, authID)
	}
	return p, ok
}
