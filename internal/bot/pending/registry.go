package pending

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Candidate is a recognized but unconfirmed meal estimate awaiting user
// approval. It is mutated only through Registry.Update and consumed exactly
// once by a successful save.
type Candidate struct {
	FoodName  string
	Calories  decimal.Decimal
	Protein   decimal.Decimal
	Fat       decimal.Decimal
	Carbs     decimal.Decimal
	Grams     int
	PhotoPath string
	Raw       string
}

// Registry is the single source of truth for in-flight candidates: at most one
// per user, process-wide, not persisted. A candidate mid-confirmation at
// restart time is dropped and the user re-uploads.
//
// Candidates are stored and returned by value and every mutation happens under
// the lock, so a concurrent save can never observe a half-written candidate.
type Registry struct {
	mu      sync.Mutex
	entries map[int64]Candidate
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[int64]Candidate)}
}

// Put stores the candidate for the user, replacing any prior unconfirmed one
// (last write wins, no merge).
func (r *Registry) Put(userID int64, c Candidate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.Grams < 1 {
		c.Grams = 100
	}
	r.entries[userID] = c
}

func (r *Registry) Get(userID int64) (Candidate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.entries[userID]
	return c, ok
}

// Update applies fn to the user's candidate atomically. Returns false when the
// user has no pending candidate.
func (r *Registry) Update(userID int64, fn func(*Candidate)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.entries[userID]
	if !ok {
		return false
	}
	fn(&c)
	r.entries[userID] = c
	return true
}

// Remove is a no-op when no entry exists.
func (r *Registry) Remove(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, userID)
}
