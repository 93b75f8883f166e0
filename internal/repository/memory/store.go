// Package memory is an in-process implementation of the repository
// interfaces. It backs the dev server when no DATABASE_URL is configured
// and the service tests.
package memory

import (
	"context"
	"sync"
	"time"

	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
)

type mealKey struct {
	userID   int64
	date     string
	mealType string
}

// state is everything a transaction may need to roll back
type state struct {
	users    map[int64]models.User
	profiles map[int64]models.Profile
	plans    map[int64]models.Plan
	foods    map[int64]models.Food
	meals    map[int64]models.Meal
	items    map[int64]models.MealItem
	mealIdx  map[mealKey]int64
	nextID   int64
}

func newState() state {
	return state{
		users:    map[int64]models.User{},
		profiles: map[int64]models.Profile{},
		plans:    map[int64]models.Plan{},
		foods:    map[int64]models.Food{},
		meals:    map[int64]models.Meal{},
		items:    map[int64]models.MealItem{},
		mealIdx:  map[mealKey]int64{},
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.profiles {
		c.profiles[k] = v
	}
	for k, v := range s.plans {
		c.plans[k] = v
	}
	for k, v := range s.foods {
		c.foods[k] = v
	}
	for k, v := range s.meals {
		c.meals[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.mealIdx {
		c.mealIdx[k] = v
	}
	c.nextID = s.nextID
	return c
}

// Store holds all tables. The zero value is not usable; call NewStore.
type Store struct {
	mu   sync.Mutex
	data state
	now  func() time.Time

	// txMu serializes transactions against each other and against writes
	// made outside a transaction, so a rollback never discards them
	txMu sync.Mutex
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{data: newState(), now: time.Now}
}

func (s *Store) id() int64 {
	s.data.nextID++
	return s.data.nextID
}

type txMarker struct{}

// lockWrite locks the store for a write and returns the unlock. Outside a
// transaction it also waits for any running transaction to finish.
func (s *Store) lockWrite(ctx context.Context) func() {
	if ctx.Value(txMarker{}) != nil {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// TransactionManager implements repositories.TransactionManager by
// snapshotting the store and restoring it when fn fails
type TransactionManager struct {
	store *Store
}

// NewTransactionManager creates a transaction manager over s
func NewTransactionManager(s *Store) repositories.TransactionManager {
	return &TransactionManager{store: s}
}

// ExecTx runs fn atomically. A nested call joins the outer transaction.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	tm.store.txMu.Lock()
	defer tm.store.txMu.Unlock()

	tm.store.mu.Lock()
	snapshot := tm.store.data.clone()
	tm.store.mu.Unlock()

	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		tm.store.mu.Lock()
		tm.store.data = snapshot
		tm.store.mu.Unlock()
		return err
	}
	return nil
}
