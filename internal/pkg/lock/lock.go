// Package lock provides per-account locking for concurrent balance operations.
// The ledger's read-check-write sequence must be serialized per account,
// otherwise two concurrent debits can both pass the sufficiency check.
package lock

import (
	"fmt"
	"sync"
)

// accountMutex wraps a mutex so instances can be pooled.
type accountMutex struct {
	mu sync.Mutex
}

// AccountLock provides per-account locking keyed by (channel, user).
type AccountLock struct {
	locks sync.Map // map[string]*accountMutex
	pool  sync.Pool
}

// NewAccountLock creates a new AccountLock instance.
func NewAccountLock() *AccountLock {
	return &AccountLock{
		pool: sync.Pool{
			New: func() any {
				return &accountMutex{}
			},
		},
	}
}

// Key builds the lock key for an account.
func Key(channel, username string) string {
	return fmt.Sprintf("%s:%s", channel, username)
}

// getLock retrieves or creates a mutex for the given key.
func (al *AccountLock) getLock(key string) *accountMutex {
	if v, ok := al.locks.Load(key); ok {
		return v.(*accountMutex)
	}

	newLock := al.pool.Get().(*accountMutex)
	actual, loaded := al.locks.LoadOrStore(key, newLock)
	if loaded {
		// Another goroutine created the lock first, return ours to pool
		al.pool.Put(newLock)
	}
	return actual.(*accountMutex)
}

// Lock acquires the lock for an account.
func (al *AccountLock) Lock(channel, username string) {
	al.getLock(Key(channel, username)).mu.Lock()
}

// Unlock releases the lock for an account.
func (al *AccountLock) Unlock(channel, username string) {
	if v, ok := al.locks.Load(Key(channel, username)); ok {
		v.(*accountMutex).mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired.
func (al *AccountLock) TryLock(channel, username string) bool {
	return al.getLock(Key(channel, username)).mu.TryLock()
}

// WithLock executes a function while holding the account's lock.
func (al *AccountLock) WithLock(channel, username string, fn func() error) error {
	al.Lock(channel, username)
	defer al.Unlock(channel, username)
	return fn()
}

// WithOrderedLock executes a function while holding two account locks,
// acquired in key order to avoid deadlock between concurrent transfers.
func (al *AccountLock) WithOrderedLock(channel, first, second string, fn func() error) error {
	a, b := Key(channel, first), Key(channel, second)
	if a > b {
		a, b = b, a
	}
	la, lb := al.getLock(a), al.getLock(b)
	la.mu.Lock()
	defer la.mu.Unlock()
	if la != lb {
		lb.mu.Lock()
		defer lb.mu.Unlock()
	}
	return fn()
}
