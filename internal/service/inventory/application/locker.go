package application

import "sync"

// ProductLocker serializes reservations per product. The local
// implementation below covers a single replica; the zookeeper adapter in
// infrastructure covers multi-replica deployments.
type ProductLocker interface {
	// Acquire blocks until the lock for the product is held and returns
	// the matching release function.
	Acquire(product string) (release func(), err error)
}

// LocalKeyedLocker is a key-partitioned mutex. Entries are never removed;
// the map is bounded by the number of distinct product names.
type LocalKeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalKeyedLocker() *LocalKeyedLocker {
	return &LocalKeyedLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalKeyedLocker) Acquire(product string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[product]
	if !ok {
		m = &sync.Mutex{}
		l.locks[product] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}
