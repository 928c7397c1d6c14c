package infrastructure

import (
	"orderflow/internal/pkg/zookeeper"
)

// ZkProductLocker serializes reservations across replicas with a
// per-product ZooKeeper lock. Implements application.ProductLocker.
type ZkProductLocker struct {
	conn *zookeeper.Conn
}

func NewZkProductLocker(conn *zookeeper.Conn) *ZkProductLocker {
	return &ZkProductLocker{conn: conn}
}

func (l *ZkProductLocker) Acquire(product string) (func(), error) {
	lock, err := zookeeper.NewDistributedLock(l.conn, "product-"+product)
	if err != nil {
		return nil, err
	}
	if err := lock.Lock(); err != nil {
		return nil, err
	}
	return func() { _ = lock.Unlock() }, nil
}
