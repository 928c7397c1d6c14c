package zookeeper

import (
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
)

// Conn is a thin wrapper around a ZooKeeper connection.
type Conn struct {
	*zk.Conn
}

// Connect dials the ensemble. servers format: "host1:2181,host2:2181".
func Connect(servers string, sessionTimeout time.Duration) (*Conn, error) {
	conn, _, err := zk.Connect(strings.Split(servers, ","), sessionTimeout)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: conn}, nil
}
