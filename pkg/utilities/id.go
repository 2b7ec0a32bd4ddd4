package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewKSUID generates a new globally unique KSUID string. Used for
// request correlation IDs where sortability matters more than numeric form.
func NewKSUID() string {
	return ksuid.New().String()
}

var (
	nodeOnce sync.Once
	node     *snowflake.Node
)

// NewRowID generates a snowflake int64 suitable for a primary key. The
// node ID comes from SNOWFLAKE_NODE (default 1). Row IDs are generated
// server-side so inserts never depend on driver-specific last-insert-id
// behavior.
func NewRowID() int64 {
	nodeOnce.Do(func() {
		nodeID := int64(1)
		if env := os.Getenv("SNOWFLAKE_NODE"); env != "" {
			if v, err := strconv.ParseInt(env, 10, 64); err == nil {
				nodeID = v
			}
		}
		n, err := snowflake.NewNode(nodeID)
		if err != nil {
			// node IDs out of range fall back to node 0
			n, _ = snowflake.NewNode(0)
		}
		node = n
	})
	return node.Generate().Int64()
}
