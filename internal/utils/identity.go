package utils

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// MaxSafeID is the largest integer a JSON client decoding into IEEE-754
// doubles can represent exactly (2^53 - 1)
const MaxSafeID = 1<<53 - 1

// Ids are shrunk to 41 time bits + 4 node bits + 8 step bits so they stay
// under MaxSafeID until 2080. 256 ids per millisecond per node is far more
// than a shop desk produces.
func init() {
	snowflake.NodeBits = 4
	snowflake.StepBits = 8
}

// IDGenerator hands out unique numeric ids for auxiliary records
// (inward, outward, customer and backup rows)
type IDGenerator struct {
	node *snowflake.Node
}

// NewIDGenerator creates a generator for the given node (0-15)
func NewIDGenerator(nodeID int64) (*IDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("invalid node id %d: %w", nodeID, err)
	}
	return &IDGenerator{node: node}, nil
}

// Next returns a new id. Ids are strictly increasing per generator and
// never exceed MaxSafeID.
func (g *IDGenerator) Next() int64 {
	return g.node.Generate().Int64()
}
