package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Snowflake issues time-ordered ledger entry ids. Ids are unique as long as
// every running instance is configured with a distinct node number.
type Snowflake struct {
	node *snowflake.Node
}

func NewSnowflake(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", node, err)
	}
	return &Snowflake{node: n}, nil
}

func (s *Snowflake) NextID() string {
	return s.node.Generate().String()
}
