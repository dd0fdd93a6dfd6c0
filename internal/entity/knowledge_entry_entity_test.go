package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorKeyNamespaces(t *testing.T) {
	assert.Equal(t, "seed:0", SeedKey(0))
	assert.Equal(t, "seed:4", SeedKey(4))
	assert.Equal(t, "request:17", RequestKey(17))

	// The namespaces must stay disjoint: a ledger id can never collide
	// with a seed index.
	assert.NotEqual(t, SeedKey(17), RequestKey(17))
}
