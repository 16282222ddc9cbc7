package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionFind_Basics(t *testing.T) {
	uf := newUnionFind(5)

	// Initially every element is its own set.
	for i := 0; i < 5; i++ {
		assert.Equal(t, i, uf.find(i))
	}

	uf.union(0, 1)
	uf.union(3, 4)
	assert.Equal(t, uf.find(0), uf.find(1))
	assert.Equal(t, uf.find(3), uf.find(4))
	assert.NotEqual(t, uf.find(0), uf.find(3))
	assert.NotEqual(t, uf.find(2), uf.find(0))

	// Merging the two sets through a chain connects all four.
	uf.union(1, 3)
	assert.Equal(t, uf.find(0), uf.find(4))
	assert.NotEqual(t, uf.find(2), uf.find(4))

	// Union of already-joined elements is a no-op.
	uf.union(0, 4)
	assert.Equal(t, uf.find(0), uf.find(4))
}
