package muid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake_Unique(t *testing.T) {
	seen := map[MUID]struct{}{}
	for i := 0; i < 10_000; i++ {
		id := Make()
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestMake_Monotone(t *testing.T) {
	previous := Make()
	for i := 0; i < 1_000; i++ {
		id := Make()
		assert.Greater(t, uint64(id), uint64(previous))
		previous = id
	}
}

func TestString_Base32(t *testing.T) {
	id := Make()
	s := id.String()
	assert.NotEmpty(t, s)
	for _, r := range s {
		assert.Contains(t, "0123456789abcdefghijklmnopqrstuv", string(r))
	}
}
