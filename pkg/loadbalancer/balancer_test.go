package loadbalancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRobinCyclesTargets(t *testing.T) {
	rr := New([]string{"http://localhost:7143", "http://localhost:7144"})

	assert.Equal(t, "http://localhost:7143", rr.NextTarget())
	assert.Equal(t, "http://localhost:7144", rr.NextTarget())
	assert.Equal(t, "http://localhost:7143", rr.NextTarget())
	assert.Equal(t, 2, rr.Len())
}

func TestRoundRobinEmpty(t *testing.T) {
	rr := New(nil)
	assert.Equal(t, "", rr.NextTarget())
	assert.Equal(t, 0, rr.Len())
}
