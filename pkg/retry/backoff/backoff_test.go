package backoff

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponential(t *testing.T) {
	s := Exponential(500*time.Millisecond, 3)

	for attempts, expected := range map[uint]time.Duration{
		0: 500 * time.Millisecond,
		1: 500 * time.Millisecond,
		2: 1500 * time.Millisecond,
		3: 4500 * time.Millisecond,
	} {
		assert.Equal(t, expected, s(attempts), "attempt %d", attempts)
	}
}

func TestExponential_Saturates(t *testing.T) {
	s := BinaryExponential(time.Hour)
	assert.EqualValues(t, math.MaxInt64, s(200))
}

func TestBinaryExponential(t *testing.T) {
	s := BinaryExponential(time.Second)

	assert.Equal(t, time.Second, s(1))
	assert.Equal(t, 2*time.Second, s(2))
	assert.Equal(t, 8*time.Second, s(4))
}
