package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckCapacity(t *testing.T) {
	assert.NoError(t, CheckCapacity(0))
	assert.NoError(t, CheckCapacity(CapacityThreshold-1))
	assert.ErrorIs(t, CheckCapacity(CapacityThreshold), ErrCapacityExceeded)
	assert.ErrorIs(t, CheckCapacity(CapacityThreshold+10), ErrCapacityExceeded)
}
