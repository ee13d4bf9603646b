package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortCodeFor(t *testing.T) {
	tests := []struct {
		name string
		low  [2]byte
		want string
	}{
		{name: "zero", low: [2]byte{0x00, 0x00}, want: "11"},
		{name: "leading zero byte", low: [2]byte{0x00, 0x01}, want: "12"},
		{name: "max", low: [2]byte{0xff, 0xff}, want: "LUv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := uuid.Must(uuid.NewV7())
			id[14], id[15] = tt.low[0], tt.low[1]
			assert.Equal(t, tt.want, ShortCodeFor(id))
		})
	}
}

func TestShortCodeFor_OnlyLowBitsMatter(t *testing.T) {
	a := uuid.Must(uuid.NewV7())
	b := uuid.Must(uuid.NewV7())
	b[14], b[15] = a[14], a[15]

	require.NotEqual(t, a, b)
	assert.Equal(t, ShortCodeFor(a), ShortCodeFor(b))
}

func TestUUIDGenerator_Generate(t *testing.T) {
	var gen UUIDGenerator
	var prev uuid.UUID

	for i := 0; i < 100; i++ {
		id, code, err := gen.Generate()
		require.NoError(t, err)

		assert.Equal(t, byte(7), byte(id.Version()))
		assert.Equal(t, ShortCodeFor(id), code)
		assert.LessOrEqual(t, len(code), 3)

		raw, err := base58.Decode(code)
		require.NoError(t, err)
		assert.Equal(t, id[14:], raw)

		if i > 0 {
			assert.Greater(t, id.String(), prev.String())
		}
		prev = id
	}
}
