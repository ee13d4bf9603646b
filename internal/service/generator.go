package service

import (
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// NamespaceBits is how many low-order bits of the record id make up a short
// code. 16 bits gives at most 65,536 distinct codes.
const NamespaceBits = 16

type CodeGenerator interface {
	// Generate returns a new record id and the short code derived from it.
	Generate() (uuid.UUID, string, error)
}

// UUIDGenerator draws UUIDv7 record ids, which order by creation time.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() (uuid.UUID, string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, ShortCodeFor(id), nil
}

// ShortCodeFor base58 encodes the low NamespaceBits of id.
func ShortCodeFor(id uuid.UUID) string {
	return base58.Encode(id[len(id)-NamespaceBits/8:])
}
