package harvesttest

import (
	"encoding/binary"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/crypto"
)

// NewKey returns a new random secp256k1 key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKey()
}

// NewCondition returns the condition of a new random key.
func NewCondition() harvest.Condition {
	return NewKey().Condition()
}

// SequenceID returns the binary representation of a sequence value, as
// generated by orm sequences.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
