package crypto

import (
	"crypto/ecdsa"
	"encoding/hex"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// SignatureLength is the length of a recoverable signature.
const SignatureLength = 65

// Signer is the functionality we use from a private key.
type Signer interface {
	// Sign returns a recoverable signature of given 32 bytes hash.
	Sign(hash []byte) ([]byte, error)
	Address() harvest.Address
}

// PrivateKey is a secp256k1 private key.
type PrivateKey struct {
	key *ecdsa.PrivateKey
}

var _ Signer = (*PrivateKey)(nil)

// GenPrivKey returns a random new private key.
func GenPrivKey() *PrivateKey {
	key, err := ethcrypto.GenerateKey()
	if err != nil {
		panic(err)
	}
	return &PrivateKey{key: key}
}

// PrivKeyFromHex loads a private key from its hex representation.
func PrivKeyFromHex(enc string) (*PrivateKey, error) {
	raw, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
	}
	key, err := ethcrypto.ToECDSA(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return &PrivateKey{key: key}, nil
}

// Hex returns the hex representation of the private key.
func (p *PrivateKey) Hex() string {
	return hex.EncodeToString(ethcrypto.FromECDSA(p.key))
}

// Sign returns a [R || S || V] signature with V being 0 or 1.
func (p *PrivateKey) Sign(hash []byte) ([]byte, error) {
	if len(hash) != 32 {
		return nil, errors.Wrapf(errors.ErrInput, "hash must be 32 bytes, got %d", len(hash))
	}
	sig, err := ethcrypto.Sign(hash, p.key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return sig, nil
}

// Address returns the address derived from the public key.
func (p *PrivateKey) Address() harvest.Address {
	return harvest.Address(ethcrypto.PubkeyToAddress(p.key.PublicKey).Bytes())
}

// Condition returns the condition fulfilled by a signature of this key.
func (p *PrivateKey) Condition() harvest.Condition {
	return harvest.KeyCondition(p.Address())
}

// Keccak256 returns the hash of all given chunks concatenated.
func Keccak256(data ...[]byte) []byte {
	return ethcrypto.Keccak256(data...)
}

// RecoverAddress returns the address of the key that signed given hash.
//
// Both V encodings are accepted, 0/1 and 27/28. Malleable signatures, with S
// in the upper half of the curve order, are rejected.
func RecoverAddress(hash, sig []byte) (harvest.Address, error) {
	if len(hash) != 32 {
		return nil, errors.Wrapf(errors.ErrSignature, "hash must be 32 bytes, got %d", len(hash))
	}
	if len(sig) != SignatureLength {
		return nil, errors.Wrapf(errors.ErrSignature, "signature must be %d bytes, got %d", SignatureLength, len(sig))
	}
	v := sig[64]
	if v >= 27 {
		v -= 27
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !ethcrypto.ValidateSignatureValues(v, r, s, true) {
		return nil, errors.Wrap(errors.ErrSignature, "invalid signature values")
	}

	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)
	normalized[64] = v
	pub, err := ethcrypto.SigToPub(hash, normalized)
	if err != nil {
		return nil, errors.Wrap(errors.ErrSignature, err.Error())
	}
	return harvest.Address(ethcrypto.PubkeyToAddress(*pub).Bytes()), nil
}
