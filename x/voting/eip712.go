package voting

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/crypto"
	"github.com/harvestnet/harvest/errors"
)

// Name and Version of the typed data domain.
const (
	DomainName    = "Harvest Voting"
	DomainVersion = "1"
)

var (
	domainTypeHash = crypto.Keccak256([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	voteTypeHash   = crypto.Keccak256([]byte("Vote(address voter,uint256[] points,uint256 nonce)"))
)

// Domain binds signed votes to a single deployment.
type Domain struct {
	NetworkID         uint64
	VerifyingContract harvest.Address
}

// Separator returns the EIP-712 domain separator.
func (d Domain) Separator() []byte {
	return crypto.Keccak256(
		domainTypeHash,
		crypto.Keccak256([]byte(DomainName)),
		crypto.Keccak256([]byte(DomainVersion)),
		word(d.NetworkID),
		common.LeftPadBytes(d.VerifyingContract, 32),
	)
}

// word encodes n as a 32 byte big endian uint256.
func word(n uint64) []byte {
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], n)
	return common.LeftPadBytes(raw[:], 32)
}

// pointsHash returns the hash of the points array encoded as uint256[].
func pointsHash(points []uint64) []byte {
	enc := make([][]byte, len(points))
	for i, p := range points {
		enc[i] = word(p)
	}
	return crypto.Keccak256(enc...)
}

// VoteDigest returns the 32 byte hash a voter signs to authorize a vote.
func VoteDigest(d Domain, voter harvest.Address, points []uint64, nonce uint64) []byte {
	structHash := crypto.Keccak256(
		voteTypeHash,
		common.LeftPadBytes(voter, 32),
		pointsHash(points),
		word(nonce),
	)
	return crypto.Keccak256([]byte{0x19, 0x01}, d.Separator(), structHash)
}

// SignVote produces a signature authorizing a vote of the signer.
func SignVote(signer crypto.Signer, d Domain, points []uint64, nonce uint64) ([]byte, error) {
	return signer.Sign(VoteDigest(d, signer.Address(), points, nonce))
}

// VerifyVote returns an ErrSignature unless the signature recovers to the
// voter.
func VerifyVote(d Domain, voter harvest.Address, points []uint64, nonce uint64, sig []byte) error {
	signer, err := crypto.RecoverAddress(VoteDigest(d, voter, points, nonce), sig)
	if err != nil {
		return err
	}
	if !signer.Equals(voter) {
		return errors.Wrapf(errors.ErrSignature, "signed by %s", signer)
	}
	return nil
}
