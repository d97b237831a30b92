package voting

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// SubmitVoteMsg relays a vote signed by the voter. Anyone can submit it.
type SubmitVoteMsg struct {
	Voter     harvest.Address
	Points    []uint64
	Nonce     uint64
	Signature []byte
}

var _ harvest.Msg = (*SubmitVoteMsg)(nil)

func (SubmitVoteMsg) Path() string { return "voting/submit_vote" }

func (m *SubmitVoteMsg) Validate() error {
	return m.Vote().Validate()
}

// Vote returns the relayed vote.
func (m *SubmitVoteMsg) Vote() *Vote {
	return &Vote{
		Voter:     m.Voter,
		Points:    m.Points,
		Nonce:     m.Nonce,
		Signature: m.Signature,
	}
}

// PointList is the points of a single vote in a batch.
type PointList struct {
	Values []uint64
}

// BatchSubmitVoteMsg relays many signed votes at once. Entries are
// accepted or rejected independently.
type BatchSubmitVoteMsg struct {
	Voters     []harvest.Address
	Points     []PointList
	Nonces     []uint64
	Signatures [][]byte
}

var _ harvest.Msg = (*BatchSubmitVoteMsg)(nil)

func (BatchSubmitVoteMsg) Path() string { return "voting/batch_submit_vote" }

func (m *BatchSubmitVoteMsg) Validate() error {
	n := len(m.Voters)
	if len(m.Points) != n || len(m.Nonces) != n || len(m.Signatures) != n {
		return errors.Wrapf(errors.ErrArrayLengthMismatch,
			"voters %d, points %d, nonces %d, signatures %d",
			n, len(m.Points), len(m.Nonces), len(m.Signatures))
	}
	if n == 0 {
		return errors.Wrap(errors.ErrEmpty, "no votes")
	}
	return nil
}

// Votes returns all relayed votes in the order of the batch.
func (m *BatchSubmitVoteMsg) Votes() []*Vote {
	votes := make([]*Vote, len(m.Voters))
	for i := range m.Voters {
		votes[i] = &Vote{
			Voter:     m.Voters[i],
			Points:    m.Points[i].Values,
			Nonce:     m.Nonces[i],
			Signature: m.Signatures[i],
		}
	}
	return votes
}

// CastVoteMsg is a vote of the transaction main signer.
type CastVoteMsg struct {
	Points []uint64
}

var _ harvest.Msg = (*CastVoteMsg)(nil)

func (CastVoteMsg) Path() string { return "voting/cast_vote" }

func (m *CastVoteMsg) Validate() error {
	if len(m.Points) == 0 {
		return errors.Field("Points", errors.ErrEmpty, "required")
	}
	return nil
}

// UpdateConfigurationMsg is used by the gconf extension to update the
// configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ harvest.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string { return "voting/update_configuration" }

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}

// BatchEntry is the outcome of a single vote in a batch.
type BatchEntry struct {
	Accepted bool
	Code     uint32
	Reason   string
}

// BatchResult is returned as the data of a batch submission.
type BatchResult struct {
	Entries []BatchEntry
}

func (r *BatchResult) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(r) }
func (r *BatchResult) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, r) }
