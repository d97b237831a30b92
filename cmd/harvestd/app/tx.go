package app

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/x/sigs"
)

// Tx is the only transaction format accepted by the chain. It carries
// exactly one message, signed by any number of signers.
type Tx struct {
	Msg        harvest.Msg
	Signatures []*sigs.StdSignature
}

var _ harvest.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (harvest.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

func (tx *Tx) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(tx)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	if err := cdc.UnmarshalBinaryBare(raw, tx); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

// GetMsg returns the single message of the transaction.
func (tx *Tx) GetMsg() (harvest.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "empty transaction")
	}
	return tx.Msg, nil
}

// GetSignatures implements sigs.SignedTx
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the serialized transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

// AddSignature appends a signature to the transaction.
func (tx *Tx) AddSignature(sig *sigs.StdSignature) {
	tx.Signatures = append(tx.Signatures, sig)
}
