package custody

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
)

// VaultAddress holds all funds in custody.
var VaultAddress = harvest.NewCondition("custody", "vault", nil).Address()

var vaultKey = []byte("vault")

// Vault tracks the principal deposited into custody.
type Vault struct {
	Principal uint64
}

var _ orm.Model = (*Vault)(nil)

func (v *Vault) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(v) }
func (v *Vault) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, v) }
func (v *Vault) Validate() error            { return nil }

// NewVaultBucket returns a bucket holding the vault singleton.
func NewVaultBucket() orm.ModelBucket {
	return orm.NewModelBucket("custody", &Vault{})
}

// Deposit is the principal deposited by a single owner.
type Deposit struct {
	Owner  harvest.Address
	Amount uint64
}

var _ orm.Model = (*Deposit)(nil)

func (d *Deposit) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(d) }
func (d *Deposit) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, d) }

func (d *Deposit) Validate() error {
	return errors.AppendField(nil, "Owner", d.Owner.Validate())
}

// NewDepositBucket returns a bucket storing deposits by owner.
func NewDepositBucket() orm.ModelBucket {
	return orm.NewModelBucket("custody_dep", &Deposit{})
}

func loadVault(db harvest.ReadOnlyKVStore) (*Vault, error) {
	var v Vault
	switch err := NewVaultBucket().One(db, vaultKey, &v); {
	case err == nil:
		return &v, nil
	case errors.ErrNotFound.Is(err):
		return &Vault{}, nil
	default:
		return nil, errors.Wrap(err, "load vault")
	}
}

func saveVault(db harvest.KVStore, v *Vault) error {
	_, err := NewVaultBucket().Put(db, vaultKey, v)
	return err
}
