package custody

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// DepositMsg moves principal from the signer into the vault.
type DepositMsg struct {
	Amount uint64
}

var _ harvest.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string { return "custody/deposit" }

func (m *DepositMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

// WithdrawMsg returns principal from the vault to the signer.
type WithdrawMsg struct {
	Amount uint64
}

var _ harvest.Msg = (*WithdrawMsg)(nil)

func (WithdrawMsg) Path() string { return "custody/withdraw" }

func (m *WithdrawMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

// AccrueMsg moves yield from the configured yield source into the vault.
// Accrued value does not increase the principal.
type AccrueMsg struct {
	Amount uint64
}

var _ harvest.Msg = (*AccrueMsg)(nil)

func (AccrueMsg) Path() string { return "custody/accrue" }

func (m *AccrueMsg) Validate() error {
	if m.Amount == 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

// UpdateConfigurationMsg is used by the gconf extension to update the
// configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ harvest.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string { return "custody/update_configuration" }

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}
