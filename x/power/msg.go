package power

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// DelegateMsg delegates the voting power of the signer.
type DelegateMsg struct {
	Delegate harvest.Address
}

var _ harvest.Msg = (*DelegateMsg)(nil)

func (DelegateMsg) Path() string { return "power/delegate" }

func (m *DelegateMsg) Validate() error {
	return errors.AppendField(nil, "Delegate", m.Delegate.Validate())
}

// UndelegateMsg removes the delegation of the signer.
type UndelegateMsg struct{}

var _ harvest.Msg = (*UndelegateMsg)(nil)

func (UndelegateMsg) Path() string       { return "power/undelegate" }
func (m *UndelegateMsg) Validate() error { return nil }

// UpdateConfigurationMsg is used by the gconf extension to update the
// configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ harvest.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string { return "power/update_configuration" }

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}
