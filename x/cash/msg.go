package cash

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

const maxMemoSize = 128

// SendMsg moves funds between two accounts.
type SendMsg struct {
	Source      harvest.Address
	Destination harvest.Address
	Amount      uint64
	Memo        string
}

var _ harvest.Msg = (*SendMsg)(nil)

func (SendMsg) Path() string {
	return "cash/send"
}

func (s *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Source", s.Source.Validate())
	errs = errors.AppendField(errs, "Destination", s.Destination.Validate())
	if s.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	if len(s.Memo) > maxMemoSize {
		errs = errors.Append(errs, errors.Field("Memo", errors.ErrInput, "memo too long"))
	}
	return errs
}

// UpdateConfigurationMsg is used by the gconf extension to update the
// configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ harvest.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return "cash/update_configuration"
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}
