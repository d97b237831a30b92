package cycle

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// AdvanceCycleMsg advances a complete cycle. The signer must be one of the
// configured advancers.
type AdvanceCycleMsg struct{}

var _ harvest.Msg = (*AdvanceCycleMsg)(nil)

func (AdvanceCycleMsg) Path() string       { return "cycle/advance" }
func (m *AdvanceCycleMsg) Validate() error { return nil }

// UpdateConfigurationMsg is used by the gconf extension to update the
// configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ harvest.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string { return "cycle/update_configuration" }

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}
