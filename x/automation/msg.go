package automation

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// PerformMsg executes a distribution on behalf of the named agent. The
// payload must be the one returned by the CheckReady of that agent.
type PerformMsg struct {
	Agent   string
	Payload []byte
}

var _ harvest.Msg = (*PerformMsg)(nil)

func (PerformMsg) Path() string { return "automation/perform" }

func (m *PerformMsg) Validate() error {
	var errs error
	if m.Agent == "" {
		errs = errors.Append(errs, errors.Field("Agent", errors.ErrEmpty, "required"))
	}
	if len(m.Payload) == 0 {
		errs = errors.Append(errs, errors.Field("Payload", errors.ErrEmpty, "required"))
	}
	return errs
}

// UpdateConfigurationMsg is used by the gconf extension to update the
// configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ harvest.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string { return "automation/update_configuration" }

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}
