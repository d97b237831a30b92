package coordinator

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// AcquireLockMsg acquires the execution lock for the signer. The lock is
// held until released or until it times out.
type AcquireLockMsg struct{}

var _ harvest.Msg = (*AcquireLockMsg)(nil)

func (AcquireLockMsg) Path() string       { return "coordinator/acquire_lock" }
func (m *AcquireLockMsg) Validate() error { return nil }

// ReleaseLockMsg releases the execution lock held by the signer.
type ReleaseLockMsg struct{}

var _ harvest.Msg = (*ReleaseLockMsg)(nil)

func (ReleaseLockMsg) Path() string       { return "coordinator/release_lock" }
func (m *ReleaseLockMsg) Validate() error { return nil }

// UpdateConfigurationMsg is used by the gconf extension to update the
// configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ harvest.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string { return "coordinator/update_configuration" }

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}
