package registry

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// QueueAddMsg queues adding a recipient to the active set.
type QueueAddMsg struct {
	Recipient harvest.Address
}

var _ harvest.Msg = (*QueueAddMsg)(nil)

func (QueueAddMsg) Path() string { return "registry/queue_add" }

func (m *QueueAddMsg) Validate() error {
	return errors.AppendField(nil, "Recipient", m.Recipient.Validate())
}

// QueueRemoveMsg queues removing a recipient from the active set.
type QueueRemoveMsg struct {
	Recipient harvest.Address
}

var _ harvest.Msg = (*QueueRemoveMsg)(nil)

func (QueueRemoveMsg) Path() string { return "registry/queue_remove" }

func (m *QueueRemoveMsg) Validate() error {
	return errors.AppendField(nil, "Recipient", m.Recipient.Validate())
}

// UpdateConfigurationMsg is used by the gconf extension to update the
// configuration.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ harvest.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string { return "registry/update_configuration" }

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}
