package registry

import amino "github.com/tendermint/go-amino"

var cdc = amino.NewCodec()

// RegisterCodec registers all messages of this package.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&QueueAddMsg{}, "registry/QueueAddMsg", nil)
	c.RegisterConcrete(&QueueRemoveMsg{}, "registry/QueueRemoveMsg", nil)
	c.RegisterConcrete(&UpdateConfigurationMsg{}, "registry/UpdateConfigurationMsg", nil)
}
