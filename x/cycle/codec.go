package cycle

import amino "github.com/tendermint/go-amino"

var cdc = amino.NewCodec()

// RegisterCodec registers all messages of this package.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&AdvanceCycleMsg{}, "cycle/AdvanceCycleMsg", nil)
	c.RegisterConcrete(&UpdateConfigurationMsg{}, "cycle/UpdateConfigurationMsg", nil)
}
