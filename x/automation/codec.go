package automation

import amino "github.com/tendermint/go-amino"

var cdc = amino.NewCodec()

// RegisterCodec registers all messages of this package.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&PerformMsg{}, "automation/PerformMsg", nil)
	c.RegisterConcrete(&UpdateConfigurationMsg{}, "automation/UpdateConfigurationMsg", nil)
}
