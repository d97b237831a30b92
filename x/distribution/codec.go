package distribution

import amino "github.com/tendermint/go-amino"

var cdc = amino.NewCodec()

// RegisterCodec registers all messages of this package.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&UpdateConfigurationMsg{}, "distribution/UpdateConfigurationMsg", nil)
}
