package power

import amino "github.com/tendermint/go-amino"

var cdc = amino.NewCodec()

// RegisterCodec registers all messages of this package.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&DelegateMsg{}, "power/DelegateMsg", nil)
	c.RegisterConcrete(&UndelegateMsg{}, "power/UndelegateMsg", nil)
	c.RegisterConcrete(&UpdateConfigurationMsg{}, "power/UpdateConfigurationMsg", nil)
}
