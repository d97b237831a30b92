package custody

import amino "github.com/tendermint/go-amino"

var cdc = amino.NewCodec()

// RegisterCodec registers all messages of this package.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&DepositMsg{}, "custody/DepositMsg", nil)
	c.RegisterConcrete(&WithdrawMsg{}, "custody/WithdrawMsg", nil)
	c.RegisterConcrete(&AccrueMsg{}, "custody/AccrueMsg", nil)
	c.RegisterConcrete(&UpdateConfigurationMsg{}, "custody/UpdateConfigurationMsg", nil)
}
