package coordinator

import amino "github.com/tendermint/go-amino"

var cdc = amino.NewCodec()

// RegisterCodec registers all messages of this package.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&AcquireLockMsg{}, "coordinator/AcquireLockMsg", nil)
	c.RegisterConcrete(&ReleaseLockMsg{}, "coordinator/ReleaseLockMsg", nil)
	c.RegisterConcrete(&UpdateConfigurationMsg{}, "coordinator/UpdateConfigurationMsg", nil)
}
