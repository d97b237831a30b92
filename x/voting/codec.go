package voting

import amino "github.com/tendermint/go-amino"

var cdc = amino.NewCodec()

// RegisterCodec registers all messages of this package.
func RegisterCodec(c *amino.Codec) {
	c.RegisterConcrete(&SubmitVoteMsg{}, "voting/SubmitVoteMsg", nil)
	c.RegisterConcrete(&BatchSubmitVoteMsg{}, "voting/BatchSubmitVoteMsg", nil)
	c.RegisterConcrete(&CastVoteMsg{}, "voting/CastVoteMsg", nil)
	c.RegisterConcrete(&UpdateConfigurationMsg{}, "voting/UpdateConfigurationMsg", nil)
}
