package app

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/x/automation"
	"github.com/harvestnet/harvest/x/cash"
	"github.com/harvestnet/harvest/x/coordinator"
	"github.com/harvestnet/harvest/x/custody"
	"github.com/harvestnet/harvest/x/cycle"
	"github.com/harvestnet/harvest/x/distribution"
	"github.com/harvestnet/harvest/x/power"
	"github.com/harvestnet/harvest/x/registry"
	"github.com/harvestnet/harvest/x/sigs"
	"github.com/harvestnet/harvest/x/voting"
	amino "github.com/tendermint/go-amino"
)

// cdc knows every message accepted by the application.
var cdc = amino.NewCodec()

func init() {
	cdc.RegisterInterface((*harvest.Msg)(nil), nil)
	sigs.RegisterCodec(cdc)
	cash.RegisterCodec(cdc)
	coordinator.RegisterCodec(cdc)
	custody.RegisterCodec(cdc)
	registry.RegisterCodec(cdc)
	power.RegisterCodec(cdc)
	cycle.RegisterCodec(cdc)
	voting.RegisterCodec(cdc)
	distribution.RegisterCodec(cdc)
	automation.RegisterCodec(cdc)
	cdc.Seal()
}
