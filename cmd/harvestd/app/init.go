package app

import (
	"encoding/json"
	"fmt"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/crypto"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/x/cash"
	"github.com/harvestnet/harvest/x/distribution"
	"github.com/harvestnet/harvest/x/power"
)

// GenInitOptions produces the app_state of a development chain. A single
// account owns every configuration, receives the whole fixed share and holds
// the initial supply.
//
// The first argument is the ticker (default HRV), the second the hex or
// bech32 encoded owner address. If no address is given a new key is
// generated and its private key printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := "HRV"
	if len(args) > 0 {
		ticker = args[0]
	}

	var owner harvest.Address
	if len(args) > 1 {
		addr, err := harvest.ParseAddress(args[1])
		if err != nil {
			return nil, errors.Wrap(err, "owner address")
		}
		owner = addr
	} else {
		key := crypto.GenPrivKey()
		owner = key.Address()
		fmt.Printf("generated owner key: %s\n", key.Hex())
	}

	type dict map[string]interface{}
	return json.Marshal(dict{
		"cash": []cash.GenesisAccount{
			{Address: owner, Amount: 1000000000},
		},
		"registry": dict{
			"recipients": []harvest.Address{},
		},
		"conf": dict{
			"cash": dict{
				"owner":  owner,
				"ticker": ticker,
			},
			"coordinator": dict{
				"owner":   owner,
				"timeout": "10m",
			},
			"custody": dict{
				"owner":        owner,
				"yield_source": owner,
			},
			"registry": dict{
				"owner": owner,
			},
			"power": dict{
				"owner":  owner,
				"window": 1000,
			},
			"cycle": dict{
				"owner":      owner,
				"length":     1000,
				"advancers":  []harvest.Address{owner},
				"block_time": "5s",
			},
			"voting": dict{
				"owner":          owner,
				"max_points":     100,
				"precision":      1000000,
				"max_batch_size": 50,
				"strategies":     []string{power.Balance},
				"network_id":     1,
			},
			"distribution": dict{
				"owner":               owner,
				"fixed_split_divisor": 4,
				"min_yield":           1,
				"fixed_recipients": []distribution.FixedShare{
					{Address: owner, Percent: 100},
				},
			},
			"automation": dict{
				"owner":  owner,
				"ticker": true,
			},
		},
	})
}
