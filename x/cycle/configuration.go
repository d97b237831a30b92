package cycle

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
)

// Configuration of the cycle extension.
type Configuration struct {
	Owner harvest.Address `json:"owner"`
	// Length of a cycle in blocks. A change applies to the next cycle.
	Length int64 `json:"length"`
	// Advancers may advance a complete cycle.
	Advancers []harvest.Address `json:"advancers"`
	// BlockTime is the expected time between blocks, used for estimates
	// only.
	BlockTime harvest.UnixDuration `json:"block_time"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(c) }
func (c *Configuration) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, c) }
func (c *Configuration) GetOwner() harvest.Address  { return c.Owner }

func (c *Configuration) Validate() error {
	var errs error
	if len(c.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	if c.Length <= 0 {
		errs = errors.Append(errs, errors.Field("Length", errors.ErrInput, "must be positive"))
	}
	for i, a := range c.Advancers {
		if err := a.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Advancers", err, "element %d", i))
		}
	}
	if c.BlockTime < 0 {
		errs = errors.Append(errs, errors.Field("BlockTime", errors.ErrInput, "negative"))
	}
	return errs
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "cycle", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
