package automation

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
)

// Configuration of the automation extension.
type Configuration struct {
	Owner harvest.Address `json:"owner"`
	// Operators may submit PerformMsg. When empty, anyone can.
	Operators []harvest.Address `json:"operators"`
	// Ticker enables executing distributions at the beginning of a block.
	Ticker bool `json:"ticker"`
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
	for i, op := range c.Operators {
		if err := op.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("Operators", err, "element %d", i))
		}
	}
	return errs
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "automation", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
