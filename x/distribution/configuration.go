package distribution

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
)

// FixedShare declares a percentage of the fixed part paid to an address.
type FixedShare struct {
	Address harvest.Address `json:"address"`
	Percent uint32          `json:"percent"`
}

// Configuration of the distribution extension.
type Configuration struct {
	Owner harvest.Address `json:"owner"`
	// FixedSplitDivisor declares the fixed part of the yield as
	// yield / divisor.
	FixedSplitDivisor uint64 `json:"fixed_split_divisor"`
	// MinYield is the smallest surplus that can be distributed.
	MinYield        uint64       `json:"min_yield"`
	FixedRecipients []FixedShare `json:"fixed_recipients"`
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
	if c.FixedSplitDivisor == 0 {
		errs = errors.Append(errs, errors.Field("FixedSplitDivisor", errors.ErrInput, "must be positive"))
	}
	if len(c.FixedRecipients) == 0 {
		errs = errors.Append(errs, errors.Field("FixedRecipients", errors.ErrEmpty, "required"))
	}
	var total uint32
	for i, f := range c.FixedRecipients {
		if err := f.Address.Validate(); err != nil {
			errs = errors.Append(errs, errors.Field("FixedRecipients", err, "element %d", i))
		}
		if f.Percent == 0 || f.Percent > 100 {
			errs = errors.Append(errs, errors.Field("FixedRecipients", errors.ErrInput, "element %d: percent must be in 1..100", i))
		}
		total += f.Percent
	}
	if len(c.FixedRecipients) != 0 && total != 100 {
		errs = errors.Append(errs, errors.Field("FixedRecipients", errors.ErrInput, "percentages sum up to %d", total))
	}
	return errs
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "distribution", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
