package coordinator

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
)

// Configuration of the coordinator extension.
type Configuration struct {
	Owner harvest.Address `json:"owner"`
	// Timeout after which a held lock can be taken over.
	Timeout harvest.UnixDuration `json:"timeout"`
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
	if c.Timeout <= 0 {
		errs = errors.Append(errs, errors.Field("Timeout", errors.ErrInput, "must be positive"))
	}
	return errs
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "coordinator", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
