package cash

import (
	"regexp"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
)

var isTicker = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Configuration of the cash extension.
type Configuration struct {
	// Owner may update the configuration.
	Owner harvest.Address `json:"owner"`
	// Ticker is the name of the only denomination used.
	Ticker string `json:"ticker"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(c) }
func (c *Configuration) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, c) }
func (c *Configuration) GetOwner() harvest.Address  { return c.Owner }

func (c *Configuration) Validate() error {
	var errs error
	// owner field is optional
	if len(c.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	if !isTicker(c.Ticker) {
		errs = errors.Append(errs, errors.Field("Ticker", errors.ErrInput, "invalid ticker %q", c.Ticker))
	}
	return errs
}
