package voting

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
)

// Configuration of the voting extension.
type Configuration struct {
	Owner harvest.Address `json:"owner"`
	// MaxPoints is the highest number of points a single recipient can
	// receive in a vote.
	MaxPoints uint64 `json:"max_points"`
	// Precision is the fixed point scale of allocations. A vote adds
	// power * points * Precision / MaxPoints to a recipient slot, so
	// Precision must not be below MaxPoints for the smallest vote to count.
	Precision    uint64 `json:"precision"`
	MaxBatchSize uint32 `json:"max_batch_size"`
	// Strategies are the names of the voting power strategies summed to
	// compute the power of a voter.
	Strategies        []string        `json:"strategies"`
	NetworkID         uint64          `json:"network_id"`
	VerifyingContract harvest.Address `json:"verifying_contract"`
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
	if c.MaxPoints == 0 {
		errs = errors.Append(errs, errors.Field("MaxPoints", errors.ErrInput, "must be positive"))
	}
	if c.Precision < c.MaxPoints || c.Precision == 0 {
		errs = errors.Append(errs, errors.Field("Precision", errors.ErrInput, "must be positive and not below max points"))
	}
	if c.MaxBatchSize == 0 {
		errs = errors.Append(errs, errors.Field("MaxBatchSize", errors.ErrInput, "must be positive"))
	}
	if len(c.Strategies) == 0 {
		errs = errors.Append(errs, errors.Field("Strategies", errors.ErrNoStrategies, "at least one strategy required"))
	}
	if len(c.VerifyingContract) != 0 {
		errs = errors.AppendField(errs, "VerifyingContract", c.VerifyingContract.Validate())
	}
	return errs
}

// Domain returns the typed data domain votes must be signed for.
func (c *Configuration) Domain() Domain {
	return Domain{NetworkID: c.NetworkID, VerifyingContract: c.VerifyingContract}
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "voting", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
