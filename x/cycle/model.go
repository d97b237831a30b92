package cycle

import (
	"time"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
)

var currentKey = []byte("current")

// Cycle is a voting and distribution period.
type Cycle struct {
	Number      uint64
	StartHeight int64
	Length      int64
}

var _ orm.Model = (*Cycle)(nil)

func (c *Cycle) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(c) }
func (c *Cycle) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, c) }

func (c *Cycle) Validate() error {
	var errs error
	if c.Number == 0 {
		errs = errors.Append(errs, errors.Field("Number", errors.ErrModel, "cycles are numbered from 1"))
	}
	if c.StartHeight < 0 {
		errs = errors.Append(errs, errors.Field("StartHeight", errors.ErrModel, "negative"))
	}
	if c.Length <= 0 {
		errs = errors.Append(errs, errors.Field("Length", errors.ErrModel, "must be positive"))
	}
	return errs
}

// EndHeight returns the first height at which the cycle is complete.
func (c *Cycle) EndHeight() int64 {
	return c.StartHeight + c.Length
}

// NewCycleBucket returns a bucket holding the current cycle.
func NewCycleBucket() orm.ModelBucket {
	return orm.NewModelBucket("cycle", &Cycle{})
}

// NewHistoryBucket returns a bucket of all past cycles, keyed by the cycle
// number.
func NewHistoryBucket() orm.ModelBucket {
	return orm.NewModelBucket("cyclehist", &Cycle{})
}

// CycleInfo is a snapshot of the current cycle state.
type CycleInfo struct {
	Number          uint64        `json:"number"`
	StartHeight     int64         `json:"start_height"`
	EndHeight       int64         `json:"end_height"`
	Length          int64         `json:"length"`
	CurrentHeight   int64         `json:"current_height"`
	BlocksRemaining int64         `json:"blocks_remaining"`
	TimeRemaining   time.Duration `json:"time_remaining"`
	Complete        bool          `json:"complete"`
}

func newCycleInfo(c *Cycle, height int64, blockTime harvest.UnixDuration) *CycleInfo {
	remaining := c.EndHeight() - height
	if remaining < 0 {
		remaining = 0
	}
	return &CycleInfo{
		Number:          c.Number,
		StartHeight:     c.StartHeight,
		EndHeight:       c.EndHeight(),
		Length:          c.Length,
		CurrentHeight:   height,
		BlocksRemaining: remaining,
		TimeRemaining:   time.Duration(remaining) * blockTime.Duration(),
		Complete:        height >= c.EndHeight(),
	}
}
