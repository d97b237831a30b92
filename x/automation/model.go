package automation

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
	"github.com/harvestnet/harvest/x/coordinator"
)

// Report is the outcome of a single execution attempt.
type Report struct {
	Agent  string
	Cycle  uint64
	Status coordinator.LockStatus
	Reason string
	// Code is the ABCI code of the failure, zero on success.
	Code   uint32
	Height int64
}

var _ orm.Model = (*Report)(nil)

func (r *Report) Marshal() ([]byte, error)   { return cdc.MarshalBinaryBare(r) }
func (r *Report) Unmarshal(raw []byte) error { return cdc.UnmarshalBinaryBare(raw, r) }

func (r *Report) Validate() error {
	var errs error
	if r.Agent == "" {
		errs = errors.Append(errs, errors.Field("Agent", errors.ErrEmpty, "required"))
	}
	switch r.Status {
	case coordinator.StatusCompleted:
		if r.Code != 0 {
			errs = errors.Append(errs, errors.Field("Code", errors.ErrModel, "completed execution cannot have a failure code"))
		}
	case coordinator.StatusFailed:
	default:
		errs = errors.Append(errs, errors.Field("Status", errors.ErrModel, "must be completed or failed"))
	}
	return errs
}

// NewReportBucket returns a sequence keyed bucket of execution reports.
func NewReportBucket() orm.ModelBucket {
	return orm.NewModelBucket("autoreport", &Report{})
}

// AgentAddress returns the address an agent holds the execution lock with.
func AgentAddress(name string) harvest.Address {
	return harvest.NewCondition("automation", "agent", []byte(name)).Address()
}
