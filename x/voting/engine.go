package voting

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/crypto"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/orm"
	"github.com/harvestnet/harvest/x"
	"github.com/harvestnet/harvest/x/cycle"
	"github.com/harvestnet/harvest/x/power"
	"github.com/harvestnet/harvest/x/registry"
)

// RecipientCounter provides the number of recipient slots a vote must
// cover.
type RecipientCounter interface {
	ActiveRecipientCount(db harvest.ReadOnlyKVStore) (int, error)
}

var _ RecipientCounter = (registry.Controller)(nil)

// Vote is a vote relayed on behalf of the voter.
type Vote struct {
	Voter     harvest.Address
	Points    []uint64
	Nonce     uint64
	Signature []byte
}

// Validate checks that the vote is well formed.
func (v *Vote) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Voter", v.Voter.Validate())
	if len(v.Signature) != crypto.SignatureLength {
		errs = errors.Append(errs, errors.Field("Signature", errors.ErrSignature,
			"must be %d bytes", crypto.SignatureLength))
	}
	return errs
}

// Engine records votes.
type Engine struct {
	recipients RecipientCounter
	strategies map[string]power.Strategy
}

// NewEngine returns an engine that computes the voting power using the
// strategies named in the configuration. Only strategies present in given
// set can be configured.
func NewEngine(recipients RecipientCounter, strategies map[string]power.Strategy) *Engine {
	return &Engine{recipients: recipients, strategies: strategies}
}

// CheckVote runs all validations of a relayed vote without changing the
// state.
func (e *Engine) CheckVote(db harvest.ReadOnlyKVStore, v *Vote) (*Configuration, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if err := e.checkPoints(db, conf, v.Points); err != nil {
		return nil, err
	}
	switch used, err := IsNonceUsed(db, v.Voter, v.Nonce); {
	case err != nil:
		return nil, errors.Wrap(err, "nonce")
	case used:
		return nil, errors.Wrapf(errors.ErrNonceUsed, "nonce %d", v.Nonce)
	}
	if err := VerifyVote(conf.Domain(), v.Voter, v.Points, v.Nonce, v.Signature); err != nil {
		return nil, err
	}
	return conf, nil
}

// SubmitVote records a vote relayed on behalf of the voter and consumes
// its nonce.
func (e *Engine) SubmitVote(ctx harvest.Context, db harvest.KVStore, v *Vote) (*VoteCast, error) {
	conf, err := e.CheckVote(db, v)
	if err != nil {
		return nil, err
	}
	cur, err := cycle.CurrentCycle(db)
	if err != nil {
		return nil, err
	}
	height, _ := harvest.GetHeight(ctx)
	used := NonceRecord{Cycle: cur.Number, Height: height}
	if _, err := NewNonceBucket().Put(db, nonceKey(v.Voter, v.Nonce), &used); err != nil {
		return nil, errors.Wrap(err, "mark nonce")
	}
	return e.record(ctx, db, conf, cur.Number, v.Voter, v.Points, v.Nonce)
}

// CastVote records a vote of an authenticated voter.
func (e *Engine) CastVote(ctx harvest.Context, db harvest.KVStore, voter harvest.Address, points []uint64) (*VoteCast, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if err := e.checkPoints(db, conf, points); err != nil {
		return nil, err
	}
	cur, err := cycle.CurrentCycle(db)
	if err != nil {
		return nil, err
	}
	return e.record(ctx, db, conf, cur.Number, voter, points, 0)
}

// checkPoints validates points against the max points of the current
// cycle.
func (e *Engine) checkPoints(db harvest.ReadOnlyKVStore, conf *Configuration, points []uint64) error {
	cur, err := cycle.CurrentCycle(db)
	if err != nil {
		return err
	}
	agg, err := GetAggregates(db, cur.Number)
	if err != nil {
		return err
	}
	_, maxPoints := agg.Scale(conf)

	n, err := e.recipients.ActiveRecipientCount(db)
	if err != nil {
		return errors.Wrap(err, "recipient count")
	}
	if len(points) != n {
		return errors.Wrapf(errors.ErrRecipientCount, "got %d points for %d recipients", len(points), n)
	}
	var total uint64
	for i, p := range points {
		if p > maxPoints {
			return errors.Wrapf(errors.ErrPointsDistribution, "recipient %d: %d points exceed %d", i, p, maxPoints)
		}
		if total, err = x.AddUint64(total, p); err != nil {
			return errors.Wrap(errors.ErrPointsDistribution, "points total overflow")
		}
	}
	if total == 0 {
		return errors.Wrap(errors.ErrPointsDistribution, "no points assigned")
	}
	return nil
}

func (e *Engine) record(
	ctx harvest.Context,
	db harvest.KVStore,
	conf *Configuration,
	cycleNum uint64,
	voter harvest.Address,
	points []uint64,
	nonce uint64,
) (*VoteCast, error) {
	strategy, err := power.Compose(conf.Strategies, e.strategies)
	if err != nil {
		return nil, err
	}
	vp, err := strategy.CurrentPower(ctx, db, voter)
	if err != nil {
		return nil, errors.Wrap(err, "voting power")
	}

	old, err := GetRecord(db, cycleNum, voter)
	if err != nil {
		return nil, errors.Wrap(err, "previous vote")
	}
	agg, err := GetAggregates(db, cycleNum)
	if err != nil {
		return nil, err
	}
	precision, maxPoints := agg.Scale(conf)
	agg.Precision, agg.MaxPoints = precision, maxPoints
	delta, err := ApplyDelta(old, vp, points, precision, maxPoints)
	if err != nil {
		return nil, err
	}
	tally, err := GetTally(db, cycleNum)
	if err != nil {
		return nil, err
	}
	if err := delta.Update(agg, tally); err != nil {
		return nil, err
	}

	key := orm.EncodeSequence(cycleNum)
	if _, err := NewAggregatesBucket().Put(db, key, agg); err != nil {
		return nil, errors.Wrap(err, "save aggregates")
	}
	if _, err := NewTallyBucket().Put(db, key, tally); err != nil {
		return nil, errors.Wrap(err, "save tally")
	}
	rec := VoterCycleRecord{
		Cycle:           cycleNum,
		Voter:           voter,
		VotingPowerUsed: vp,
		Points:          points,
		Allocations:     delta.Apply.Allocations,
		LastVotedCycle:  cycleNum,
	}
	if _, err := NewRecordBucket().Put(db, recordKey(cycleNum, voter), &rec); err != nil {
		return nil, errors.Wrap(err, "save vote")
	}

	height, _ := harvest.GetHeight(ctx)
	cast := VoteCast{
		Cycle:       cycleNum,
		Voter:       voter,
		Points:      points,
		Nonce:       nonce,
		VotingPower: vp,
		Recast:      old != nil,
		Height:      height,
	}
	if _, err := NewVoteCastBucket().Put(db, nil, &cast); err != nil {
		return nil, errors.Wrap(err, "save vote cast")
	}
	harvest.GetLogger(ctx).With("module", "voting").Debug("vote cast",
		"voter", voter, "cycle", cycleNum, "power", vp, "recast", cast.Recast)
	return &cast, nil
}
