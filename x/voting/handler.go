package voting

import (
	"strconv"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/x"
	"github.com/harvestnet/harvest/x/utils"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	voteCost  = 200
	batchCost = 150
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r harvest.Registry, auth x.Authenticator, engine *Engine) {
	r.Handle(&SubmitVoteMsg{}, SubmitVoteHandler{engine: engine})
	r.Handle(&BatchSubmitVoteMsg{}, BatchSubmitVoteHandler{engine: engine})
	r.Handle(&CastVoteMsg{}, CastVoteHandler{auth: auth, engine: engine})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler("voting", &Configuration{}, auth))
}

// RegisterQuery registers all vote ledger buckets.
func RegisterQuery(qr harvest.QueryRouter) {
	NewRecordBucket().Register("votes", qr)
	NewTallyBucket().Register("tallies", qr)
	NewAggregatesBucket().Register("aggregates", qr)
	NewNonceBucket().Register("nonces", qr)
	NewVoteCastBucket().Register("votecasts", qr)
}

func voteTags(v *VoteCast) []common.KVPair {
	return []common.KVPair{
		harvest.Tag("voter", []byte(v.Voter.String())),
		harvest.Tag("cycle", []byte(strconv.FormatUint(v.Cycle, 10))),
		harvest.Tag("power", []byte(strconv.FormatUint(v.VotingPower, 10))),
	}
}

// SubmitVoteHandler records relayed votes.
type SubmitVoteHandler struct {
	engine *Engine
}

var _ harvest.Handler = SubmitVoteHandler{}

func (h SubmitVoteHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	var msg SubmitVoteMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := h.engine.CheckVote(db, msg.Vote()); err != nil {
		return nil, err
	}
	return &harvest.CheckResult{GasAllocated: voteCost}, nil
}

func (h SubmitVoteHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	var msg SubmitVoteMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	cast, err := h.engine.SubmitVote(ctx, db, msg.Vote())
	if err != nil {
		return nil, err
	}
	return &harvest.DeliverResult{Tags: voteTags(cast)}, nil
}

// BatchSubmitVoteHandler records a batch of relayed votes. A failure of a
// single entry does not affect the others.
type BatchSubmitVoteHandler struct {
	engine *Engine
}

var _ harvest.Handler = BatchSubmitVoteHandler{}

func (h BatchSubmitVoteHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	msg, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	return &harvest.CheckResult{GasAllocated: int64(len(msg.Voters)) * batchCost}, nil
}

func (h BatchSubmitVoteHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	msg, err := h.validate(db, tx)
	if err != nil {
		return nil, err
	}
	cstore, ok := db.(harvest.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "batch votes require a cacheable store")
	}

	var res BatchResult
	for _, v := range msg.Votes() {
		res.Entries = append(res.Entries, h.submit(ctx, cstore, v))
	}
	data, err := res.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal result")
	}
	return &harvest.DeliverResult{Data: data}, nil
}

// submit records a single vote in its own savepoint.
func (h BatchSubmitVoteHandler) submit(ctx harvest.Context, db harvest.CacheableKVStore, v *Vote) BatchEntry {
	err := utils.Atomic(db, func(cache harvest.KVStore) error {
		_, err := h.engine.SubmitVote(ctx, cache, v)
		return err
	})
	if err != nil {
		code, reason := errors.ABCIInfo(err, false)
		return BatchEntry{Code: code, Reason: reason}
	}
	return BatchEntry{Accepted: true}
}

func (h BatchSubmitVoteHandler) validate(db harvest.ReadOnlyKVStore, tx harvest.Tx) (*BatchSubmitVoteMsg, error) {
	var msg BatchSubmitVoteMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if len(msg.Voters) > int(conf.MaxBatchSize) {
		return nil, errors.Wrapf(errors.ErrBatchTooLarge, "%d votes, limit is %d", len(msg.Voters), conf.MaxBatchSize)
	}
	return &msg, nil
}

// CastVoteHandler records a vote of the main signer.
type CastVoteHandler struct {
	auth   x.Authenticator
	engine *Engine
}

var _ harvest.Handler = CastVoteHandler{}

func (h CastVoteHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &harvest.CheckResult{GasAllocated: voteCost}, nil
}

func (h CastVoteHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	msg, voter, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	cast, err := h.engine.CastVote(ctx, db, voter, msg.Points)
	if err != nil {
		return nil, err
	}
	return &harvest.DeliverResult{Tags: voteTags(cast)}, nil
}

func (h CastVoteHandler) validate(ctx harvest.Context, tx harvest.Tx) (*CastVoteMsg, harvest.Address, error) {
	var msg CastVoteMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return &msg, signer.Address(), nil
}
