package automation

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/gconf"
	"github.com/harvestnet/harvest/x"
)

const performCost = 500

// RegisterRoutes will instantiate and register all handlers in this
// package. PerformMsg can be handled by any of given agents.
func RegisterRoutes(r harvest.Registry, auth x.Authenticator, agents ...Agent) {
	byName := make(map[string]Agent, len(agents))
	for _, a := range agents {
		if _, ok := byName[a.Name()]; ok {
			panic("duplicated agent " + a.Name())
		}
		byName[a.Name()] = a
	}
	r.Handle(&PerformMsg{}, PerformHandler{auth: auth, agents: byName})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler("automation", &Configuration{}, auth))
}

// RegisterQuery registers execution reports as "/autoreports".
func RegisterQuery(qr harvest.QueryRouter) {
	NewReportBucket().Register("autoreports", qr)
}

// PerformHandler executes a distribution using the agent named in the
// message.
type PerformHandler struct {
	auth   x.Authenticator
	agents map[string]Agent
}

var _ harvest.Handler = PerformHandler{}

func (h PerformHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	agent, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	ready, payload, err := agent.CheckReady(ctx, db)
	if err != nil {
		return nil, err
	}
	if !ready || string(payload) != string(msg.Payload) {
		return nil, errors.Wrap(errors.ErrNotResolved, "distribution not ready")
	}
	return &harvest.CheckResult{GasAllocated: performCost}, nil
}

func (h PerformHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	agent, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	cstore, ok := db.(harvest.CacheableKVStore)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "execution requires a cacheable store")
	}
	report, err := agent.Execute(ctx, cstore, msg.Payload)
	if err != nil {
		return nil, err
	}
	data, err := report.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal report")
	}
	return &harvest.DeliverResult{Data: data, Tags: reportTags(report)}, nil
}

func (h PerformHandler) validate(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (Agent, *PerformMsg, error) {
	var msg PerformMsg
	if err := harvest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	agent, ok := h.agents[msg.Agent]
	if !ok {
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "agent %q", msg.Agent)
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if len(conf.Operators) != 0 && !x.HasAnyAddress(ctx, h.auth, conf.Operators) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not an operator")
	}
	return agent, &msg, nil
}
