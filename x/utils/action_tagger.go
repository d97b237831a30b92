package utils

import (
	"github.com/harvestnet/harvest"
)

// ActionKey is used by ActionTagger as the Key in the Tag it appends
const ActionKey = "action"

// ActionTagger adds an `action = msg.Path()` tag to every successfully
// delivered transaction, so clients can subscribe to all submitted votes or
// executed distributions.
type ActionTagger struct{}

var _ harvest.Decorator = ActionTagger{}

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx, next harvest.Checker) (*harvest.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ActionTagger) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx, next harvest.Deliverer) (*harvest.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, harvest.Tag(ActionKey, []byte(msg.Path())))
	return res, nil
}
