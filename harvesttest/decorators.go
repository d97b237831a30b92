package harvesttest

import "github.com/harvestnet/harvest"

// Decorator is a mock implementation of the harvest.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding
// method. If error attributes are not set then wrapped handler method is
// called and its result returned.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ harvest.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx, next harvest.Checker) (*harvest.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx, next harvest.Deliverer) (*harvest.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

// Decorate returns a handler that calls given decorator with the handler
// as the next step.
func Decorate(h harvest.Handler, d harvest.Decorator) harvest.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn harvest.Handler
	dc harvest.Decorator
}

func (d *decoratedHandler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
