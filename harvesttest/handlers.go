package harvesttest

import "github.com/harvestnet/harvest"

// Handler is a mock implementation of the harvest.Handler interface. Each
// method call is counted.
type Handler struct {
	checkCall   int
	CheckResult harvest.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult harvest.DeliverResult
	DeliverErr    error
}

var _ harvest.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx harvest.Context, db harvest.KVStore, tx harvest.Tx) (*harvest.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
