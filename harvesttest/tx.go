package harvesttest

import "github.com/harvestnet/harvest"

// Tx represents a harvest transaction with a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg harvest.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ harvest.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (harvest.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a harvest message routed by its path.
type Msg struct {
	// RoutePath returned by the path method, consumed by the router.
	RoutePath string
	// Err if set is returned by the Validate method.
	Err error
}

var _ harvest.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}
