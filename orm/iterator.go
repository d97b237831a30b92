package orm

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// ModelIterator is an iterator over models of a single bucket.
type ModelIterator interface {
	// Next loads the next model into given destination and returns its
	// key. ErrIteratorDone is returned when there are no more models.
	Next(dest Model) (key []byte, err error)
	// Release releases the underlying iterator.
	Release()
}

type modelIterator struct {
	it   harvest.Iterator
	trim int
}

func (m *modelIterator) Next(dest Model) ([]byte, error) {
	key, value, err := m.it.Next()
	if err != nil {
		return nil, err
	}
	if err := decode(value, dest); err != nil {
		return nil, err
	}
	return key[m.trim:], nil
}

func (m *modelIterator) Release() {
	m.it.Release()
}

// IsDone returns true if given error means the iterator has no more values.
func IsDone(err error) bool {
	return errors.ErrIteratorDone.Is(err)
}
