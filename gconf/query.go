package gconf

import (
	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
)

// RegisterQuery exposes all stored configurations under the "/gconf" path.
// The query data is the package name.
func RegisterQuery(qr harvest.QueryRouter) {
	qr.Register("/gconf", queryHandler{})
}

type queryHandler struct{}

func (queryHandler) Query(db harvest.ReadOnlyKVStore, mod string, data []byte) ([]harvest.Model, error) {
	if mod != harvest.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query mod %q", mod)
	}
	key := dbKey(string(data))
	raw, err := db.Get(key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return nil, nil
	}
	return []harvest.Model{harvest.Pair(data, raw)}, nil
}
