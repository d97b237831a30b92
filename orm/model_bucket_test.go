package orm

import (
	"encoding/json"
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	Count int64
}

func (c *counter) Marshal() ([]byte, error) { return json.Marshal(c) }
func (c *counter) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, c)
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

type other struct{ counter }

func TestModelBucketPutOne(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("counters", &counter{})

	key, err := b.Put(db, []byte("a"), &counter{Count: 3})
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), key)

	var c counter
	require.NoError(t, b.One(db, []byte("a"), &c))
	assert.Equal(t, int64(3), c.Count)

	err = b.One(db, []byte("missing"), &c)
	assert.True(t, errors.ErrNotFound.Is(err))

	err = b.One(db, []byte("a"), &other{})
	assert.True(t, errors.ErrType.Is(err))

	_, err = b.Put(db, []byte("b"), &counter{Count: -1})
	assert.True(t, errors.ErrModel.Is(err))

	require.NoError(t, b.Has(db, []byte("a")))
	require.NoError(t, b.Delete(db, []byte("a")))
	assert.True(t, errors.ErrNotFound.Is(b.Has(db, []byte("a"))))
	assert.True(t, errors.ErrNotFound.Is(b.Delete(db, []byte("a"))))
}

func TestModelBucketSequenceKeys(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("counters", &counter{})

	k1, err := b.Put(db, nil, &counter{Count: 1})
	require.NoError(t, err)
	k2, err := b.Put(db, nil, &counter{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, EncodeSequence(1), k1)
	assert.Equal(t, EncodeSequence(2), k2)
}

func TestModelBucketPrefixScan(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("counters", &counter{})
	// Another bucket with a name that shares a prefix must not leak in.
	ob := NewModelBucket("counters_x", &counter{})

	for i, k := range []string{"x1", "x2", "y1"} {
		_, err := b.Put(db, []byte(k), &counter{Count: int64(i)})
		require.NoError(t, err)
	}
	_, err := ob.Put(db, []byte("x3"), &counter{Count: 9})
	require.NoError(t, err)

	it, err := b.PrefixScan(db, []byte("x"), false)
	require.NoError(t, err)
	defer it.Release()

	var keys []string
	for {
		var c counter
		key, err := it.Next(&c)
		if IsDone(err) {
			break
		}
		require.NoError(t, err)
		keys = append(keys, string(key))
	}
	assert.Equal(t, []string{"x1", "x2"}, keys)

	it, err = b.PrefixScan(db, nil, true)
	require.NoError(t, err)
	var c counter
	key, err := it.Next(&c)
	require.NoError(t, err)
	assert.Equal(t, "y1", string(key))
	it.Release()
}

func TestModelBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("counters", &counter{})
	qr := harvest.NewQueryRouter()
	b.Register("counters", qr)

	_, err := b.Put(db, []byte("a1"), &counter{Count: 1})
	require.NoError(t, err)
	_, err = b.Put(db, []byte("a2"), &counter{Count: 2})
	require.NoError(t, err)

	h := qr.Handler("/counters")
	require.NotNil(t, h)

	res, err := h.Query(db, harvest.KeyQueryMod, []byte("a2"))
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, []byte("a2"), res[0].Key)

	res, err = h.Query(db, harvest.PrefixQueryMod, []byte("a"))
	require.NoError(t, err)
	assert.Len(t, res, 2)

	_, err = h.Query(db, "range", nil)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestPrefixRangeEnd(t *testing.T) {
	assert.Equal(t, []byte("b"), prefixRangeEnd([]byte("a")))
	assert.Equal(t, []byte{0x01}, prefixRangeEnd([]byte{0x00, 0xff}))
	assert.Nil(t, prefixRangeEnd([]byte{0xff, 0xff}))
}
