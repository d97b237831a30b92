package store

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBTreeCacheWrap(t *testing.T) {
	Convey("Given a memory store with some data", t, func() {
		base := MemStore()
		So(base.Set([]byte("a"), []byte("1")), ShouldBeNil)
		So(base.Set([]byte("c"), []byte("3")), ShouldBeNil)
		So(base.Set([]byte("e"), []byte("5")), ShouldBeNil)

		Convey("a cache wrap reads through to the parent", func() {
			cache := base.CacheWrap()
			val, err := cache.Get([]byte("c"))
			So(err, ShouldBeNil)
			So(val, ShouldResemble, []byte("3"))
		})

		Convey("changes in a cache wrap are isolated until written", func() {
			cache := base.CacheWrap()
			So(cache.Set([]byte("b"), []byte("2")), ShouldBeNil)
			So(cache.Delete([]byte("c")), ShouldBeNil)

			has, err := base.Has([]byte("b"))
			So(err, ShouldBeNil)
			So(has, ShouldBeFalse)
			has, err = cache.Has([]byte("c"))
			So(err, ShouldBeNil)
			So(has, ShouldBeFalse)

			Convey("and visible in the parent after write", func() {
				So(cache.Write(), ShouldBeNil)
				val, err := base.Get([]byte("b"))
				So(err, ShouldBeNil)
				So(val, ShouldResemble, []byte("2"))
				has, err := base.Has([]byte("c"))
				So(err, ShouldBeNil)
				So(has, ShouldBeFalse)
			})

			Convey("and gone after discard", func() {
				cache.Discard()
				val, err := base.Get([]byte("c"))
				So(err, ShouldBeNil)
				So(val, ShouldResemble, []byte("3"))
			})
		})

		Convey("iteration merges the cache with the parent", func() {
			cache := base.CacheWrap()
			So(cache.Set([]byte("b"), []byte("2")), ShouldBeNil)
			So(cache.Set([]byte("c"), []byte("33")), ShouldBeNil)
			So(cache.Delete([]byte("e")), ShouldBeNil)

			it, err := cache.Iterator(nil, nil)
			So(err, ShouldBeNil)
			all, err := ReadAll(it)
			So(err, ShouldBeNil)
			So(all, ShouldResemble, []Model{
				{Key: []byte("a"), Value: []byte("1")},
				{Key: []byte("b"), Value: []byte("2")},
				{Key: []byte("c"), Value: []byte("33")},
			})

			it, err = cache.ReverseIterator([]byte("b"), []byte("d"))
			So(err, ShouldBeNil)
			all, err = ReadAll(it)
			So(err, ShouldBeNil)
			So(all, ShouldResemble, []Model{
				{Key: []byte("c"), Value: []byte("33")},
				{Key: []byte("b"), Value: []byte("2")},
			})
		})
	})
}
