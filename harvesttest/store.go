package harvesttest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) (db harvest.CommitKVStore, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "harvest")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}

	db = iavl.NewCommitStore(dbpath, "db")
	if err := db.LoadLatestVersion(); err != nil {
		t.Fatalf("cannot load store: %s", err)
	}
	return db, func() { os.RemoveAll(dbpath) }
}
