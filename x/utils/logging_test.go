package utils

import (
	"testing"

	"github.com/harvestnet/harvest"
	"github.com/harvestnet/harvest/errors"
	"github.com/harvestnet/harvest/harvesttest"
	"github.com/harvestnet/harvest/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

type entry struct {
	level   string
	msg     string
	keyvals []interface{}
}

// recordingLogger collects all entries, including the key values of
// parent loggers.
type recordingLogger struct {
	entries *[]entry
	keyvals []interface{}
}

func newRecordingLogger() recordingLogger {
	return recordingLogger{entries: &[]entry{}}
}

func (l recordingLogger) add(level, msg string, keyvals []interface{}) {
	all := append(append([]interface{}{}, l.keyvals...), keyvals...)
	*l.entries = append(*l.entries, entry{level: level, msg: msg, keyvals: all})
}

func (l recordingLogger) Debug(msg string, keyvals ...interface{}) { l.add("debug", msg, keyvals) }
func (l recordingLogger) Info(msg string, keyvals ...interface{})  { l.add("info", msg, keyvals) }
func (l recordingLogger) Error(msg string, keyvals ...interface{}) { l.add("error", msg, keyvals) }

func (l recordingLogger) With(keyvals ...interface{}) log.Logger {
	return recordingLogger{
		entries: l.entries,
		keyvals: append(append([]interface{}{}, l.keyvals...), keyvals...),
	}
}

func value(keyvals []interface{}, key string) (interface{}, bool) {
	for i := 0; i+1 < len(keyvals); i += 2 {
		if keyvals[i] == key {
			return keyvals[i+1], true
		}
	}
	return nil, false
}

func TestLogging(t *testing.T) {
	cases := map[string]struct {
		handler   *harvesttest.Handler
		check     bool
		wantLevel string
		wantCode  interface{}
	}{
		"check success": {
			handler:   &harvesttest.Handler{},
			check:     true,
			wantLevel: "debug",
		},
		"deliver success": {
			handler:   &harvesttest.Handler{DeliverResult: harvest.DeliverResult{Log: "done"}},
			wantLevel: "info",
		},
		"check failure": {
			handler:   &harvesttest.Handler{CheckErr: errors.Wrap(errors.ErrNonceUsed, "replay")},
			check:     true,
			wantLevel: "info",
			wantCode:  errors.ErrNonceUsed.ABCICode(),
		},
		"deliver failure": {
			handler:   &harvesttest.Handler{DeliverErr: errors.Wrap(errors.ErrLocked, "lock held")},
			wantLevel: "error",
			wantCode:  errors.ErrLocked.ABCICode(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			logger := newRecordingLogger()
			ctx := harvest.WithLogger(harvesttest.Context(3), logger)
			db := store.MemStore()
			tx := &harvesttest.Tx{Msg: &harvesttest.Msg{RoutePath: "voting/submit_vote"}}

			var err error
			if tc.check {
				_, err = NewLogging().Check(ctx, db, tx, tc.handler)
			} else {
				_, err = NewLogging().Deliver(ctx, db, tx, tc.handler)
			}
			// The decorator never changes the outcome.
			assert.Equal(t, tc.wantCode != nil, err != nil)

			require.Len(t, *logger.entries, 1)
			e := (*logger.entries)[0]
			assert.Equal(t, tc.wantLevel, e.level)

			path, ok := value(e.keyvals, "path")
			require.True(t, ok)
			assert.Equal(t, "voting/submit_vote", path)
			_, ok = value(e.keyvals, "duration")
			assert.True(t, ok)

			code, ok := value(e.keyvals, "code")
			if tc.wantCode == nil {
				assert.False(t, ok)
			} else {
				assert.Equal(t, tc.wantCode, code)
			}
		})
	}
}
