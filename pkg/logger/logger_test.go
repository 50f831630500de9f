package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestRedactsCredentials(t *testing.T) {
	l, logs := observed()

	l.Info("Login attempt",
		"email", "hanako@example.com",
		"password", "hunter22",
		"Authorization", "Bearer abc",
		"user_id", 7,
		"note", "eyJhbGciOiJIUzI1NiJ9.eyJ1c2VyX2lkIjo3fQ.sig")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, redacted, fields["email"])
	assert.Equal(t, redacted, fields["password"])
	assert.Equal(t, redacted, fields["Authorization"])
	assert.Equal(t, redacted, fields["note"])
	assert.EqualValues(t, 7, fields["user_id"])
}

func TestWithRedacts(t *testing.T) {
	l, logs := observed()

	l.With("admin_key", "k3y", "run_id", "abc").Warn("Backfill started")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, redacted, fields["admin_key"])
	assert.Equal(t, "abc", fields["run_id"])
}

func TestOddKeyValuesPassThrough(t *testing.T) {
	assert.Equal(t, []interface{}{"review_id", 3, "dangling"}, sanitizeKVs([]interface{}{"review_id", 3, "dangling"}))
	assert.Empty(t, sanitizeKVs(nil))
}
