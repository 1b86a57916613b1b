package coreerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByKindNotMessage(t *testing.T) {
	err := NotFound("track", "abc-123")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrDatabase))
}

func TestErrorUnwrapExposesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := New(KindIO, "writing cache file", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.ErrorIs(t, err, cause)
}

func TestErrorStringIncludesKindAndMessage(t *testing.T) {
	err := InvalidInput("title", "must not be empty")
	assert.Contains(t, err.Error(), "InvalidInput")
	assert.Contains(t, err.Error(), "must not be empty")
}

func TestNotFoundPopulatesEntityAndID(t *testing.T) {
	err := NotFound("provider", "p-1")
	assert.Equal(t, "provider", err.Entity)
	assert.Equal(t, "p-1", err.ID)
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestSyncInProgressAndJobNotFound(t *testing.T) {
	sip := SyncInProgress("GoogleDrive")
	assert.Equal(t, KindSyncInProgress, sip.Kind)
	assert.Equal(t, "GoogleDrive", sip.ID)

	jnf := JobNotFound("job-9")
	assert.Equal(t, KindJobNotFound, jnf.Kind)
	assert.Equal(t, "job-9", jnf.ID)
}

func TestRateLimitedCarriesRetryAfter(t *testing.T) {
	err := RateLimited("onedrive", 30)
	assert.Equal(t, "onedrive", err.Provider)
	assert.Equal(t, 30, err.Retry)
}

func TestRetryableClassifiesByKind(t *testing.T) {
	cases := []struct {
		kind      Kind
		retryable bool
	}{
		{KindRateLimited, true},
		{KindIO, true},
		{KindOperationFailed, true},
		{KindHTTPError, true},
		{KindNotFound, false},
		{KindInvalidInput, false},
		{KindDatabase, false},
	}

	for _, c := range cases {
		err := New(c.kind, "x", nil)
		assert.Equal(t, c.retryable, Retryable(err), "kind %s", c.kind)
	}
}

func TestRetryableFalseForNonCoreErr(t *testing.T) {
	require.False(t, Retryable(errors.New("plain error")))
}

func TestKindStringCoversEveryConstant(t *testing.T) {
	assert.Equal(t, "Unknown", KindUnknown.String())
	assert.Equal(t, "NotFound", KindNotFound.String())
	assert.Equal(t, "HttpError", KindHTTPError.String())
	assert.Equal(t, "RemoteApi", KindRemoteAPI.String())
}
