package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/tonimelisma/musiccore/internal/eventbus"
)

func TestTokenSourceTokenReturnsValidAccessToken(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	cfg := Config{
		OAuth:    &oauth2.Config{ClientID: "test"},
		Bus:      bus,
		Provider: "onedrive",
	}
	initial := &oauth2.Token{
		AccessToken: "initial-access",
		Expiry:      time.Now().Add(time.Hour),
	}

	ts := New(context.Background(), cfg, initial)

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "initial-access", tok)
}

func TestTokenSourceTokenEmitsRefreshingEvent(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	cfg := Config{
		OAuth:    &oauth2.Config{ClientID: "test"},
		Bus:      bus,
		Provider: "onedrive",
	}
	initial := &oauth2.Token{
		AccessToken: "initial-access",
		Expiry:      time.Now().Add(time.Hour),
	}

	ts := New(context.Background(), cfg, initial)
	_, err := ts.Token()
	require.NoError(t, err)

	select {
	case ev := <-sub.Recv():
		require.Equal(t, eventbus.KindAuth, ev.Kind)
		require.NotNil(t, ev.Auth)
		assert.Equal(t, "TokenRefreshing", ev.Auth.Name)
		assert.Equal(t, "onedrive", ev.Auth.Provider)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for TokenRefreshing event")
	}
}

func TestTokenSourceTokenEmitsAuthErrorOnFailure(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	cfg := Config{
		OAuth: &oauth2.Config{
			ClientID: "test",
			Endpoint: oauth2.Endpoint{TokenURL: "http://invalid.test/token"},
		},
		Bus:      bus,
		Provider: "onedrive",
	}
	expired := &oauth2.Token{
		AccessToken: "stale",
		Expiry:      time.Now().Add(-time.Hour),
	}

	ts := New(context.Background(), cfg, expired)

	_, err := ts.Token()
	require.Error(t, err)

	var sawError bool
	for i := 0; i < 2; i++ {
		select {
		case ev := <-sub.Recv():
			if ev.Auth != nil && ev.Auth.Name == "AuthError" {
				sawError = true
				assert.NotEmpty(t, ev.Auth.Error)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for AuthError event")
		}
	}

	assert.True(t, sawError, "expected an AuthError event")
}

func TestTokenSourceWithNilBusDoesNotPanic(t *testing.T) {
	cfg := Config{
		OAuth:    &oauth2.Config{ClientID: "test"},
		Provider: "onedrive",
	}
	initial := &oauth2.Token{
		AccessToken: "initial-access",
		Expiry:      time.Now().Add(time.Hour),
	}

	ts := New(context.Background(), cfg, initial)

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "initial-access", tok)
}

func TestTokenSourceEmitPublishesAuthEvent(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	cfg := Config{
		OAuth:    &oauth2.Config{ClientID: "test"},
		Bus:      bus,
		Provider: "onedrive",
	}
	initial := &oauth2.Token{
		AccessToken: "initial-access",
		Expiry:      time.Now().Add(time.Hour),
	}

	ts := New(context.Background(), cfg, initial)

	ts.emit("TokenRefreshing", "")

	select {
	case ev := <-sub.Recv():
		require.NotNil(t, ev.Auth)
		assert.Equal(t, "TokenRefreshing", ev.Auth.Name)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for emitted event")
	}
}
