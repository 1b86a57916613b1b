// Package auth bridges a host-supplied OAuth2 config to the core's event
// bus. The core itself never drives a login flow — device code / browser
// redirect UI stays host-specific per spec §6 — but once a host has an
// oauth2.Token (however it got one), wrapping it here gets the core the
// same silent-refresh-then-persist-or-notify behavior the teacher's
// graph.TokenSourceFromPath built around golang.org/x/oauth2's
// Config.OnTokenChange, translated from "persist to disk" to "emit an
// AuthEvent the host's own token store can react to".
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/tonimelisma/musiccore/internal/eventbus"
)

// Config parameterizes a TokenSource.
type Config struct {
	OAuth    *oauth2.Config
	Bus      *eventbus.Bus
	Provider string // catalog.Provider.Kind, e.g. "onedrive"
	Logger   *slog.Logger
}

// TokenSource wraps an oauth2.TokenSource, emitting TokenRefreshing/
// TokenRefreshed/AuthError events around every Token call so a host can
// drive its SecureStore persistence (spec §4.1's SecureStore) off the
// event bus instead of the core reaching into SecureStore directly.
type TokenSource struct {
	src      oauth2.TokenSource
	bus      *eventbus.Bus
	provider string
	logger   *slog.Logger
}

// New builds a TokenSource around cfg.OAuth, seeded with initial (the
// token a host loaded from its own SecureStore or obtained via its own
// login UI). The returned TokenSource refreshes silently via the oauth2
// package's standard expiry check; every refresh calls an OnTokenChange
// hook that New installs on a copy of cfg.OAuth (cfg.OAuth itself is left
// unchanged) to emit TokenRefreshed.
func New(ctx context.Context, cfg Config, initial *oauth2.Token) *TokenSource {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ts := &TokenSource{bus: cfg.Bus, provider: cfg.Provider, logger: logger}

	oc := *cfg.OAuth
	oc.OnTokenChange = func(tok *oauth2.Token) {
		logger.Info("auth: token refreshed", "provider", ts.provider, "expiry", tok.Expiry)
		ts.emit("TokenRefreshed", "")
	}

	ts.src = oc.TokenSource(ctx, initial)

	return ts
}

// Token returns the current access token, refreshing first if the
// wrapped token is expired or near expiry.
func (t *TokenSource) Token() (string, error) {
	t.emit("TokenRefreshing", "")

	tok, err := t.src.Token()
	if err != nil {
		t.logger.Warn("auth: token acquisition failed", "provider", t.provider, "error", err)
		t.emit("AuthError", err.Error())

		return "", fmt.Errorf("auth: obtaining token for %s: %w", t.provider, err)
	}

	return tok.AccessToken, nil
}

func (t *TokenSource) emit(name, errMsg string) {
	if t.bus == nil {
		return
	}

	t.bus.Emit(eventbus.CoreEvent{Kind: eventbus.KindAuth, Auth: &eventbus.AuthEvent{
		Name:     name,
		Provider: t.provider,
		Error:    errMsg,
	}})
}
