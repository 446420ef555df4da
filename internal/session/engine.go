package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/angelmondragon/storefront-core/pkg/enums"
	"github.com/angelmondragon/storefront-core/pkg/logger"
	"github.com/angelmondragon/storefront-core/pkg/metrics"
	"github.com/angelmondragon/storefront-core/pkg/store"
)

// Options carries the optional collaborators of an Engine.
type Options struct {
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
}

// Engine owns the current identity and mirrors it under store.KeySession.
type Engine struct {
	mu       sync.Mutex
	store    store.Store
	verifier IdentityVerifier
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
	current  *Identity
}

// NewEngine hydrates the session from st. A missing, corrupted or
// unrecognized record starts the engine anonymous.
func NewEngine(ctx context.Context, st store.Store, verifier IdentityVerifier, opts Options) (*Engine, error) {
	if st == nil {
		return nil, fmt.Errorf("persistent store required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("identity verifier required")
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	e := &Engine{
		store:    st,
		verifier: verifier,
		logg:     logg,
		metrics:  opts.Metrics,
	}
	e.hydrate(logg.WithStoreKey(ctx, store.KeySession))
	return e, nil
}

func (e *Engine) hydrate(ctx context.Context) {
	raw, ok, err := e.store.Get(ctx, store.KeySession)
	if err != nil {
		e.metrics.IncStoreFailure(store.KeySession, "get")
		e.logg.WarnErr(ctx, "session.hydrate_failed", err)
		return
	}
	if !ok {
		return
	}
	var decoded Identity
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		e.logg.WarnErr(ctx, "session.hydrate_corrupted", err)
		return
	}
	identity, err := decoded.normalize()
	if err != nil {
		e.logg.WarnErr(ctx, "session.hydrate_invalid", err)
		return
	}
	e.current = &identity
	e.logg.Debug(e.logg.WithIdentityID(ctx, identity.ID), "session.hydrated")
}

// Login verifies the pair for role and makes the identity current. On
// failure the session is left as it was.
func (e *Engine) Login(ctx context.Context, login, secret string, role enums.Role) (Identity, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx = e.logg.WithActorRole(ctx, role.String())
	identity, err := e.verifier.Verify(ctx, login, secret, role)
	if err != nil {
		e.metrics.IncLogin(role.String(), loginOutcome(err))
		e.logg.Info(e.logg.WithField(ctx, "outcome", loginOutcome(err)), "session.login_rejected")
		return Identity{}, err
	}

	e.current = &identity
	e.metrics.IncLogin(role.String(), "success")
	ctx = e.logg.WithIdentityID(ctx, identity.ID)
	e.persist(e.logg.WithStoreKey(ctx, store.KeySession))
	e.logg.Info(ctx, "session.login")
	return identity, nil
}

// Logout clears the current identity and its persisted record. It is safe to
// call when already anonymous.
func (e *Engine) Logout(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil {
		ctx = e.logg.WithIdentityID(ctx, e.current.ID)
	}
	e.current = nil
	ctx = e.logg.WithStoreKey(ctx, store.KeySession)
	if err := e.store.Remove(ctx, store.KeySession); err != nil {
		e.metrics.IncStoreFailure(store.KeySession, "remove")
		e.logg.WarnErr(ctx, "session.remove_failed", err)
	}
}

// Current returns the identity, if any.
func (e *Engine) Current() (Identity, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return Identity{}, false
	}
	return *e.current, true
}

// HasRole is false when anonymous.
func (e *Engine) HasRole(role enums.Role) bool {
	identity, ok := e.Current()
	return ok && identity.HasRole(role)
}

func (e *Engine) persist(ctx context.Context) {
	raw, err := json.Marshal(e.current)
	if err != nil {
		e.logg.Error(ctx, "session.encode_failed", err)
		return
	}
	if err := e.store.Set(ctx, store.KeySession, string(raw)); err != nil {
		e.metrics.IncStoreFailure(store.KeySession, "set")
		e.logg.WarnErr(ctx, "session.persist_failed", err)
	}
}

func loginOutcome(err error) string {
	var mismatch *CredentialMismatch
	if errors.As(err, &mismatch) {
		return "mismatch_" + string(mismatch.Reason)
	}
	return "invalid_role"
}
