// Package gcli implements the forge abstraction core: the polymorphic
// dispatch layer over forge backends, the normalized domain model, and the
// context/error model that threads callers through to per-backend adapters.
//
// The interactive terminal UI, the subcommand parser, configuration-file
// parsing, and git-remote inference beyond backend-type detection are
// external collaborators; this package defines only the interfaces it
// consumes from and exposes to them.
package gcli

import (
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// ForgeSelector resolves which backend a Context should dispatch to. It may
// consult environment overrides, configuration files, or git remotes —
// those details live in collaborator code, not here.
type ForgeSelector func() (ForgeType, error)

// Context is the per-operation handle threading the forge selector, user
// data, HTTP client state, and the last error through every operation.
//
// A Context is single-threaded: operations on the same Context must not run
// concurrently. Separate Contexts may be used concurrently from separate
// goroutines.
type Context struct {
	mu sync.Mutex

	selectForge ForgeSelector
	forges      map[ForgeType]Forge

	userData any

	httpClient *http.Client
	logger     *zap.Logger

	lastErr error
}

// NewContext creates a Context bound to the given forge selector. If logger
// is nil, a no-op logger is used.
func NewContext(selector ForgeSelector, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{
		selectForge: selector,
		forges:      make(map[ForgeType]Forge),
		logger:      logger,
	}
}

// RegisterForge installs the adapter implementing Forge for the given
// backend type. Adapters register themselves during program setup, not
// during operation dispatch.
func (c *Context) RegisterForge(t ForgeType, f Forge) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forges[t] = f
}

// SetUserData stashes an opaque pointer for collaborator use; it is never
// inspected by the core.
func (c *Context) SetUserData(v any) { c.userData = v }

// UserData returns whatever was last passed to SetUserData, or nil.
func (c *Context) UserData() any { return c.userData }

// SetHTTPClient overrides the persistent HTTP client used by the transport
// engine. Passing nil restores http.DefaultClient semantics on next use.
func (c *Context) SetHTTPClient(client *http.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.httpClient = client
}

// HTTPClient returns the context's persistent client, lazily creating one.
func (c *Context) HTTPClient() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c.httpClient
}

// Logger returns the context's structured logger. Never nil.
func (c *Context) Logger() *zap.Logger { return c.logger }

// currentForgeType resolves ForgeType via the selector.
func (c *Context) currentForgeType() (ForgeType, error) {
	if c.selectForge == nil {
		return "", &InputError{Reason: "no forge selector configured on context"}
	}
	return c.selectForge()
}

// Dispatch resolves and returns the Forge implementation for the context's
// currently selected backend.
func (c *Context) Dispatch() (Forge, error) {
	t, err := c.currentForgeType()
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	f, ok := c.forges[t]
	c.mu.Unlock()
	if !ok {
		return nil, &InputError{Reason: "no adapter registered for forge " + string(t)}
	}
	return f, nil
}

// setError records err as the context's last error, replacing any
// previously stored one. Success paths must not call this — a prior error
// is only overwritten by the next failing operation, per the core's
// deliberate "don't clear on success" contract.
func (c *Context) setError(err error) error {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	return err
}

// Fail records err as the context's last error and returns it unchanged, so
// call sites can write "return nil, c.Fail(err)". Backend adapters call this
// at every error-returning operation, the Go analogue of the original
// library's per-callsite gcli_error(ctx, ...) invocations. A nil err is a
// no-op and returns nil, so callers can wrap unconditionally if they want.
func (c *Context) Fail(err error) error {
	if err == nil {
		return nil
	}
	return c.setError(err)
}

// Error returns the message of the last error recorded via setError, or ""
// if none has been recorded yet. Callers must not treat a non-empty result
// as meaningful unless it followed a negative-returning operation.
func (c *Context) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastErr == nil {
		return ""
	}
	return c.lastErr.Error()
}

// LastError returns the last error value itself, for callers that want to
// errors.As into a specific kind.
func (c *Context) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
