package cancel

import (
	"context"
	"fmt"
	"sync"

	"github.com/appdraft/appdraft/internal/log"
)

// Token is the cancellation handle of a single build. The sequencer derives
// all of its suspension points from the token's context.
type Token struct {
	projectID string
	ctx       context.Context
	cancel    context.CancelFunc
}

// Context returns the context cancelled when the build is stopped or
// superseded.
func (t *Token) Context() context.Context { return t.ctx }

// Cancelled reports whether cancellation has been requested.
func (t *Token) Cancelled() bool { return t.ctx.Err() != nil }

// RegistryConfig is the configuration for the cancellation registry.
type RegistryConfig struct {
	Logger log.Logger
}

func (c *RegistryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "cancel.Registry"})
	return nil
}

// Registry maps project IDs to the single active build cancellation token,
// enforcing at most one concurrent build per project. Safe for concurrent use.
type Registry struct {
	tokens map[string]*Token
	mu     sync.Mutex
	logger log.Logger
}

// NewRegistry creates a new cancellation registry.
func NewRegistry(cfg RegistryConfig) (*Registry, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Registry{
		tokens: make(map[string]*Token),
		logger: cfg.Logger,
	}, nil
}

// Start registers a new build for the project and returns its token. Any
// previous token for the same project is cancelled and removed first.
func (r *Registry) Start(projectID string) *Token {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.tokens[projectID]; ok {
		old.cancel()
		r.logger.Debugf("Superseded active build for project %s", projectID)
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	token := &Token{projectID: projectID, ctx: ctx, cancel: cancelFn}
	r.tokens[projectID] = token

	return token
}

// Stop cancels and removes the active token for the project. It is a no-op
// when no build is active.
func (r *Registry) Stop(projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[projectID]
	if !ok {
		return
	}

	token.cancel()
	delete(r.tokens, projectID)
	r.logger.Debugf("Stopped build for project %s", projectID)
}

// Finish cancels the token and removes it from the registry, but only if it
// is still the active one for its project: a finished build must not clear
// the token of the build that superseded it.
func (r *Registry) Finish(t *Token) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.cancel()
	if current, ok := r.tokens[t.projectID]; ok && current == t {
		delete(r.tokens, t.projectID)
	}
}

// Active reports whether the project has a registered build.
func (r *Registry) Active(projectID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.tokens[projectID]
	return ok
}
