package session

import (
	"context"
	"sync"

	"github.com/goliatone/go-errors"
)

// Manager owns the session state machine:
//
//	uninitialized -> restoring -> authenticated | unauthenticated
//
// Initialization is monotonic: once the first restore (or login) attempt
// completes the session stays initialized for the life of the process.
// Managers are injectable values, not package state; tests and multi-portal
// hosts can run independent sessions in parallel.
//
// The raw token lives in the TokenStore only. The Manager never keeps a
// parallel copy, so the credential the BearerTransport attaches is always the
// one the session validated.
type Manager struct {
	store  TokenStore
	api    AuthService
	codec  *TokenCodec
	allow  RoleSet
	logger Logger

	mu            sync.Mutex
	generation    uint64
	initialized   bool
	loading       bool
	authenticated bool
	user          *User
	lastErr       error
}

// Snapshot is a point-in-time copy of the session state
type Snapshot struct {
	Authenticated bool
	Initialized   bool
	Loading       bool
	User          *User
	Err           error
}

// NewManager returns a session manager accepting the given roles. An empty
// role list admits any valid marketplace role.
func NewManager(store TokenStore, api AuthService, roles ...UserRole) *Manager {
	return &Manager{
		store:  store,
		api:    api,
		codec:  NewTokenCodec(),
		allow:  NewRoleSet(roles...),
		logger: defLogger{},
	}
}

func (m *Manager) WithLogger(logger Logger) *Manager {
	if logger != nil {
		m.logger = logger
		m.codec = m.codec.WithLogger(logger)
	}
	return m
}

// WithCodec overrides the token codec, mostly to inject a test clock
func (m *Manager) WithCodec(codec *TokenCodec) *Manager {
	if codec != nil {
		m.codec = codec
	}
	return m
}

// Snapshot returns a copy of the current session state
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Authenticated: m.authenticated,
		Initialized:   m.initialized,
		Loading:       m.loading,
		Err:           m.lastErr,
	}
	if m.user != nil {
		user := *m.user
		snap.User = &user
	}
	return snap
}

// Initialized reports whether the first restore attempt has completed
func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// Authenticated reports whether the session currently holds a valid identity
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// User returns a copy of the authenticated user, nil when unauthenticated
func (m *Manager) User() *User {
	return m.Snapshot().User
}

// Token reads through to the persisted slot. The Manager holds no copy.
func (m *Manager) Token(ctx context.Context) (string, error) {
	return m.store.Get(ctx)
}

// Restore reconstructs the session from the persisted token. An absent token
// initializes the session unauthenticated with no error. An expired,
// undecodable, or wrongly-roled token erases the slot and records the
// failure. Restore never reaches the network.
func (m *Manager) Restore(ctx context.Context) error {
	gen := m.begin()

	token, err := m.store.Get(ctx)
	if err != nil {
		err = errors.Wrap(err, errors.CategoryOperation, "unable to read persisted token")
		m.publish(gen, outcome{err: err})
		return err
	}

	if token == "" {
		m.publish(gen, outcome{})
		return nil
	}

	user, err := m.admit(token)
	if err != nil {
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			m.logger.Error("restore: unable to erase rejected token", "error", clearErr)
		}
		m.publish(gen, outcome{err: err})
		return err
	}

	m.publish(gen, outcome{authenticated: true, user: user})
	return nil
}

// Login exchanges credentials for a token, persists it, and publishes the
// authenticated state. On failure the session stays unauthenticated and the
// classified error is recorded; recovery is caller initiated, there is no
// automatic retry.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	gen := m.begin()

	token, err := m.api.SignIn(ctx, email, password)
	if err != nil {
		m.publish(gen, outcome{err: err})
		return err
	}

	return m.establish(ctx, gen, token)
}

// Register creates an account and establishes the session from the returned
// token, following the same path as Login.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) error {
	gen := m.begin()

	token, err := m.api.SignUp(ctx, req)
	if err != nil {
		m.publish(gen, outcome{err: err})
		return err
	}

	return m.establish(ctx, gen, token)
}

// Logout clears the session and erases the persisted token. It always
// succeeds locally; a slot erase failure is logged, not surfaced. In-flight
// login or restore attempts are superseded and their completions discarded.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.generation++
	m.authenticated = false
	m.loading = false
	m.user = nil
	m.lastErr = nil
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Error("logout: unable to erase persisted token", "error", err)
	}
}

// admit validates a raw token against the codec and the portal's role set
func (m *Manager) admit(token string) (*User, error) {
	claims, err := m.codec.Decode(token)
	if err != nil {
		return nil, err
	}

	if m.codec.Expired(claims) {
		return nil, ErrTokenExpired
	}

	user, err := UserFromClaims(claims)
	if err != nil {
		return nil, err
	}

	if !m.allow.Allows(user.Role) {
		return nil, roleMismatch(user.Role, m.allow)
	}

	return user, nil
}

// establish persists a freshly issued token and publishes the session
func (m *Manager) establish(ctx context.Context, gen uint64, token string) error {
	user, err := m.admit(token)
	if err != nil {
		m.publish(gen, outcome{err: err})
		return err
	}

	// A newer attempt or a logout claimed the slot while this response was in
	// flight. Do not persist a stale credential over it.
	if m.superseded(gen) {
		m.logger.Debug("session: discarding superseded authentication attempt")
		return nil
	}

	if err := m.store.Set(ctx, token); err != nil {
		err = errors.Wrap(err, errors.CategoryOperation, "unable to persist token")
		m.publish(gen, outcome{err: err})
		return err
	}

	// publish re-checks the generation under the state lock. A logout or a
	// newer attempt that landed while the write was in flight discards this
	// outcome, and the credential it just persisted must not outlive it:
	// a stale token left in the slot would let the next restore resurrect a
	// session the user already ended.
	if !m.publish(gen, outcome{authenticated: true, user: user}) {
		if err := m.store.Clear(ctx); err != nil {
			m.logger.Error("session: unable to erase superseded credential", "error", err)
		}
	}
	return nil
}

type outcome struct {
	authenticated bool
	user          *User
	err           error
}

// begin claims a new attempt generation and flags the session as loading
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.loading = true
	m.lastErr = nil
	return m.generation
}

// publish applies an attempt's outcome unless a newer attempt superseded it.
// Every applied outcome initializes the session.
func (m *Manager) publish(gen uint64, out outcome) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		m.logger.Debug("session: discarding outcome of superseded attempt",
			"attempt", gen, "current", m.generation)
		return false
	}

	m.loading = false
	m.initialized = true
	m.authenticated = out.authenticated
	m.user = out.user
	m.lastErr = out.err
	return true
}

func (m *Manager) superseded(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen != m.generation
}

func roleMismatch(role UserRole, allowed RoleSet) error {
	clone := ErrRoleMismatch.Clone()
	if clone == nil {
		return ErrRoleMismatch
	}
	clone.Source = ErrRoleMismatch
	return clone.WithMetadata(map[string]any{
		"role":    string(role),
		"allowed": allowed.Strings(),
	})
}
