// Package session tracks who is using a client process. A Manager holds at
// most one signed-in identity, mirrors it into a Store so it survives a
// restart, and reports every attempted transition to a Notifier.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/writerhub/marketplace/internal/core/domain"
	"github.com/writerhub/marketplace/internal/core/ports"
)

// DefaultChannel is the notification channel used unless WithChannel is set.
const DefaultChannel = "auth"

// State is the manager's lifecycle position.
type State int

const (
	StateUnloaded State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseError marks a persisted blob that could not be turned back into an
// identity. Load discards such blobs without telling the user.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "corrupt session: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Manager is safe for concurrent use.
type Manager struct {
	store    Store
	auth     Authenticator
	notifier Notifier
	log      zerolog.Logger
	channel  string
	now      func() time.Time

	mu       sync.Mutex
	state    State
	identity *Identity
	admin    bool
	nextSub  int
	subs     map[int]func(*domain.User)
}

func NewManager(store Store, auth Authenticator, notifier Notifier, log zerolog.Logger) *Manager {
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &Manager{
		store:    store,
		auth:     auth,
		notifier: notifier,
		log:      log,
		channel:  DefaultChannel,
		now:      func() time.Time { return time.Now().UTC() },
		subs:     make(map[int]func(*domain.User)),
	}
}

// WithChannel sets the channel stamped on notifications.
func (m *Manager) WithChannel(channel string) *Manager {
	m.channel = channel
	return m
}

// Load restores the persisted identity. It only acts in StateUnloaded; later
// calls are no-ops. A missing blob or a corrupt one leaves the manager
// anonymous; a corrupt blob is cleared. Only a failing Store read is
// returned as an error, and the manager is anonymous in that case too.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateUnloaded {
		m.mu.Unlock()
		return nil
	}

	blob, err := m.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNoSession):
		m.state = StateAnonymous
		m.mu.Unlock()
		return nil
	case err != nil:
		m.state = StateAnonymous
		m.mu.Unlock()
		return fmt.Errorf("load session: %w", err)
	}

	identity, perr := decodeIdentity(blob)
	if perr != nil {
		m.log.Debug().Err(perr).Msg("discarding persisted session")
		if err := m.store.Clear(ctx); err != nil {
			m.log.Warn().Err(err).Msg("failed to clear corrupt session")
		}
		m.state = StateAnonymous
		m.mu.Unlock()
		return nil
	}

	m.state = StateAuthenticated
	m.identity = identity
	subs := m.snapshotSubs()
	user := identity.User.Clone()
	m.mu.Unlock()

	m.log.Debug().Str("user_id", user.ID).Msg("session restored")
	broadcast(subs, user)
	return nil
}

// SignUp creates an account. It does not sign the new user in.
func (m *Manager) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	user, err := m.auth.SignUp(ctx, in)
	if err != nil {
		m.notify(VariantDestructive, "Sign Up Error", err.Error())
		return nil, err
	}
	m.notify(VariantDefault, "Account Created", "Your account has been created successfully!")
	return user, nil
}

// SignIn authenticates and, on success, persists the identity. A failed
// write to the Store is logged and does not undo the sign-in.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	identity, err := m.auth.SignIn(ctx, email, password)
	if err != nil {
		m.notify(VariantDestructive, "Sign In Error", err.Error())
		return nil, err
	}

	blob, err := json.Marshal(identity)
	if err != nil {
		m.notify(VariantDestructive, "Sign In Error", err.Error())
		return nil, fmt.Errorf("encode session: %w", err)
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.identity = identity
	m.admin = false
	subs := m.snapshotSubs()
	user := identity.User.Clone()
	m.mu.Unlock()

	if err := m.store.Save(ctx, blob); err != nil {
		m.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to persist session")
	}

	broadcast(subs, user)
	m.notify(VariantDefault, "Welcome Back!", "Hello "+user.FullName)
	return user.Clone(), nil
}

// SignOut always drops the in-memory identity. The error reports a failure
// to clear the persisted blob.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	wasAuthenticated := m.state == StateAuthenticated
	m.state = StateAnonymous
	m.identity = nil
	m.admin = false
	subs := m.snapshotSubs()
	m.mu.Unlock()

	if wasAuthenticated {
		broadcast(subs, nil)
	}

	if err := m.store.Clear(ctx); err != nil {
		m.notify(VariantDestructive, "Sign Out Error", err.Error())
		return fmt.Errorf("clear session: %w", err)
	}
	m.notify(VariantDefault, "Signed Out", "You have been signed out successfully.")
	return nil
}

// UnlockAdmin grants the in-memory admin flag when the signed-in user is an
// active admin. The flag is never persisted.
func (m *Manager) UnlockAdmin() bool {
	m.mu.Lock()
	ok := m.state == StateAuthenticated && m.identity.User.IsAdmin()
	m.admin = ok
	m.mu.Unlock()

	if !ok {
		m.notify(VariantDestructive, "Access Denied", "Admin privileges are required.")
		return false
	}
	m.notify(VariantDefault, "Admin Access Granted", "Welcome to the admin dashboard.")
	return true
}

// LockAdmin clears the admin flag.
func (m *Manager) LockAdmin() {
	m.mu.Lock()
	m.admin = false
	m.mu.Unlock()
	m.notify(VariantDefault, "Admin Logged Out", "The admin session has ended.")
}

func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.admin
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns a copy of the signed-in user, or nil.
func (m *Manager) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return nil
	}
	return m.identity.User.Clone()
}

// Token returns the bearer token of the current identity, if any.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return ""
	}
	return m.identity.Token
}

// Subscribe registers fn to be called with the current user (nil when
// anonymous) after every change of identity. The returned func unregisters it.
func (m *Manager) Subscribe(fn func(*domain.User)) (cancel func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) snapshotSubs() []func(*domain.User) {
	out := make([]func(*domain.User), 0, len(m.subs))
	for _, fn := range m.subs {
		out = append(out, fn)
	}
	return out
}

func broadcast(subs []func(*domain.User), user *domain.User) {
	for _, fn := range subs {
		fn(user.Clone())
	}
}

func (m *Manager) notify(variant Variant, title, description string) {
	m.notifier.Notify(Notification{
		Channel:     m.channel,
		Variant:     variant,
		Title:       title,
		Description: description,
		At:          m.now(),
	})
}

func decodeIdentity(blob []byte) (*Identity, error) {
	var identity Identity
	if err := json.Unmarshal(blob, &identity); err != nil {
		return nil, &ParseError{Err: err}
	}
	u := identity.User
	if u.ID == "" || u.Email == "" || !u.UserType.Valid() {
		return nil, &ParseError{Err: errors.New("missing user fields")}
	}
	return &identity, nil
}
