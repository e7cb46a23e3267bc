package store

import (
	"context"
	"sync"

	"github.com/HammerMeetNail/suggestly/internal/api"
	"github.com/HammerMeetNail/suggestly/internal/forms"
	"github.com/HammerMeetNail/suggestly/internal/logging"
	"github.com/HammerMeetNail/suggestly/internal/models"
	"github.com/HammerMeetNail/suggestly/internal/services"
)

type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticating  Status = "authenticating"
	StatusAuthenticated   Status = "authenticated"
)

const (
	msgLoginFailed        = "Login failed"
	msgRegistrationFailed = "Registration failed"
	msgProfileFailed      = "Failed to save profile"
)

// AuthState is a read-only copy of the Auth store's state. Ready turns
// true once session recovery has finished.
type AuthState struct {
	Status Status
	User   *models.User
	Error  string
	Ready  bool
}

func (s AuthState) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

type LoginOutcome struct {
	OK      bool
	User    *models.User
	Message string
	Err     error
}

// RegisterOutcome separates account creation from the automatic login that
// follows it.
type RegisterOutcome struct {
	AccountCreated bool
	Login          LoginOutcome
	Err            error // registration failure; nil once the account exists
	message        string
}

func (o RegisterOutcome) OK() bool {
	return o.AccountCreated && o.Login.OK
}

// Message is the text to show on failure. When the account was created but
// the login failed, it is the login's message.
func (o RegisterOutcome) Message() string {
	if !o.AccountCreated {
		return o.message
	}
	return o.Login.Message
}

type SaveResult struct {
	OK      bool
	User    *models.User
	Err     error
	Message string
}

type AuthStore struct {
	auth   services.AuthServiceInterface
	users  services.UserServiceInterface
	logger *logging.Logger

	mu    sync.Mutex
	state AuthState

	subMu   sync.Mutex
	subs    map[int]func(AuthState)
	nextSub int
}

type AuthOption func(*AuthStore)

func WithAuthLogger(logger *logging.Logger) AuthOption {
	return func(s *AuthStore) { s.logger = logger }
}

// NewAuthStore builds the store and recovers any stored session before
// returning. Recovery that fails for any reason logs out fully.
func NewAuthStore(ctx context.Context, auth services.AuthServiceInterface, users services.UserServiceInterface, opts ...AuthOption) *AuthStore {
	s := &AuthStore{
		auth:  auth,
		users: users,
		state: AuthState{Status: StatusUnauthenticated},
		subs:  make(map[int]func(AuthState)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Default
	}
	s.logger = s.logger.WithComponent("auth_store")

	s.recoverSession(ctx)
	return s
}

func (s *AuthStore) recoverSession(ctx context.Context) {
	defer s.update(func(st *AuthState) { st.Ready = true })

	if !s.auth.IsAuthenticated(ctx) {
		return
	}
	s.update(func(st *AuthState) { st.Status = StatusAuthenticating })

	user, err := s.auth.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn("Session recovery failed", map[string]interface{}{"error": err.Error()})
		s.logout(ctx)
		return
	}
	s.update(func(st *AuthState) {
		st.Status = StatusAuthenticated
		st.User = user
	})
}

func (s *AuthStore) Snapshot() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *AuthStore) snapshotLocked() AuthState {
	snap := s.state
	snap.User = s.state.User.Clone()
	return snap
}

func (s *AuthStore) Subscribe(fn func(AuthState)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *AuthStore) update(mutate func(*AuthState)) {
	s.mu.Lock()
	mutate(&s.state)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.subMu.Lock()
	fns := make([]func(AuthState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// Login persists the token pair and loads the canonical user. If the user
// cannot be loaded the stored tokens are dropped again.
func (s *AuthStore) Login(ctx context.Context, creds models.Credentials) LoginOutcome {
	s.update(func(st *AuthState) {
		st.Status = StatusAuthenticating
		st.Error = ""
	})

	fail := func(err error) LoginOutcome {
		msg := api.Message(err, msgLoginFailed)
		s.update(func(st *AuthState) {
			st.Status = StatusUnauthenticated
			st.User = nil
			st.Error = msg
		})
		return LoginOutcome{Err: err, Message: msg}
	}

	if _, err := s.auth.Login(ctx, creds); err != nil {
		return fail(err)
	}
	user, err := s.auth.CurrentUser(ctx)
	if err != nil {
		if lerr := s.auth.Logout(ctx); lerr != nil {
			s.logger.Error("Failed to clear session", map[string]interface{}{"error": lerr.Error()})
		}
		return fail(err)
	}

	s.update(func(st *AuthState) {
		st.Status = StatusAuthenticated
		st.User = user
	})
	return LoginOutcome{OK: true, User: user}
}

// Register creates the account and then logs in with the email and
// password just registered.
func (s *AuthStore) Register(ctx context.Context, params models.RegisterParams) RegisterOutcome {
	s.update(func(st *AuthState) {
		st.Status = StatusAuthenticating
		st.Error = ""
	})

	if err := s.auth.Register(ctx, params); err != nil {
		msg := api.Message(err, msgRegistrationFailed)
		s.update(func(st *AuthState) {
			st.Status = StatusUnauthenticated
			st.Error = msg
		})
		return RegisterOutcome{Err: err, message: msg}
	}

	login := s.Login(ctx, models.Credentials{Username: params.Email, Password: params.Password})
	return RegisterOutcome{AccountCreated: true, Login: login}
}

// Logout resets the session state and clears the stored tokens. Only the
// best-effort server invalidation touches the network.
func (s *AuthStore) Logout(ctx context.Context) {
	s.logout(ctx)
}

func (s *AuthStore) logout(ctx context.Context) {
	s.update(func(st *AuthState) {
		st.Status = StatusUnauthenticated
		st.User = nil
		st.Error = ""
	})
	if err := s.auth.Logout(ctx); err != nil {
		s.logger.Error("Failed to clear session", map[string]interface{}{"error": err.Error()})
	}
}

// UpdateUser replaces the user wholesale.
func (s *AuthStore) UpdateUser(user *models.User) {
	s.update(func(st *AuthState) { st.User = user })
}

// SaveProfile validates the form, writes the profile and the preferences,
// and then replaces the user with the server's canonical copy.
func (s *AuthStore) SaveProfile(ctx context.Context, form *forms.ProfileForm) SaveResult {
	if errs := form.Validate(); errs.Err() != nil {
		return SaveResult{Err: errs, Message: errs.Error()}
	}

	fail := func(err error) SaveResult {
		return SaveResult{Err: err, Message: api.Message(err, msgProfileFailed)}
	}
	if _, err := s.users.UpdateProfile(ctx, form.ProfileUpdate()); err != nil {
		return fail(err)
	}
	if _, err := s.users.UpdatePreferences(ctx, form.PreferencesUpdate()); err != nil {
		return fail(err)
	}
	user, err := s.users.Profile(ctx)
	if err != nil {
		return fail(err)
	}

	s.UpdateUser(user)
	return SaveResult{OK: true, User: user}
}
