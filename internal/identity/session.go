package identity

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/pkg/logger"
)

// Listener receives the current user, or nil when signed out.
type Listener func(*User)

// Session owns the signed-in state for one running client. It is created at startup and its
// state is dropped on sign-out; listeners are told about every change, in the order the changes
// happened. Listeners must not sign in or out from inside the callback.
type Session struct {
	provider Provider
	now      func() time.Time

	// notifyMu 从状态变更一直持有到回调结束，保证监听者看到的顺序与变更顺序一致
	notifyMu sync.Mutex

	mu        sync.Mutex
	cred      *Credential
	listeners map[int]Listener
	nextID    int
}

func NewSession(provider Provider, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{provider: provider, now: now, listeners: map[int]Listener{}}
}

// Current 当前用户，未登录返回 nil
func (s *Session) Current() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil {
		return nil
	}
	u := s.cred.User
	return &u
}

// Token returns the ID token of the signed-in user.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil {
		return "", false
	}
	return s.cred.IDToken, true
}

// Subscribe registers l and immediately delivers the current state to it.
func (s *Session) Subscribe(l Listener) (unsubscribe func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	var cur *User
	if s.cred != nil {
		u := s.cred.User
		cur = &u
	}
	s.mu.Unlock()

	l(cur)
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if err := ValidateRegistration(email, password); err != nil {
		return nil, err
	}
	cred, err := s.provider.Register(ctx, email, password)
	if err != nil {
		logger.Warn("register failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return s.set(cred), nil
}

func (s *Session) SignIn(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if err := ValidateSignIn(email, password); err != nil {
		return nil, err
	}
	cred, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		logger.Warn("sign in failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return s.set(cred), nil
}

func (s *Session) SignInWithIdP(ctx context.Context, providerID, idToken string) (*User, error) {
	if idToken == "" {
		return nil, &ValidationError{Field: "idToken", Message: "Identity token is required"}
	}
	cred, err := s.provider.SignInWithIdP(ctx, providerID, idToken)
	if err != nil {
		logger.Warn("federated sign in failed", zap.String("provider", providerID), zap.Error(err))
		return nil, err
	}
	return s.set(cred), nil
}

// SignOut drops the session immediately. The provider is told afterwards; its error is
// logged and does not keep the session alive.
func (s *Session) SignOut(ctx context.Context) error {
	s.notifyMu.Lock()
	s.mu.Lock()
	cred := s.cred
	s.cred = nil
	s.mu.Unlock()
	if cred == nil {
		s.notifyMu.Unlock()
		return nil
	}
	s.notify(nil)
	s.notifyMu.Unlock()
	if err := s.provider.SignOut(ctx, cred.IDToken); err != nil {
		logger.Warn("provider sign out failed", zap.String("uid", cred.User.UID), zap.Error(err))
	}
	return nil
}

// Refresh renews the ID token when it is close to expiry. Any provider error ends the session:
// the caller sees "no current user" and no retry is attempted here.
func (s *Session) Refresh(ctx context.Context) *User {
	s.mu.Lock()
	cred := s.cred
	s.mu.Unlock()
	if cred == nil {
		return nil
	}
	if s.now().Before(cred.ExpiresAt.Add(-time.Minute)) {
		u := cred.User
		return &u
	}
	next, err := s.provider.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		logger.Warn("session refresh failed, signing out", zap.String("uid", cred.User.UID), zap.Error(err))
		s.clear(cred)
		return nil
	}
	return s.set(next)
}

// UpdateProfile pushes provider-held fields (display name, avatar) and republishes the user.
func (s *Session) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*User, error) {
	token, ok := s.Token()
	if !ok {
		return nil, ErrNotSignedIn
	}
	u, err := s.provider.UpdateProfile(ctx, token, upd)
	if err != nil {
		return nil, err
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.cred == nil || s.cred.IDToken != token {
		s.mu.Unlock()
		return u, nil
	}
	merged := s.cred.User
	merged.DisplayName = u.DisplayName
	merged.PhotoURL = u.PhotoURL
	if !u.CreatedAt.IsZero() {
		merged.CreatedAt = u.CreatedAt
	}
	s.cred.User = merged
	s.mu.Unlock()

	s.notify(&merged)
	return &merged, nil
}

func (s *Session) set(cred *Credential) *User {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.cred = cred
	u := cred.User
	s.mu.Unlock()
	s.notify(&u)
	return &u
}

// clear drops cred only if it is still the active credential.
func (s *Session) clear(cred *Credential) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.cred != cred {
		s.mu.Unlock()
		return
	}
	s.cred = nil
	s.mu.Unlock()
	s.notify(nil)
}

// notify 按订阅顺序回调，调用方持有 notifyMu，回调在 mu 外执行
func (s *Session) notify(u *User) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	ls := make([]Listener, 0, len(ids))
	for _, id := range ids {
		ls = append(ls, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range ls {
		if u == nil {
			l(nil)
			continue
		}
		cp := *u
		l(&cp)
	}
}
