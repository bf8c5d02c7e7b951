package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccount struct {
	uid, email, password, name, photo string
	created                           time.Time
}

// fakeIdentityService 模拟托管身份服务的 REST 接口
type fakeIdentityService struct {
	mu       sync.Mutex
	accounts map[string]*fakeAccount // by email
	tokens   map[string]*fakeAccount // id token -> account
	refresh  map[string]*fakeAccount
	seq      int
	keys     []string
}

func newFakeIdentityService() *fakeIdentityService {
	return &fakeIdentityService{
		accounts: map[string]*fakeAccount{},
		tokens:   map[string]*fakeAccount{},
		refresh:  map[string]*fakeAccount{},
	}
}

func (f *fakeIdentityService) fail(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": 400, "message": msg}})
}

func (f *fakeIdentityService) issue(w http.ResponseWriter, a *fakeAccount) {
	f.seq++
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &TokenClaims{
		Email: a.email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.uid,
			ID:        strconv.Itoa(f.seq),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("remote"))
	rt := "refresh-" + strconv.Itoa(f.seq)
	f.tokens[tok] = a
	f.refresh[rt] = a
	_ = json.NewEncoder(w).Encode(map[string]any{
		"idToken": tok, "refreshToken": rt, "expiresIn": "3600", "localId": a.uid, "email": a.email,
	})
}

func (f *fakeIdentityService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, r.URL.Query().Get("key"))
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/token" {
		_ = r.ParseForm()
		a, ok := f.refresh[r.PostForm.Get("refresh_token")]
		if !ok {
			f.fail(w, "INVALID_REFRESH_TOKEN")
			return
		}
		f.seq++
		tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &TokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: a.uid, ID: strconv.Itoa(f.seq), ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		}).SignedString([]byte("remote"))
		f.tokens[tok] = a
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id_token": tok, "refresh_token": r.PostForm.Get("refresh_token"), "expires_in": "3600", "user_id": a.uid,
		})
		return
	}

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	str := func(k string) string { s, _ := body[k].(string); return s }

	switch r.URL.Path {
	case "/accounts:signUp":
		if _, ok := f.accounts[str("email")]; ok {
			f.fail(w, "EMAIL_EXISTS")
			return
		}
		a := &fakeAccount{uid: "uid-" + str("email"), email: str("email"), password: str("password"), created: time.UnixMilli(1700000000000)}
		f.accounts[a.email] = a
		f.issue(w, a)
	case "/accounts:signInWithPassword":
		a, ok := f.accounts[str("email")]
		if !ok {
			f.fail(w, "EMAIL_NOT_FOUND")
			return
		}
		if a.password != str("password") {
			f.fail(w, "INVALID_PASSWORD : The password is invalid.")
			return
		}
		f.issue(w, a)
	case "/accounts:signInWithIdp":
		a := &fakeAccount{uid: "uid-idp", email: "idp@example.com", name: "Idp User", created: time.UnixMilli(1700000000000)}
		f.accounts[a.email] = a
		f.issue(w, a)
	case "/accounts:update":
		a, ok := f.tokens[str("idToken")]
		if !ok {
			f.fail(w, "INVALID_ID_TOKEN")
			return
		}
		if v, ok := body["displayName"].(string); ok {
			a.name = v
		}
		if v, ok := body["photoUrl"].(string); ok {
			a.photo = v
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"localId": a.uid})
	case "/accounts:lookup":
		a, ok := f.tokens[str("idToken")]
		if !ok {
			f.fail(w, "INVALID_ID_TOKEN")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"users": []map[string]any{{
			"localId": a.uid, "email": a.email, "displayName": a.name, "photoUrl": a.photo,
			"createdAt": strconv.FormatInt(a.created.UnixMilli(), 10),
		}}})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newRemote(t *testing.T) (*RemoteProvider, *fakeIdentityService) {
	t.Helper()
	fake := newFakeIdentityService()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return NewRemoteProvider(srv.URL, srv.URL, "api-key", 5*time.Second), fake
}

func TestRemoteProvider_RegisterSignIn(t *testing.T) {
	p, fake := newRemote(t)
	ctx := context.Background()

	cred, err := p.Register(ctx, "alice@example.com", "secret!")
	require.NoError(t, err)
	assert.Equal(t, "uid-alice@example.com", cred.User.UID)
	assert.Equal(t, "alice@example.com", cred.User.Email)
	assert.Equal(t, "password", cred.User.ProviderID)
	assert.Equal(t, int64(1700000000000), cred.User.CreatedAt.UnixMilli())
	assert.WithinDuration(t, time.Now().Add(time.Hour), cred.ExpiresAt, 5*time.Second)

	_, err = p.Register(ctx, "alice@example.com", "secret!")
	assert.ErrorIs(t, err, ErrEmailInUse)

	_, err = p.SignIn(ctx, "alice@example.com", "nope!!")
	assert.ErrorIs(t, err, ErrWrongCredential)

	_, err = p.SignIn(ctx, "nobody@example.com", "secret!")
	assert.ErrorIs(t, err, ErrUserNotFound)

	got, err := p.SignIn(ctx, "alice@example.com", "secret!")
	require.NoError(t, err)
	assert.Equal(t, cred.User.UID, got.User.UID)

	for _, k := range fake.keys {
		assert.Equal(t, "api-key", k)
	}
}

func TestRemoteProvider_FederatedRefreshUpdate(t *testing.T) {
	p, _ := newRemote(t)
	ctx := context.Background()

	cred, err := p.SignInWithIdP(ctx, "google.com", "google-id-token")
	require.NoError(t, err)
	assert.Equal(t, "uid-idp", cred.User.UID)
	assert.Equal(t, "Idp User", cred.User.DisplayName)
	assert.Equal(t, "google.com", cred.User.ProviderID)

	next, err := p.Refresh(ctx, cred.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "uid-idp", next.User.UID)
	assert.NotEqual(t, cred.IDToken, next.IDToken)

	_, err = p.Refresh(ctx, "bogus")
	assert.ErrorIs(t, err, ErrInvalidToken)

	u, err := p.UpdateProfile(ctx, next.IDToken, ProfileUpdate{DisplayName: StringPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", u.DisplayName)

	_, err = p.UpdateProfile(ctx, "bogus", ProfileUpdate{DisplayName: StringPtr("x")})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMapRemoteError(t *testing.T) {
	assert.ErrorIs(t, mapRemoteError(400, "EMAIL_EXISTS"), ErrEmailInUse)
	assert.ErrorIs(t, mapRemoteError(400, "INVALID_LOGIN_CREDENTIALS"), ErrWrongCredential)
	assert.ErrorIs(t, mapRemoteError(400, "USER_NOT_FOUND"), ErrUserNotFound)
	assert.ErrorIs(t, mapRemoteError(400, "TOKEN_EXPIRED"), ErrInvalidToken)

	err := mapRemoteError(400, "WEAK_PASSWORD : Password should be at least 6 characters")
	assert.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "WEAK_PASSWORD")
}
