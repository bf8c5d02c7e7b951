package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RemoteProvider talks to a hosted identity service over its REST API
// (accounts:signUp, accounts:signInWithPassword, accounts:signInWithIdp, accounts:update,
// accounts:lookup and the token exchange endpoint).
type RemoteProvider struct {
	Client        *http.Client
	Endpoint      string
	TokenEndpoint string
	APIKey        string
	// RequestURI is sent with federated sign-in requests.
	RequestURI string
}

func NewRemoteProvider(endpoint, tokenEndpoint, apiKey string, timeout time.Duration) *RemoteProvider {
	return &RemoteProvider{
		Endpoint:      strings.TrimRight(endpoint, "/"),
		TokenEndpoint: strings.TrimRight(tokenEndpoint, "/"),
		APIKey:        apiKey,
		RequestURI:    "http://localhost",
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 5 * time.Second,
				MaxIdleConns:        20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

var _ Provider = (*RemoteProvider)(nil)

type authResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	PhotoURL     string `json:"photoUrl"`
	ProviderID   string `json:"providerId"`
}

type lookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoUrl"`
		CreatedAt   string `json:"createdAt"` // epoch millis as string
	} `json:"users"`
}

type tokenResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UserID       string `json:"user_id"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (p *RemoteProvider) Register(ctx context.Context, email, password string) (*Credential, error) {
	var out authResponse
	err := p.postJSON(ctx, p.Endpoint+"/accounts:signUp", map[string]any{
		"email": email, "password": password, "returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return p.credential(ctx, out, "password")
}

func (p *RemoteProvider) SignIn(ctx context.Context, email, password string) (*Credential, error) {
	var out authResponse
	err := p.postJSON(ctx, p.Endpoint+"/accounts:signInWithPassword", map[string]any{
		"email": email, "password": password, "returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return p.credential(ctx, out, "password")
}

func (p *RemoteProvider) SignInWithIdP(ctx context.Context, providerID, idToken string) (*Credential, error) {
	post := url.Values{"id_token": {idToken}, "providerId": {providerID}}
	var out authResponse
	err := p.postJSON(ctx, p.Endpoint+"/accounts:signInWithIdp", map[string]any{
		"postBody":            post.Encode(),
		"requestUri":          p.RequestURI,
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return p.credential(ctx, out, providerID)
}

func (p *RemoteProvider) Refresh(ctx context.Context, refreshToken string) (*Credential, error) {
	form := url.Values{"grant_type": {"refresh_token"}, "refresh_token": {refreshToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.withKey(p.TokenEndpoint+"/token"), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var out tokenResponse
	if err := p.do(req, &out); err != nil {
		return nil, err
	}
	return p.credential(ctx, authResponse{
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresIn:    out.ExpiresIn,
		LocalID:      out.UserID,
	}, "")
}

func (p *RemoteProvider) UpdateProfile(ctx context.Context, idToken string, upd ProfileUpdate) (*User, error) {
	body := map[string]any{"idToken": idToken, "returnSecureToken": false}
	if upd.DisplayName != nil {
		body["displayName"] = *upd.DisplayName
	}
	if upd.PhotoURL != nil {
		body["photoUrl"] = *upd.PhotoURL
	}
	var out authResponse
	if err := p.postJSON(ctx, p.Endpoint+"/accounts:update", body, &out); err != nil {
		return nil, err
	}
	return p.lookup(ctx, idToken)
}

// SignOut 远端令牌由客户端丢弃即可，服务端无注销接口
func (p *RemoteProvider) SignOut(ctx context.Context, idToken string) error { return nil }

func (p *RemoteProvider) credential(ctx context.Context, r authResponse, providerID string) (*Credential, error) {
	claims, err := ParseUnverified(r.IDToken)
	if err != nil {
		return nil, err
	}
	u, err := p.lookup(ctx, r.IDToken)
	if err != nil {
		return nil, err
	}
	if u.ProviderID == "" {
		u.ProviderID = providerID
	}
	expiresAt := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	} else if secs, err := strconv.Atoi(r.ExpiresIn); err == nil {
		expiresAt = time.Now().Add(time.Duration(secs) * time.Second)
	}
	return &Credential{User: *u, IDToken: r.IDToken, RefreshToken: r.RefreshToken, ExpiresAt: expiresAt}, nil
}

func (p *RemoteProvider) lookup(ctx context.Context, idToken string) (*User, error) {
	var out lookupResponse
	if err := p.postJSON(ctx, p.Endpoint+"/accounts:lookup", map[string]any{"idToken": idToken}, &out); err != nil {
		return nil, err
	}
	if len(out.Users) == 0 {
		return nil, ErrUserNotFound
	}
	raw := out.Users[0]
	u := &User{UID: raw.LocalID, Email: raw.Email, DisplayName: raw.DisplayName, PhotoURL: raw.PhotoURL}
	if ms, err := strconv.ParseInt(raw.CreatedAt, 10, 64); err == nil {
		u.CreatedAt = time.UnixMilli(ms).UTC()
	}
	return u, nil
}

func (p *RemoteProvider) postJSON(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.withKey(endpoint), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return p.do(req, out)
}

func (p *RemoteProvider) do(req *http.Request, out any) error {
	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrProvider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e errorResponse
		_ = json.Unmarshal(body, &e)
		return mapRemoteError(resp.StatusCode, e.Error.Message)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrProvider, err)
	}
	return nil
}

func (p *RemoteProvider) withKey(endpoint string) string {
	return endpoint + "?key=" + url.QueryEscape(p.APIKey)
}

// mapRemoteError 错误码形如 "WEAK_PASSWORD : Password should be ..."，只取前缀
func mapRemoteError(status int, message string) error {
	code := message
	if i := strings.IndexAny(code, " :"); i >= 0 {
		code = code[:i]
	}
	switch code {
	case "EMAIL_EXISTS":
		return ErrEmailInUse
	case "EMAIL_NOT_FOUND", "USER_NOT_FOUND":
		return ErrUserNotFound
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return ErrWrongCredential
	case "INVALID_ID_TOKEN", "TOKEN_EXPIRED", "INVALID_REFRESH_TOKEN", "CREDENTIAL_TOO_OLD_LOGIN_AGAIN":
		return ErrInvalidToken
	}
	return fmt.Errorf("%w: status %d: %s", ErrProvider, status, message)
}
