package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/repository"
)

const (
	localIssuer      = "social-feed-local"
	audienceID       = "id"
	audienceRefresh  = "refresh"
	refreshTTLFactor = 24 * 30
	providerPassword = "password"
)

// LocalProvider 离线开发用的身份提供方：用户存在本地数据库，密码 bcrypt，令牌 HS256
type LocalProvider struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewLocalProvider(users repository.UserRepository, secret string, ttl time.Duration, now func() time.Time) *LocalProvider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &LocalProvider{users: users, secret: []byte(secret), ttl: ttl, now: now}
}

var _ Provider = (*LocalProvider)(nil)

func (p *LocalProvider) Register(ctx context.Context, email, password string) (*Credential, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", ErrProvider, err)
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		ProviderID:   providerPassword,
		CreatedAt:    p.now(),
	}
	if err := p.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return p.issue(u)
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Credential, error) {
	u, err := p.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrWrongCredential
	}
	return p.issue(u)
}

// SignInWithIdP accepts an HS256 assertion signed with the same secret, standing in for the
// federated provider's ID token. Unknown emails get an account on first sign-in.
func (p *LocalProvider) SignInWithIdP(ctx context.Context, providerID, idToken string) (*Credential, error) {
	claims, err := verifyHS256(p.secret, idToken, p.now)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: assertion has no email", ErrInvalidToken)
	}
	u, err := p.users.GetByEmail(ctx, claims.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		u = &model.User{
			ID:          uuid.New().String(),
			Email:       claims.Email,
			DisplayName: claims.Name,
			PhotoURL:    claims.Picture,
			ProviderID:  providerID,
			CreatedAt:   p.now(),
		}
		if err := p.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProvider, err)
		}
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return p.issue(u)
}

func (p *LocalProvider) Refresh(ctx context.Context, refreshToken string) (*Credential, error) {
	claims, err := verifyHS256(p.secret, refreshToken, p.now)
	if err != nil {
		return nil, err
	}
	if !hasAudience(claims, audienceRefresh) {
		return nil, fmt.Errorf("%w: not a refresh token", ErrInvalidToken)
	}
	u, err := p.users.GetByID(ctx, claims.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return p.issue(u)
}

func (p *LocalProvider) UpdateProfile(ctx context.Context, idToken string, upd ProfileUpdate) (*User, error) {
	claims, err := verifyHS256(p.secret, idToken, p.now)
	if err != nil {
		return nil, err
	}
	if !hasAudience(claims, audienceID) {
		return nil, fmt.Errorf("%w: not an id token", ErrInvalidToken)
	}
	fields := map[string]any{}
	if upd.DisplayName != nil {
		fields["display_name"] = *upd.DisplayName
	}
	if upd.PhotoURL != nil {
		fields["photo_url"] = *upd.PhotoURL
	}
	if len(fields) > 0 {
		if err := p.users.UpdateProfile(ctx, claims.Subject, fields); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("%w: %v", ErrProvider, err)
		}
	}
	u, err := p.users.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	out := toUser(u)
	return &out, nil
}

// SignOut 无状态令牌，本地无需注销
func (p *LocalProvider) SignOut(ctx context.Context, idToken string) error { return nil }

// IssueAssertion signs a federated-identity assertion the local provider will accept.
func (p *LocalProvider) IssueAssertion(email, name, picture string) (string, error) {
	now := p.now()
	return signHS256(p.secret, &TokenClaims{
		Email:   email,
		Name:    name,
		Picture: picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "assertion",
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(5 * time.Minute)),
		},
	})
}

func (p *LocalProvider) issue(u *model.User) (*Credential, error) {
	now := p.now()
	exp := now.Add(p.ttl)
	base := TokenClaims{
		Email:   u.Email,
		Name:    u.DisplayName,
		Picture: u.PhotoURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   localIssuer,
			Subject:  u.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	idClaims := base
	idClaims.Audience = jwt.ClaimStrings{audienceID}
	idClaims.ExpiresAt = jwt.NewNumericDate(exp)
	idToken, err := signHS256(p.secret, &idClaims)
	if err != nil {
		return nil, fmt.Errorf("%w: sign token: %v", ErrProvider, err)
	}

	refreshClaims := base
	refreshClaims.Audience = jwt.ClaimStrings{audienceRefresh}
	refreshClaims.ExpiresAt = jwt.NewNumericDate(now.Add(p.ttl * refreshTTLFactor))
	refreshToken, err := signHS256(p.secret, &refreshClaims)
	if err != nil {
		return nil, fmt.Errorf("%w: sign token: %v", ErrProvider, err)
	}

	return &Credential{User: toUser(u), IDToken: idToken, RefreshToken: refreshToken, ExpiresAt: exp}, nil
}

func hasAudience(c *TokenClaims, aud string) bool {
	for _, a := range c.Audience {
		if a == aud {
			return true
		}
	}
	return false
}

func toUser(u *model.User) User {
	return User{
		UID:         u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		ProviderID:  u.ProviderID,
		CreatedAt:   u.CreatedAt,
	}
}
