// Package identity wraps the external identity provider: credential sign-in, federated sign-in,
// profile field updates and the signed-in session the rest of the client reads from.
package identity

import (
	"context"
	"time"
)

// User is the signed-in account as reported by the provider.
type User struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL"`
	ProviderID  string    `json:"providerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Credential is what a successful sign-in returns.
type Credential struct {
	User         User
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// ProfileUpdate carries the provider-held profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	DisplayName *string
	PhotoURL    *string
}

// Provider is the contract every identity backend satisfies. Errors are mapped onto the
// sentinel errors in this package; retries are the provider's business.
type Provider interface {
	Register(ctx context.Context, email, password string) (*Credential, error)
	SignIn(ctx context.Context, email, password string) (*Credential, error)
	SignInWithIdP(ctx context.Context, providerID, idToken string) (*Credential, error)
	Refresh(ctx context.Context, refreshToken string) (*Credential, error)
	UpdateProfile(ctx context.Context, idToken string, upd ProfileUpdate) (*User, error)
	SignOut(ctx context.Context, idToken string) error
}

func StringPtr(s string) *string { return &s }
