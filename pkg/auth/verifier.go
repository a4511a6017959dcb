// Package auth resolves bearer tokens to users.
package auth

import (
	"context"

	supa "github.com/supabase-community/supabase-go"
)

// User is the signed-in caller.
type User struct {
	ID    string
	Email string
}

// Verifier resolves a bearer token to a user.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

// JWTVerifier validates tokens locally.
type JWTVerifier struct {
	v *JWTValidator
}

func NewJWTVerifier(secret, issuer string) (*JWTVerifier, error) {
	v, err := NewJWTValidator(secret, issuer)
	if err != nil {
		return nil, err
	}
	return &JWTVerifier{v: v}, nil
}

func (j *JWTVerifier) Verify(_ context.Context, token string) (*User, error) {
	claims, err := j.v.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &User{ID: claims.UserID, Email: claims.Email}, nil
}

// LookupFunc asks the auth server who owns token.
type LookupFunc func(token string) (id, email string, err error)

// SupabaseVerifier asks the Supabase auth server about every token.
type SupabaseVerifier struct {
	lookup LookupFunc
}

func NewSupabaseVerifier(client *supa.Client) *SupabaseVerifier {
	return NewLookupVerifier(func(token string) (string, string, error) {
		user, err := client.Auth.WithToken(token).GetUser()
		if err != nil {
			return "", "", err
		}
		return user.ID.String(), user.Email, nil
	})
}

func NewLookupVerifier(lookup LookupFunc) *SupabaseVerifier {
	return &SupabaseVerifier{lookup: lookup}
}

func (s *SupabaseVerifier) Verify(_ context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	id, email, err := s.lookup(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &User{ID: id, Email: email}, nil
}

type contextKey struct{}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// UserFrom returns the user stored by WithUser, if any.
func UserFrom(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(contextKey{}).(*User)
	return u, ok && u != nil
}
