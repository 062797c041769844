package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// Claims are the advisory fields decoded from a backend issued bearer token.
// The claim keys are fixed by the issuing backend and must match byte for
// byte.
type Claims struct {
	jwt.RegisteredClaims
	UID      string   `json:"uid,omitempty"`
	Email    string   `json:"email,omitempty"`
	UserRole UserRole `json:"role,omitempty"`
	Name     string   `json:"name,omitempty"`
}

// UserID returns the subject identifier, preferring the uid claim
func (c *Claims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Role returns the role claim
func (c *Claims) Role() UserRole {
	return c.UserRole
}

// Expires returns the expiry time, zero when the claim is absent
func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAtTime returns the iat claim, zero when absent
func (c *Claims) IssuedAtTime() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// DisplayName returns the name claim, falling back to the local part of the
// email when no display name claim exists.
func (c *Claims) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return emailLocalPart(c.Email)
}

// User is the session's view of the authenticated account, derived entirely
// from token claims. It is never fetched or refreshed from a profile endpoint.
type User struct {
	ID          string   `json:"id,omitempty"`
	Email       string   `json:"email,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	Role        UserRole `json:"role,omitempty"`
}

// UUID parses the user identifier as a UUID
func (u *User) UUID() (uuid.UUID, error) {
	return uuid.Parse(u.ID)
}

// UserFromClaims derives the session user record from decoded claims. When
// the token carries no subject identifier, a deterministic UUID is derived
// from the email so the same account always maps to the same id.
func UserFromClaims(claims *Claims) (*User, error) {
	if claims == nil {
		return nil, ErrTokenMalformed
	}

	id := claims.UserID()
	if id == "" {
		if claims.Email == "" {
			return nil, malformedToken("token carries neither subject nor email")
		}
		derived, err := hashid.NewUUID(claims.Email)
		if err != nil {
			return nil, malformedToken("unable to derive user id from email")
		}
		id = derived.String()
	}

	return &User{
		ID:          id,
		Email:       claims.Email,
		DisplayName: claims.DisplayName(),
		Role:        claims.Role(),
	}, nil
}

func malformedToken(reason string) error {
	clone := ErrTokenMalformed.Clone()
	if clone == nil {
		return ErrTokenMalformed
	}
	clone.Source = ErrTokenMalformed
	return clone.WithMetadata(map[string]any{"reason": reason})
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
