package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// InviteTokenMode selects how invitation tokens are minted. Opaque tokens
// are random and only meaningful against the invitations table; signed
// tokens additionally carry the property and email so an expired or
// tampered link is rejected before any database lookup.
type InviteTokenMode string

const (
	InviteTokenOpaque InviteTokenMode = "opaque"
	InviteTokenSigned InviteTokenMode = "signed"
)

type inviteClaims struct {
	PropertyID int32  `json:"property_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

type InviteTokenIssuer interface {
	Issue(propertyID int32, email string, expiresAt time.Time) (string, error)
	// Verify checks structural validity for signed tokens. Opaque tokens
	// always pass; the database lookup is their only check.
	Verify(token string) error
}

type inviteTokenIssuer struct {
	mode   InviteTokenMode
	secret []byte
}

func NewInviteTokenIssuer(mode InviteTokenMode, secret string) InviteTokenIssuer {
	if mode != InviteTokenSigned {
		mode = InviteTokenOpaque
	}
	return &inviteTokenIssuer{mode: mode, secret: []byte(secret)}
}

func (i *inviteTokenIssuer) Issue(propertyID int32, email string, expiresAt time.Time) (string, error) {
	if i.mode == InviteTokenOpaque {
		return uuid.NewString(), nil
	}
	claims := inviteClaims{
		PropertyID: propertyID,
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "propshare-invite",
			ID:        generateJTI(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

func (i *inviteTokenIssuer) Verify(token string) error {
	if i.mode == InviteTokenOpaque {
		return nil
	}
	parsed, err := jwt.ParseWithClaims(token, &inviteClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
