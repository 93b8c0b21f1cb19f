package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is the token lifetime. There is no revocation list; compromise
// mitigation relies on the short expiry alone.
const TTL = 9 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the identity embedded in a session token. Permissions are
// deliberately not embedded: they are re-read from the store on every
// request so permission changes take effect without reissuing tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID   uint64 `json:"uid"`
	Username string `json:"username"`
}

// Identity is the verified payload of a session token.
type Identity struct {
	UserID   uint64
	Username string
}

// Codec signs and verifies session tokens. It never touches the store.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec with the given signing secret and the standard
// token lifetime.
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, ttl: TTL}
}

// Issue signs a token for the given identity, expiring after the codec TTL.
func (c *Codec) Issue(userID uint64, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		UserID:   userID,
		Username: username,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the signature and expiry of a token and returns the embedded
// identity. It fails on expiry, signature mismatch, or malformed input.
func (c *Codec) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
