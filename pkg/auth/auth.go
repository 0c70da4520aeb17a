package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"roombook/pkg/clock"
	"roombook/pkg/model"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Principal is the verified identity of a caller. It is built once at the
// HTTP boundary and passed explicitly to services.
type Principal struct {
	MemberID string
	Role     string
}

func (p Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 bearer tokens and can mint them for operators and
// tests.
type Verifier struct {
	secret []byte
	issuer string
	clock  clock.Clock
}

func NewVerifier(secret, issuer string, clk clock.Clock) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
		clock:  clk,
	}
}

func (v *Verifier) Verify(tokenString string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithTimeFunc(v.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrTokenExpired
		}
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	if claims.ExpiresAt == nil {
		return Principal{}, fmt.Errorf("%w: missing exp claim", ErrInvalidToken)
	}
	if claims.Subject == "" {
		return Principal{}, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}
	if claims.Role != model.RoleUser && claims.Role != model.RoleAdmin {
		return Principal{}, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return Principal{MemberID: claims.Subject, Role: claims.Role}, nil
}

func (v *Verifier) Issue(p Principal, ttl time.Duration) (string, error) {
	now := v.clock.Now()
	claims := &Claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.MemberID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
