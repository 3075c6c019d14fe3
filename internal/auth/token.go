package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTokenTTL     = 30 * time.Minute
	DefaultTokenIssuer  = "notes-api"
	MinSigningKeyLength = 32
)

// TokenConfig is the immutable signing configuration shared by the issuer and the
// verifier. Build it once at startup with NewTokenConfig.
type TokenConfig struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
}

func NewTokenConfig(signingKey string, ttl time.Duration, issuer string) (TokenConfig, error) {
	if strings.TrimSpace(signingKey) == "" {
		return TokenConfig{}, fmt.Errorf("%w: signing key is required", ErrConfiguration)
	}
	if len(signingKey) < MinSigningKeyLength {
		return TokenConfig{}, fmt.Errorf("%w: signing key must be at least %d bytes", ErrConfiguration, MinSigningKeyLength)
	}
	if ttl <= 0 {
		return TokenConfig{}, fmt.Errorf("%w: token ttl must be positive", ErrConfiguration)
	}
	// exp is encoded in whole seconds.
	if ttl < time.Second || ttl%time.Second != 0 {
		return TokenConfig{}, fmt.Errorf("%w: token ttl must be a whole number of seconds", ErrConfiguration)
	}
	if strings.TrimSpace(issuer) == "" {
		issuer = DefaultTokenIssuer
	}

	return TokenConfig{
		signingKey: []byte(signingKey),
		ttl:        ttl,
		issuer:     issuer,
	}, nil
}

func (c TokenConfig) TTL() time.Duration {
	return c.ttl
}

func (c TokenConfig) Issuer() string {
	return c.issuer
}

// Claims carried by an access token. Subject is the username.
type Claims struct {
	jwt.RegisteredClaims
}

type Token struct {
	Value     string
	ExpiresAt time.Time
}

type Option func(*clock)

type clock struct {
	now func() time.Time
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *clock) {
		c.now = now
	}
}

func newClock(opts []Option) clock {
	c := clock{now: time.Now}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type TokenIssuer struct {
	cfg   TokenConfig
	clock clock
}

func NewTokenIssuer(cfg TokenConfig, opts ...Option) *TokenIssuer {
	return &TokenIssuer{cfg: cfg, clock: newClock(opts)}
}

// Issue signs a token for subject with the configured ttl.
func (i *TokenIssuer) Issue(subject string) (Token, error) {
	return i.IssueWithTTL(subject, i.cfg.ttl)
}

// IssueWithTTL signs a token that expires ttl from now. A ttl of zero or less yields
// a token that is already expired.
func (i *TokenIssuer) IssueWithTTL(subject string, ttl time.Duration) (Token, error) {
	if strings.TrimSpace(subject) == "" {
		return Token{}, errors.New("auth: token subject is required")
	}

	now := i.clock.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.signingKey)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}

	return Token{Value: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

type TokenVerifier struct {
	cfg    TokenConfig
	clock  clock
	parser *jwt.Parser
}

func NewTokenVerifier(cfg TokenConfig, opts ...Option) *TokenVerifier {
	v := &TokenVerifier{cfg: cfg, clock: newClock(opts)}
	v.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(cfg.issuer),
		jwt.WithTimeFunc(func() time.Time { return v.clock.now() }),
	)
	return v
}

// Verify checks signature, expiry (now >= exp is expired), issuer and subject. Every
// failure matches ErrInvalidCredential; RejectionReason tells them apart for logs.
func (v *TokenVerifier) Verify(tokenString string) (Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Claims{}, reject(ReasonMissing, nil)
	}

	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.cfg.signingKey, nil
	})
	if err != nil {
		return Claims{}, reject(classify(err), err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, reject(ReasonSubject, nil)
	}

	return *claims, nil
}

func classify(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonSignature
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ReasonIssuer
	default:
		return ReasonMalformed
	}
}
