package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/todo-service/internal/domain"
)

var (
	// ErrMalformedToken reports a token that does not parse into header.payload.signature.
	ErrMalformedToken = errors.New("malformed token")
	// ErrSignatureMismatch reports a well-formed token whose MAC does not verify.
	ErrSignatureMismatch = errors.New("token signature mismatch")
	// ErrExpiredToken reports a correctly signed token whose expiry has passed.
	ErrExpiredToken = errors.New("token expired")
	// ErrSubjectMismatch reports a valid token issued to a different username.
	ErrSubjectMismatch = errors.New("token subject mismatch")
)

// TokenErrorKind returns a stable label for a token verification failure.
func TokenErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrExpiredToken):
		return "expired"
	case errors.Is(err, ErrSignatureMismatch):
		return "signature_mismatch"
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	case errors.Is(err, ErrSubjectMismatch):
		return "subject_mismatch"
	default:
		return "unknown"
	}
}

// Claims describes the JWT payload.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256 access tokens. It is immutable after
// construction and safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock overrides the wall clock used for issuing and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret []byte, ttl time.Duration, opts ...TokenOption) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	key := make([]byte, len(secret))
	copy(key, secret)

	tm := &TokenManager{secret: key, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// TTL returns the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// GenerateToken builds and signs a token whose subject is the user's username.
func (tm *TokenManager) GenerateToken(user *domain.User) (string, time.Time, error) {
	if user == nil || user.Username == "" {
		return "", time.Time{}, errors.New("token subject required")
	}

	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, claims.ExpiresAt.Time, nil
}

// ExtractSubject returns the subject claim after a structural decode only.
// Neither the signature nor the expiry is checked.
func (tm *TokenManager) ExtractSubject(tokenStr string) (string, error) {
	parser := jwt.NewParser()
	claims := &Claims{}
	_, parts, err := parser.ParseUnverified(tokenStr, claims)
	if err != nil {
		return "", ErrMalformedToken
	}
	if _, err := parser.DecodeSegment(parts[2]); err != nil {
		return "", ErrMalformedToken
	}
	if claims.Subject == "" {
		return "", ErrMalformedToken
	}
	return claims.Subject, nil
}

// Verify parses the token, checks its signature and expiry, and returns the
// decoded claims. Failures wrap ErrMalformedToken, ErrSignatureMismatch or
// ErrExpiredToken.
func (tm *TokenManager) Verify(tokenStr string) (*domain.Token, error) {
	if tokenStr == "" {
		return nil, ErrMalformedToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)
	if err != nil {
		return nil, classify(err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrMalformedToken
	}

	tok := &domain.Token{
		ID:        claims.ID,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		tok.IssuedAt = claims.IssuedAt.Time
	}
	return tok, nil
}

// IsValid reports whether the token parses, its signature verifies, and it has
// not yet expired. It never panics on bad input.
func (tm *TokenManager) IsValid(tokenStr string) bool {
	_, err := tm.Verify(tokenStr)
	return err == nil
}

// VerifyForUser verifies the token and requires its subject to equal username
// exactly (case-sensitive).
func (tm *TokenManager) VerifyForUser(tokenStr, username string) error {
	tok, err := tm.Verify(tokenStr)
	if err != nil {
		return err
	}
	if tok.Subject != username {
		return ErrSubjectMismatch
	}
	return nil
}

// ValidateForUser reports whether VerifyForUser succeeds.
func (tm *TokenManager) ValidateForUser(tokenStr, username string) bool {
	return tm.VerifyForUser(tokenStr, username) == nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrSignatureMismatch
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	default:
		return ErrMalformedToken
	}
}
