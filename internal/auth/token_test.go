package auth

import (
	"strings"
	"sync"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/todo-service/internal/domain"
)

var testSecret = []byte("test-secret")

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestManager(t *testing.T, ttl time.Duration) (*TokenManager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	return NewTokenManager(testSecret, ttl, WithClock(clock.Now)), clock
}

func TestGenerateToken_ExtractSubjectRoundTrip(t *testing.T) {
	tm, _ := newTestManager(t, time.Hour)

	for _, name := range []string{"alice", "Bob", "user.with.dots", "ünïcode"} {
		token, _, err := tm.GenerateToken(&domain.User{Username: name})
		require.NoError(t, err)
		assert.Len(t, strings.Split(token, "."), 3)

		subject, err := tm.ExtractSubject(token)
		require.NoError(t, err)
		assert.Equal(t, name, subject)
	}
}

func TestGenerateToken_RequiresSubject(t *testing.T) {
	tm, _ := newTestManager(t, time.Hour)

	_, _, err := tm.GenerateToken(nil)
	assert.Error(t, err)
	_, _, err = tm.GenerateToken(&domain.User{})
	assert.Error(t, err)
}

func TestGenerateToken_ClaimsCarryTimestamps(t *testing.T) {
	tm, clock := newTestManager(t, 15*time.Minute)

	token, exp, err := tm.GenerateToken(&domain.User{Username: "alice"})
	require.NoError(t, err)
	assert.True(t, exp.Equal(clock.now.Add(15*time.Minute)))

	tok, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", tok.Subject)
	assert.True(t, tok.IssuedAt.Equal(clock.now))
	assert.True(t, tok.ExpiresAt.Equal(exp))
	assert.NotEmpty(t, tok.ID)
}

func TestGenerateToken_SameInstantTokensDiffer(t *testing.T) {
	tm, _ := newTestManager(t, time.Hour)
	user := &domain.User{Username: "alice"}

	a, _, err := tm.GenerateToken(user)
	require.NoError(t, err)
	b, _, err := tm.GenerateToken(user)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, tm.ValidateForUser(a, "alice"))
	assert.True(t, tm.ValidateForUser(b, "alice"))
}

func TestIsValid_ExpiryBoundary(t *testing.T) {
	ttl := time.Minute
	tm, clock := newTestManager(t, ttl)
	issued := clock.now

	token, _, err := tm.GenerateToken(&domain.User{Username: "alice"})
	require.NoError(t, err)

	clock.now = issued
	assert.True(t, tm.IsValid(token))

	clock.now = issued.Add(ttl - time.Nanosecond)
	assert.True(t, tm.IsValid(token))

	clock.now = issued.Add(ttl)
	assert.False(t, tm.IsValid(token), "token must be expired exactly at expires_at")
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	clock.now = issued.Add(ttl + time.Hour)
	assert.False(t, tm.IsValid(token))
}

func TestValidateForUser(t *testing.T) {
	tm, _ := newTestManager(t, time.Hour)

	token, _, err := tm.GenerateToken(&domain.User{Username: "alice"})
	require.NoError(t, err)

	assert.True(t, tm.ValidateForUser(token, "alice"))
	assert.False(t, tm.ValidateForUser(token, "bob"))
	assert.False(t, tm.ValidateForUser(token, "Alice"))
	assert.False(t, tm.ValidateForUser(token, ""))
	assert.ErrorIs(t, tm.VerifyForUser(token, "bob"), ErrSubjectMismatch)
}

func TestValidateForUser_ExpiredToken(t *testing.T) {
	tm, clock := newTestManager(t, time.Minute)

	token, _, err := tm.GenerateToken(&domain.User{Username: "alice"})
	require.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Minute)
	assert.False(t, tm.ValidateForUser(token, "alice"))
	assert.ErrorIs(t, tm.VerifyForUser(token, "alice"), ErrExpiredToken)
}

func TestVerify_TamperedPayload(t *testing.T) {
	tm, _ := newTestManager(t, time.Hour)

	token, _, err := tm.GenerateToken(&domain.User{Username: "alice"})
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	for i := 0; i < len(parts[1]); i++ {
		payload := []byte(parts[1])
		if payload[i] == 'A' {
			payload[i] = 'B'
		} else {
			payload[i] = 'A'
		}
		tampered := parts[0] + "." + string(payload) + "." + parts[2]

		assert.False(t, tm.IsValid(tampered), "byte %d", i)
		_, err := tm.Verify(tampered)
		kind := TokenErrorKind(err)
		assert.Contains(t, []string{"malformed", "signature_mismatch"}, kind, "byte %d", i)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	other := NewTokenManager([]byte("other-secret"), time.Hour)
	token, _, err := other.GenerateToken(&domain.User{Username: "alice"})
	require.NoError(t, err)

	tm, _ := newTestManager(t, time.Hour)
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
	assert.False(t, tm.ValidateForUser(token, "alice"))

	subject, err := tm.ExtractSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	tm, _ := newTestManager(t, time.Hour)

	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = tm.Verify(unsigned)
	assert.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	tm, _ := newTestManager(t, time.Hour)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}).SignedString(testSecret)
	require.NoError(t, err)

	assert.False(t, tm.IsValid(noExp))
}

func TestMalformedInput(t *testing.T) {
	tm, _ := newTestManager(t, time.Hour)

	for _, input := range []string{"", "abc", "a.b", "not.a.jwt", "a.b.c.d", "..", "Bearer x.y.z"} {
		assert.False(t, tm.IsValid(input), input)
		assert.False(t, tm.ValidateForUser(input, "alice"), input)

		_, err := tm.Verify(input)
		assert.ErrorIs(t, err, ErrMalformedToken, input)

		_, err = tm.ExtractSubject(input)
		assert.ErrorIs(t, err, ErrMalformedToken, input)
	}
}

func TestExtractSubject_IgnoresExpiry(t *testing.T) {
	tm, clock := newTestManager(t, time.Minute)

	token, _, err := tm.GenerateToken(&domain.User{Username: "alice"})
	require.NoError(t, err)
	clock.now = clock.now.Add(time.Hour)

	subject, err := tm.ExtractSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
	assert.False(t, tm.IsValid(token))
}

func TestExtractSubject_UndecodableSignature(t *testing.T) {
	tm, _ := newTestManager(t, time.Hour)

	token, _, err := tm.GenerateToken(&domain.User{Username: "alice"})
	require.NoError(t, err)
	parts := strings.Split(token, ".")

	_, err = tm.ExtractSubject(parts[0] + "." + parts[1] + ".***")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestTokenErrorKind(t *testing.T) {
	assert.Equal(t, "", TokenErrorKind(nil))
	assert.Equal(t, "malformed", TokenErrorKind(ErrMalformedToken))
	assert.Equal(t, "signature_mismatch", TokenErrorKind(ErrSignatureMismatch))
	assert.Equal(t, "expired", TokenErrorKind(ErrExpiredToken))
	assert.Equal(t, "subject_mismatch", TokenErrorKind(ErrSubjectMismatch))
	assert.Equal(t, "unknown", TokenErrorKind(assert.AnError))
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	assert.Equal(t, time.Hour, NewTokenManager(testSecret, 0).TTL())
}

func TestTokenManager_ConcurrentUse(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, _, err := tm.GenerateToken(&domain.User{Username: "alice"})
			if assert.NoError(t, err) {
				assert.True(t, tm.ValidateForUser(token, "alice"))
			}
		}()
	}
	wg.Wait()
}
