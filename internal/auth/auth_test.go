package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/config"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func testVerifier() *Verifier {
	return NewVerifier(config.AuthConfig{JWTSecret: "unit-test-secret", Issuer: "auth-service", Audience: "valet"})
}

func TestVerifier_IssueAndVerify_OK(t *testing.T) {
	v := testVerifier()
	owner := uuid.New()

	tok, err := v.Issue(owner, time.Minute, time.Now())
	require.NoError(t, err)

	got, err := v.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, owner, got)

	got, err = v.VerifyHeader("Bearer " + tok)
	require.NoError(t, err)
	require.Equal(t, owner, got)
}

func TestVerifier_Rejects(t *testing.T) {
	v := testVerifier()
	owner := uuid.New()
	now := time.Now()

	sign := func(method jwt.SigningMethod, secret string, c jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(method, c).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub": owner.String(),
			"iss": "auth-service",
			"aud": []string{"valet"},
			"exp": now.Add(time.Minute).Unix(),
		}
	}

	wrongIss := base()
	wrongIss["iss"] = "someone-else"
	wrongAud := base()
	wrongAud["aud"] = []string{"other"}
	noExp := base()
	delete(noExp, "exp")
	badSub := base()
	badSub["sub"] = "not-a-uuid"
	expired := base()
	expired["exp"] = now.Add(-time.Minute).Unix()

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "wrong_alg", token: sign(jwt.SigningMethodHS512, "unit-test-secret", base()), want: ErrInvalidToken},
		{name: "wrong_secret", token: sign(jwt.SigningMethodHS256, "other", base()), want: ErrInvalidToken},
		{name: "wrong_issuer", token: sign(jwt.SigningMethodHS256, "unit-test-secret", wrongIss), want: ErrInvalidToken},
		{name: "wrong_audience", token: sign(jwt.SigningMethodHS256, "unit-test-secret", wrongAud), want: ErrInvalidToken},
		{name: "no_exp", token: sign(jwt.SigningMethodHS256, "unit-test-secret", noExp), want: ErrInvalidToken},
		{name: "bad_subject", token: sign(jwt.SigningMethodHS256, "unit-test-secret", badSub), want: ErrInvalidToken},
		{name: "expired", token: sign(jwt.SigningMethodHS256, "unit-test-secret", expired), want: ErrTokenExpired},
		{name: "garbage", token: "a.b.c", want: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestVerifier_VerifyHeader_Missing(t *testing.T) {
	v := testVerifier()

	for _, h := range []string{"", "Bearer", "Bearer   ", "Basic abc", "token"} {
		_, err := v.VerifyHeader(h)
		require.ErrorIs(t, err, ErrMissingToken, h)
	}
}

func TestOwnerContext(t *testing.T) {
	_, ok := OwnerFrom(context.Background())
	require.False(t, ok)

	owner := uuid.New()
	got, ok := OwnerFrom(WithOwner(context.Background(), owner))
	require.True(t, ok)
	require.Equal(t, owner, got)
}

func TestUnaryServerInterceptor(t *testing.T) {
	v := testVerifier()
	itc := UnaryServerInterceptor(v)
	owner := uuid.New()
	tok, err := v.Issue(owner, time.Minute, time.Now())
	require.NoError(t, err)

	var seen uuid.UUID
	handler := func(ctx context.Context, req any) (any, error) {
		seen, _ = OwnerFrom(ctx)
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/valet.profiles.v1.ProfilesService/GetSelfProfile"}

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+tok))
	_, err = itc(ctx, nil, info, handler)
	require.NoError(t, err)
	require.Equal(t, owner, seen)

	_, err = itc(context.Background(), nil, info, handler)
	require.Equal(t, codes.Unauthenticated, status.Code(err))

	// Health-check не требует токена.
	_, err = itc(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, handler)
	require.NoError(t, err)
}
