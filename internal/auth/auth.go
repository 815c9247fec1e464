// auth проверяет bearer JWT (HS256) и переносит владельца запроса через контекст.
// Выпуск токенов — забота внешнего сервиса авторизации; Issue нужен для тестов
// и локальной отладки.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/valet/internal/config"
)

const leeway = 5 * time.Second

var (
	// ErrMissingToken — заголовок авторизации отсутствует или не Bearer.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken — подпись, алгоритм, издатель, аудитория или subject неверны.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = errors.New("token expired")
)

type claims struct {
	UserID string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// Verifier проверяет access-токены и возвращает id владельца.
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewVerifier создаёт Verifier по конфигу. Пустые issuer/audience не проверяются.
func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
	}
}

// Verify валидирует токен. Владелец берётся из claim "uid", иначе из "sub".
func (v *Verifier) Verify(token string) (uuid.UUID, error) {
	const op = "auth/Verify"

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(leeway),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	subject := c.UserID
	if subject == "" {
		subject = c.Subject
	}

	owner, err := uuid.Parse(subject)
	if err != nil || owner == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return owner, nil
}

// VerifyHeader разбирает значение "Bearer <token>" и проверяет токен.
func (v *Verifier) VerifyHeader(header string) (uuid.UUID, error) {
	const prefix = "bearer "

	header = strings.TrimSpace(header)
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return uuid.Nil, ErrMissingToken
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return uuid.Nil, ErrMissingToken
	}

	return v.Verify(token)
}

// Issue подписывает access-токен для владельца.
func (v *Verifier) Issue(owner uuid.UUID, ttl time.Duration, now time.Time) (string, error) {
	c := claims{
		UserID: owner.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   owner.String(),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if v.audience != "" {
		c.Audience = jwt.ClaimStrings{v.audience}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(v.secret)
}

type ownerKey struct{}

// WithOwner кладёт владельца запроса в контекст.
func WithOwner(ctx context.Context, owner uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFrom достаёт владельца; false — запрос не аутентифицирован.
func OwnerFrom(ctx context.Context) (uuid.UUID, bool) {
	owner, ok := ctx.Value(ownerKey{}).(uuid.UUID)
	return owner, ok && owner != uuid.Nil
}
