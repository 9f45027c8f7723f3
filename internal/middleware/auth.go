package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
)

// SubjectKey is the Locals key holding the authenticated token subject.
const SubjectKey = "subject"

// VerifyFunc checks a raw bearer token and returns its subject.
type VerifyFunc func(ctx context.Context, rawToken string) (string, error)

// AuthMiddleware authenticates API calls with OIDC bearer ID tokens.
// A nil *AuthMiddleware lets every request through.
type AuthMiddleware struct {
	verify VerifyFunc
}

// NewAuthMiddleware discovers issuer and verifies tokens issued for clientID.
func NewAuthMiddleware(ctx context.Context, issuer, clientID string) (*AuthMiddleware, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: clientID})

	return NewAuthMiddlewareWithVerifier(func(ctx context.Context, rawToken string) (string, error) {
		token, err := verifier.Verify(ctx, rawToken)
		if err != nil {
			return "", err
		}
		return token.Subject, nil
	}), nil
}

// NewAuthMiddlewareWithVerifier creates a middleware around verify.
func NewAuthMiddlewareWithVerifier(verify VerifyFunc) *AuthMiddleware {
	return &AuthMiddleware{verify: verify}
}

// RequireAuth rejects requests without a valid bearer token.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if m == nil || m.verify == nil {
		return c.Next()
	}

	raw := extractBearerToken(c.Get(fiber.HeaderAuthorization))
	if raw == "" {
		return unauthorized(c, "missing bearer token")
	}

	subject, err := m.verify(c.Context(), raw)
	if err != nil {
		return unauthorized(c, "invalid bearer token")
	}

	c.Locals(SubjectKey, subject)
	return c.Next()
}

func unauthorized(c fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// extractBearerToken returns the token of an "Authorization: Bearer <token>"
// header value, or "" when the value is not a bearer credential.
func extractBearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
