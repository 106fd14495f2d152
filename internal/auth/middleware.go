package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/board-report/pkg/util"
)

const subjectKey = "trigger_subject"

// TriggerMiddleware guards run endpoints with bearer trigger tokens.
type TriggerMiddleware struct {
	tokens *TokenManager
}

// NewTriggerMiddleware constructs middleware.
func NewTriggerMiddleware(tokens *TokenManager) *TriggerMiddleware {
	return &TriggerMiddleware{tokens: tokens}
}

// Handle enforces authentication when a trigger secret is configured.
// Without a secret the endpoint stays open.
func (m *TriggerMiddleware) Handle(c *fiber.Ctx) error {
	if !m.tokens.Enabled() {
		return c.Next()
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.Scope != ScopeRunReports {
		return apperrors.NewUnauthorized("token lacks report scope")
	}

	c.Locals(subjectKey, claims.Subject)
	return c.Next()
}

// SubjectFromContext retrieves the authenticated trigger subject.
func SubjectFromContext(c *fiber.Ctx) string {
	if subject, ok := c.Locals(subjectKey).(string); ok {
		return subject
	}
	return ""
}
