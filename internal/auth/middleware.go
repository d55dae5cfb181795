package auth

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/observability"
)

const claimsKey = "auth_claims"

// Gate decision outcomes recorded in metrics.
const (
	OutcomeExempt            = "exempt"
	OutcomeVerified          = "verified"
	OutcomeMissingCredential = "missing_credential"
)

// DefaultExemptPaths are reachable without a token.
var DefaultExemptPaths = []string{
	"/api/auth/guest_login",
	"/api/auth/signup",
	"/api/auth/login",
	"/api/auth/current_user",
}

// Gate validates bearer tokens on every request that is not exempt.
// Exemption is an exact string match on the request path.
type Gate struct {
	tokens  *TokenManager
	exempt  map[string]struct{}
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewGate constructs the middleware. The exemption list is copied.
func NewGate(tokens *TokenManager, exemptPaths []string, logger *zap.Logger, metrics *observability.Metrics) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	exempt := make(map[string]struct{}, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = struct{}{}
	}
	return &Gate{tokens: tokens, exempt: exempt, logger: logger, metrics: metrics}
}

// IsExempt reports whether path bypasses authentication.
func (g *Gate) IsExempt(path string) bool {
	_, ok := g.exempt[path]
	return ok
}

// Handle enforces authentication for protected routes.
func (g *Gate) Handle(c *fiber.Ctx) error {
	path := c.Path()
	if g.IsExempt(path) {
		g.metrics.RecordGateDecision(OutcomeExempt)
		return c.Next()
	}

	claims, err := g.tokens.VerifyHeader(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		outcome := OutcomeMissingCredential
		if reason, ok := ReasonOf(err); ok {
			outcome = string(reason)
		}
		g.metrics.RecordGateDecision(outcome)
		g.logger.Info("request rejected",
			zap.String("path", path),
			zap.String("method", c.Method()),
			zap.String("reason", outcome),
			zap.Error(err))
		return unauthorized(c)
	}

	g.metrics.RecordGateDecision(OutcomeVerified)
	c.Locals(claimsKey, claims)
	return c.Next()
}

func unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
}

// IdentityFromContext retrieves the claims attached by Gate.Handle.
func IdentityFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
