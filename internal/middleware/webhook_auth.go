package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"lab-dashboard-server/internal/config"
	"lab-dashboard-server/internal/utils"
)

// TokenHeader is the shared-secret header the upstream lab system sends
// with every webhook call.
const TokenHeader = "X-Webhook-Token"

// WebhookAuthMiddleware rejects any webhook whose shared-secret token is
// missing or does not match the configured value, before any processing or
// side effects.
func WebhookAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader(TokenHeader))
		if token == "" {
			// Some upstream configurations send the token as a bearer header.
			auth := c.GetHeader("Authorization")
			parts := strings.SplitN(auth, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				token = strings.TrimSpace(parts[1])
			}
		}

		if token == "" {
			utils.Unauthorized(c, "Webhook token required")
			c.Abort()
			return
		}
		if token != cfg.WebhookToken {
			utils.Unauthorized(c, "Invalid webhook token")
			c.Abort()
			return
		}

		c.Next()
	}
}
