package middleware

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/swissbill/backend/internal/infrastructure/logger"
	"github.com/swissbill/backend/internal/interfaces/http/dto"
)

const (
	// AccountIDKey is the gin context key holding the account ID
	AccountIDKey = "account_id"
	// AccountHeaderKey carries the caller's account
	AccountHeaderKey = "X-Account-ID"
	// DefaultAccountID scopes requests that name no account
	DefaultAccountID = "default"
)

var accountIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// AccountConfig holds configuration for the account middleware
type AccountConfig struct {
	// Required rejects requests without an account header
	Required bool
	// SkipPaths are served without account context
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultAccountConfig returns an optional account configuration that
// skips the health endpoints
func DefaultAccountConfig() AccountConfig {
	return AccountConfig{
		SkipPaths: []string{"/health", "/api/v1/health"},
	}
}

// Account scopes the request to the X-Account-ID header. The account
// namespaces document number sequences and rate limits. Authentication is
// done upstream; this middleware only checks the format.
func Account(cfg AccountConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip || strings.HasPrefix(path, skip+"/") {
				c.Next()
				return
			}
		}

		accountID := strings.TrimSpace(c.GetHeader(AccountHeaderKey))
		switch {
		case accountID == "" && cfg.Required:
			rejectAccount(c, "Account identification required")
			return
		case accountID == "":
			accountID = DefaultAccountID
		case !accountIDPattern.MatchString(accountID):
			rejectAccount(c, "Invalid account ID format")
			return
		}

		c.Set(AccountIDKey, accountID)

		ctx := c.Request.Context()
		ctx, _ = logger.WithAccountID(ctx, logger.FromContext(ctx), accountID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("Account identified", zap.String("account_id", accountID))
		}

		c.Next()
	}
}

func rejectAccount(c *gin.Context, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(dto.ErrCodeInvalidAccount),
		dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidAccount, message, getRequestIDFromContext(c)))
}

// GetAccountID returns the account set by Account, or "" outside of it
func GetAccountID(c *gin.Context) string {
	return c.GetString(AccountIDKey)
}
