package httpapi

import (
	"net/http"
	"strings"
	"time"

	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/outbound"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	ctxPrincipalKey = "principal"
	ctxRequestIDKey = "request_id"
)

// bearerToken extracts the credential from the Authorization header, falling
// back to the token query parameter used by websocket clients
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return c.Query("token")
}

// RequireAuth resolves the bearer token into a principal or rejects the request
func RequireAuth(identity outbound.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := identity.Resolve(c.Request.Context(), bearerToken(c))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Set(ctxPrincipalKey, principal)
		c.Next()
	}
}

// principalFrom returns the principal set by RequireAuth
func principalFrom(c *gin.Context) *shared.Principal {
	v, ok := c.Get(ctxPrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*shared.Principal)
	return p
}

// AccessLog logs every request once it completes
func AccessLog(logger zerolog.Logger) gin.HandlerFunc {
	logger = logger.With().Str("component", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ctxRequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		}

		event = event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP())
		if p := principalFrom(c); p != nil {
			event = event.Str("subject", p.Subject)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.Msg("HTTP request")
	}
}

// Recovery turns a panic into a 500 response
func Recovery(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("Recovered from panic")

				var resp ErrorResponse
				resp.Error.Message = "Internal server error"
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}

// CORS allows the configured browser origins
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
