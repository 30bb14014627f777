package httpapi

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/vaultag/internal/logger"
)

// accessLogger logs one line per request.
func accessLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		l := logger.Get()
		l.Info().Msgf("[access] [%s] %s %s %d %v",
			c.ClientIP(), c.Request.Method, c.Request.URL.Path, c.Writer.Status(), latency)
	}
}

// recovery turns a handler panic into a 500 JSON error.
func recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(fmt.Errorf("%v", r), "panic serving %s\n%s", c.Request.URL.Path, debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%v", r)})
			}
		}()
		c.Next()
	}
}

// corsMiddleware allows the vault plugin origin. An empty list allows any origin.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Content-Type", "Authorization"}
	cfg.CustomSchemas = customSchemas(origins)
	return cors.New(cfg)
}

// customSchemas lists the non-http schemes among origins, such as app://.
func customSchemas(origins []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, o := range origins {
		i := strings.Index(o, "://")
		if i <= 0 {
			continue
		}
		scheme := o[:i+3]
		if scheme == "http://" || scheme == "https://" || seen[scheme] {
			continue
		}
		seen[scheme] = true
		out = append(out, scheme)
	}
	return out
}
