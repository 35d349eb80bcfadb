package locale

import (
	"context"

	"github.com/gin-gonic/gin"
)

const contextKey = "locale"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the locale code.
func NewContext(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, ctxKey{}, code)
}

// CodeFromContext returns the locale code carried by ctx, or "".
func CodeFromContext(ctx context.Context) string {
	code, _ := ctx.Value(ctxKey{}).(string)
	return code
}

// Middleware resolves the request locale from the "locale" query parameter
// and the Accept-Language header and stores it in both the gin and the
// request context.
func Middleware(cat *Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := cat.Resolve(c.Query("locale"), c.GetHeader("Accept-Language"))
		c.Set(contextKey, code)
		c.Request = c.Request.WithContext(NewContext(c.Request.Context(), code))
		c.Header("Content-Language", code)
		c.Next()
	}
}

// FromContext returns the locale stored by Middleware, or fallback when the
// middleware did not run.
func FromContext(c *gin.Context, fallback string) string {
	if v, ok := c.Get(contextKey); ok {
		if code, ok := v.(string); ok && code != "" {
			return code
		}
	}
	return fallback
}
