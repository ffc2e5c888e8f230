package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"lireddit/internal/loader"
)

const loadersKey = "loaders"

// Loaders builds a fresh set of batch loaders for every request. Loader
// caches must never outlive a request, so this is the only place they are
// constructed for the HTTP path.
func Loaders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(loadersKey, loader.New(db))
		c.Next()
	}
}

// RequestLoaders returns the loaders bound to this request.
func RequestLoaders(c *gin.Context) *loader.Loaders {
	v, exists := c.Get(loadersKey)
	if !exists {
		return nil
	}
	l, _ := v.(*loader.Loaders)
	return l
}
