package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zeromicro/go-zero/core/logx"
)

// Logger logs one line per request through logx.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := "%s %s -> %d (%s)"
		args := []any{c.Request.Method, c.Request.URL.RequestURI(), status, time.Since(start)}
		if status >= 500 {
			logx.WithContext(c.Request.Context()).Errorf(line, args...)
			return
		}
		logx.WithContext(c.Request.Context()).Infof(line, args...)
	}
}
