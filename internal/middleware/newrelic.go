package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// ErrorReportingMiddleware reports errors attached with c.Error to the
// request's New Relic transaction. It must run after nrgin.Middleware.
// Without an active transaction it does nothing.
func ErrorReportingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		txn := nrgin.Transaction(c)
		if txn == nil {
			return
		}
		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
		if id := c.Param("id"); id != "" {
			txn.AddAttribute("resource.id", id)
		}
	}
}
