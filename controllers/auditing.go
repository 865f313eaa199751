package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"petriz/models"
)

// Audited records an audit log entry for every request passing
// through the route, after the handler has run. Audit failures never
// fail the request.
func Audited(db *gorm.DB, event, target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := models.ActionSuccess
		if c.Writer.Status() >= 400 {
			status = models.ActionError
		}

		entry := models.AuditLogEntry{
			Event:     event,
			Target:    target,
			TargetUID: c.Param("uid"),
			UserAgent: c.Request.UserAgent(),
			IPAddress: c.ClientIP(),
			Status:    status,
			Data: map[string]interface{}{
				"method":      c.Request.Method,
				"path":        c.Request.URL.Path,
				"status_code": c.Writer.Status(),
			},
		}
		if client := CurrentClient(c); client != nil {
			entry.ActorUID = client.UID
			entry.ActorType = "api_client"
		}

		_ = models.CreateAuditLogEntry(db, &entry)
	}
}
