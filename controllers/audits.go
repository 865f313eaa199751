package controllers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"petriz/models"
)

type AuditsController struct {
	DB     *gorm.DB
	Logger *zap.SugaredLogger
}

func (a AuditsController) List(c *gin.Context) {
	entries, err := models.SearchAuditLogs(a.DB, models.AuditLogFilters{
		Event:        c.Query("event"),
		ActorUID:     c.Query("actor"),
		Status:       models.ActionStatus(c.Query("status")),
		TimestampGte: parseTimestamp(c, "timestamp_gte"),
		TimestampLte: parseTimestamp(c, "timestamp_lte"),
		Limit:        parseLimit(c, 100, 500),
		Offset:       parseOffset(c),
	})
	if err != nil {
		a.Logger.Errorf("Error listing audit log entries: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, entries)
}
