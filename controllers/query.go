package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// parseLimit reads the limit query parameter, clamping it to max.
func parseLimit(c *gin.Context, fallback, max int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}

func parseOffset(c *gin.Context) int {
	offset, err := strconv.Atoi(c.Query("offset"))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// splitCSV splits a comma-separated query parameter into trimmed,
// non-empty values.
func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}

	var values []string
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

// parseBool reads a boolean query parameter, returning fallback when
// absent or malformed.
func parseBool(c *gin.Context, name string, fallback bool) bool {
	raw := strings.ToLower(c.Query(name))
	switch raw {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}

// parseTimestamp reads an RFC 3339 timestamp query parameter. Nil
// when absent or malformed.
func parseTimestamp(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}

	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &ts
}
