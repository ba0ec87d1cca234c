package handlers

import (
	"net/http"

	"bottleflow/internal/audit"
	"bottleflow/internal/database"
	"bottleflow/internal/models"

	"github.com/gin-gonic/gin"
)

// recordAudit appends a trail entry for the current request's user.
// Called by every handler after a successful mutation.
func recordAudit(c *gin.Context, action, details string) {
	username, _ := c.Get("username")
	name, _ := username.(string)
	audit.Record(database.NewStore(database.DB), audit.Entry{
		Username:  name,
		Action:    action,
		Details:   details,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
}

// --- GET: /api/audit ---
// Newest entries first, optional ?action= and ?user= filters.
func GetAuditLogs(c *gin.Context) {
	query := database.DB.Model(&models.AuditLog{}).Order("created_at desc")

	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if user := c.Query("user"); user != "" {
		query = query.Where("username = ?", user)
	}

	limit := 200
	var logs []models.AuditLog
	if err := query.Limit(limit).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
