package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// applyDateRange adds ?start_date / ?end_date (YYYY-MM-DD) filters to a
// query. Writes the 400 itself and returns ok=false on a bad format.
func applyDateRange(c *gin.Context, query *gorm.DB) (*gorm.DB, bool) {
	if start := c.Query("start_date"); start != "" {
		date, err := time.Parse("2006-01-02", start)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format. Use YYYY-MM-DD."})
			return nil, false
		}
		query = query.Where("date >= ?", date)
	}
	if end := c.Query("end_date"); end != "" {
		date, err := time.Parse("2006-01-02", end)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date format. Use YYYY-MM-DD."})
			return nil, false
		}
		query = query.Where("date <= ?", date)
	}
	return query, true
}
