package handlers

import (
	"fmt"
	"net/http"
	"time"

	"bottleflow/internal/audit"
	"bottleflow/internal/database"
	"bottleflow/internal/ledger"
	"bottleflow/internal/models"

	"github.com/gin-gonic/gin"
)

type PurchaseItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Cost      float64 `json:"cost" binding:"min=0"`
}

type PurchaseRequest struct {
	Items      []PurchaseItemRequest `json:"items" binding:"required,min=1"`
	AmountPaid float64               `json:"amount_paid" binding:"min=0"`
	Date       string                `json:"date"` // YYYY-MM-DD, defaults to today
	Notes      string                `json:"notes"`
}

// --- POST: /api/purchases ---
// Creates the purchase header, its items, and a purchase stock movement
// per item. All inside one transaction.
func CreatePurchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	date, ok := parseDateOrToday(c, req.Date)
	if !ok {
		return
	}

	// 1. Start a Database Transaction
	tx := database.DB.Begin()
	store := database.NewStore(tx)

	var totalCost float64
	var items []models.PurchaseItem

	// 2. Validate every line and build the items
	for _, item := range req.Items {
		product, found, err := store.Product(item.ProductID)
		if err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up product"})
			return
		}
		if !found {
			tx.Rollback()
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product %s not found", item.ProductID)})
			return
		}

		cost := item.Cost
		if cost == 0 {
			cost = product.PurchasePrice * float64(item.Quantity)
		}
		totalCost += cost

		items = append(items, models.PurchaseItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Cost:      cost,
		})
	}

	// 3. Create the Purchase Header (GORM inserts the items too)
	purchase := models.Purchase{
		TotalCost:  totalCost,
		AmountPaid: req.AmountPaid,
		Balance:    totalCost - req.AmountPaid,
		Date:       date,
		Notes:      req.Notes,
		Items:      items,
	}
	if err := tx.Create(&purchase).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase record"})
		return
	}

	// 4. Feed every item through the stock ledger
	for _, item := range purchase.Items {
		ok, err := ledger.Apply(store, ledger.Movement{
			ProductID:   item.ProductID,
			Kind:        ledger.MovementPurchase,
			Quantity:    item.Quantity,
			ReferenceID: item.ID,
			Notes:       "Purchase " + purchase.ID,
		})
		if err != nil || !ok {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
			return
		}
	}

	// 5. Commit Transaction
	tx.Commit()

	recordAudit(c, audit.ActionCreatePurchase,
		fmt.Sprintf("Created purchase for $%.2f with %d items", purchase.TotalCost, len(purchase.Items)))
	c.JSON(http.StatusCreated, purchase)
}

// --- GET: /api/purchases ---
// Optional ?start_date / ?end_date filters and ?summary=true for the
// daily chart.
func GetPurchases(c *gin.Context) {
	query := database.DB.Model(&models.Purchase{})

	query, ok := applyDateRange(c, query)
	if !ok {
		return
	}

	if c.Query("summary") == "true" {
		type DailyTotal struct {
			Day       string  `json:"day"`
			TotalCost float64 `json:"total_cost"`
		}
		var totals []DailyTotal
		err := query.
			Select("DATE_FORMAT(date, '%Y-%m-%d') as day, SUM(total_cost) as total_cost").
			Group("day").
			Order("day").
			Scan(&totals).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase summary"})
			return
		}
		c.JSON(http.StatusOK, totals)
		return
	}

	var purchases []models.Purchase
	if err := query.Order("date desc, created_at desc").
		Preload("Items").Preload("Items.Product").Find(&purchases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchases"})
		return
	}
	c.JSON(http.StatusOK, purchases)
}

// --- GET: /api/purchases/:id ---
func GetPurchase(c *gin.Context) {
	var purchase models.Purchase
	err := database.DB.Preload("Items").Preload("Items.Product").
		First(&purchase, "id = ?", c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		return
	}
	c.JSON(http.StatusOK, purchase)
}

type PurchasePaymentRequest struct {
	AmountPaid float64 `json:"amount_paid" binding:"min=0"`
	Notes      string  `json:"notes"`
}

// --- PUT: /api/purchases/:id ---
// Only the payment side of a purchase can change; items are immutable
// once the stock moved.
func UpdatePurchase(c *gin.Context) {
	var purchase models.Purchase
	if err := database.DB.First(&purchase, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		return
	}

	var req PurchasePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	oldAmount := purchase.AmountPaid
	purchase.AmountPaid = req.AmountPaid
	purchase.Balance = purchase.TotalCost - purchase.AmountPaid
	if req.Notes != "" {
		purchase.Notes = req.Notes
	}

	if err := database.DB.Save(&purchase).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update purchase"})
		return
	}

	recordAudit(c, audit.ActionUpdatePurchase,
		fmt.Sprintf("Updated purchase payment: $%.2f -> $%.2f", oldAmount, purchase.AmountPaid))
	c.JSON(http.StatusOK, purchase)
}

// parseDateOrToday parses YYYY-MM-DD, defaulting to today. Writes the 400
// itself and returns ok=false on a bad format.
func parseDateOrToday(c *gin.Context, value string) (time.Time, bool) {
	if value == "" {
		return time.Now(), true
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD."})
		return time.Time{}, false
	}
	return date, true
}
