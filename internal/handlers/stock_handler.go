package handlers

import (
	"fmt"
	"net/http"

	"bottleflow/internal/audit"
	"bottleflow/internal/database"
	"bottleflow/internal/ledger"
	"bottleflow/internal/models"

	"github.com/gin-gonic/gin"
)

// StockOverviewRow is one product in the stock dashboard
type StockOverviewRow struct {
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name"`
	RawStock      int     `json:"raw_stock"`
	ReservedStock int     `json:"reserved_stock"`
	WashedStock   int     `json:"washed_stock"`
	TotalStock    int     `json:"total_stock"`
	PurchasePrice float64 `json:"purchase_price"`
	WashPrice     float64 `json:"wash_price"`
}

// --- GET: /api/stock ---
func GetStockOverview(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Order("name").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	rows := make([]StockOverviewRow, 0, len(products))
	for _, p := range products {
		var rec models.StockRecord
		// Products that never moved simply show zeros
		database.DB.First(&rec, "product_id = ?", p.ID)

		rows = append(rows, StockOverviewRow{
			ProductID:     p.ID,
			ProductName:   p.Name,
			RawStock:      rec.AvailableRaw(),
			ReservedStock: rec.Reserved,
			WashedStock:   rec.Balance,
			TotalStock:    rec.AvailableRaw() + rec.Reserved + rec.Balance,
			PurchasePrice: p.PurchasePrice,
			WashPrice:     p.WashPrice,
		})
	}

	c.JSON(http.StatusOK, rows)
}

// --- GET: /api/stock/movements ---
// Movement history, newest first, optional ?product_id and ?type filters.
func GetStockMovements(c *gin.Context) {
	query := database.DB.Model(&models.StockMovement{}).Order("created_at desc")

	if productID := c.Query("product_id"); productID != "" {
		query = query.Where("product_id = ?", productID)
	}
	if movementType := c.Query("type"); movementType != "" {
		query = query.Where("type = ?", movementType)
	}

	var movements []models.StockMovement
	if err := query.Limit(500).Find(&movements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock movements"})
		return
	}
	c.JSON(http.StatusOK, movements)
}

type SellStockRequest struct {
	ProductID    string  `json:"product_id" binding:"required"`
	SaleType     string  `json:"sale_type" binding:"required,oneof=raw washed"`
	Quantity     int     `json:"quantity" binding:"required,gt=0"`
	PricePerUnit float64 `json:"price_per_unit" binding:"required,gt=0"`
	CustomerName string  `json:"customer_name"`
	Notes        string  `json:"notes"`
	Date         string  `json:"date"`
}

// --- POST: /api/stock/sell ---
// Records a sale of raw or washed stock. The ledger refuses the sale when
// the stock isn't there, which comes back as a 400 with a specific message.
func SellStock(c *gin.Context) {
	var req SellStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	date, ok := parseDateOrToday(c, req.Date)
	if !ok {
		return
	}

	kind := ledger.MovementSellRaw
	if req.SaleType == models.SaleTypeWashed {
		kind = ledger.MovementSellWashed
	}

	tx := database.DB.Begin()
	store := database.NewStore(tx)

	product, found, err := store.Product(req.ProductID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up product"})
		return
	}
	if !found {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	customer := req.CustomerName
	if customer == "" {
		customer = "Customer"
	}

	sale := models.StockSale{
		ProductID:    req.ProductID,
		SaleType:     req.SaleType,
		Quantity:     req.Quantity,
		PricePerUnit: req.PricePerUnit,
		TotalAmount:  float64(req.Quantity) * req.PricePerUnit,
		CustomerName: req.CustomerName,
		Notes:        req.Notes,
		Date:         date,
	}
	if err := tx.Create(&sale).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sale record"})
		return
	}

	ok, err = ledger.Apply(store, ledger.Movement{
		ProductID:   req.ProductID,
		Kind:        kind,
		Quantity:    req.Quantity,
		ReferenceID: sale.ID,
		Notes:       "Sale to " + customer,
	})
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
		return
	}
	if !ok {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Insufficient %s stock for %s", req.SaleType, product.Name)})
		return
	}

	tx.Commit()

	recordAudit(c, audit.ActionSellStock,
		fmt.Sprintf("Sold %d %s %s for $%.2f", sale.Quantity, sale.SaleType, product.Name, sale.TotalAmount))
	c.JSON(http.StatusCreated, sale)
}

// --- GET: /api/stock/sales ---
func GetStockSales(c *gin.Context) {
	query := database.DB.Model(&models.StockSale{}).Order("date desc, created_at desc")

	if productID := c.Query("product_id"); productID != "" {
		query = query.Where("product_id = ?", productID)
	}
	if saleType := c.Query("sale_type"); saleType != "" {
		query = query.Where("sale_type = ?", saleType)
	}

	var sales []models.StockSale
	if err := query.Preload("Product").Limit(500).Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock sales"})
		return
	}
	c.JSON(http.StatusOK, sales)
}

// --- GET: /api/stock/:product_id ---
// Detailed stock view for one product: counters plus recent movements
// and sales.
func GetProductStockDetail(c *gin.Context) {
	productID := c.Param("product_id")

	var product models.Product
	if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var rec models.StockRecord
	database.DB.First(&rec, "product_id = ?", productID)

	var movements []models.StockMovement
	database.DB.Where("product_id = ?", productID).Order("created_at desc").Limit(10).Find(&movements)

	var sales []models.StockSale
	database.DB.Where("product_id = ?", productID).Order("created_at desc").Limit(10).Find(&sales)

	c.JSON(http.StatusOK, gin.H{
		"product": product,
		"current_stock": gin.H{
			"raw":      rec.AvailableRaw(),
			"reserved": rec.Reserved,
			"washed":   rec.Balance,
			"total":    rec.AvailableRaw() + rec.Reserved + rec.Balance,
		},
		"recent_movements": movements,
		"recent_sales":     sales,
	})
}
