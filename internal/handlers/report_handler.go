package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bottleflow/internal/database"
	"bottleflow/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf/v2"
)

// --- GET: /api/reports/expenses ---
// Monthly purchase + salary spend for the expense charts.
// ?months=N controls the window (default 6).
func GetExpenseReport(c *gin.Context) {
	months := 6
	if m := c.Query("months"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 36 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "months must be between 1 and 36"})
			return
		}
		months = parsed
	}

	monthly, err := database.GetMonthlyExpenses(months)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute expense report"})
		return
	}

	var totalPurchases, totalSalaries float64
	for _, m := range monthly {
		totalPurchases += m.Purchases
		totalSalaries += m.Salaries
	}

	c.JSON(http.StatusOK, gin.H{
		"months":          monthly,
		"total_purchases": totalPurchases,
		"total_salaries":  totalSalaries,
		"total_expenses":  totalPurchases + totalSalaries,
	})
}

// ValuationItem represents a single row in the valuation table
type ValuationItem struct {
	Name        string  `json:"name"`
	RawStock    int     `json:"raw_stock"`
	WashedStock int     `json:"washed_stock"`
	RawValue    float64 `json:"raw_value"`
	WashedValue float64 `json:"washed_value"`
	TotalValue  float64 `json:"total_value"`
}

// ValuationResponse is the final payload sent to the dashboard
type ValuationResponse struct {
	Items      []ValuationItem `json:"items"`
	GrandTotal float64         `json:"grand_total"`
}

// buildValuation prices the current stock: raw bottles at purchase price,
// washed bottles at purchase + wash price (the cost sunk into them).
func buildValuation() (*ValuationResponse, error) {
	var products []models.Product
	if err := database.DB.Order("name").Find(&products).Error; err != nil {
		return nil, err
	}

	var response ValuationResponse
	for _, p := range products {
		var rec models.StockRecord
		database.DB.First(&rec, "product_id = ?", p.ID)

		raw := rec.AvailableRaw() + rec.Reserved
		item := ValuationItem{
			Name:        p.Name,
			RawStock:    raw,
			WashedStock: rec.Balance,
			RawValue:    float64(raw) * p.PurchasePrice,
			WashedValue: float64(rec.Balance) * (p.PurchasePrice + p.WashPrice),
		}
		item.TotalValue = item.RawValue + item.WashedValue
		response.Items = append(response.Items, item)
		response.GrandTotal += item.TotalValue
	}
	return &response, nil
}

// --- GET: /api/reports/valuation ---
func GetStockValuation(c *gin.Context) {
	response, err := buildValuation()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}
	c.JSON(http.StatusOK, response)
}

// --- GET: /api/reports/valuation/pdf ---
// Streams the valuation as a printable PDF.
func GetStockValuationPDF(c *gin.Context) {
	data, err := buildValuation()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "BottleFlow - Stock Valuation", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", time.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Table header
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(60, 7, "Product", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Raw", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Washed", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Raw Value", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "Washed Value", "1", 1, "C", true, 0, "")

	// Table rows
	pdf.SetFont("Arial", "", 10)
	for _, item := range data.Items {
		name := item.Name
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		pdf.CellFormat(60, 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", item.RawStock), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%d", item.WashedStock), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", item.RawValue), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", item.WashedValue), "1", 1, "R", false, 0, "")
	}

	// Grand total
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(110, 8, "Grand Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(80, 8, fmt.Sprintf("%.2f", data.GrandTotal), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="stock-valuation.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
