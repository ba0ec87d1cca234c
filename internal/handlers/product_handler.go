package handlers

import (
	"fmt"
	"net/http"

	"bottleflow/internal/audit"
	"bottleflow/internal/database"
	"bottleflow/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: List all products ---
func GetProducts(c *gin.Context) {
	var products []models.Product

	result := database.DB.Order("name").Find(&products)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// --- GET: Single product ---
func GetProduct(c *gin.Context) {
	var product models.Product
	if err := database.DB.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

type ProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	PurchasePrice float64 `json:"purchase_price" binding:"min=0"`
	WashPrice     float64 `json:"wash_price" binding:"min=0"`
}

// --- POST: Add a new product ---
func AddProduct(c *gin.Context) {
	var input ProductRequest

	// 1. Parse JSON Input
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	newProduct := models.Product{
		Name:          input.Name,
		PurchasePrice: input.PurchasePrice,
		WashPrice:     input.WashPrice,
	}

	// 2. Save to DB
	if err := database.DB.Create(&newProduct).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	recordAudit(c, audit.ActionCreateProduct, "Created product: "+newProduct.Name)
	c.JSON(http.StatusCreated, newProduct)
}

// --- PUT: Update name or prices ---
func UpdateProduct(c *gin.Context) {
	// 1. Find existing product
	var product models.Product
	if err := database.DB.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	// 2. Update fields based on JSON input
	// We use a map so we only update what was sent (partial update)
	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// Identity is immutable; only name and prices may change
	allowed := map[string]bool{"name": true, "purchase_price": true, "wash_price": true}
	for key := range updateData {
		if !allowed[key] {
			delete(updateData, key)
		}
	}

	oldName := product.Name

	// 3. Save updates
	if err := database.DB.Model(&product).Updates(updateData).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	recordAudit(c, audit.ActionUpdateProduct, fmt.Sprintf("Updated product: %s -> %s", oldName, product.Name))
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// --- DELETE: Remove a product ---
func DeleteProduct(c *gin.Context) {
	var product models.Product
	if err := database.DB.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	// This fails if the product is linked to purchases or sales
	// (Foreign Key Constraint)
	if err := database.DB.Delete(&product).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete product. It might be linked to past records."})
		return
	}

	recordAudit(c, audit.ActionDeleteProduct, "Deleted product: "+product.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
