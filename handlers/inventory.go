package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/erp_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateCategory(c *gin.Context) {
	var input models.NewCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	category, err := models.CreateCategory(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "CreateCategory", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func ListCategories(c *gin.Context) {
	categories, err := models.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, "ListCategories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func CreateProduct(c *gin.Context) {
	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := models.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "CreateProduct", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func GetProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	product, err := models.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetProduct", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func ListProducts(c *gin.Context) {
	lowStockOnly := c.Query("low_stock") == "true"

	products, err := models.ListProducts(c.Request.Context(), lowStockOnly)
	if err != nil {
		respondError(c, "ListProducts", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func UpdateProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := models.UpdateProduct(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "UpdateProduct", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func DeactivateProduct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	product, err := models.DeactivateProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, "DeactivateProduct", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func CreateStockAdjustment(c *gin.Context) {
	var input models.NewStockAdjustment
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	movement, err := models.CreateStockAdjustment(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "CreateStockAdjustment", err)
		return
	}
	c.JSON(http.StatusCreated, movement)
}

func ListProductMovements(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	movements, err := models.ListProductMovements(c.Request.Context(), id)
	if err != nil {
		respondError(c, "ListProductMovements", err)
		return
	}
	c.JSON(http.StatusOK, movements)
}
