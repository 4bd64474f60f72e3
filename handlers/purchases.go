package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/erp_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateSupplier(c *gin.Context) {
	var input models.NewSupplier
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	supplier, err := models.CreateSupplier(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "CreateSupplier", err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func ListSuppliers(c *gin.Context) {
	suppliers, err := models.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, "ListSuppliers", err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func UpdateSupplier(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewSupplier
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	supplier, err := models.UpdateSupplier(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "UpdateSupplier", err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func CreatePurchaseOrder(c *gin.Context) {
	var input models.NewPurchaseOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := models.CreatePurchaseOrder(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "CreatePurchaseOrder", err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func GetPurchaseOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	order, err := models.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetPurchaseOrder", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func ListPurchaseOrders(c *gin.Context) {
	orders, err := models.ListPurchaseOrders(c.Request.Context())
	if err != nil {
		respondError(c, "ListPurchaseOrders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ReceiveGoods posts a goods receipt against the purchase order in the path.
func ReceiveGoods(c *gin.Context) {
	poId, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewGoodsReceipt
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	receipt, err := models.ReceiveGoods(c.Request.Context(), poId, &input)
	if err != nil {
		respondError(c, "ReceiveGoods", err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func ListGoodsReceipts(c *gin.Context) {
	poId := 0
	if v := c.Query("purchase_order_id"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		poId = n
	}

	receipts, err := models.ListGoodsReceipts(c.Request.Context(), poId)
	if err != nil {
		respondError(c, "ListGoodsReceipts", err)
		return
	}
	c.JSON(http.StatusOK, receipts)
}
