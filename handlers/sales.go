package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/erp_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateCustomer(c *gin.Context) {
	var input models.NewCustomer
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	customer, err := models.CreateCustomer(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "CreateCustomer", err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func ListCustomers(c *gin.Context) {
	customers, err := models.ListCustomers(c.Request.Context())
	if err != nil {
		respondError(c, "ListCustomers", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func UpdateCustomer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewCustomer
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	customer, err := models.UpdateCustomer(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "UpdateCustomer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func CreateSalesOrder(c *gin.Context) {
	var input models.NewSalesOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := models.CreateSalesOrder(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "CreateSalesOrder", err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func GetSalesOrder(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	order, err := models.GetSalesOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, "GetSalesOrder", err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func ListSalesOrders(c *gin.Context) {
	orders, err := models.ListSalesOrders(c.Request.Context())
	if err != nil {
		respondError(c, "ListSalesOrders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
