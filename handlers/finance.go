package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/erp_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateCashAccount(c *gin.Context) {
	var input models.NewCashAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := models.CreateCashAccount(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "CreateCashAccount", err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func ListCashAccounts(c *gin.Context) {
	accounts, err := models.ListCashAccounts(c.Request.Context())
	if err != nil {
		respondError(c, "ListCashAccounts", err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func UpdateCashAccount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.UpdateCashAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := models.UpdateCashAccount(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "UpdateCashAccount", err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func DeactivateCashAccount(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	account, err := models.DeactivateCashAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, "DeactivateCashAccount", err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func CreateJournalEntry(c *gin.Context) {
	var input models.NewJournalEntry
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := models.CreateJournalEntry(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "CreateJournalEntry", err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func ListJournalEntries(c *gin.Context) {
	accountId := 0
	if v := c.Query("cash_account_id"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		accountId = n
	}

	entries, err := models.ListJournalEntries(c.Request.Context(), accountId)
	if err != nil {
		respondError(c, "ListJournalEntries", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func GetFinanceSummary(c *gin.Context) {
	summary, err := models.GetFinanceSummary(c.Request.Context())
	if err != nil {
		respondError(c, "GetFinanceSummary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
