package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"projecthub/internal/model"
	"projecthub/internal/service"
)

type ExpenseHandler struct {
	expenses *service.ExpenseService
	logger   *zap.Logger
}

func NewExpenseHandler(expenses *service.ExpenseService, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses, logger: logger}
}

type expenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	Date        *time.Time      `json:"date"`
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e := &model.Expense{
		ProjectID:   projectID,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Date != nil {
		e.Date = *req.Date
	}
	if err := h.expenses.Create(c.Request.Context(), userID, e); err != nil {
		h.logger.Warn("Expense creation failed",
			zap.Int64("project_id", projectID),
			zap.Error(err),
		)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *ExpenseHandler) ListByProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	expenses, err := h.expenses.ListByProject(c.Request.Context(), userID, projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	expenseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.expenses.Delete(c.Request.Context(), userID, expenseID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
