package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"projecthub/internal/repository"
)

type ActivityHandler struct {
	activity *repository.ActivityRepository
}

func NewActivityHandler(activity *repository.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// List returns the activity feed across every project visible to the caller,
// newest first.
func (h *ActivityHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := h.activity.ListForUser(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": logs})
}
