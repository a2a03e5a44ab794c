package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"projecthub/internal/model"
	"projecthub/internal/service"
)

type MemberHandler struct {
	members *service.MemberService
	logger  *zap.Logger
}

func NewMemberHandler(members *service.MemberService, logger *zap.Logger) *MemberHandler {
	return &MemberHandler{members: members, logger: logger}
}

type addMemberRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

func (h *MemberHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m := &model.TeamMember{ProjectID: projectID, UserID: req.UserID, Role: req.Role}
	if err := h.members.Add(c.Request.Context(), userID, m); err != nil {
		h.logger.Warn("Add member failed",
			zap.Int64("project_id", projectID),
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MemberHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}
	members, err := h.members.List(c.Request.Context(), userID, projectID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *MemberHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	memberID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.members.Remove(c.Request.Context(), userID, memberID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
