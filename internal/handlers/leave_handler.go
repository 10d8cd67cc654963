package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anudeepvarma123/TalentTrack/internal/auth"
	"github.com/anudeepvarma123/TalentTrack/internal/logger"
	"github.com/anudeepvarma123/TalentTrack/internal/middleware"
	"github.com/anudeepvarma123/TalentTrack/internal/models"
	"github.com/anudeepvarma123/TalentTrack/internal/services"
)

// LeaveAPI is implemented by *services.LeaveService.
type LeaveAPI interface {
	Apply(ctx context.Context, userID string, in services.ApplyInput) (*services.ApplyResult, error)
	ListMine(ctx context.Context, userID string) (*services.LeaveSummary, error)
	ListAll(ctx context.Context, callerRole models.Role) ([]models.LeaveView, error)
	UpdateStatus(ctx context.Context, userID, newStatus string, callerRole models.Role) (*models.LeaveRequest, error)
	Calendar(ctx context.Context, caller auth.Identity) (map[string][]models.LeaveView, error)
	ByStatus(ctx context.Context, status string, callerRole models.Role) ([]models.LeaveView, error)
}

type LeaveHandler struct {
	leaves LeaveAPI
	log    *logger.Logger
}

func NewLeaveHandler(leaves LeaveAPI, log *logger.Logger) *LeaveHandler {
	return &LeaveHandler{leaves: leaves, log: log}
}

// caller returns the authenticated identity or writes a 403.
func caller(c *gin.Context) (auth.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
	return id, ok
}

// Apply handles POST /leaves/.
func (h *LeaveHandler) Apply(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var form struct {
		LeaveType string `form:"leave_type" binding:"required"`
		FromDate  string `form:"from_date" binding:"required"`
		ToDate    string `form:"to_date" binding:"required"`
		Reason    string `form:"reason"`
	}
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.leaves.Apply(c.Request.Context(), id.UserID, services.ApplyInput{
		LeaveType: form.LeaveType,
		FromDate:  form.FromDate,
		ToDate:    form.ToDate,
		Reason:    form.Reason,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":          "Leave applied",
		"id":               res.Request.ID,
		"days_requested":   res.Request.DaysRequested,
		"available_leaves": res.AvailableLeaves,
		"used_leaves":      res.UsedLeaves,
		"request":          res.Request,
	})
}

// Mine handles GET /leaves/me.
func (h *LeaveHandler) Mine(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	summary, err := h.leaves.ListMine(c.Request.Context(), id.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// All handles GET /leaves/.
func (h *LeaveHandler) All(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	views, err := h.leaves.ListAll(c.Request.Context(), id.Role)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// UpdateStatus handles PUT /leaves/:user_id/status.
func (h *LeaveHandler) UpdateStatus(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var form struct {
		Status string `form:"status" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.leaves.UpdateStatus(c.Request.Context(), c.Param("user_id"), form.Status, id.Role)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Leave " + string(updated.Status),
		"request": updated,
	})
}

// Calendar handles GET /leaves/calendar.
func (h *LeaveHandler) Calendar(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	cal, err := h.leaves.Calendar(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

// ByStatus handles GET /leaves/status/:status.
func (h *LeaveHandler) ByStatus(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	views, err := h.leaves.ByStatus(c.Request.Context(), c.Param("status"), id.Role)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
