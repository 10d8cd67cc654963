package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anudeepvarma123/TalentTrack/internal/logger"
	"github.com/anudeepvarma123/TalentTrack/internal/models"
	"github.com/anudeepvarma123/TalentTrack/internal/services"
)

// EmployeeAPI is implemented by *services.EmployeeService.
type EmployeeAPI interface {
	Onboard(ctx context.Context, callerRole models.Role, in services.OnboardInput) (*models.EmployeeProfile, error)
	Get(ctx context.Context, userID string) (*models.EmployeeProfile, error)
	List(ctx context.Context) ([]models.EmployeeProfile, error)
}

type EmployeeHandler struct {
	employees EmployeeAPI
	log       *logger.Logger
}

func NewEmployeeHandler(employees EmployeeAPI, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, log: log}
}

// Create handles POST /employees/.
func (h *EmployeeHandler) Create(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var form struct {
		Name        string `form:"name" binding:"required"`
		Email       string `form:"email" binding:"required"`
		Department  string `form:"department" binding:"required"`
		Role        string `form:"role" binding:"required"`
		JoiningDate string `form:"joining_date" binding:"required"`
		Password    string `form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.employees.Onboard(c.Request.Context(), id.Role, services.OnboardInput{
		Name:        form.Name,
		Email:       form.Email,
		Department:  form.Department,
		Role:        form.Role,
		JoiningDate: form.JoiningDate,
		Password:    form.Password,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Employee created",
		"userid":   profile.UserID,
		"employee": profile,
	})
}

// List handles GET /employees/.
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employees.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// Get handles GET /employees/:user_id.
func (h *EmployeeHandler) Get(c *gin.Context) {
	profile, err := h.employees.Get(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
