package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/anudeepvarma123/TalentTrack/internal/logger"
	"github.com/anudeepvarma123/TalentTrack/internal/middleware"
	"github.com/anudeepvarma123/TalentTrack/internal/models"
)

// RouterDeps is everything the HTTP surface needs.
type RouterDeps struct {
	Auth           AuthAPI
	Leaves         LeaveAPI
	Employees      EmployeeAPI
	Guard          middleware.Authenticator
	AllowedOrigins []string
	Log            *logger.Logger
}

// Welcome handles GET /.
func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to TalentTrack HRM System"})
}

// NewRouter wires routes, role gates and middleware.
func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(d.Log))
	router.Use(cors.New(corsConfig(d.AllowedOrigins)))

	authH := NewAuthHandler(d.Auth, d.Log)
	leaveH := NewLeaveHandler(d.Leaves, d.Log)
	employeeH := NewEmployeeHandler(d.Employees, d.Log)

	router.GET("/", Welcome)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/request-reset", authH.RequestReset)
		authGroup.GET("/reset-password", authH.ResetForm)
		authGroup.POST("/reset-password", authH.ResetPassword)
	}

	managers := middleware.RequireRoles(models.Managers...)

	leaves := router.Group("/leaves")
	leaves.Use(middleware.JWTAuth(d.Guard))
	{
		leaves.POST("/", leaveH.Apply)
		leaves.GET("/me", leaveH.Mine)
		leaves.GET("/calendar", leaveH.Calendar)
		leaves.GET("/", managers, leaveH.All)
		leaves.PUT("/:user_id/status", managers, leaveH.UpdateStatus)
		leaves.GET("/status/:status", managers, leaveH.ByStatus)
	}

	employees := router.Group("/employees")
	employees.Use(middleware.JWTAuth(d.Guard))
	{
		employees.POST("/", managers, employeeH.Create)
		employees.GET("/", employeeH.List)
		employees.GET("/:user_id", employeeH.Get)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
