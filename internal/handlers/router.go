package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/school-directory/internal/services"
	"github.com/SAP-F-2025/school-directory/internal/utils"
)

// RouterConfig holds the HTTP-facing settings
type RouterConfig struct {
	// Largest accepted image, in bytes. Zero disables the check.
	MaxUploadBytes int64

	// Directory served under /schoolImages; empty when images are hosted remotely
	ImageDir string
}

type HandlerManager struct {
	schoolHandler *SchoolHandler
	healthHandler *HealthHandler
	config        RouterConfig
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger, config RouterConfig) *HandlerManager {
	return &HandlerManager{
		schoolHandler: NewSchoolHandler(serviceManager.School(), serviceManager.Export(), config.MaxUploadBytes, logger),
		healthHandler: NewHealthHandler(serviceManager, logger),
		config:        config,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		schools := api.Group("/schools")
		{
			schools.GET("", hm.schoolHandler.ListSchools)
			schools.POST("", hm.schoolHandler.CreateSchool)
			schools.GET("/export", hm.schoolHandler.ExportSchools)
		}
	}

	// Locally stored images are addressed by bare filename
	if hm.config.ImageDir != "" {
		router.Static("/schoolImages", hm.config.ImageDir)
	}

	router.GET("/health", hm.healthHandler.HealthCheck)
}
