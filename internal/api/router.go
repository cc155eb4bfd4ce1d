package api

import (
	"github.com/es2/countrysync/internal/api/handler"
	"github.com/es2/countrysync/internal/api/middleware"
	"github.com/es2/countrysync/internal/config"
	"github.com/es2/countrysync/internal/logger"
	"github.com/es2/countrysync/internal/service"
	"github.com/gin-gonic/gin"
)

// MDMServices groups what the MDM router serves.
type MDMServices struct {
	Providers *service.ProviderService
	Countries *service.CountryService
	DEM       handler.IngestionGateway
}

// SetupMDMRouter configures the MDM routes: providers, countries, the ingestion
// callback and the admin gateway to DEM.
// Parameters:
//   - svc: MDM services.
//   - cfg: server configuration (mode and CORS).
//   - log: base logger.
// Returns:
//   - *gin.Engine: configured router.
func SetupMDMRouter(svc MDMServices, cfg *config.ServerConfig, log *logger.Logger) *gin.Engine {
	r := newEngine(cfg, log, "mdm-api")

	providers := handler.NewProviderHandler(svc.Providers)
	countries := handler.NewCountryHandler(svc.Countries)
	admin := handler.NewAdminHandler(svc.DEM, log)

	r.GET("/health", handler.NewHealthHandler("mdm").Health)

	mdm := r.Group("/mdm/api")
	{
		p := mdm.Group("/providers")
		p.POST("", providers.Create)
		p.GET("", providers.List)
		p.GET("/:id", providers.Get)
		p.POST("/:id", providers.Get)
		p.PUT("/:id", providers.Update)
		p.DELETE("/:id", providers.Delete)

		ingest := mdm.Group("/admin/ingest")
		ingest.POST("/provider/:providerId", admin.TriggerIngestion)
		ingest.GET("/status/all", admin.AllJobs)
		ingest.GET("/status/:demJobId", admin.JobStatus)
	}

	c := r.Group("/countries")
	{
		c.POST("", countries.Create)
		c.GET("", countries.List)
		c.POST("/callback", countries.Callback)
		c.GET("/export", countries.Export)
		c.GET("/:id", countries.Get)
		c.PUT("/:id", countries.Update)
		c.DELETE("/:id", countries.Delete)
	}

	return r
}

// SetupDEMRouter configures the DEM ingestion routes.
func SetupDEMRouter(ingest *service.IngestionService, cfg *config.ServerConfig, log *logger.Logger) *gin.Engine {
	r := newEngine(cfg, log, "dem-api")

	jobs := handler.NewIngestionHandler(ingest)

	r.GET("/health", handler.NewHealthHandler("dem").Health)

	dem := r.Group("/dem/api/ingestion")
	{
		dem.POST("", jobs.Submit)
		dem.GET("", jobs.List)
		dem.GET("/:id", jobs.Get)
	}

	return r
}

func newEngine(cfg *config.ServerConfig, log *logger.Logger, component string) *gin.Engine {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log, component))
	r.Use(middleware.CORS(cfg.CORS))
	return r
}
