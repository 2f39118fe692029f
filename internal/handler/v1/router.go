package v1

import (
	"github.com/dosewise/dosewise/internal/config"
	"github.com/dosewise/dosewise/internal/service"
	"github.com/dosewise/dosewise/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Services struct {
	Medicines *service.MedicineService
	Protocols *service.ProtocolService
	Stock     *service.StockService
	Doses     *service.DoseLogService
	Analytics *service.AnalyticsService
	Reminders *service.ReminderService
}

func NewRouter(cfg *config.Config, svcs Services, m *metrics.Collector, log *zap.Logger) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log), Metrics(m), CORS(cfg.CORS))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": cfg.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	medicines := NewMedicineHandler(svcs.Medicines)
	protocols := NewProtocolHandler(svcs.Protocols, m)
	stock := NewStockHandler(svcs.Stock, m)
	doses := NewDoseHandler(svcs.Doses, m)
	analytics := NewAnalyticsHandler(svcs.Analytics, svcs.Reminders)

	api := r.Group("/api/v1")
	{
		api.POST("/medicines", medicines.Create)
		api.GET("/medicines", medicines.List)
		api.GET("/medicines/:id", medicines.Get)
		api.PATCH("/medicines/:id", medicines.Update)
		api.DELETE("/medicines/:id", medicines.Delete)

		api.POST("/protocols", protocols.Create)
		api.GET("/protocols", protocols.List)
		api.GET("/protocols/:id", protocols.Get)
		api.DELETE("/protocols/:id", protocols.Delete)
		api.GET("/protocols/:id/titration", protocols.Titration)
		api.POST("/protocols/:id/titration/advance", protocols.AdvanceStage)
		api.PUT("/protocols/:id/titration", protocols.AttachPlan)
		api.PUT("/protocols/:id/schedule", protocols.UpdateSchedule)
		api.PATCH("/protocols/:id/active", protocols.SetActive)

		api.POST("/stock/lots", stock.AddLot)
		api.DELETE("/stock/lots/:id", stock.DeleteLot)
		api.GET("/medicines/:id/lots", stock.ListLots)
		api.GET("/medicines/:id/stock", stock.Total)
		api.POST("/medicines/:id/stock/adjust", stock.Adjust)

		api.POST("/doses", doses.Log)
		api.GET("/doses", doses.List)
		api.DELETE("/doses/:id", doses.Delete)

		api.GET("/analytics/trend", analytics.Trend)
		api.GET("/analytics/daily", analytics.Daily)
		api.GET("/reminders/due", analytics.RemindersDue)
	}

	return r
}
