package restapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter builds the gin engine with CORS, request logging, health and metrics endpoints.
// gatherer may be nil, in which case /metrics is not exposed.
func SetupRouter(dataHandler *DataHandler, gatherer prometheus.Gatherer, zapLogger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))
	router.Use(ZapLoggerMiddleware(zapLogger))
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1/chains/:chainId")
	{
		v1.GET("/eth-balance/:address", dataHandler.GetETHBalance)
		v1.GET("/tokens/search", dataHandler.SearchTokens)
		v1.GET("/tokens/:token", dataHandler.GetToken)
		v1.GET("/tokens/:token/balance/:address", dataHandler.GetTokenBalance)
		v1.GET("/tokens/:token/allowance/:owner/:spender", dataHandler.GetTokenAllowance)
		v1.GET("/pairs/:tokenA/:tokenB/reserves", dataHandler.GetReserves)
	}

	return router
}

// ZapLoggerMiddleware logs every request through zap.
func ZapLoggerMiddleware(zapLogger *zap.Logger) gin.HandlerFunc {
	log := zapLogger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
