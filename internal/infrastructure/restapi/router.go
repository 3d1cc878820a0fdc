package restapi

import (
	"net/http/pprof"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouterOptions toggles the optional surfaces.
type RouterOptions struct {
	SwaggerEnabled bool
	SwaggerPath    string
	PprofEnabled   bool
}

// SetupRouter wires middleware and every route onto a new gin engine.
func SetupRouter(h *Handler, logger *zap.Logger, opts RouterOptions) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.Use(RequestID())
	router.Use(ZapLogger(logger.Named("HTTP")))
	router.Use(Metrics())
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/wallets", h.ListWallets)
		v1.GET("/wallets/:walletId", h.GetWallet)
		v1.POST("/refresh", h.Refresh)
		v1.GET("/coins", h.ListCoins)
		v1.GET("/pools", h.ListPools)
		v1.GET("/pools/:poolId/:coin/:address", h.FetchPool)
		v1.GET("/ws", h.Stream)
	}
	router.GET("/healthz", h.Healthz)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.SwaggerEnabled {
		path := strings.TrimSuffix(opts.SwaggerPath, "/")
		if path == "" {
			path = "/swagger"
		}
		router.GET(path+"/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		logger.Info("Swagger UI enabled", zap.String("path", path+"/index.html"))
	}

	if opts.PprofEnabled {
		pprofRouter := router.Group("/debug/pprof")
		{
			pprofRouter.GET("/", gin.WrapF(pprof.Index))
			pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
			pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
			pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
			pprofRouter.GET("/block", gin.WrapH(pprof.Handler("block")))
			pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
			pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
			pprofRouter.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
			pprofRouter.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
		}
	}

	return router
}
