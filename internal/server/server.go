package server

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/openshelf/stockroom/internal/config"
	"github.com/openshelf/stockroom/internal/inventorylog"
	"github.com/openshelf/stockroom/internal/product"
	productdomain "github.com/openshelf/stockroom/internal/product/domain"
	"github.com/openshelf/stockroom/internal/providers/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	inventorylog.Module,
	product.Module,
	storage.Module,
	fx.Provide(NewHTTPMetrics),
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogMiddleware(log))
	r.Use(MetricsMiddleware(httpMetrics))
	r.Use(ActorMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	genID      *snowflake.Node
	productSvc productdomain.Service
	uploads    storage.Provider
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	GenID      *snowflake.Node
	ProductSvc productdomain.Service
	Uploads    storage.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		genID:      p.GenID,
		productSvc: p.ProductSvc,
		uploads:    p.Uploads,
	}

	svc.registerAPIRoutes()
	svc.registerUIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// genFilename builds a collision-free upload filename with the given extension.
func (s *Server) genFilename(ext string) string {
	return s.genID.Generate().String() + ext
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.PUT("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	// static segments win over :id in gin's tree
	api.POST("/products/import", s.ImportProducts)
	api.GET("/products/export", s.ExportProducts)
	api.GET("/products/:id/history", s.ProductHistory)

	// -------- Uploads --------
	api.POST("/upload", s.UploadImage)
}

func (s *Server) registerUIRoutes() {
	s.engine.Static(s.cfg.UploadBaseURL, s.cfg.UploadDir)
	s.engine.StaticFile("/", filepath.Join(s.cfg.WebDir, "index.html"))
	s.engine.StaticFile("/app.js", filepath.Join(s.cfg.WebDir, "app.js"))
}
