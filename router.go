package main

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/chatstack/uploads-service/docs"
	"github.com/chatstack/uploads-service/internal/health"
	"github.com/chatstack/uploads-service/routers"
	"github.com/chatstack/uploads-service/uploads"
)

func BuildRouter(app *App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	applyCors(r, app)
	applyTracing(r, app)
	applySwagger(r, app)

	registerRoutes(r, app)

	return r
}

func applyCors(r *gin.Engine, app *App) {
	origins := strings.Split(app.Config.CorsConfig.Origins, ",")
	r.Use(cors.New(
		cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", uploads.HeaderUploadID, uploads.HeaderObjectName, uploads.HeaderPartNumber},
			AllowCredentials: true,
		},
	))
}

func applyTracing(r *gin.Engine, app *App) {
	if !app.Config.Tracing {
		return
	}

	r.Use(otelgin.Middleware("uploads-service"))
}

func applySwagger(r *gin.Engine, app *App) {
	if app.Config.Env == "PROD" {
		return
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func registerRoutes(r *gin.Engine, app *App) {
	health.RegisterHealthRoutes(health.NewHealthHandler(
		app.Services.Stores.objects,
		app.Services.UploadsNotify,
	),
		r,
	)

	v1 := routers.ApplyApiVersioning("1", r)

	routers.RegisterUploadsRouter(
		uploads.NewUploadsHandler(app.Services.Sessions, app.Services.Uploads, app.Services.Finalize),
		v1,
	)
}
