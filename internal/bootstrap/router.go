package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpapi "github.com/patchwork-crafts/patchwork-backend/internal/api/http"
	"github.com/patchwork-crafts/patchwork-backend/internal/api/http/middleware"
	"github.com/patchwork-crafts/patchwork-backend/internal/auth"
	authmw "github.com/patchwork-crafts/patchwork-backend/internal/auth/middleware"
	projhttp "github.com/patchwork-crafts/patchwork-backend/internal/projects/http"
	"github.com/patchwork-crafts/patchwork-backend/internal/projects/repository"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Redis       *redis.Client
	Codec       *auth.TokenCodec
	Users       authmw.UserValidator
	Logger      zerolog.Logger

	CORSOrigins    []string
	RateLimitRPM   int
	RateLimitBurst int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(dep.Logger))

	if len(dep.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = dep.CORSOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		corsCfg.ExposeHeaders = append(corsCfg.ExposeHeaders, "Authorization")
		r.Use(cors.New(corsCfg))
	}

	metrics := middleware.NewMetrics()
	r.Use(metrics.Middleware())
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if dep.RateLimitRPM > 0 {
		r.Use(middleware.NewRateLimiter(dep.RateLimitRPM, dep.RateLimitBurst).Middleware())
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)

	store := repository.NewStore(dep.Redis)

	projectsGroup := r.Group("/projects")
	projhttp.Register(projectsGroup, projhttp.Deps{
		Store:        store,
		Codec:        dep.Codec,
		Logger:       dep.Logger,
		RequireUser:  authmw.RequireUser(dep.Codec, dep.Users, dep.Logger),
		RequireAdmin: authmw.RequireAdmin(dep.Codec, dep.Users, dep.Logger),
	})

	return r
}
