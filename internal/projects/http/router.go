package http

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/patchwork-crafts/patchwork-backend/internal/auth"
	"github.com/patchwork-crafts/patchwork-backend/internal/projects/repository"
)

type Deps struct {
	Store  *repository.Store
	Codec  *auth.TokenCodec
	Logger zerolog.Logger

	// RequireUser and RequireAdmin are the auth middlewares guarding the
	// routes; privileged routes additionally ask the user service for the
	// admin check.
	RequireUser  gin.HandlerFunc
	RequireAdmin gin.HandlerFunc
}

func Register(rg *gin.RouterGroup, dep Deps) {
	h := &Handler{store: dep.Store, codec: dep.Codec, log: dep.Logger}

	rg.GET("", dep.RequireUser, h.list)
	rg.GET("/isValid/:id", dep.RequireAdmin, h.isValid)
	rg.GET("/:id", dep.RequireUser, h.get)
	rg.PUT("/:id/liked", dep.RequireUser, h.like)
	rg.PUT("/:id/disliked", dep.RequireUser, h.dislike)
	rg.PUT("/:id/pinned", dep.RequireUser, h.pin)
	rg.PUT("/:id/despinned", dep.RequireUser, h.unpin)
}
