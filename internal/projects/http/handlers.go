// Package http exposes the projects resource. Handlers compose the auth
// middleware's credential, a store operation and the response shaping that
// re-signs the caller's token on success.
package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/patchwork-crafts/patchwork-backend/internal/apperr"
	"github.com/patchwork-crafts/patchwork-backend/internal/auth"
	"github.com/patchwork-crafts/patchwork-backend/internal/projects/domain"
	"github.com/patchwork-crafts/patchwork-backend/internal/projects/repository"
)

type Handler struct {
	store *repository.Store
	codec *auth.TokenCodec
	log   zerolog.Logger
}

func (h *Handler) list(c *gin.Context) {
	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil || quantity <= 0 {
		h.fail(c, domain.ErrInvalidAttribute)
		return
	}

	projects, err := h.store.List(c.Request.Context(), quantity)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, projects)
}

func (h *Handler) get(c *gin.Context) {
	project, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, project)
}

// isValid replies with a bare boolean: false for an unknown project id rather
// than an error, matching the contract admin tooling relies on.
func (h *Handler) isValid(c *gin.Context) {
	_, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if apperr.Is(err, apperr.KindNotFound) {
		h.ok(c, false)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, true)
}

func (h *Handler) like(c *gin.Context) {
	cred, _ := auth.CredentialFrom(c)
	like := domain.LikeRecord{User: cred.ID, Date: time.Now().UTC()}

	if err := h.store.AddLike(c.Request.Context(), c.Param("id"), like); err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, true)
}

func (h *Handler) dislike(c *gin.Context) {
	cred, _ := auth.CredentialFrom(c)

	if err := h.store.RemoveLike(c.Request.Context(), c.Param("id"), cred.ID); err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, true)
}

func (h *Handler) pin(c *gin.Context) {
	cred, _ := auth.CredentialFrom(c)

	if err := h.store.AddPin(c.Request.Context(), c.Param("id"), cred.ID); err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, true)
}

func (h *Handler) unpin(c *gin.Context) {
	cred, _ := auth.CredentialFrom(c)

	if err := h.store.RemovePin(c.Request.Context(), c.Param("id"), cred.ID); err != nil {
		h.fail(c, err)
		return
	}

	h.ok(c, true)
}

// ok replies with the payload and, for authenticated callers, a renewed
// bearer token in the Authorization response header (sliding renewal).
func (h *Handler) ok(c *gin.Context, payload any) {
	if cred, authed := auth.CredentialFrom(c); authed {
		if token, err := h.codec.Sign(cred); err == nil {
			c.Header("Authorization", "Bearer "+token)
		}
		auth.LogEvent(h.log, c.GetString("request_id"), true, cred.ID, c.Request.URL.Path, "OK 200")
	}
	c.JSON(http.StatusOK, payload)
}

// fail maps the error to its status and replies without a renewed token.
func (h *Handler) fail(c *gin.Context, err error) {
	subject := auth.UnknownSubject
	if cred, authed := auth.CredentialFrom(c); authed {
		subject = cred.ID
	}
	auth.LogEvent(h.log, c.GetString("request_id"), false, subject, c.Request.URL.Path, err.Error())

	status, payload := apperr.PayloadFor(err)
	c.JSON(status, payload)
}
