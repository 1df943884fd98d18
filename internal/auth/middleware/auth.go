// Package middleware implements the authenticated request pipeline:
// token verification, credential extraction and remote user-validation
// delegation, shared by every protected route.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/patchwork-crafts/patchwork-backend/internal/apperr"
	"github.com/patchwork-crafts/patchwork-backend/internal/auth"
)

const (
	msgInvalidUser    = "Invalid User"
	msgNormalUser     = "Normal User not allowed"
	msgAuthPassed     = "Authentication Passed"
	msgUpstreamFailed = "Server Communication failed"
)

// UserValidator is the remote service that authoritatively answers
// "is this user id valid / admin".
type UserValidator interface {
	IsValid(ctx context.Context, id string) (bool, error)
	IsAdmin(ctx context.Context, id string) (bool, error)
}

// RequireUser verifies the bearer token, delegates the subject to the user
// service and attaches the credential to the request. Transport failures
// against the validator surface as 502, never as an authorization success.
func RequireUser(codec *auth.TokenCodec, validator UserValidator, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred, err := authenticate(c, codec, logger)
		if err != nil {
			abort(c, err)
			return
		}

		ok, err := validator.IsValid(c.Request.Context(), cred.ID)
		if err != nil && apperr.Is(err, apperr.KindUpstream) {
			logEvent(c, logger, false, auth.UnknownSubject, msgUpstreamFailed)
			abort(c, err)
			return
		}
		if err != nil || !ok {
			logEvent(c, logger, false, auth.UnknownSubject, msgInvalidUser)
			abort(c, apperr.New(apperr.KindAuth, msgInvalidUser))
			return
		}

		logEvent(c, logger, true, cred.ID, msgAuthPassed)
		auth.WithCredential(c, cred)
		c.Next()
	}
}

// RequireAdmin runs the same token verification, then requires the subject to
// be an admin user. Unknown users get 401, known non-admins 403.
func RequireAdmin(codec *auth.TokenCodec, validator UserValidator, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred, err := authenticate(c, codec, logger)
		if err != nil {
			abort(c, err)
			return
		}

		admin, err := validator.IsAdmin(c.Request.Context(), cred.ID)
		if err != nil {
			logEvent(c, logger, false, auth.UnknownSubject, err.Error())
			abort(c, err)
			return
		}
		if !admin {
			logEvent(c, logger, false, auth.UnknownSubject, msgNormalUser)
			abort(c, apperr.New(apperr.KindForbidden, msgNormalUser))
			return
		}

		logEvent(c, logger, true, cred.ID, msgAuthPassed)
		auth.WithCredential(c, cred)
		c.Next()
	}
}

// authenticate extracts and verifies the bearer token. Check order is fixed:
// missing header, wrong scheme, signature/format failures, missing id.
func authenticate(c *gin.Context, codec *auth.TokenCodec, logger zerolog.Logger) (auth.Credential, error) {
	authorization := c.GetHeader("Authorization")
	if authorization == "" {
		err := apperr.New(apperr.KindAuth, auth.MsgTokenRequired)
		logEvent(c, logger, false, auth.UnknownSubject, err.Message)
		return auth.Credential{}, err
	}

	scheme, token, _ := strings.Cut(authorization, " ")
	if scheme != "Bearer" {
		err := apperr.New(apperr.KindAuth, auth.MsgBearerRequired)
		logEvent(c, logger, false, auth.UnknownSubject, err.Message)
		return auth.Credential{}, err
	}

	cred, err := codec.Verify(token)
	if err != nil {
		logEvent(c, logger, false, auth.UnknownSubject, err.Error())
		return auth.Credential{}, err
	}

	return cred, nil
}

func logEvent(c *gin.Context, logger zerolog.Logger, success bool, subject, message string) {
	auth.LogEvent(logger, c.GetString("request_id"), success, subject, c.Request.URL.Path, message)
}

func abort(c *gin.Context, err error) {
	status, payload := apperr.PayloadFor(err)
	if status == http.StatusInternalServerError {
		// Auth pipeline failures are client-visible; never leak internals.
		payload.Message = msgUpstreamFailed
	}
	c.AbortWithStatusJSON(status, payload)
}
