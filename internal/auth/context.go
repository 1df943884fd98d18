package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxCredentialID is the gin context key the auth middleware stores the
// verified subject id under.
const CtxCredentialID = "credential_id"

// WithCredential attaches a verified credential to the request context.
func WithCredential(c *gin.Context, cred Credential) {
	c.Set(CtxCredentialID, cred.ID)
}

// CredentialFrom extracts the credential set by the auth middleware.
func CredentialFrom(c *gin.Context) (Credential, bool) {
	id := strings.TrimSpace(c.GetString(CtxCredentialID))
	if id == "" {
		return Credential{}, false
	}
	return Credential{ID: id}, true
}
