package domain

import "github.com/patchwork-crafts/patchwork-backend/internal/apperr"

// Store error vocabulary. The message texts are preserved verbatim from the
// service this backend replaced; existing clients match on them.
const MsgInvalidProject = "MongoDB Error => Invalid Project"

var (
	ErrInvalidAttribute = apperr.New(apperr.KindValidation, "MongoDB ERROR => Invalid Attribute")
	ErrInvalidProjectID = apperr.New(apperr.KindValidation, "MongoDB ERROR => Invalid Attribute:projectId")
	ErrInvalidUserID    = apperr.New(apperr.KindValidation, "MongoDB ERROR => Invalid Attribute:userId")
	ErrInexistentDB     = apperr.New(apperr.KindValidation, "MongoDB ERROR => Inexistent DB")

	ErrInexistentProject = apperr.New(apperr.KindNotFound, "MongoDB ERROR => Inexistent Project")
	ErrNoProjectsFound   = apperr.New(apperr.KindNotFound, "MongoDB ERROR => No projects found")

	ErrAlreadyLiked       = apperr.New(apperr.KindConflict, "Project already liked")
	ErrAlreadyPinned      = apperr.New(apperr.KindConflict, "Project already pinned")
	ErrAlreadyRemovedLike = apperr.New(apperr.KindConflict, "Already removed the like")
	ErrAlreadyRemovedPin  = apperr.New(apperr.KindConflict, "Already removed the pin")
)
