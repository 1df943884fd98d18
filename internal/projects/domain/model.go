package domain

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/patchwork-crafts/patchwork-backend/internal/apperr"
)

// minDate is the earliest acceptable project date.
var minDate = time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)

// LikeRecord is the canonical representation of one like: who and when.
type LikeRecord struct {
	User string    `json:"user" validate:"required"`
	Date time.Time `json:"date" validate:"required"`
}

// ProjectImages groups the opaque image references attached to a project.
type ProjectImages struct {
	DoneByUsers  []string `json:"doneByUsers"`
	DoneByAuthor []string `json:"doneByAuthor"`
	Templates    []string `json:"templates"`
}

// Project is a patchwork project document. The id field is the public
// identifier, distinct from any storage-internal key. Liked and pinned
// entries are unique per user.
type Project struct {
	ID             string        `json:"id" validate:"required"`
	Name           string        `json:"name" validate:"required"`
	Author         string        `json:"author" validate:"required"`
	Type           string        `json:"type" validate:"required"`
	CreationDate   time.Time     `json:"creationDate" validate:"required,since2016"`
	LastUpdateDate time.Time     `json:"lastUpdateDate" validate:"required,since2016"`
	SvgDescription string        `json:"svgDescription,omitempty"`
	SvgProject     string        `json:"svgProject,omitempty"`
	Images         ProjectImages `json:"images"`
	Liked          []LikeRecord  `json:"liked" validate:"unique=User,dive"`
	Pinned         []string      `json:"pinned" validate:"unique"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("since2016", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !t.Before(minDate)
	})
	return v
}

// Validate checks the document against the project schema.
func (p *Project) Validate() error {
	if err := validate.Struct(p); err != nil {
		return apperr.Wrap(apperr.KindValidation, MsgInvalidProject, err)
	}
	return nil
}
