package assessment

import (
	"context"
	"errors"
)

// ErrTemplateNotFound is returned when a template id is unknown.
var ErrTemplateNotFound = errors.New("assessment template not found")

// TemplateRepository provides read access to questionnaire templates. The
// engine never persists anything; the repository only loads authored
// definitions.
type TemplateRepository interface {
	GetByID(ctx context.Context, id string) (*Template, error)
	List(ctx context.Context, limit, offset int) ([]*Template, int, error)
}
