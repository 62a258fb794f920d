package attachments

import (
	"context"

	"github.com/mpavlovs/attachd/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.Attachment) error
	Update(ctx context.Context, a *models.Attachment) error
	GetByID(ctx context.Context, id string) (*models.Attachment, error)
	List(ctx context.Context) ([]*models.Attachment, error)
	Delete(ctx context.Context, id string) error
}
