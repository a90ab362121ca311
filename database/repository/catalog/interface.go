// File: database/repository/catalog/interface.go
package catalogRepo

import (
	"context"

	"trimly/database"
	"trimly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type CatalogRepository interface {
	Create(ctx context.Context, svc *models.Service) error
	GetByID(ctx context.Context, id string) (*models.Service, error)
	// GetActiveOrdered resolves ids to active services owned by the shop,
	// preserving the requested order. Any invalid, inactive or foreign id
	// makes the whole resolution fail with ok=false.
	GetActiveOrdered(ctx context.Context, shopID string, ids []string) ([]models.Service, bool, error)
	ListByShop(ctx context.Context, shopID string, activeOnly bool) ([]models.Service, error)
	Update(ctx context.Context, shopID, id string, fields map[string]interface{}) error
	EnsureIndexes() error
}

type mongoCatalogRepo struct {
	coll *mongo.Collection
}

// NewMongoCatalogRepo constructs a new MongoDB CatalogRepository.
func NewMongoCatalogRepo() CatalogRepository {
	return &mongoCatalogRepo{coll: database.DB().Collection("services")}
}
