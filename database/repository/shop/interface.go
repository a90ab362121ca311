// File: database/repository/shop/interface.go
package shopRepo

import (
	"context"
	"time"

	"trimly/database"
	"trimly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ShopRepository interface {
	Create(ctx context.Context, shop *models.Shop) error
	GetByID(ctx context.Context, id string) (*models.Shop, error)
	GetBySlug(ctx context.Context, slug string) (*models.Shop, error)
	GetByUserID(ctx context.Context, userID string) (*models.Shop, error)
	GetByEmail(ctx context.Context, email string) (*models.Shop, error)
	List(ctx context.Context) ([]models.Shop, error)
	UpdateProfile(ctx context.Context, id string, fields map[string]interface{}) error
	UpdateSchedule(ctx context.Context, id string, policy *models.SchedulePolicy) error
	UpdatePlan(ctx context.Context, id string, planType models.PlanType, price int, startsAt, expiresAt time.Time) error
	SetMetricsResetAt(ctx context.Context, id string, at time.Time) error
	EnsureIndexes() error
}

type mongoShopRepo struct {
	coll *mongo.Collection
}

// NewMongoShopRepo constructs a new MongoDB ShopRepository.
func NewMongoShopRepo() ShopRepository {
	return &mongoShopRepo{coll: database.DB().Collection("shops")}
}
