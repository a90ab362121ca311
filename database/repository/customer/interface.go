// File: database/repository/customer/interface.go
package customerRepo

import (
	"context"
	"time"

	"trimly/database"
	"trimly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	GetByUserID(ctx context.Context, userID string) (*models.Customer, error)
	// GetByPhoneForShop finds the most recent customer with this phone that
	// is either unbound or already bound to the shop.
	GetByPhoneForShop(ctx context.Context, shopID, phone string) (*models.Customer, error)
	// GetByPhone finds the most recent customer with this phone, any shop.
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
	ListByPreferredShop(ctx context.Context, shopID string) ([]models.Customer, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	// BindPreferredShop locks the customer to a shop only if no binding exists.
	BindPreferredShop(ctx context.Context, id, shopID string) error
	// ApplyNoShow sets the counter and optional block in one write.
	ApplyNoShow(ctx context.Context, id string, count int, blockedUntil *time.Time) error
	EnsureIndexes() error
}

type mongoCustomerRepo struct {
	coll *mongo.Collection
}

// NewMongoCustomerRepo constructs a new MongoDB CustomerRepository.
func NewMongoCustomerRepo() CustomerRepository {
	return &mongoCustomerRepo{coll: database.DB().Collection("customers")}
}
