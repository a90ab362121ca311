// File: database/repository/agenda/interface.go
package agendaRepo

import (
	"context"
	"time"

	"trimly/database"
	"trimly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AgendaRepository manages the shop's manual unavailability: single-date
// time blocks and multi-day closures.
type AgendaRepository interface {
	CreateBlock(ctx context.Context, block *models.TimeBlock) error
	DeleteBlock(ctx context.Context, shopID, id string) error
	ListBlocks(ctx context.Context, shopID, date string) ([]models.TimeBlock, error)
	ListAllBlocks(ctx context.Context, shopID string) ([]models.TimeBlock, error)

	CreateClosure(ctx context.Context, closure *models.ShopClosure) error
	DeleteClosure(ctx context.Context, shopID, id string) error
	// ListClosuresIntersecting returns closures whose [startAt, endAt)
	// intersects the given instant window.
	ListClosuresIntersecting(ctx context.Context, shopID string, windowStart, windowEnd time.Time) ([]models.ShopClosure, error)
	ListAllClosures(ctx context.Context, shopID string) ([]models.ShopClosure, error)

	EnsureIndexes() error
}

type mongoAgendaRepo struct {
	blockColl   *mongo.Collection
	closureColl *mongo.Collection
}

// NewMongoAgendaRepo constructs a new MongoDB AgendaRepository.
func NewMongoAgendaRepo() AgendaRepository {
	db := database.DB()
	return &mongoAgendaRepo{
		blockColl:   db.Collection("time_blocks"),
		closureColl: db.Collection("shop_closures"),
	}
}
