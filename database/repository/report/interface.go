// File: database/repository/report/interface.go
package reportRepo

import (
	"context"

	"trimly/database"
	"trimly/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReportRepository stores metric snapshot reports written on baseline reset.
type ReportRepository interface {
	Create(ctx context.Context, report *models.MetricReport) error
	ListByShop(ctx context.Context, shopID string, limit int) ([]models.MetricReport, error)
	EnsureIndexes() error
}

type mongoReportRepo struct {
	coll *mongo.Collection
}

// NewMongoReportRepo constructs a new MongoDB ReportRepository.
func NewMongoReportRepo() ReportRepository {
	return &mongoReportRepo{coll: database.DB().Collection("metric_reports")}
}
