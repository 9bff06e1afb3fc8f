package runs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/weaveai/weaveai-backend/internal/pipeline"
	"github.com/weaveai/weaveai-backend/pkg/db"
	pkgerrors "github.com/weaveai/weaveai-backend/pkg/errors"
	"github.com/weaveai/weaveai-backend/pkg/logger"
)

// Service persists and reads back pipeline run history. It satisfies
// pipeline.Recorder so the pipeline stays unaware of the storage layer.
type Service interface {
	Record(ctx context.Context, record pipeline.RunRecord) error
	Recent(ctx context.Context, limit int) ([]Run, error)
}

type service struct {
	client *db.Client
	logg   *logger.Logger
}

// NewService migrates the history table and returns the store.
func NewService(client *db.Client, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "runs store requires a database client")
	}
	if err := client.DB().AutoMigrate(&Run{}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "migrating run history table")
	}
	return &service{client: client, logg: logg}, nil
}

func (s *service) Record(ctx context.Context, record pipeline.RunRecord) error {
	components, err := json.Marshal(record.Components)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding run components")
	}

	row := Run{
		ID:         uuid.NewString(),
		Rows:       record.Rows,
		DurationMS: record.Duration.Milliseconds(),
		Components: string(components),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.client.DB().WithContext(ctx).Create(&row).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inserting run history row")
	}

	if s.logg != nil {
		s.logg.Debug(s.logg.WithRunID(ctx, row.ID), "runs.recorded")
	}
	return nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []Run
	err := s.client.DB().WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing run history")
	}
	return rows, nil
}
