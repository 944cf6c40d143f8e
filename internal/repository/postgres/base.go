package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
	"github.com/jwalitptl/patient-api/pkg/logger"
	"github.com/jwalitptl/patient-api/pkg/metrics"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db      *sqlx.DB
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewBaseRepository creates a new base repository. log and m may be nil.
func NewBaseRepository(db *sqlx.DB, log *logger.Logger, m *metrics.Metrics) BaseRepository {
	if log == nil {
		log = logger.Nop()
	}
	return BaseRepository{db: db, log: log, metrics: m}
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// storageError logs a failed statement where it happened and wraps it as a
// storage AppError. The driver error stays reachable via errors.As.
func (r *BaseRepository) storageError(op string, err error) error {
	fields := []interface{}{"operation", op}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		fields = append(fields, "pg_code", string(pqErr.Code))
		if pqErr.Constraint != "" {
			fields = append(fields, "constraint", pqErr.Constraint)
		}
	}
	r.log.Error(err, "Database operation failed", fields...)
	return apperrors.NewStorage(op, err)
}

func (r *BaseRepository) observe(op string, start time.Time, err error) {
	if r.metrics == nil {
		return
	}
	r.metrics.ObserveDB(op, start, err)
	r.metrics.DatabaseConnections.Set(float64(r.db.Stats().OpenConnections))
}
