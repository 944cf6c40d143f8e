package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/model"
)

// All repository interfaces in one file
type (
	// PatientRepository persists patients in a single table keyed by id.
	// Lookups by id return an ErrNotFound AppError when the row is absent.
	PatientRepository interface {
		Insert(ctx context.Context, patient *model.Patient) (*model.Patient, error)
		FindAll(ctx context.Context, filters model.PatientFilters) ([]*model.Patient, error)
		FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, id uuid.UUID, patient *model.Patient) (*model.Patient, error)
		Remove(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	}

	// Pinger reports whether the backing store is reachable.
	Pinger interface {
		PingContext(ctx context.Context) error
	}
)
