package patient

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/repository"
)

var _ repository.PatientRepository = (*mockPatientRepository)(nil)

type mockPatientRepository struct {
	InsertFunc   func(ctx context.Context, p *model.Patient) (*model.Patient, error)
	FindAllFunc  func(ctx context.Context, f model.PatientFilters) ([]*model.Patient, error)
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	UpdateFunc   func(ctx context.Context, id uuid.UUID, p *model.Patient) (*model.Patient, error)
	RemoveFunc   func(ctx context.Context, id uuid.UUID) (*model.Patient, error)

	calls int32
}

func (m *mockPatientRepository) Calls() int32 {
	return atomic.LoadInt32(&m.calls)
}

func (m *mockPatientRepository) Insert(ctx context.Context, p *model.Patient) (*model.Patient, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, p)
	}
	return nil, errors.New("InsertFunc not implemented in mock")
}

func (m *mockPatientRepository) FindAll(ctx context.Context, f model.PatientFilters) ([]*model.Patient, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, f)
	}
	return nil, errors.New("FindAllFunc not implemented in mock")
}

func (m *mockPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, errors.New("FindByIDFunc not implemented in mock")
}

func (m *mockPatientRepository) Update(ctx context.Context, id uuid.UUID, p *model.Patient) (*model.Patient, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, p)
	}
	return nil, errors.New("UpdateFunc not implemented in mock")
}

func (m *mockPatientRepository) Remove(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return nil, errors.New("RemoveFunc not implemented in mock")
}
