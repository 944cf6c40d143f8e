package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/repository"
	"github.com/jwalitptl/patient-api/pkg/logger"
	"github.com/jwalitptl/patient-api/pkg/validator"
)

type PatientService interface {
	CreatePatient(ctx context.Context, in *model.PatientInput) (*model.Patient, error)
	GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, in *model.PatientInput) (*model.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	ListPatients(ctx context.Context, filters model.PatientFilters) ([]*model.Patient, error)
}

type Service struct {
	repo      repository.PatientRepository
	validator *validator.Validator
	log       *logger.Logger
}

func NewService(repo repository.PatientRepository, v *validator.Validator, log *logger.Logger) *Service {
	if v == nil {
		v = validator.New()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:      repo,
		validator: v,
		log:       log,
	}
}

// CreatePatient validates in and persists it. Invalid input never reaches the repository.
func (s *Service) CreatePatient(ctx context.Context, in *model.PatientInput) (*model.Patient, error) {
	p, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.log.Info("Patient created", "patient_id", created.ID.String())
	return created, nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return p, nil
}

// UpdatePatient replaces every mutable field of the patient identified by id.
func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, in *model.PatientInput) (*model.Patient, error) {
	p, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}

	s.log.Info("Patient updated", "patient_id", id.String())
	return updated, nil
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	removed, err := s.repo.Remove(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete patient: %w", err)
	}

	s.log.Info("Patient deleted", "patient_id", id.String())
	return removed, nil
}

func (s *Service) ListPatients(ctx context.Context, filters model.PatientFilters) ([]*model.Patient, error) {
	patients, err := s.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	if patients == nil {
		patients = []*model.Patient{}
	}
	return patients, nil
}

func (s *Service) prepare(in *model.PatientInput) (*model.Patient, error) {
	if err := s.validator.Patient(in).Err(); err != nil {
		return nil, err
	}

	dob, err := model.ParseDate(in.DOB)
	if err != nil {
		return nil, validator.Violations{{Field: "dob", Tag: "calendar_date", Message: "Date of birth must be a valid date"}}.Err()
	}
	return in.ToPatient(dob), nil
}
