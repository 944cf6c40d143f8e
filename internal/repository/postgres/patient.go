package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/repository"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
	"github.com/jwalitptl/patient-api/pkg/logger"
	"github.com/jwalitptl/patient-api/pkg/metrics"
)

const patientColumns = `id, first_name, middle_name, last_name, date_of_birth, status,
	street_address, city, state, zip_code, created_at, updated_at`

// patientRow mirrors the flat table layout.
type patientRow struct {
	ID            uuid.UUID      `db:"id"`
	FirstName     string         `db:"first_name"`
	MiddleName    sql.NullString `db:"middle_name"`
	LastName      string         `db:"last_name"`
	DateOfBirth   time.Time      `db:"date_of_birth"`
	Status        string         `db:"status"`
	StreetAddress string         `db:"street_address"`
	City          string         `db:"city"`
	State         string         `db:"state"`
	ZipCode       string         `db:"zip_code"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (row *patientRow) toModel() *model.Patient {
	return &model.Patient{
		Base: model.Base{
			ID:        row.ID,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
		FirstName:  row.FirstName,
		MiddleName: row.MiddleName.String,
		LastName:   row.LastName,
		DOB:        model.DateOf(row.DateOfBirth),
		Status:     model.Status(row.Status),
		Address: model.Address{
			Street: row.StreetAddress,
			City:   row.City,
			State:  row.State,
			Zip:    strings.TrimSpace(row.ZipCode),
		},
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB, log *logger.Logger, m *metrics.Metrics) repository.PatientRepository {
	return &patientRepository{BaseRepository: NewBaseRepository(db, log, m)}
}

func (r *patientRepository) Insert(ctx context.Context, patient *model.Patient) (p *model.Patient, err error) {
	start := time.Now()
	defer func() { r.observe("insert", start, err) }()

	query := `
		INSERT INTO patients (
			id, first_name, middle_name, last_name, date_of_birth, status,
			street_address, city, state, zip_code
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + patientColumns

	var row patientRow
	err = r.db.GetContext(ctx, &row, query,
		uuid.New(),
		patient.FirstName,
		nullable(patient.MiddleName),
		patient.LastName,
		patient.DOB.String(),
		string(patient.Status),
		patient.Address.Street,
		patient.Address.City,
		patient.Address.State,
		patient.Address.Zip,
	)
	if err != nil {
		return nil, r.storageError("insert patient", err)
	}
	return row.toModel(), nil
}

func (r *patientRepository) FindAll(ctx context.Context, filters model.PatientFilters) (p []*model.Patient, err error) {
	start := time.Now()
	defer func() { r.observe("find_all", start, err) }()

	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`SELECT ` + patientColumns + ` FROM patients WHERE 1=1`)

	if term := filters.Search(); term != "" {
		args = append(args, "%"+escapeLike(term)+"%")
		fmt.Fprintf(&sb, " AND (first_name ILIKE $%d OR last_name ILIKE $%d)", len(args), len(args))
	}
	if status, ok := filters.StatusFilter(); ok {
		args = append(args, string(status))
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	sb.WriteString(" ORDER BY last_name ASC, first_name ASC")

	var rows []patientRow
	if err = r.db.SelectContext(ctx, &rows, sb.String(), args...); err != nil {
		return nil, r.storageError("list patients", err)
	}

	patients := make([]*model.Patient, 0, len(rows))
	for i := range rows {
		patients = append(patients, rows[i].toModel())
	}
	return patients, nil
}

func (r *patientRepository) FindByID(ctx context.Context, id uuid.UUID) (p *model.Patient, err error) {
	start := time.Now()
	defer func() { r.observe("find_by_id", start, err) }()

	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	var row patientRow
	if err = r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, r.rowError("get patient", id, err)
	}
	return row.toModel(), nil
}

func (r *patientRepository) Update(ctx context.Context, id uuid.UUID, patient *model.Patient) (p *model.Patient, err error) {
	start := time.Now()
	defer func() { r.observe("update", start, err) }()

	query := `
		UPDATE patients
		SET
			first_name = $1, middle_name = $2, last_name = $3, date_of_birth = $4, status = $5,
			street_address = $6, city = $7, state = $8, zip_code = $9,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $10
		RETURNING ` + patientColumns

	var row patientRow
	err = r.db.GetContext(ctx, &row, query,
		patient.FirstName,
		nullable(patient.MiddleName),
		patient.LastName,
		patient.DOB.String(),
		string(patient.Status),
		patient.Address.Street,
		patient.Address.City,
		patient.Address.State,
		patient.Address.Zip,
		id,
	)
	if err != nil {
		return nil, r.rowError("update patient", id, err)
	}
	return row.toModel(), nil
}

func (r *patientRepository) Remove(ctx context.Context, id uuid.UUID) (p *model.Patient, err error) {
	start := time.Now()
	defer func() { r.observe("remove", start, err) }()

	query := `DELETE FROM patients WHERE id = $1 RETURNING ` + patientColumns

	var row patientRow
	if err = r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, r.rowError("delete patient", id, err)
	}
	return row.toModel(), nil
}

// rowError turns a missing row into a not-found error and anything else into a storage error.
func (r *patientRepository) rowError(op string, id uuid.UUID, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFound("Patient", id)
	}
	return r.storageError(op, err)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes term match literally inside a LIKE pattern.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
