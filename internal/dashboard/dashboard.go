// Package dashboard holds the client-side state of the patient list: the
// current query, the fetched records, the modal flow and the toast.
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/model"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
)

const (
	DefaultFetchDelay  = 300 * time.Millisecond
	DefaultSearchDelay = 500 * time.Millisecond

	MsgCreated    = "Patient created successfully!"
	MsgUpdated    = "Patient updated successfully!"
	MsgDeleted    = "Patient deleted successfully."
	MsgLoadFailed = "Failed to load patients. Please try again."

	msgCreateFailed = "Failed to create patient"
	msgUpdateFailed = "Failed to update patient"
	msgDeleteFailed = "Failed to delete patient"
)

// Gateway is the subset of the API client the dashboard drives.
type Gateway interface {
	ListPatients(ctx context.Context, filters model.PatientFilters) ([]*model.Patient, error)
	CreatePatient(ctx context.Context, in *model.PatientInput) (*model.Patient, error)
	UpdatePatient(ctx context.Context, id uuid.UUID, in *model.PatientInput) (*model.Patient, error)
	DeletePatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
}

type Options struct {
	FetchDelay    time.Duration
	ToastDuration time.Duration
	// OnChange is called after every state change, outside the lock.
	OnChange func(Snapshot)
}

// Snapshot is a consistent copy of the dashboard state for rendering.
type Snapshot struct {
	Patients []*model.Patient
	Loading  bool
	Filters  model.PatientFilters
	Modal    Modal
	Toast    *Toast
}

type Dashboard struct {
	gateway  Gateway
	ctx      context.Context
	cancel   context.CancelFunc
	fetch    *Debouncer
	toast    *Notifier
	onChange func(Snapshot)

	mu       sync.Mutex
	patients []*model.Patient
	loading  bool
	filters  model.PatientFilters
	modal    Modal
	seq      uint64
}

func New(ctx context.Context, gateway Gateway, opts Options) *Dashboard {
	if opts.FetchDelay <= 0 {
		opts.FetchDelay = DefaultFetchDelay
	}
	if opts.OnChange == nil {
		opts.OnChange = func(Snapshot) {}
	}

	ctx, cancel := context.WithCancel(ctx)
	d := &Dashboard{
		gateway:  gateway,
		ctx:      ctx,
		cancel:   cancel,
		fetch:    NewDebouncer(opts.FetchDelay),
		onChange: opts.OnChange,
		patients: []*model.Patient{},
		filters:  model.PatientFilters{Status: model.StatusAll},
	}
	d.toast = NewNotifier(opts.ToastDuration, d.changed)
	return d
}

// Close stops pending timers and cancels in-flight fetches.
func (d *Dashboard) Close() {
	d.fetch.Stop()
	d.toast.Stop()
	d.cancel()
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	s := Snapshot{
		Patients: append([]*model.Patient(nil), d.patients...),
		Loading:  d.loading,
		Filters:  d.filters,
		Modal:    d.modal,
	}
	d.mu.Unlock()

	s.Toast = d.toast.Current()
	return s
}

func (d *Dashboard) changed() {
	d.onChange(d.Snapshot())
}

// Refresh fetches the list for the current filters right away.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.fetch.Stop()
	return d.load(ctx)
}

// SetSearch records a new search term and schedules a fetch.
func (d *Dashboard) SetSearch(term string) {
	d.mu.Lock()
	d.filters.SearchTerm = term
	d.mu.Unlock()
	d.schedule()
}

// SetStatus records a new status filter and schedules a fetch.
func (d *Dashboard) SetStatus(status string) {
	if status == "" {
		status = model.StatusAll
	}
	d.mu.Lock()
	d.filters.Status = status
	d.mu.Unlock()
	d.schedule()
}

func (d *Dashboard) schedule() {
	d.changed()
	d.fetch.Trigger(func() { _ = d.load(d.ctx) })
}

// load fetches with the filters current at call time. A result that arrives
// after a newer fetch has started is dropped.
func (d *Dashboard) load(ctx context.Context) error {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	filters := d.filters
	d.loading = true
	d.mu.Unlock()
	d.changed()

	patients, err := d.gateway.ListPatients(ctx, filters)

	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		return nil
	}
	d.loading = false
	if err == nil {
		if patients == nil {
			patients = []*model.Patient{}
		}
		d.patients = patients
	}
	d.mu.Unlock()

	if err != nil {
		d.toast.Error(MsgLoadFailed)
		return err
	}
	d.changed()
	return nil
}

func (d *Dashboard) OpenCreate() {
	d.setModal(Modal{Mode: ModalCreate})
}

func (d *Dashboard) OpenEdit(p *model.Patient) {
	d.setModal(Modal{Mode: ModalEdit, Patient: p})
}

func (d *Dashboard) OpenDelete(p *model.Patient) {
	d.setModal(Modal{Mode: ModalDelete, Patient: p})
}

func (d *Dashboard) CloseModal() {
	d.setModal(Modal{})
}

func (d *Dashboard) setModal(m Modal) {
	d.mu.Lock()
	d.modal = m
	d.mu.Unlock()
	d.changed()
}

// Submit creates or updates depending on the open modal. The modal stays
// open on failure so the form can be corrected.
func (d *Dashboard) Submit(ctx context.Context, in *model.PatientInput) (*model.Patient, error) {
	d.mu.Lock()
	modal := d.modal
	d.mu.Unlock()

	var (
		p        *model.Patient
		err      error
		success  string
		fallback string
	)
	if modal.Mode == ModalEdit && modal.Patient != nil {
		p, err = d.gateway.UpdatePatient(ctx, modal.Patient.ID, in)
		success, fallback = MsgUpdated, msgUpdateFailed
	} else {
		p, err = d.gateway.CreatePatient(ctx, in)
		success, fallback = MsgCreated, msgCreateFailed
	}
	if err != nil {
		d.toast.Error(userMessage(err, fallback))
		return nil, err
	}

	d.toast.Success(success)
	d.CloseModal()
	_ = d.Refresh(ctx)
	return p, nil
}

// ConfirmDelete deletes the patient the delete modal was opened for.
func (d *Dashboard) ConfirmDelete(ctx context.Context) error {
	d.mu.Lock()
	modal := d.modal
	d.mu.Unlock()

	if modal.Mode != ModalDelete || modal.Patient == nil {
		return nil
	}

	if _, err := d.gateway.DeletePatient(ctx, modal.Patient.ID); err != nil {
		d.toast.Error(userMessage(err, msgDeleteFailed))
		return err
	}

	d.toast.Success(MsgDeleted)
	d.CloseModal()
	_ = d.Refresh(ctx)
	return nil
}

func (d *Dashboard) DismissToast() {
	d.toast.Dismiss()
}

func userMessage(err error, fallback string) string {
	if appErr, ok := apperrors.As(err); ok && appErr.Message != "" {
		return appErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
