package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/patient-api/internal/model"
	apperrors "github.com/jwalitptl/patient-api/pkg/errors"
)

type fakeGateway struct {
	mu      sync.Mutex
	queries []model.PatientFilters
	lists   int32

	listFunc   func(ctx context.Context, f model.PatientFilters) ([]*model.Patient, error)
	createFunc func(ctx context.Context, in *model.PatientInput) (*model.Patient, error)
	updateFunc func(ctx context.Context, id uuid.UUID, in *model.PatientInput) (*model.Patient, error)
	deleteFunc func(ctx context.Context, id uuid.UUID) (*model.Patient, error)
}

func (g *fakeGateway) ListPatients(ctx context.Context, f model.PatientFilters) ([]*model.Patient, error) {
	atomic.AddInt32(&g.lists, 1)
	g.mu.Lock()
	g.queries = append(g.queries, f)
	g.mu.Unlock()
	if g.listFunc != nil {
		return g.listFunc(ctx, f)
	}
	return []*model.Patient{}, nil
}

func (g *fakeGateway) CreatePatient(ctx context.Context, in *model.PatientInput) (*model.Patient, error) {
	return g.createFunc(ctx, in)
}

func (g *fakeGateway) UpdatePatient(ctx context.Context, id uuid.UUID, in *model.PatientInput) (*model.Patient, error) {
	return g.updateFunc(ctx, id, in)
}

func (g *fakeGateway) DeletePatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return g.deleteFunc(ctx, id)
}

func (g *fakeGateway) Lists() int32 {
	return atomic.LoadInt32(&g.lists)
}

func (g *fakeGateway) LastQuery() model.PatientFilters {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queries) == 0 {
		return model.PatientFilters{}
	}
	return g.queries[len(g.queries)-1]
}

func patient(last string) *model.Patient {
	return &model.Patient{Base: model.Base{ID: uuid.New()}, FirstName: "Jane", LastName: last, Status: model.StatusActive}
}

func newDashboard(t *testing.T, g *fakeGateway) *Dashboard {
	t.Helper()
	d := New(context.Background(), g, Options{FetchDelay: 20 * time.Millisecond, ToastDuration: 50 * time.Millisecond})
	t.Cleanup(d.Close)
	return d
}

func TestDebouncer_FiresOnceForBurst(t *testing.T) {
	var calls int32
	d := NewDebouncer(20 * time.Millisecond)
	for i := 0; i < 5; i++ {
		d.Trigger(func() { atomic.AddInt32(&calls, 1) })
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDebouncer_Stop(t *testing.T) {
	var calls int32
	d := NewDebouncer(20 * time.Millisecond)
	d.Trigger(func() { atomic.AddInt32(&calls, 1) })
	assert.True(t, d.Stop())

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.False(t, d.Stop())
}

func TestNotifier(t *testing.T) {
	var changes int32
	n := NewNotifier(30*time.Millisecond, func() { atomic.AddInt32(&changes, 1) })
	defer n.Stop()

	n.Success("saved")
	require.NotNil(t, n.Current())
	assert.Equal(t, Toast{Kind: ToastSuccess, Message: "saved"}, *n.Current())

	assert.Eventually(t, func() bool { return n.Current() == nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&changes))

	n.Error("boom")
	n.Dismiss()
	assert.Nil(t, n.Current())
}

func TestNotifier_ReplacementResetsTimer(t *testing.T) {
	n := NewNotifier(40*time.Millisecond, nil)
	defer n.Stop()

	n.Success("first")
	time.Sleep(25 * time.Millisecond)
	n.Error("second")
	time.Sleep(25 * time.Millisecond)

	require.NotNil(t, n.Current())
	assert.Equal(t, "second", n.Current().Message)
}

func TestModal(t *testing.T) {
	assert.False(t, Modal{}.Open())
	assert.Equal(t, TitleCreate, Modal{Mode: ModalCreate}.Title())
	assert.Equal(t, TitleEdit, Modal{Mode: ModalEdit}.Title())
	assert.Equal(t, TitleDelete, Modal{Mode: ModalDelete}.Title())

	assert.Equal(t, model.StatusInquiry, Modal{Mode: ModalCreate}.FormInput().Status)

	p := patient("Doe")
	p.DOB = model.NewDate(1990, time.January, 1)
	in := Modal{Mode: ModalEdit, Patient: p}.FormInput()
	assert.Equal(t, "Doe", in.LastName)
	assert.Equal(t, "1990-01-01", in.DOB)
}

func TestDashboard_SearchIsDebounced(t *testing.T) {
	g := &fakeGateway{}
	d := newDashboard(t, g)

	d.SetSearch("J")
	d.SetSearch("Ja")
	d.SetSearch("Jan")
	d.SetStatus("Active")

	assert.Eventually(t, func() bool { return g.Lists() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), g.Lists())
	assert.Equal(t, model.PatientFilters{SearchTerm: "Jan", Status: "Active"}, g.LastQuery())
}

func TestDashboard_Refresh(t *testing.T) {
	g := &fakeGateway{listFunc: func(context.Context, model.PatientFilters) ([]*model.Patient, error) {
		return []*model.Patient{patient("Adams"), patient("Zo")}, nil
	}}
	d := newDashboard(t, g)

	require.NoError(t, d.Refresh(context.Background()))
	s := d.Snapshot()
	assert.False(t, s.Loading)
	assert.Len(t, s.Patients, 2)
	assert.Equal(t, model.StatusAll, s.Filters.Status)
}

func TestDashboard_LoadFailureShowsToast(t *testing.T) {
	g := &fakeGateway{listFunc: func(context.Context, model.PatientFilters) ([]*model.Patient, error) {
		return nil, apperrors.NewTransport("Failed to fetch patients", errors.New("refused"))
	}}
	d := newDashboard(t, g)

	require.Error(t, d.Refresh(context.Background()))
	s := d.Snapshot()
	require.NotNil(t, s.Toast)
	assert.Equal(t, ToastError, s.Toast.Kind)
	assert.Equal(t, MsgLoadFailed, s.Toast.Message)
	assert.Empty(t, s.Patients)

	assert.Eventually(t, func() bool { return d.Snapshot().Toast == nil }, time.Second, 5*time.Millisecond)
}

func TestDashboard_StaleFetchDiscarded(t *testing.T) {
	release := make(chan struct{})
	g := &fakeGateway{listFunc: func(_ context.Context, f model.PatientFilters) ([]*model.Patient, error) {
		if f.SearchTerm == "old" {
			<-release
			return []*model.Patient{patient("Old")}, nil
		}
		return []*model.Patient{patient("New")}, nil
	}}
	d := newDashboard(t, g)

	d.SetSearch("old")
	assert.Eventually(t, func() bool { return g.Lists() == 1 }, time.Second, 5*time.Millisecond)

	d.SetSearch("new")
	assert.Eventually(t, func() bool {
		s := d.Snapshot()
		return len(s.Patients) == 1 && s.Patients[0].LastName == "New"
	}, time.Second, 5*time.Millisecond)

	close(release)
	time.Sleep(20 * time.Millisecond)
	s := d.Snapshot()
	require.Len(t, s.Patients, 1)
	assert.Equal(t, "New", s.Patients[0].LastName)
}

func TestDashboard_Create(t *testing.T) {
	g := &fakeGateway{createFunc: func(_ context.Context, in *model.PatientInput) (*model.Patient, error) {
		return patient(in.LastName), nil
	}}
	d := newDashboard(t, g)

	d.OpenCreate()
	assert.Equal(t, TitleCreate, d.Snapshot().Modal.Title())

	_, err := d.Submit(context.Background(), &model.PatientInput{LastName: "Doe"})
	require.NoError(t, err)

	s := d.Snapshot()
	assert.False(t, s.Modal.Open())
	require.NotNil(t, s.Toast)
	assert.Equal(t, MsgCreated, s.Toast.Message)
	assert.Equal(t, int32(1), g.Lists())
}

func TestDashboard_UpdateFailureKeepsModal(t *testing.T) {
	p := patient("Doe")
	g := &fakeGateway{updateFunc: func(_ context.Context, id uuid.UUID, _ *model.PatientInput) (*model.Patient, error) {
		return nil, apperrors.NewNotFound("Patient", id)
	}}
	d := newDashboard(t, g)

	d.OpenEdit(p)
	_, err := d.Submit(context.Background(), &model.PatientInput{})
	require.Error(t, err)

	s := d.Snapshot()
	assert.Equal(t, ModalEdit, s.Modal.Mode)
	require.NotNil(t, s.Toast)
	assert.Equal(t, "Patient with ID "+p.ID.String()+" not found", s.Toast.Message)
	assert.Equal(t, int32(0), g.Lists())
}

func TestDashboard_Update(t *testing.T) {
	p := patient("Doe")
	var gotID uuid.UUID
	g := &fakeGateway{updateFunc: func(_ context.Context, id uuid.UUID, _ *model.PatientInput) (*model.Patient, error) {
		gotID = id
		return p, nil
	}}
	d := newDashboard(t, g)

	d.OpenEdit(p)
	_, err := d.Submit(context.Background(), &model.PatientInput{})
	require.NoError(t, err)
	assert.Equal(t, p.ID, gotID)
	assert.Equal(t, MsgUpdated, d.Snapshot().Toast.Message)
}

func TestDashboard_ConfirmDelete(t *testing.T) {
	p := patient("Doe")
	var deleted uuid.UUID
	g := &fakeGateway{deleteFunc: func(_ context.Context, id uuid.UUID) (*model.Patient, error) {
		deleted = id
		return p, nil
	}}
	d := newDashboard(t, g)

	require.NoError(t, d.ConfirmDelete(context.Background()))
	assert.Equal(t, uuid.Nil, deleted)

	d.OpenDelete(p)
	assert.Equal(t, TitleDelete, d.Snapshot().Modal.Title())
	require.NoError(t, d.ConfirmDelete(context.Background()))

	assert.Equal(t, p.ID, deleted)
	s := d.Snapshot()
	assert.False(t, s.Modal.Open())
	assert.Equal(t, MsgDeleted, s.Toast.Message)

	d.DismissToast()
	assert.Nil(t, d.Snapshot().Toast)
}

func TestDashboard_OnChange(t *testing.T) {
	var snapshots int32
	g := &fakeGateway{}
	d := New(context.Background(), g, Options{OnChange: func(Snapshot) { atomic.AddInt32(&snapshots, 1) }})
	defer d.Close()

	d.OpenCreate()
	d.CloseModal()
	assert.Equal(t, int32(2), atomic.LoadInt32(&snapshots))
}
