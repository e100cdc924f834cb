package mapping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/model"
	mappingService "github.com/jwalitptl/clinic-api/internal/service/mapping"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type fakePatientRepo struct {
	owners map[uuid.UUID]uuid.UUID
}

func (f *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error { return nil }
func (f *fakePatientRepo) Get(ctx context.Context, id, ownerID uuid.UUID) (*model.Patient, error) {
	return nil, apperrors.NotFound("patient")
}
func (f *fakePatientRepo) List(ctx context.Context, ownerID uuid.UUID) ([]*model.Patient, error) {
	return nil, nil
}
func (f *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error      { return nil }
func (f *fakePatientRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error { return nil }
func (f *fakePatientRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.owners[id]
	return ok, nil
}
func (f *fakePatientRepo) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	owner, ok := f.owners[id]
	if !ok {
		return uuid.Nil, apperrors.NotFound("patient")
	}
	return owner, nil
}
func (f *fakePatientRepo) EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	return false, nil
}

type fakeDoctorRepo struct {
	ids map[uuid.UUID]bool
}

func (f *fakeDoctorRepo) Create(ctx context.Context, d *model.Doctor) error { return nil }
func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return nil, apperrors.NotFound("doctor")
}
func (f *fakeDoctorRepo) ListActive(ctx context.Context) ([]*model.Doctor, error) { return nil, nil }
func (f *fakeDoctorRepo) Update(ctx context.Context, d *model.Doctor) error      { return nil }
func (f *fakeDoctorRepo) Delete(ctx context.Context, id uuid.UUID) error         { return nil }
func (f *fakeDoctorRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.ids[id], nil
}
func (f *fakeDoctorRepo) EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	return false, nil
}

type fakeMappingRepo struct {
	byID   map[uuid.UUID]*model.Mapping
	owners map[uuid.UUID]uuid.UUID
}

func (f *fakeMappingRepo) Create(ctx context.Context, m *model.Mapping) error {
	m.Touch()
	copied := *m
	f.byID[m.ID] = &copied
	return nil
}
func (f *fakeMappingRepo) Get(ctx context.Context, id, ownerID uuid.UUID) (*model.Mapping, error) {
	m, ok := f.byID[id]
	if !ok || f.owners[m.PatientID] != ownerID {
		return nil, apperrors.NotFound("mapping")
	}
	copied := *m
	return &copied, nil
}
func (f *fakeMappingRepo) List(ctx context.Context, ownerID uuid.UUID) ([]*model.Mapping, error) {
	out := []*model.Mapping{}
	for _, m := range f.byID {
		if f.owners[m.PatientID] == ownerID {
			copied := *m
			out = append(out, &copied)
		}
	}
	return out, nil
}
func (f *fakeMappingRepo) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Mapping, error) {
	return nil, nil
}
func (f *fakeMappingRepo) Update(ctx context.Context, m *model.Mapping) error { return nil }
func (f *fakeMappingRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return nil
}
func (f *fakeMappingRepo) PairExists(ctx context.Context, patientID, doctorID, excludeID uuid.UUID) (bool, error) {
	for _, m := range f.byID {
		if m.PatientID == patientID && m.DoctorID == doctorID && m.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(ctx context.Context, e *model.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}
func (f *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error {
	return nil
}

type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func setupRouter(callerID uuid.UUID, patientID, doctorID uuid.UUID) (*gin.Engine, *fakeOutboxRepo) {
	gin.SetMode(gin.TestMode)

	owners := map[uuid.UUID]uuid.UUID{patientID: callerID}
	repo := &fakeMappingRepo{byID: make(map[uuid.UUID]*model.Mapping), owners: owners}
	svc := mappingService.NewService(repo,
		&fakePatientRepo{owners: owners},
		&fakeDoctorRepo{ids: map[uuid.UUID]bool{doctorID: true}},
	)
	outbox := &fakeOutboxRepo{}
	h := NewHandler(svc, outbox)

	engine := gin.New()
	group := engine.Group("/api/v1")
	group.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, callerID)
		c.Next()
	})
	h.RegisterRoutes(group)
	return engine, outbox
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestCreateMappingEndpoint(t *testing.T) {
	callerID, patientID, doctorID := uuid.New(), uuid.New(), uuid.New()
	engine, outbox := setupRouter(callerID, patientID, doctorID)

	w := postJSON(t, engine, "/api/v1/mappings", map[string]interface{}{
		"patient":          patientID,
		"doctor":           doctorID,
		"appointment_time": "09:00:00",
		"symptoms":         "fever",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w)
	assert.Equal(t, "success", env.Status)

	var m model.Mapping
	require.NoError(t, json.Unmarshal(env.Data, &m))
	assert.Equal(t, patientID, m.PatientID)
	assert.Equal(t, doctorID, m.DoctorID)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, "MAPPING_CREATE", outbox.events[0].EventType)
}

func TestCreateMappingEndpointDuplicate(t *testing.T) {
	callerID, patientID, doctorID := uuid.New(), uuid.New(), uuid.New()
	engine, _ := setupRouter(callerID, patientID, doctorID)

	body := map[string]interface{}{"patient": patientID, "doctor": doctorID, "appointment_time": "09:00:00"}
	require.Equal(t, http.StatusCreated, postJSON(t, engine, "/api/v1/mappings", body).Code)

	w := postJSON(t, engine, "/api/v1/mappings", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "this patient is already assigned to this doctor", env.Message)
}

func TestCreateMappingEndpointMissingFields(t *testing.T) {
	callerID := uuid.New()
	engine, _ := setupRouter(callerID, uuid.New(), uuid.New())

	w := postJSON(t, engine, "/api/v1/mappings", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "error", env.Status)
}

func TestCreateMappingEndpointUnknownDoctor(t *testing.T) {
	callerID, patientID := uuid.New(), uuid.New()
	engine, _ := setupRouter(callerID, patientID, uuid.New())

	w := postJSON(t, engine, "/api/v1/mappings", map[string]interface{}{
		"patient":          patientID,
		"doctor":           uuid.New(),
		"appointment_time": "09:00:00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "doctor not found", env.Errors["doctor"])
}

func TestCreateMappingEndpointMissingTime(t *testing.T) {
	callerID, patientID, doctorID := uuid.New(), uuid.New(), uuid.New()
	engine, outbox := setupRouter(callerID, patientID, doctorID)

	w := postJSON(t, engine, "/api/v1/mappings", map[string]interface{}{
		"patient": patientID,
		"doctor":  doctorID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "this field is required", env.Errors["appointment_time"])
	assert.Empty(t, outbox.events)
}

func TestGetMappingEndpointNotFound(t *testing.T) {
	callerID := uuid.New()
	engine, _ := setupRouter(callerID, uuid.New(), uuid.New())

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/mappings/%s", uuid.New()), nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decode(t, w)
	assert.Equal(t, "error", env.Status)
}

func TestListMappingsEndpoint(t *testing.T) {
	callerID, patientID, doctorID := uuid.New(), uuid.New(), uuid.New()
	engine, _ := setupRouter(callerID, patientID, doctorID)

	body := map[string]interface{}{"patient": patientID, "doctor": doctorID, "appointment_time": "09:00:00"}
	require.Equal(t, http.StatusCreated, postJSON(t, engine, "/api/v1/mappings", body).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/mappings", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	var mappings []model.Mapping
	require.NoError(t, json.Unmarshal(env.Data, &mappings))
	assert.Len(t, mappings, 1)
}
