package patient

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
)

type fakePatientRepo struct {
	byID map[uuid.UUID]*model.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{byID: make(map[uuid.UUID]*model.Patient)}
}

func (f *fakePatientRepo) Create(ctx context.Context, p *model.Patient) error {
	p.Touch()
	copied := *p
	f.byID[p.ID] = &copied
	return nil
}

func (f *fakePatientRepo) Get(ctx context.Context, id, ownerID uuid.UUID) (*model.Patient, error) {
	p, ok := f.byID[id]
	if !ok || p.UserID != ownerID {
		return nil, apperrors.NotFound("patient")
	}
	copied := *p
	return &copied, nil
}

func (f *fakePatientRepo) List(ctx context.Context, ownerID uuid.UUID) ([]*model.Patient, error) {
	out := []*model.Patient{}
	for _, p := range f.byID {
		if p.UserID == ownerID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakePatientRepo) Update(ctx context.Context, p *model.Patient) error {
	copied := *p
	f.byID[p.ID] = &copied
	return nil
}

func (f *fakePatientRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	p, ok := f.byID[id]
	if !ok || p.UserID != ownerID {
		return apperrors.NotFound("patient")
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePatientRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakePatientRepo) OwnerOf(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	p, ok := f.byID[id]
	if !ok {
		return uuid.Nil, apperrors.NotFound("patient")
	}
	return p.UserID, nil
}

func (f *fakePatientRepo) EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	for _, p := range f.byID {
		if p.Email == email && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func validRequest() *model.CreatePatientRequest {
	return &model.CreatePatientRequest{
		FirstName:   "Jane",
		LastName:    "Doe",
		DateOfBirth: model.NewDate(1990, 4, 12),
		Gender:      model.GenderFemale,
		Phone:       "+12025550142",
		Email:       "jane.doe@example.com",
		Address:     "12 Elm Street",
	}
}

func TestCreatePatient(t *testing.T) {
	svc := NewService(newFakePatientRepo())
	ownerID := uuid.New()

	p, err := svc.Create(context.Background(), ownerID, validRequest())
	require.NoError(t, err)
	assert.Equal(t, ownerID, p.UserID)
	assert.Equal(t, "Jane Doe", p.FullName())
	assert.NotEqual(t, uuid.Nil, p.ID)
}

func TestCreatePatientInvalidPhone(t *testing.T) {
	svc := NewService(newFakePatientRepo())

	for _, phone := range []string{"", "12345", "not-a-phone", "+123456789012345678"} {
		req := validRequest()
		req.Phone = phone
		_, err := svc.Create(context.Background(), uuid.New(), req)
		require.Error(t, err, "phone %q should be rejected", phone)
		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Contains(t, appErr.Fields, "phone")
	}
}

func TestCreatePatientFutureDateOfBirth(t *testing.T) {
	svc := NewService(newFakePatientRepo())

	req := validRequest()
	today := model.Today()
	req.DateOfBirth = model.NewDate(today.Year()+1, today.Month(), today.Day())
	_, err := svc.Create(context.Background(), uuid.New(), req)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "date_of_birth")
}

func TestCreatePatientDuplicateEmail(t *testing.T) {
	svc := NewService(newFakePatientRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), validRequest())
	require.NoError(t, err)

	// Same email under a different owner is still rejected.
	_, err = svc.Create(ctx, uuid.New(), validRequest())
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "email")
}

func TestUpdatePatientKeepsOwnEmail(t *testing.T) {
	svc := NewService(newFakePatientRepo())
	ctx := context.Background()
	ownerID := uuid.New()

	p, err := svc.Create(ctx, ownerID, validRequest())
	require.NoError(t, err)

	// Re-submitting the record's own email is not a conflict.
	email := p.Email
	name := "Janet"
	updated, err := svc.Update(ctx, ownerID, p.ID, &model.UpdatePatientRequest{
		FirstName: &name,
		Email:     &email,
	})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)
}

func TestPatientRoundTrip(t *testing.T) {
	svc := NewService(newFakePatientRepo())
	ctx := context.Background()
	ownerID := uuid.New()

	req := validRequest()
	history := "allergic to penicillin"
	req.MedicalHistory = &history

	created, err := svc.Create(ctx, ownerID, req)
	require.NoError(t, err)

	got, err := svc.Get(ctx, ownerID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, req.FirstName, got.FirstName)
	assert.Equal(t, req.LastName, got.LastName)
	assert.Equal(t, req.DateOfBirth, got.DateOfBirth)
	assert.Equal(t, req.Gender, got.Gender)
	assert.Equal(t, req.Phone, got.Phone)
	assert.Equal(t, req.Email, got.Email)
	assert.Equal(t, req.Address, got.Address)
	require.NotNil(t, got.MedicalHistory)
	assert.Equal(t, history, *got.MedicalHistory)
}

func TestPatientVisibilityScoped(t *testing.T) {
	svc := NewService(newFakePatientRepo())
	ctx := context.Background()
	ownerID := uuid.New()
	otherID := uuid.New()

	p, err := svc.Create(ctx, ownerID, validRequest())
	require.NoError(t, err)

	_, err = svc.Get(ctx, otherID, p.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	mine, err := svc.List(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.List(ctx, otherID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestDeletePatientScoped(t *testing.T) {
	svc := NewService(newFakePatientRepo())
	ctx := context.Background()
	ownerID := uuid.New()

	p, err := svc.Create(ctx, ownerID, validRequest())
	require.NoError(t, err)

	err = svc.Delete(ctx, uuid.New(), p.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	require.NoError(t, svc.Delete(ctx, ownerID, p.ID))
	_, err = svc.Get(ctx, ownerID, p.ID)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
