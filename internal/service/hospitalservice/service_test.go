package hospitalservice

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WahidMubarrat/EmerCare/internal/model"
	"github.com/WahidMubarrat/EmerCare/internal/repository"
	"github.com/WahidMubarrat/EmerCare/pkg/apperror"
)

type fakeHospitalRepo struct {
	ids map[uuid.UUID]bool
}

func (r *fakeHospitalRepo) Create(_ context.Context, _ *model.Hospital) error { return nil }
func (r *fakeHospitalRepo) Get(_ context.Context, _ uuid.UUID) (*model.Hospital, error) {
	return nil, sql.ErrNoRows
}
func (r *fakeHospitalRepo) GetByEmail(_ context.Context, _ string) (*model.Hospital, error) {
	return nil, sql.ErrNoRows
}
func (r *fakeHospitalRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return r.ids[id], nil
}
func (r *fakeHospitalRepo) Update(_ context.Context, _ *model.Hospital) error { return nil }
func (r *fakeHospitalRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}
func (r *fakeHospitalRepo) Search(_ context.Context, _ *repository.SearchFilter) ([]*model.Hospital, error) {
	return nil, nil
}

// fakeProfileRepo mirrors the append-is-atomic behavior of the real
// child-table store: concurrent adds never overwrite each other.
type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*model.HospitalServiceProfile // keyed by hospital ID
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*model.HospitalServiceProfile)}
}

func (r *fakeProfileRepo) GetByHospital(_ context.Context, hospitalID uuid.UUID) (*model.HospitalServiceProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[hospitalID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	cp.Doctors = append([]*model.Doctor(nil), p.Doctors...)
	cp.Services = append([]*model.HospitalService(nil), p.Services...)
	cp.Beds = append([]*model.BedCategory(nil), p.Beds...)
	cp.BloodBank = append([]*model.BloodStock(nil), p.BloodBank...)
	return &cp, nil
}

func (r *fakeProfileRepo) CreateDefault(_ context.Context, profile *model.HospitalServiceProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.HospitalID]; ok {
		return nil
	}
	cp := *profile
	r.profiles[profile.HospitalID] = &cp
	return nil
}

func (r *fakeProfileRepo) byID(profileID uuid.UUID) *model.HospitalServiceProfile {
	for _, p := range r.profiles {
		if p.ID == profileID {
			return p
		}
	}
	return nil
}

func (r *fakeProfileRepo) AddDoctor(_ context.Context, profileID uuid.UUID, doctor *model.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID(profileID)
	if p == nil {
		return sql.ErrNoRows
	}
	cp := *doctor
	p.Doctors = append(p.Doctors, &cp)
	return nil
}

func (r *fakeProfileRepo) GetDoctor(_ context.Context, profileID, doctorID uuid.UUID) (*model.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID(profileID)
	if p == nil {
		return nil, sql.ErrNoRows
	}
	for _, d := range p.Doctors {
		if d.ID == doctorID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeProfileRepo) UpdateDoctor(_ context.Context, profileID uuid.UUID, doctor *model.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID(profileID)
	if p == nil {
		return sql.ErrNoRows
	}
	for i, d := range p.Doctors {
		if d.ID == doctor.ID {
			cp := *doctor
			p.Doctors[i] = &cp
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *fakeProfileRepo) DeleteDoctor(_ context.Context, profileID, doctorID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID(profileID)
	if p == nil {
		return sql.ErrNoRows
	}
	for i, d := range p.Doctors {
		if d.ID == doctorID {
			p.Doctors = append(p.Doctors[:i], p.Doctors[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *fakeProfileRepo) AddService(_ context.Context, profileID uuid.UUID, service *model.HospitalService) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID(profileID)
	if p == nil {
		return sql.ErrNoRows
	}
	cp := *service
	p.Services = append(p.Services, &cp)
	return nil
}

func (r *fakeProfileRepo) GetService(_ context.Context, profileID, serviceID uuid.UUID) (*model.HospitalService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID(profileID)
	if p == nil {
		return nil, sql.ErrNoRows
	}
	for _, svc := range p.Services {
		if svc.ID == serviceID {
			cp := *svc
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeProfileRepo) UpdateService(_ context.Context, profileID uuid.UUID, service *model.HospitalService) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID(profileID)
	if p == nil {
		return sql.ErrNoRows
	}
	for i, svc := range p.Services {
		if svc.ID == service.ID {
			cp := *service
			p.Services[i] = &cp
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *fakeProfileRepo) DeleteService(_ context.Context, profileID, serviceID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID(profileID)
	if p == nil {
		return sql.ErrNoRows
	}
	for i, svc := range p.Services {
		if svc.ID == serviceID {
			p.Services = append(p.Services[:i], p.Services[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (r *fakeProfileRepo) ReplaceBeds(_ context.Context, profileID uuid.UUID, beds []*model.BedCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID(profileID)
	if p == nil {
		return sql.ErrNoRows
	}
	p.Beds = append([]*model.BedCategory(nil), beds...)
	return nil
}

func (r *fakeProfileRepo) ReplaceBloodBank(_ context.Context, profileID uuid.UUID, stock []*model.BloodStock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID(profileID)
	if p == nil {
		return sql.ErrNoRows
	}
	p.BloodBank = append([]*model.BloodStock(nil), stock...)
	return nil
}

func newTestService() (*Service, uuid.UUID) {
	hospitalID := uuid.New()
	hospitals := &fakeHospitalRepo{ids: map[uuid.UUID]bool{hospitalID: true}}
	return NewService(newFakeProfileRepo(), hospitals), hospitalID
}

func TestGetProfileCreatesDefaults(t *testing.T) {
	svc, hospitalID := newTestService()

	profile, err := svc.GetProfile(context.Background(), hospitalID.String())
	require.NoError(t, err)
	assert.Equal(t, hospitalID, profile.HospitalID)
	assert.Empty(t, profile.Doctors)
	assert.Empty(t, profile.Services)

	require.Len(t, profile.Beds, 4)
	for i, name := range model.DefaultBedCategories {
		assert.Equal(t, name, profile.Beds[i].Name)
		assert.Zero(t, profile.Beds[i].Total)
		assert.Zero(t, profile.Beds[i].Available)
	}

	require.Len(t, profile.BloodBank, len(model.BloodGroups))
	for i, group := range model.BloodGroups {
		assert.Equal(t, group, profile.BloodBank[i].BloodGroup)
		assert.Zero(t, profile.BloodBank[i].Units)
	}

	// A second read reuses the same profile.
	again, err := svc.GetProfile(context.Background(), hospitalID.String())
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}

func TestGetProfileUnknownHospital(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetProfile(context.Background(), uuid.NewString())
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrNotFound, appErr.Code)

	_, err = svc.GetProfile(context.Background(), "garbage")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrInvalidID, appErr.Code)
}

func TestAddDoctorDefaultsAvailability(t *testing.T) {
	svc, hospitalID := newTestService()

	doctor, err := svc.AddDoctor(context.Background(), hospitalID.String(), &model.AddDoctorRequest{
		Name:      "  Dr. Ayesha Khan ",
		Specialty: "Cardiology",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Ayesha Khan", doctor.Name)
	assert.Equal(t, model.DefaultAvailability, doctor.Availability)

	_, err = svc.AddDoctor(context.Background(), hospitalID.String(), &model.AddDoctorRequest{
		Name:      "   ",
		Specialty: "Cardiology",
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrValidation, appErr.Code)
}

func TestConcurrentAddDoctorLosesNothing(t *testing.T) {
	svc, hospitalID := newTestService()

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.AddDoctor(context.Background(), hospitalID.String(), &model.AddDoctorRequest{
				Name:      "Dr. Concurrent",
				Specialty: "Emergency",
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	profile, err := svc.GetProfile(context.Background(), hospitalID.String())
	require.NoError(t, err)
	assert.Len(t, profile.Doctors, n)
}

func TestUpdateAndRemoveDoctor(t *testing.T) {
	svc, hospitalID := newTestService()

	doctor, err := svc.AddDoctor(context.Background(), hospitalID.String(), &model.AddDoctorRequest{
		Name:      "Dr. Rafiq",
		Specialty: "Orthopedics",
	})
	require.NoError(t, err)

	onLeave := "On leave"
	updated, err := svc.UpdateDoctor(context.Background(), hospitalID.String(), doctor.ID.String(), &model.UpdateDoctorRequest{
		Availability: &onLeave,
	})
	require.NoError(t, err)
	assert.Equal(t, "On leave", updated.Availability)
	assert.Equal(t, "Dr. Rafiq", updated.Name)

	require.NoError(t, svc.RemoveDoctor(context.Background(), hospitalID.String(), doctor.ID.String()))

	err = svc.RemoveDoctor(context.Background(), hospitalID.String(), doctor.ID.String())
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrNotFound, appErr.Code)
}

func TestAddServiceTypeHandling(t *testing.T) {
	svc, hospitalID := newTestService()

	entry, err := svc.AddService(context.Background(), hospitalID.String(), &model.AddServiceRequest{
		Name: "CBC",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ServiceTypeTest, entry.Type, "type defaults to Test")

	entry, err = svc.AddService(context.Background(), hospitalID.String(), &model.AddServiceRequest{
		Name: "Dialysis",
		Type: "Treatment",
	})
	require.NoError(t, err)
	assert.Equal(t, model.ServiceTypeTreatment, entry.Type)

	_, err = svc.AddService(context.Background(), hospitalID.String(), &model.AddServiceRequest{
		Name: "X-Ray",
		Type: "Imaging",
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrValidation, appErr.Code)
}

func TestReplaceBeds(t *testing.T) {
	svc, hospitalID := newTestService()

	total, available := 10.0, 4.0
	profile, err := svc.ReplaceBeds(context.Background(), hospitalID.String(), []model.BedEntry{
		{Name: "ICU", Total: &total, Available: &available},
	})
	require.NoError(t, err)
	require.Len(t, profile.Beds, 1)
	assert.Equal(t, 10, profile.Beds[0].Total)
	assert.Equal(t, 4, profile.Beds[0].Available)
}

func TestReplaceBedsRejectsAvailableOverTotal(t *testing.T) {
	svc, hospitalID := newTestService()

	total, available := 5.0, 7.0
	_, err := svc.ReplaceBeds(context.Background(), hospitalID.String(), []model.BedEntry{
		{Name: "ICU", Total: &total, Available: &available},
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrValidation, appErr.Code)

	// The seeded inventory is untouched after the rejected replacement.
	profile, err := svc.GetProfile(context.Background(), hospitalID.String())
	require.NoError(t, err)
	assert.Len(t, profile.Beds, 4)
}

func TestReplaceBedsTruncatesFractionsRejectsNegatives(t *testing.T) {
	svc, hospitalID := newTestService()

	frac := 2.5
	profile, err := svc.ReplaceBeds(context.Background(), hospitalID.String(), []model.BedEntry{
		{Name: "HDU", Total: &frac},
	})
	require.NoError(t, err)
	require.Len(t, profile.Beds, 1)
	assert.Equal(t, 2, profile.Beds[0].Total)

	neg := -1.0
	_, err = svc.ReplaceBeds(context.Background(), hospitalID.String(), []model.BedEntry{
		{Name: "HDU", Total: &neg},
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrValidation, appErr.Code)
}

func TestReplaceBedsEmptyRestoresDefaults(t *testing.T) {
	svc, hospitalID := newTestService()

	total := 10.0
	_, err := svc.ReplaceBeds(context.Background(), hospitalID.String(), []model.BedEntry{
		{Name: "ICU", Total: &total, Available: &total},
	})
	require.NoError(t, err)

	profile, err := svc.ReplaceBeds(context.Background(), hospitalID.String(), nil)
	require.NoError(t, err)
	require.Len(t, profile.Beds, 4)
	for i, name := range model.DefaultBedCategories {
		assert.Equal(t, name, profile.Beds[i].Name)
		assert.Zero(t, profile.Beds[i].Total)
	}
}

func TestReplaceBedsPreservesSuppliedIDs(t *testing.T) {
	svc, hospitalID := newTestService()

	keep := uuid.New()
	total := 3.0
	profile, err := svc.ReplaceBeds(context.Background(), hospitalID.String(), []model.BedEntry{
		{ID: keep.String(), Name: "Cabin", Total: &total},
		{ID: "not-a-uuid", Name: "ICU", Total: &total},
	})
	require.NoError(t, err)
	require.Len(t, profile.Beds, 2)
	assert.Equal(t, keep, profile.Beds[0].ID)
	assert.NotEqual(t, uuid.Nil, profile.Beds[1].ID, "malformed IDs get replaced, not kept")
}

func TestReplaceBloodBank(t *testing.T) {
	svc, hospitalID := newTestService()

	units := 12.0
	profile, err := svc.ReplaceBloodBank(context.Background(), hospitalID.String(), []model.BloodStockEntry{
		{BloodGroup: "O-", Units: &units},
	})
	require.NoError(t, err)
	require.Len(t, profile.BloodBank, 1)
	assert.Equal(t, model.BloodGroupONeg, profile.BloodBank[0].BloodGroup)
	assert.Equal(t, 12, profile.BloodBank[0].Units)
}

func TestReplaceBloodBankRejectsBadGroups(t *testing.T) {
	svc, hospitalID := newTestService()

	units := 5.0
	for _, group := range []string{"X+", "O", "o-", ""} {
		_, err := svc.ReplaceBloodBank(context.Background(), hospitalID.String(), []model.BloodStockEntry{
			{BloodGroup: group, Units: &units},
		})
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr, "group %q must be rejected", group)
		assert.Equal(t, apperror.ErrValidation, appErr.Code)
	}

	_, err := svc.ReplaceBloodBank(context.Background(), hospitalID.String(), []model.BloodStockEntry{
		{BloodGroup: "A+", Units: &units},
		{BloodGroup: "A+", Units: &units},
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrValidation, appErr.Code)
}

func TestReplaceBloodBankEmptyClearsStock(t *testing.T) {
	svc, hospitalID := newTestService()

	units := 9.0
	_, err := svc.ReplaceBloodBank(context.Background(), hospitalID.String(), []model.BloodStockEntry{
		{BloodGroup: "B+", Units: &units},
	})
	require.NoError(t, err)

	// An empty replacement empties the bank; only the bed inventory
	// falls back to its seeded categories.
	profile, err := svc.ReplaceBloodBank(context.Background(), hospitalID.String(), nil)
	require.NoError(t, err)
	assert.Empty(t, profile.BloodBank)
}
