package search

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WahidMubarrat/EmerCare/internal/geo"
	"github.com/WahidMubarrat/EmerCare/internal/model"
	"github.com/WahidMubarrat/EmerCare/internal/repository"
	"github.com/WahidMubarrat/EmerCare/pkg/apperror"
)

// The fakes apply the same filter semantics as the SQL layer: active
// gate, exact blood group, box prefilter, ILIKE-style substrings, and
// name ordering.

func matchesFilter(f *repository.SearchFilter, city, postcode, street string, active bool, loc model.NullGeoPoint) bool {
	if f.ActiveOnly && !active {
		return false
	}
	if f.Box != nil {
		if !loc.Valid {
			return false
		}
		lat, lng := loc.Point.Lat(), loc.Point.Lng()
		return lat >= f.Box.MinLat && lat <= f.Box.MaxLat && lng >= f.Box.MinLng && lng <= f.Box.MaxLng
	}
	if f.City != "" && !strings.Contains(strings.ToLower(city), strings.ToLower(f.City)) {
		return false
	}
	if f.Postcode != "" && !strings.Contains(strings.ToLower(postcode), strings.ToLower(f.Postcode)) {
		return false
	}
	if f.Street != "" && !strings.Contains(strings.ToLower(street), strings.ToLower(f.Street)) {
		return false
	}
	return true
}

type fakeDonorRepo struct {
	donors []*model.Donor
}

func (r *fakeDonorRepo) Create(_ context.Context, _ *model.Donor) error { return nil }
func (r *fakeDonorRepo) Get(_ context.Context, _ uuid.UUID) (*model.Donor, error) {
	return nil, sql.ErrNoRows
}
func (r *fakeDonorRepo) GetByEmail(_ context.Context, _ string) (*model.Donor, error) {
	return nil, sql.ErrNoRows
}
func (r *fakeDonorRepo) Update(_ context.Context, _ *model.Donor) error                 { return nil }
func (r *fakeDonorRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error  { return nil }
func (r *fakeDonorRepo) SetAvailability(_ context.Context, _ uuid.UUID, _ bool) error   { return nil }
func (r *fakeDonorRepo) Search(_ context.Context, f *repository.SearchFilter) ([]*model.Donor, error) {
	var out []*model.Donor
	for _, d := range r.donors {
		if f.BloodGroup != "" && string(d.BloodGroup) != f.BloodGroup {
			continue
		}
		if !matchesFilter(f, d.City, d.Postcode, d.Street, d.IsActive, d.Location) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeHospitalRepo struct {
	hospitals []*model.Hospital
}

func (r *fakeHospitalRepo) Create(_ context.Context, _ *model.Hospital) error { return nil }
func (r *fakeHospitalRepo) Get(_ context.Context, _ uuid.UUID) (*model.Hospital, error) {
	return nil, sql.ErrNoRows
}
func (r *fakeHospitalRepo) GetByEmail(_ context.Context, _ string) (*model.Hospital, error) {
	return nil, sql.ErrNoRows
}
func (r *fakeHospitalRepo) Exists(_ context.Context, _ uuid.UUID) (bool, error)           { return false, nil }
func (r *fakeHospitalRepo) Update(_ context.Context, _ *model.Hospital) error             { return nil }
func (r *fakeHospitalRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error { return nil }
func (r *fakeHospitalRepo) Search(_ context.Context, f *repository.SearchFilter) ([]*model.Hospital, error) {
	var out []*model.Hospital
	for _, h := range r.hospitals {
		if f.Verified != nil && h.IsVerified != *f.Verified {
			continue
		}
		if !matchesFilter(f, h.City, h.Postcode, h.Street, h.IsActive, h.Location) {
			continue
		}
		cp := *h
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HospitalName < out[j].HospitalName })
	return out, nil
}

type fakeOwnerRepo struct {
	owners []*model.AmbulanceOwner
}

func (r *fakeOwnerRepo) Create(_ context.Context, _ *model.AmbulanceOwner) error { return nil }
func (r *fakeOwnerRepo) Get(_ context.Context, _ uuid.UUID) (*model.AmbulanceOwner, error) {
	return nil, sql.ErrNoRows
}
func (r *fakeOwnerRepo) GetByEmail(_ context.Context, _ string) (*model.AmbulanceOwner, error) {
	return nil, sql.ErrNoRows
}
func (r *fakeOwnerRepo) Update(_ context.Context, _ *model.AmbulanceOwner) error       { return nil }
func (r *fakeOwnerRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error { return nil }
func (r *fakeOwnerRepo) Search(_ context.Context, f *repository.SearchFilter) ([]*model.AmbulanceOwner, error) {
	var out []*model.AmbulanceOwner
	for _, o := range r.owners {
		if f.Verified != nil && o.IsVerified != *f.Verified {
			continue
		}
		if !matchesFilter(f, o.City, o.Postcode, o.Street, o.IsActive, o.Location) {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OwnerName < out[j].OwnerName })
	return out, nil
}

type fakeVehicleRepo struct {
	vehicles []*model.AmbulanceVehicle
}

func (r *fakeVehicleRepo) Create(_ context.Context, _ *model.AmbulanceVehicle) error { return nil }
func (r *fakeVehicleRepo) Get(_ context.Context, _ uuid.UUID) (*model.AmbulanceVehicle, error) {
	return nil, sql.ErrNoRows
}
func (r *fakeVehicleRepo) ExistsByNumber(_ context.Context, _ string) (bool, error) {
	return false, nil
}
func (r *fakeVehicleRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, activeOnly bool) ([]*model.AmbulanceVehicle, error) {
	var out []*model.AmbulanceVehicle
	for _, v := range r.vehicles {
		if v.OwnerID != ownerID {
			continue
		}
		if activeOnly && !v.IsActive {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}
func (r *fakeVehicleRepo) Update(_ context.Context, _ *model.AmbulanceVehicle) error  { return nil }
func (r *fakeVehicleRepo) SetActive(_ context.Context, _ uuid.UUID, _ bool) error     { return nil }
func (r *fakeVehicleRepo) SetAvailability(_ context.Context, _ uuid.UUID, _ bool) error {
	return nil
}

func donorAt(name string, lat, lng float64, group model.BloodGroup) *model.Donor {
	return &model.Donor{
		Base:       model.Base{ID: uuid.New()},
		Name:       name,
		City:       "Dhaka",
		Postcode:   "1205",
		Street:     "Green Rd",
		Location:   model.NullPointFrom(lat, lng),
		BloodGroup: group,
		IsActive:   true,
	}
}

func float(v float64) *float64 { return &v }

// Dhanmondi, Dhaka as the search center for the point-mode tests.
const centerLat, centerLng = 23.7465, 90.3760

func TestSearchDonorsPointModeSortsNearestFirst(t *testing.T) {
	near := donorAt("Zahir", centerLat+0.01, centerLng, model.BloodGroupOPos)   // ~1.1 km
	mid := donorAt("Anik", centerLat+0.05, centerLng, model.BloodGroupOPos)    // ~5.6 km
	far := donorAt("Mita", centerLat+0.40, centerLng, model.BloodGroupOPos)    // ~44.5 km
	svc := NewService(&fakeDonorRepo{donors: []*model.Donor{mid, far, near}}, &fakeHospitalRepo{}, &fakeOwnerRepo{}, &fakeVehicleRepo{})

	results, err := svc.Donors(context.Background(), &model.SearchQuery{
		Latitude:  float(centerLat),
		Longitude: float(centerLng),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	// Nearest first, despite the repository's alphabetical order.
	assert.Equal(t, "Zahir", results[0].Name)
	assert.Equal(t, "Anik", results[1].Name)
	assert.Equal(t, "Mita", results[2].Name)
	for _, d := range results {
		require.NotNil(t, d.Distance)
		assert.NotEmpty(t, d.DistanceText)
	}
	assert.Less(t, *results[0].Distance, *results[1].Distance)
}

func TestSearchDonorsRadiusBoundaryInclusive(t *testing.T) {
	center := geo.Point{Lat: centerLat, Lng: centerLng}
	onEdge := donorAt("Edge", centerLat+0.02, centerLng, model.BloodGroupAPos)
	radius := geo.Distance(center, geo.Point{Lat: centerLat + 0.02, Lng: centerLng})
	beyond := donorAt("Beyond", centerLat+0.03, centerLng, model.BloodGroupAPos)

	svc := NewService(&fakeDonorRepo{donors: []*model.Donor{onEdge, beyond}}, &fakeHospitalRepo{}, &fakeOwnerRepo{}, &fakeVehicleRepo{})

	results, err := svc.Donors(context.Background(), &model.SearchQuery{
		Latitude:    float(centerLat),
		Longitude:   float(centerLng),
		MaxDistance: radius,
	})
	require.NoError(t, err)
	require.Len(t, results, 1, "distance exactly equal to the radius is in; beyond is out")
	assert.Equal(t, "Edge", results[0].Name)
}

func TestSearchDonorsIncludesUnavailable(t *testing.T) {
	resting := donorAt("Resting", centerLat+0.01, centerLng, model.BloodGroupOPos)
	resting.IsActive = false
	active := donorAt("Active", centerLat, centerLng, model.BloodGroupOPos)

	svc := NewService(&fakeDonorRepo{donors: []*model.Donor{active, resting}}, &fakeHospitalRepo{}, &fakeOwnerRepo{}, &fakeVehicleRepo{})

	// Donor listings are never gated on availability: a donor who has
	// toggled themselves off still shows up in city searches.
	results, err := svc.Donors(context.Background(), &model.SearchQuery{City: "Dhaka"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Point mode keeps them too.
	results, err = svc.Donors(context.Background(), &model.SearchQuery{
		Latitude:  float(centerLat),
		Longitude: float(centerLng),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
}

func TestSearchDonorsPointModeSkipsUnlocated(t *testing.T) {
	located := donorAt("Located", centerLat, centerLng, model.BloodGroupBPos)
	unlocated := donorAt("Unlocated", 0, 0, model.BloodGroupBPos)
	unlocated.Location = model.NullGeoPoint{}

	svc := NewService(&fakeDonorRepo{donors: []*model.Donor{located, unlocated}}, &fakeHospitalRepo{}, &fakeOwnerRepo{}, &fakeVehicleRepo{})

	results, err := svc.Donors(context.Background(), &model.SearchQuery{
		Latitude:  float(centerLat),
		Longitude: float(centerLng),
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Located", results[0].Name)
}

func TestSearchDonorsBloodGroupAppliesInBothModes(t *testing.T) {
	oPos := donorAt("OPos", centerLat, centerLng, model.BloodGroupOPos)
	aNeg := donorAt("ANeg", centerLat, centerLng, model.BloodGroupANeg)
	svc := NewService(&fakeDonorRepo{donors: []*model.Donor{oPos, aNeg}}, &fakeHospitalRepo{}, &fakeOwnerRepo{}, &fakeVehicleRepo{})

	results, err := svc.Donors(context.Background(), &model.SearchQuery{
		Latitude:   float(centerLat),
		Longitude:  float(centerLng),
		BloodGroup: "O+",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "OPos", results[0].Name)

	results, err = svc.Donors(context.Background(), &model.SearchQuery{
		City:       "Dhaka",
		BloodGroup: "A-",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ANeg", results[0].Name)
}

func TestSearchDonorsRejectsBadQueries(t *testing.T) {
	svc := NewService(&fakeDonorRepo{}, &fakeHospitalRepo{}, &fakeOwnerRepo{}, &fakeVehicleRepo{})

	var appErr *apperror.AppError

	_, err := svc.Donors(context.Background(), &model.SearchQuery{Latitude: float(centerLat)})
	require.ErrorAs(t, err, &appErr, "latitude without longitude")
	assert.Equal(t, apperror.ErrValidation, appErr.Code)

	_, err = svc.Donors(context.Background(), &model.SearchQuery{Latitude: float(91), Longitude: float(0)})
	require.ErrorAs(t, err, &appErr, "latitude out of range")
	assert.Equal(t, apperror.ErrValidation, appErr.Code)

	_, err = svc.Donors(context.Background(), &model.SearchQuery{BloodGroup: "X+"})
	require.ErrorAs(t, err, &appErr, "unknown blood group")
	assert.Equal(t, apperror.ErrValidation, appErr.Code)
}

func TestSearchDonorsPointModeIgnoresTextFilters(t *testing.T) {
	other := donorAt("Other City", centerLat, centerLng, model.BloodGroupOPos)
	other.City = "Sylhet"
	svc := NewService(&fakeDonorRepo{donors: []*model.Donor{other}}, &fakeHospitalRepo{}, &fakeOwnerRepo{}, &fakeVehicleRepo{})

	results, err := svc.Donors(context.Background(), &model.SearchQuery{
		Latitude:  float(centerLat),
		Longitude: float(centerLng),
		City:      "Dhaka",
	})
	require.NoError(t, err)
	assert.Len(t, results, 1, "coordinates win; the city filter is not applied")
}

func TestSearchHospitalsTextMode(t *testing.T) {
	verified := &model.Hospital{
		Base: model.Base{ID: uuid.New()}, HospitalName: "Alpha Hospital",
		City: "Dhaka", IsVerified: true, IsActive: true,
	}
	unverified := &model.Hospital{
		Base: model.Base{ID: uuid.New()}, HospitalName: "Beta Clinic",
		City: "Dhaka", IsVerified: false, IsActive: true,
	}
	inactive := &model.Hospital{
		Base: model.Base{ID: uuid.New()}, HospitalName: "Closed Hospital",
		City: "Dhaka", IsVerified: true, IsActive: false,
	}
	svc := NewService(&fakeDonorRepo{}, &fakeHospitalRepo{hospitals: []*model.Hospital{verified, unverified, inactive}}, &fakeOwnerRepo{}, &fakeVehicleRepo{})

	results, err := svc.Hospitals(context.Background(), &model.SearchQuery{City: "dhaka"})
	require.NoError(t, err)
	assert.Len(t, results, 2, "inactive hospitals never appear")

	yes := true
	results, err = svc.Hospitals(context.Background(), &model.SearchQuery{City: "Dhaka", Verified: &yes})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Alpha Hospital", results[0].HospitalName)
}

func TestSearchAmbulancesCountsFleet(t *testing.T) {
	owner := &model.AmbulanceOwner{
		Base: model.Base{ID: uuid.New()}, OwnerName: "Karim Transport",
		City: "Dhaka", IsActive: true,
	}
	vehicles := []*model.AmbulanceVehicle{
		{Base: model.Base{ID: uuid.New()}, OwnerID: owner.ID, IsActive: true, IsAvailable: true},
		{Base: model.Base{ID: uuid.New()}, OwnerID: owner.ID, IsActive: true, IsAvailable: false},
		{Base: model.Base{ID: uuid.New()}, OwnerID: owner.ID, IsActive: false, IsAvailable: true},
	}
	svc := NewService(&fakeDonorRepo{}, &fakeHospitalRepo{}, &fakeOwnerRepo{owners: []*model.AmbulanceOwner{owner}}, &fakeVehicleRepo{vehicles: vehicles})

	results, err := svc.Ambulances(context.Background(), &model.SearchQuery{City: "Dhaka"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].TotalVehicles, "retired vehicles are not counted")
	assert.Equal(t, 1, results[0].AvailableVehicles)
}

func TestSearchDefaultRadius(t *testing.T) {
	within := donorAt("Within", centerLat+0.40, centerLng, model.BloodGroupOPos)  // ~44.5 km
	outside := donorAt("Outside", centerLat+0.50, centerLng, model.BloodGroupOPos) // ~55.7 km
	svc := NewService(&fakeDonorRepo{donors: []*model.Donor{within, outside}}, &fakeHospitalRepo{}, &fakeOwnerRepo{}, &fakeVehicleRepo{})

	results, err := svc.Donors(context.Background(), &model.SearchQuery{
		Latitude:  float(centerLat),
		Longitude: float(centerLng),
	})
	require.NoError(t, err)
	require.Len(t, results, 1, "default radius is 50 km")
	assert.Equal(t, "Within", results[0].Name)
}
