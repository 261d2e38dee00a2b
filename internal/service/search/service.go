package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/WahidMubarrat/EmerCare/internal/geo"
	"github.com/WahidMubarrat/EmerCare/internal/model"
	"github.com/WahidMubarrat/EmerCare/internal/repository"
	"github.com/WahidMubarrat/EmerCare/pkg/apperror"
)

type SearchService interface {
	Donors(ctx context.Context, q *model.SearchQuery) ([]*model.Donor, error)
	Hospitals(ctx context.Context, q *model.SearchQuery) ([]*model.Hospital, error)
	Ambulances(ctx context.Context, q *model.SearchQuery) ([]*model.AmbulanceWithVehicles, error)
}

type Service struct {
	donors    repository.DonorRepository
	hospitals repository.HospitalRepository
	owners    repository.AmbulanceOwnerRepository
	vehicles  repository.VehicleRepository
}

func NewService(donors repository.DonorRepository, hospitals repository.HospitalRepository, owners repository.AmbulanceOwnerRepository, vehicles repository.VehicleRepository) *Service {
	return &Service{
		donors:    donors,
		hospitals: hospitals,
		owners:    owners,
		vehicles:  vehicles,
	}
}

// locatable is what the distance pipeline needs from a search result.
type locatable interface {
	HasLocation() bool
	GeoLocation() model.NullGeoPoint
	SetDistance(meters float64)
}

func (s *Service) Donors(ctx context.Context, q *model.SearchQuery) ([]*model.Donor, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	filter, center := buildFilter(q, false)
	// Blood group narrows donor searches in both modes.
	filter.BloodGroup = q.BloodGroup
	if q.BloodGroup != "" && !model.BloodGroup(q.BloodGroup).IsValid() {
		return nil, apperror.Validationf("invalid blood group %q", q.BloodGroup)
	}

	donors, err := s.donors.Search(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to search donors: %w", err))
	}
	if center != nil {
		donors = rankByDistance(donors, *center, q.Radius())
	}
	return donors, nil
}

func (s *Service) Hospitals(ctx context.Context, q *model.SearchQuery) ([]*model.Hospital, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	filter, center := buildFilter(q, true)
	if center == nil {
		// The verified filter applies in text mode only; a point query
		// surfaces every nearby hospital regardless.
		filter.Verified = q.Verified
	}

	hospitals, err := s.hospitals.Search(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to search hospitals: %w", err))
	}
	if center != nil {
		hospitals = rankByDistance(hospitals, *center, q.Radius())
	}
	return hospitals, nil
}

func (s *Service) Ambulances(ctx context.Context, q *model.SearchQuery) ([]*model.AmbulanceWithVehicles, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	filter, center := buildFilter(q, true)
	if center == nil {
		filter.Verified = q.Verified
	}

	owners, err := s.owners.Search(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to search ambulance owners: %w", err))
	}
	if center != nil {
		owners = rankByDistance(owners, *center, q.Radius())
	}

	results := make([]*model.AmbulanceWithVehicles, 0, len(owners))
	for _, owner := range owners {
		fleet, err := s.vehicles.ListByOwner(ctx, owner.ID, true)
		if err != nil {
			return nil, apperror.Internal(fmt.Errorf("failed to list vehicles for owner %s: %w", owner.ID, err))
		}
		entry := &model.AmbulanceWithVehicles{
			AmbulanceOwner: *owner,
			Vehicles:       fleet,
			TotalVehicles:  len(fleet),
		}
		for _, v := range fleet {
			if v.IsAvailable {
				entry.AvailableVehicles++
			}
		}
		results = append(results, entry)
	}
	return results, nil
}

func validateQuery(q *model.SearchQuery) error {
	if (q.Latitude == nil) != (q.Longitude == nil) {
		return apperror.Validation("latitude and longitude must be supplied together")
	}
	if q.HasPoint() && !geo.IsValidCoordinate(*q.Latitude, *q.Longitude) {
		return apperror.Validation("latitude/longitude out of range")
	}
	if q.MaxDistance < 0 {
		return apperror.Validation("max_distance cannot be negative")
	}
	return nil
}

// buildFilter converts the query into a repository filter. In point
// mode it returns the search center and a bounding-box prefilter; the
// exact haversine cut happens in rankByDistance. activeOnly is per
// kind: donor listings show every donor, hospital and ambulance
// listings hide deactivated accounts.
func buildFilter(q *model.SearchQuery, activeOnly bool) (*repository.SearchFilter, *geo.Point) {
	filter := &repository.SearchFilter{ActiveOnly: activeOnly}
	if q.HasPoint() {
		center := geo.Point{Lat: *q.Latitude, Lng: *q.Longitude}
		minLat, maxLat, minLng, maxLng := geo.BoundingBox(center.Lat, center.Lng, q.Radius())
		filter.Box = &repository.GeoBox{
			MinLat: minLat, MaxLat: maxLat,
			MinLng: minLng, MaxLng: maxLng,
		}
		return filter, &center
	}
	filter.City = q.City
	filter.Postcode = q.Postcode
	filter.Street = q.Street
	return filter, nil
}

type ranked[T locatable] struct {
	item   T
	meters float64
}

// rankByDistance keeps located candidates within radius of center,
// stamps their distances, and orders nearest first. The boundary is
// inclusive. Sorting is stable so equidistant entries keep the
// repository's name order.
func rankByDistance[T locatable](items []T, center geo.Point, radius float64) []T {
	kept := make([]ranked[T], 0, len(items))
	for _, item := range items {
		if !item.HasLocation() {
			continue
		}
		loc := item.GeoLocation()
		d := geo.Distance(center, loc.Point.Point())
		if d > radius {
			continue
		}
		item.SetDistance(d)
		kept = append(kept, ranked[T]{item: item, meters: d})
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].meters < kept[j].meters
	})
	out := make([]T, len(kept))
	for i, r := range kept {
		out[i] = r.item
	}
	return out
}
