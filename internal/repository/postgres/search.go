package postgres

import (
	"fmt"
	"strings"

	"github.com/WahidMubarrat/EmerCare/internal/repository"
)

// searchConditions translates a SearchFilter into SQL predicates.
// Point-mode (Box) restricts to located rows inside the bounding box;
// text filters match as case-insensitive substrings. The exact
// haversine cut happens in the search service.
func searchConditions(filter *repository.SearchFilter) ([]string, []interface{}) {
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ActiveOnly {
		conds = append(conds, "is_active = TRUE")
	}
	if filter.Verified != nil {
		conds = append(conds, "is_verified = "+arg(*filter.Verified))
	}
	if filter.BloodGroup != "" {
		conds = append(conds, "blood_group = "+arg(filter.BloodGroup))
	}

	if filter.Box != nil {
		conds = append(conds, "location IS NOT NULL")
		conds = append(conds, fmt.Sprintf(
			"(location #>> '{coordinates,1}')::double precision BETWEEN %s AND %s",
			arg(filter.Box.MinLat), arg(filter.Box.MaxLat)))
		conds = append(conds, fmt.Sprintf(
			"(location #>> '{coordinates,0}')::double precision BETWEEN %s AND %s",
			arg(filter.Box.MinLng), arg(filter.Box.MaxLng)))
		return conds, args
	}

	if filter.City != "" {
		conds = append(conds, "city ILIKE "+arg("%"+filter.City+"%"))
	}
	if filter.Postcode != "" {
		conds = append(conds, "postcode ILIKE "+arg("%"+filter.Postcode+"%"))
	}
	if filter.Street != "" {
		conds = append(conds, "street ILIKE "+arg("%"+filter.Street+"%"))
	}

	return conds, args
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}
