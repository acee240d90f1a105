package geocode

import "strings"

// FormatAddress assembles a display address from merged fields, in order:
// point of interest or building (when distinct from the street), street with
// house number, neighbourhood with a "Mahallesi" suffix, district unless it
// is redundant with the neighbourhood, and city unless identical to the
// district. Parts are joined with ", "; empty parts never produce separators.
func FormatAddress(a MergedAddress) string {
	parts := make([]string, 0, 5)

	lead := a.PointOfInterest
	if lead == "" {
		lead = a.Building
	}
	if lead != "" && lead != a.Street {
		parts = append(parts, lead)
	}

	if a.Street != "" {
		street := a.Street
		if a.HouseNumber != "" {
			street += " " + a.HouseNumber
		}
		parts = append(parts, street)
	}

	if a.Neighbourhood != "" {
		parts = append(parts, withMahalleSuffix(a.Neighbourhood))
	}

	if a.District != "" && !containsFolded(a.Neighbourhood, a.District) {
		parts = append(parts, a.District)
	}

	if a.City != "" && a.City != a.District {
		parts = append(parts, a.City)
	}

	return strings.Join(parts, ", ")
}

// withMahalleSuffix appends "Mahallesi" unless the name already carries a
// mahalle designation in some spelling.
func withMahalleSuffix(neighbourhood string) string {
	lower := strings.ToLower(neighbourhood)
	if strings.Contains(lower, "mahalle") || strings.Contains(lower, "mah.") {
		return neighbourhood
	}
	return neighbourhood + " Mahallesi"
}

func containsFolded(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
