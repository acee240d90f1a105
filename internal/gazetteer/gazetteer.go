// Package gazetteer holds the Turkish administrative division tables used to
// validate and correct geocoder output: every province, its district list,
// and a province centroid for map recentering.
//
// The data is read-only and indexed once at package init. Matching is
// Turkish-aware: names are folded with Turkish casing rules before
// comparison, so "Kadikoy" finds "Kadıköy" and "istanbul" finds "İstanbul".
package gazetteer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lon float64
}

// minMatchRunes is the shortest folded query that may participate in
// substring-containment matching. Shorter strings match too promiscuously
// ("of" is a district of Trabzon).
const minMatchRunes = 3

var turkishLower = cases.Lower(language.Turkish)

// foldReplacer maps Turkish letters to their ASCII base after lowercasing,
// so input typed without a Turkish keyboard still matches.
var foldReplacer = strings.NewReplacer(
	"ç", "c",
	"ğ", "g",
	"ı", "i",
	"ö", "o",
	"ş", "s",
	"ü", "u",
	"â", "a",
	"î", "i",
	"û", "u",
)

// fold normalizes a name for comparison: Turkish lowercasing, diacritic
// stripping, whitespace trim.
func fold(s string) string {
	return foldReplacer.Replace(turkishLower.String(strings.TrimSpace(s)))
}

var (
	provinceNames []string          // canonical names, sorted
	provinceIndex map[string]string // folded name -> canonical name

	// districtIndex maps canonical province -> folded district -> canonical district.
	districtIndex map[string]map[string]string
)

func init() {
	provinceNames = make([]string, 0, len(provinceDistricts))
	provinceIndex = make(map[string]string, len(provinceDistricts))
	districtIndex = make(map[string]map[string]string, len(provinceDistricts))

	for name, list := range provinceDistricts {
		provinceNames = append(provinceNames, name)
		provinceIndex[fold(name)] = name

		idx := make(map[string]string, len(list))
		for _, district := range list {
			idx[fold(district)] = district
		}
		districtIndex[name] = idx
	}

	sort.Strings(provinceNames)
}

// Provinces returns all province names in sorted order.
// The returned slice must not be modified.
func Provinces() []string {
	return provinceNames
}

// Districts returns the district list for a province. The province name is
// matched exactly after folding; use MatchProvince first for fuzzy input.
func Districts(province string) ([]string, bool) {
	canonical, ok := provinceIndex[fold(province)]
	if !ok {
		return nil, false
	}
	return provinceDistricts[canonical], true
}

// Centroid returns the map center coordinate for a province.
func Centroid(province string) (Coordinate, bool) {
	canonical, ok := provinceIndex[fold(province)]
	if !ok {
		return Coordinate{}, false
	}
	coord, ok := provinceCentroids[canonical]
	return coord, ok
}

// MatchProvince resolves a raw city string to a canonical province name.
// Exact folded match wins; otherwise the first province (in sorted order)
// whose folded name contains, or is contained in, the folded input is
// returned. Returns false when nothing matches.
func MatchProvince(raw string) (string, bool) {
	folded := fold(raw)
	if folded == "" {
		return "", false
	}

	if canonical, ok := provinceIndex[folded]; ok {
		return canonical, true
	}

	if utf8.RuneCountInString(folded) < minMatchRunes {
		return "", false
	}

	for _, name := range provinceNames {
		if containsEither(fold(name), folded) {
			return name, true
		}
	}
	return "", false
}

// MatchDistrict resolves a raw district string against a province's district
// list, using the same exact-then-containment strategy as MatchProvince.
// The province itself may be raw input; it is resolved first.
func MatchDistrict(province, raw string) (string, bool) {
	canonical, ok := MatchProvince(province)
	if !ok {
		return "", false
	}

	folded := fold(raw)
	if folded == "" {
		return "", false
	}

	idx := districtIndex[canonical]
	if exact, ok := idx[folded]; ok {
		return exact, true
	}

	if utf8.RuneCountInString(folded) < minMatchRunes {
		return "", false
	}

	for _, district := range provinceDistricts[canonical] {
		if containsEither(fold(district), folded) {
			return district, true
		}
	}
	return "", false
}

// IsDistrictOf reports whether the district belongs to the province, after
// folding both names. Containment matching is not applied here; callers that
// want correction use MatchDistrict.
func IsDistrictOf(province, district string) bool {
	canonical, ok := provinceIndex[fold(province)]
	if !ok {
		return false
	}
	_, ok = districtIndex[canonical][fold(district)]
	return ok
}

// containsEither reports whether either string contains the other. The
// contained string must itself be at least minMatchRunes long so that very
// short names ("Of", "Çat") never match as substrings.
func containsEither(a, b string) bool {
	if utf8.RuneCountInString(b) >= minMatchRunes && strings.Contains(a, b) {
		return true
	}
	return utf8.RuneCountInString(a) >= minMatchRunes && strings.Contains(b, a)
}
