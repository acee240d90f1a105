package gazetteer

import "testing"

func TestProvinceCountIsEightyOne(t *testing.T) {
	if got := len(Provinces()); got != 81 {
		t.Fatalf("expected 81 provinces, got %d", got)
	}
}

func TestEveryProvinceHasDistrictsAndCentroid(t *testing.T) {
	for _, name := range Provinces() {
		districts, ok := Districts(name)
		if !ok || len(districts) == 0 {
			t.Fatalf("province %q has no district list", name)
		}
		for _, district := range districts {
			if district == name {
				t.Fatalf("province %q contains a district with its own name", name)
			}
		}
		if _, ok := Centroid(name); !ok {
			t.Fatalf("province %q has no centroid", name)
		}
	}
}

func TestMatchProvinceExact(t *testing.T) {
	got, ok := MatchProvince("İstanbul")
	if !ok || got != "İstanbul" {
		t.Fatalf("expected İstanbul, got %q (ok=%v)", got, ok)
	}
}

func TestMatchProvinceTurkishFold(t *testing.T) {
	cases := map[string]string{
		"istanbul":  "İstanbul",
		"ISTANBUL":  "İstanbul",
		"izmir":     "İzmir",
		"AGRI":      "Ağrı",
		"canakkale": "Çanakkale",
		"sanliurfa": "Şanlıurfa",
	}
	for input, want := range cases {
		got, ok := MatchProvince(input)
		if !ok || got != want {
			t.Errorf("MatchProvince(%q) = %q (ok=%v), want %q", input, got, ok, want)
		}
	}
}

func TestMatchProvinceContainment(t *testing.T) {
	// Geocoders often return qualified strings like "Ankara Province".
	got, ok := MatchProvince("Ankara Province")
	if !ok || got != "Ankara" {
		t.Fatalf("expected Ankara, got %q (ok=%v)", got, ok)
	}
}

func TestMatchProvinceUnknown(t *testing.T) {
	if got, ok := MatchProvince("Atlantis"); ok {
		t.Fatalf("expected no match, got %q", got)
	}
	if got, ok := MatchProvince(""); ok {
		t.Fatalf("expected no match for empty input, got %q", got)
	}
}

func TestMatchDistrictExactAfterFold(t *testing.T) {
	got, ok := MatchDistrict("İstanbul", "Kadikoy")
	if !ok || got != "Kadıköy" {
		t.Fatalf("expected Kadıköy, got %q (ok=%v)", got, ok)
	}
}

func TestMatchDistrictContainment(t *testing.T) {
	got, ok := MatchDistrict("İstanbul", "Kadıköy District")
	if !ok || got != "Kadıköy" {
		t.Fatalf("expected Kadıköy, got %q (ok=%v)", got, ok)
	}
}

func TestMatchDistrictWrongProvince(t *testing.T) {
	if got, ok := MatchDistrict("Ankara", "Kadıköy"); ok {
		t.Fatalf("Kadıköy should not resolve in Ankara, got %q", got)
	}
}

func TestMatchDistrictShortNameNeedsExactMatch(t *testing.T) {
	// "Of" is two runes; containment must not apply.
	if got, ok := MatchDistrict("Trabzon", "Sofular"); ok {
		t.Fatalf("expected no containment match for short district, got %q", got)
	}
	got, ok := MatchDistrict("Trabzon", "Of")
	if !ok || got != "Of" {
		t.Fatalf("expected exact match for Of, got %q (ok=%v)", got, ok)
	}
}

func TestIsDistrictOf(t *testing.T) {
	if !IsDistrictOf("İzmir", "Bornova") {
		t.Fatal("Bornova should belong to İzmir")
	}
	if IsDistrictOf("İzmir", "Çankaya") {
		t.Fatal("Çankaya should not belong to İzmir")
	}
	if !IsDistrictOf("izmir", "bornova") {
		t.Fatal("membership check should fold case")
	}
}

func TestCentroidKnownValue(t *testing.T) {
	coord, ok := Centroid("Ankara")
	if !ok {
		t.Fatal("Ankara centroid missing")
	}
	if coord.Lat < 39 || coord.Lat > 41 || coord.Lon < 32 || coord.Lon > 34 {
		t.Fatalf("Ankara centroid out of range: %+v", coord)
	}
}
