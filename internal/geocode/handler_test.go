package geocode

import "testing"

func TestBuildReverseResponseVerifiedDistrict(t *testing.T) {
	resp := buildReverseResponse(MergedAddress{City: "İstanbul", District: "Kadıköy"})
	if !resp.DistrictVerified {
		t.Fatal("Kadıköy should verify against İstanbul")
	}
	if len(resp.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", resp.Warnings)
	}
}

func TestBuildReverseResponseDistrictMismatchIsSoftWarning(t *testing.T) {
	resp := buildReverseResponse(MergedAddress{City: "İstanbul", District: "Atlantis"})
	if resp.DistrictVerified {
		t.Fatal("unknown district must not verify")
	}
	if len(resp.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", resp.Warnings)
	}
	// The mismatched value stays in the payload as free text.
	if resp.Address.District != "Atlantis" {
		t.Fatalf("district should be preserved, got %q", resp.Address.District)
	}
}

func TestBuildReverseResponseUnknownCityWarns(t *testing.T) {
	resp := buildReverseResponse(MergedAddress{City: "Gotham"})
	if len(resp.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", resp.Warnings)
	}
}
