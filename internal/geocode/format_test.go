package geocode

import "testing"

func TestFormatAddressFullAssembly(t *testing.T) {
	got := FormatAddress(MergedAddress{
		PointOfInterest: "Galata Kulesi",
		Street:          "Galata Kulesi Sokak",
		HouseNumber:     "8",
		Neighbourhood:   "Bereketzade",
		District:        "Beyoğlu",
		City:            "İstanbul",
	})
	want := "Galata Kulesi, Galata Kulesi Sokak 8, Bereketzade Mahallesi, Beyoğlu, İstanbul"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatAddressLeadOmittedWhenEqualToStreet(t *testing.T) {
	got := FormatAddress(MergedAddress{
		PointOfInterest: "Kapalıçarşı",
		Street:          "Kapalıçarşı",
		City:            "İstanbul",
	})
	if got != "Kapalıçarşı, İstanbul" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatAddressBuildingUsedWhenNoPOI(t *testing.T) {
	got := FormatAddress(MergedAddress{
		Building: "Belediye Binası",
		Street:   "Cumhuriyet Caddesi",
		City:     "Ankara",
	})
	if got != "Belediye Binası, Cumhuriyet Caddesi, Ankara" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatAddressMahalleSuffixNotDoubled(t *testing.T) {
	got := FormatAddress(MergedAddress{
		Neighbourhood: "Bereketzade Mahallesi",
		City:          "İstanbul",
	})
	if got != "Bereketzade Mahallesi, İstanbul" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatAddressDistrictElidedWhenInsideNeighbourhood(t *testing.T) {
	got := FormatAddress(MergedAddress{
		Neighbourhood: "Kadıköy Moda",
		District:      "Kadıköy",
		City:          "İstanbul",
	})
	if got != "Kadıköy Moda Mahallesi, İstanbul" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatAddressCityElidedWhenEqualToDistrict(t *testing.T) {
	got := FormatAddress(MergedAddress{
		District: "Merkez",
		City:     "Merkez",
	})
	if got != "Merkez" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatAddressEmptyFieldsProduceNoSeparators(t *testing.T) {
	if got := FormatAddress(MergedAddress{}); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := FormatAddress(MergedAddress{City: "İzmir"}); got != "İzmir" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatAddressHouseNumberWithoutStreetIsDropped(t *testing.T) {
	got := FormatAddress(MergedAddress{
		HouseNumber: "12",
		City:        "Bursa",
	})
	if got != "Bursa" {
		t.Fatalf("house number without a street should be dropped, got %q", got)
	}
}
