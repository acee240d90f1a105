package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"national mobile", "0532 123 45 67", "+905321234567"},
		{"already e164", "+905321234567", "+905321234567"},
		{"missing leading zero", "532 123 45 67", "+905321234567"},
		{"empty", "", ""},
		{"garbage preserved", "not-a-number", "not-a-number"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input); got != tc.want {
				t.Errorf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestIsValidMobile(t *testing.T) {
	if !IsValidMobile("0532 123 45 67") {
		t.Error("expected Turkish mobile number to be valid")
	}
	if IsValidMobile("0212 123 45 67") {
		t.Error("expected landline to be rejected as mobile")
	}
	if IsValidMobile("") {
		t.Error("expected empty input to be invalid")
	}
}
