package domain

import "testing"

func TestTransitionMatrix(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusResolved, false},
		{StatusPending, StatusPending, false},
		{StatusInProgress, StatusResolved, true},
		{StatusInProgress, StatusRejected, true},
		{StatusInProgress, StatusPending, false},
		{StatusResolved, StatusInProgress, false},
		{StatusResolved, StatusRejected, false},
		{StatusRejected, StatusInProgress, false},
		{StatusRejected, StatusResolved, false},
		{"unknown", StatusInProgress, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !IsTerminalStatus(StatusResolved) {
		t.Error("resolved should be terminal")
	}
	if !IsTerminalStatus(StatusRejected) {
		t.Error("rejected should be terminal")
	}
	if IsTerminalStatus(StatusPending) {
		t.Error("pending should not be terminal")
	}
	if IsTerminalStatus(StatusInProgress) {
		t.Error("in_progress should not be terminal")
	}
	if IsTerminalStatus("unknown") {
		t.Error("unknown status should not be terminal")
	}
}

func TestKnownEnums(t *testing.T) {
	for _, s := range []string{StatusPending, StatusInProgress, StatusResolved, StatusRejected} {
		if !IsKnownStatus(s) {
			t.Errorf("IsKnownStatus(%q) = false", s)
		}
	}
	if IsKnownStatus("open") {
		t.Error("IsKnownStatus(open) = true")
	}
	if !IsKnownCategory(CategoryRoad) || IsKnownCategory("potholes") {
		t.Error("category lookup broken")
	}
	if !IsKnownSeverity(SeverityCritical) || IsKnownSeverity("urgent") {
		t.Error("severity lookup broken")
	}
}
