package license

import "testing"

func TestTrackerRecordsGrants(t *testing.T) {
	tr := NewTracker(StaticIssuer{Payload: []byte{1, 2, 3}}, 2)

	data := tr.CreateLicenseData(700)
	if len(data) != 3 {
		t.Fatalf("CreateLicenseData returned %d bytes, want 3", len(data))
	}

	grants := tr.RecentGrants()
	if len(grants) != 1 {
		t.Fatalf("RecentGrants = %d, want 1", len(grants))
	}
	if grants[0].BrowserBuild != 700 {
		t.Errorf("BrowserBuild = %d, want 700", grants[0].BrowserBuild)
	}
	if grants[0].ID == "" {
		t.Error("expected a non-empty grant id")
	}
}

func TestTrackerHistoryBounded(t *testing.T) {
	tr := NewTracker(StaticIssuer{}, 2)

	tr.CreateLicenseData(1)
	tr.CreateLicenseData(2)
	tr.CreateLicenseData(3)

	grants := tr.RecentGrants()
	if len(grants) != 2 {
		t.Fatalf("RecentGrants = %d, want 2", len(grants))
	}
	if grants[0].BrowserBuild != 2 || grants[1].BrowserBuild != 3 {
		t.Errorf("expected the two most recent grants (2,3), got %+v", grants)
	}
}

func TestTrackerGrantIDsUnique(t *testing.T) {
	tr := NewTracker(StaticIssuer{}, 10)
	tr.CreateLicenseData(1)
	tr.CreateLicenseData(1)

	grants := tr.RecentGrants()
	if grants[0].ID == grants[1].ID {
		t.Error("expected distinct grant ids for separate issuances")
	}
}
