package ups

import (
	"testing"
	"time"

	"github.com/parcelops/shiptrack/pkg/track"
	"github.com/rs/zerolog"
)

func testClient() *Client {
	c := New(DefaultConfig("user", "pass", "license"))
	c.logger = zerolog.Nop()
	return c
}

func activity(code, description, date, clock string) Activity {
	return Activity{
		Status: ActivityStatus{Type: code, Description: description},
		Date:   date,
		Time:   clock,
	}
}

func response(number string, packages ...Package) Response {
	return Response{
		TrackResponse: &TrackResponse{
			Shipment: Shipment{
				InquiryNumber: InquiryNumber{Value: number},
				Package:       OneOrMany[Package](packages),
			},
		},
	}
}

func TestNormalize_SinglePackage(t *testing.T) {
	resp := response("1Z123", Package{
		Activity: OneOrMany[Activity]{
			activity("I", "Departed from facility", "20240101", "093000"),
			activity("P", "Pickup scan", "20231231", "120000"),
		},
	})
	resp.TrackResponse.Shipment.Package[0].Activity[0].ActivityLocation = &ActivityLocation{
		Address: &Address{City: "Louisville", StateProvinceCode: "KY", CountryCode: "US"},
	}

	records := testClient().Normalize([]Response{resp})
	if len(records) != 1 {
		t.Fatalf("Record count = %d, want 1", len(records))
	}

	record := records[0]
	if record.TrackingNumber != "1Z123" {
		t.Errorf("TrackingNumber = %q, want 1Z123", record.TrackingNumber)
	}
	if record.TrackingStatus != track.StatusInTransit {
		t.Errorf("TrackingStatus = %q, want In Transit", record.TrackingStatus)
	}
	if record.CheckpointLocation != "US, KY, LOUISVILLE" {
		t.Errorf("CheckpointLocation = %q, want US, KY, LOUISVILLE", record.CheckpointLocation)
	}
	if record.CheckpointStatusMessage != "Departed from facility" {
		t.Errorf("CheckpointStatusMessage = %q", record.CheckpointStatusMessage)
	}

	want := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	if record.CheckpointDate == nil || !record.CheckpointDate.Equal(want) {
		t.Errorf("CheckpointDate = %v, want %v", record.CheckpointDate, want)
	}
}

func TestBestActivity_RankResolution(t *testing.T) {
	tests := []struct {
		name     string
		codes    []string
		wantCode string
	}{
		// Ranks 3, 9, 7: the rank-9 exception wins.
		{"highest_rank_wins", []string{"I", "X", "NA"}, "X"},
		// Equal ranks: strict comparison, first seen wins.
		{"tie_first_seen_wins", []string{"M", "M"}, "M"},
		{"later_higher_rank_wins", []string{"D", "O", "RS"}, "RS"},
		// All unmapped: falls back to the first package.
		{"all_unmapped_falls_back", []string{"ZZ", "YY"}, "ZZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packages := make([]Package, 0, len(tt.codes))
			for i, code := range tt.codes {
				packages = append(packages, Package{
					Activity: OneOrMany[Activity]{
						activity(code, "pkg "+string(rune('a'+i)), "20240101", "093000"),
					},
				})
			}

			best, err := bestActivity(packages)
			if err != nil {
				t.Fatalf("bestActivity failed: %v", err)
			}
			if best.Status.Type != tt.wantCode {
				t.Errorf("Best activity code = %q, want %q", best.Status.Type, tt.wantCode)
			}
		})
	}
}

func TestBestActivity_TieKeepsFirstPackage(t *testing.T) {
	packages := []Package{
		{Activity: OneOrMany[Activity]{activity("M", "first", "20240101", "093000")}},
		{Activity: OneOrMany[Activity]{activity("M", "second", "20240101", "100000")}},
	}

	best, err := bestActivity(packages)
	if err != nil {
		t.Fatalf("bestActivity failed: %v", err)
	}
	if best.Status.Description != "first" {
		t.Errorf("Tie resolved to %q, want the first-seen package", best.Status.Description)
	}
}

func TestNormalize_LocationPlaceholders(t *testing.T) {
	tests := []struct {
		name    string
		address *Address
		want    string
	}{
		{
			name:    "all_components",
			address: &Address{City: "Louisville", StateProvinceCode: "KY", CountryCode: "US"},
			want:    "US, KY, LOUISVILLE",
		},
		{
			name:    "missing_state",
			address: &Address{City: "Louisville", CountryCode: "US"},
			want:    "US, ---, LOUISVILLE",
		},
		{
			name:    "missing_everything",
			address: &Address{},
			want:    "---, ---, ---",
		},
		{
			name:    "no_address",
			address: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			act := activity("D", "Delivered", "20240101", "093000")
			if tt.address != nil {
				act.ActivityLocation = &ActivityLocation{Address: tt.address}
			}

			if got := activityLocation(act); got != tt.want {
				t.Errorf("activityLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_UnmappedStatusIsUnknown(t *testing.T) {
	resp := response("1Z123", Package{
		Activity: OneOrMany[Activity]{activity("ZZ", "Mystery scan", "20240101", "093000")},
	})

	records := testClient().Normalize([]Response{resp})
	if len(records) != 1 {
		t.Fatalf("Record count = %d, want 1", len(records))
	}
	if records[0].TrackingStatus != track.StatusUnknown {
		t.Errorf("TrackingStatus = %q, want Unknown", records[0].TrackingStatus)
	}
}

func TestNormalize_SkipsMalformedResponses(t *testing.T) {
	good := response("1Z999", Package{
		Activity: OneOrMany[Activity]{activity("D", "Delivered", "20240102", "141500")},
	})

	tests := []struct {
		name string
		bad  Response
	}{
		{"no_track_body", Response{}},
		{"no_inquiry_number", response("", Package{
			Activity: OneOrMany[Activity]{activity("D", "Delivered", "20240101", "093000")},
		})},
		{"no_packages", response("1Z123")},
		{"no_activity", response("1Z123", Package{})},
		{"malformed_date", response("1Z123", Package{
			Activity: OneOrMany[Activity]{activity("D", "Delivered", "January 1", "093000")},
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := testClient().Normalize([]Response{tt.bad, good})
			if len(records) != 1 {
				t.Fatalf("Record count = %d, want 1 (bad response skipped)", len(records))
			}
			if records[0].TrackingNumber != "1Z999" {
				t.Errorf("TrackingNumber = %q, want 1Z999", records[0].TrackingNumber)
			}
		})
	}
}

func TestVocabulary_Ranks(t *testing.T) {
	wantRanks := map[string]int{
		"X": 9, "RS": 8, "NA": 7, "MV": 6, "M": 5, "P": 4, "I": 3, "O": 2, "D": 1,
	}
	for code, want := range wantRanks {
		if got := statusRank(code); got != want {
			t.Errorf("statusRank(%q) = %d, want %d", code, got, want)
		}
	}
	if got := statusRank("nope"); got != 0 {
		t.Errorf("statusRank(unmapped) = %d, want 0", got)
	}
}
