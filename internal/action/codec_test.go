package action_test

import (
	"errors"
	"math"
	"testing"

	"github.com/arachnolog/broodkeeper/internal/action"
)

// one sample per variant; the round-trip test also checks this list covers
// the whole variant table.
var samples = []action.Action{
	action.MainMenu{},
	action.ListTarantulas{},
	action.FeedingSchedule{},
	action.HealthAlerts{},
	action.Maintenance{},
	action.Colonies{},
	action.StatusOverview{},
	action.RecordFeeding{},
	action.RecordHealthCheck{},
	action.MoltHistory{},
	action.RecordMolt{},
	action.ColonyMaintenance{},
	action.ViewRecords{},
	action.ViewFeedingRecords{},
	action.ViewHealthRecords{},
	action.ViewMoltRecords{},
	action.FeedTarantula{TarantulaID: 7},
	action.HealthCheck{TarantulaID: 12},
	action.HealthStatus{TarantulaID: 3, StatusID: 2},
	action.MoltSimple{TarantulaID: 9},
	action.ColonyMaintenanceMenu{ColonyID: 4},
	action.FeedSelectColony{TarantulaID: 1, ColonyID: 2},
	action.FeedConfirm{TarantulaID: 1, ColonyID: 2, Count: 5},
	action.ColonyCount{ColonyID: 11},
	action.ColonyCountUpdate{ColonyID: 42, Delta: -5},
}

func TestRoundTrip(t *testing.T) {
	if len(samples) != len(action.Tags()) {
		t.Fatalf("sample list covers %d variants, table has %d", len(samples), len(action.Tags()))
	}

	seen := make(map[string]bool, len(samples))
	for _, sample := range samples {
		token, err := action.Encode(sample)
		if err != nil {
			t.Fatalf("Encode(%#v): %v", sample, err)
		}
		if len(token) > action.TokenLimitBytes {
			t.Fatalf("token %q exceeds limit", token)
		}

		decoded, err := action.Decode(token)
		if err != nil {
			t.Fatalf("Decode(%q): %v", token, err)
		}
		if decoded != sample {
			t.Errorf("Decode(Encode(%#v)) = %#v", sample, decoded)
		}

		if seen[sample.Tag()] {
			t.Errorf("duplicate sample for tag %s", sample.Tag())
		}
		seen[sample.Tag()] = true
	}
}

func TestEncodeWireFormat(t *testing.T) {
	token, err := action.Encode(action.ColonyCountUpdate{ColonyID: 42, Delta: -5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "colony_count_update_42_-5" {
		t.Errorf("Encode() = %q, want %q", token, "colony_count_update_42_-5")
	}
}

func TestEncodeLimit(t *testing.T) {
	_, err := action.Encode(action.FeedConfirm{
		TarantulaID: math.MinInt64,
		ColonyID:    math.MinInt64,
		Count:       math.MinInt64,
	})
	if err == nil {
		t.Fatal("expected error for oversized token, got nil")
	}
}

func TestDecodeTagCollisions(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  action.Action
	}{
		{
			name:  "prefix tag with field",
			token: "colony_count_7",
			want:  action.ColonyCount{ColonyID: 7},
		},
		{
			name:  "longer tag wins over prefix",
			token: "colony_count_update_42_-5",
			want:  action.ColonyCountUpdate{ColonyID: 42, Delta: -5},
		},
		{
			name:  "exact match on zero-field tag",
			token: "colony_maintenance",
			want:  action.ColonyMaintenance{},
		},
		{
			name:  "field-bearing extension of zero-field tag",
			token: "colony_maintenance_menu_5",
			want:  action.ColonyMaintenanceMenu{ColonyID: 5},
		},
		{
			name:  "zero-field tag sharing a word prefix",
			token: "record_molt",
			want:  action.RecordMolt{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := action.Decode(tt.token)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Decode(%q) = %#v, want %#v", tt.token, got, tt.want)
			}
		})
	}
}

func TestDecodeArityMismatch(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		wantTag  string
		wantWant int
		wantGot  int
	}{
		{
			name:     "missing field",
			token:    "feed_confirm_1_2",
			wantTag:  "feed_confirm",
			wantWant: 3,
			wantGot:  2,
		},
		{
			name:     "extra field on zero-field variant",
			token:    "main_menu_5",
			wantTag:  "main_menu",
			wantWant: 0,
			wantGot:  1,
		},
		{
			name:     "bare tag of field-bearing variant",
			token:    "feed_tarantula",
			wantTag:  "feed_tarantula",
			wantWant: 1,
			wantGot:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := action.Decode(tt.token)
			var arityErr *action.ArityMismatchError
			if !errors.As(err, &arityErr) {
				t.Fatalf("expected ArityMismatchError, got %v", err)
			}
			if arityErr.Tag != tt.wantTag || arityErr.Want != tt.wantWant || arityErr.Got != tt.wantGot {
				t.Errorf("got %+v, want tag=%s want=%d got=%d", arityErr, tt.wantTag, tt.wantWant, tt.wantGot)
			}
		})
	}
}

func TestDecodeFieldParse(t *testing.T) {
	_, err := action.Decode("health_status_3_critical")
	var parseErr *action.FieldParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected FieldParseError, got %v", err)
	}
	if parseErr.Position != 1 {
		t.Errorf("Position = %d, want 1", parseErr.Position)
	}
}

func TestDecodeUnknown(t *testing.T) {
	for _, token := range []string{"", "bogus", "bogus_1_2"} {
		_, err := action.Decode(token)
		var unknownErr *action.UnknownActionError
		if !errors.As(err, &unknownErr) {
			t.Fatalf("Decode(%q): expected UnknownActionError, got %v", token, err)
		}
		if unknownErr.Token != token {
			t.Errorf("Token = %q, want %q", unknownErr.Token, token)
		}
	}
}
