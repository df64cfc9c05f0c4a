package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFlexInt_Unmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *int
	}{
		{"number", `2100`, IntPtr(2100)},
		{"float truncates", `1850.75`, IntPtr(1850)},
		{"quoted number", `"1650"`, IntPtr(1650)},
		{"currency string", `"$1,500/month"`, IntPtr(1500)},
		{"null", `null`, nil},
		{"empty string", `""`, nil},
		{"prose", `"call for pricing"`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexInt
			if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.input, err)
			}
			switch {
			case tt.want == nil && f.Value != nil:
				t.Errorf("expected nil, got %d", *f.Value)
			case tt.want != nil && f.Value == nil:
				t.Errorf("expected %d, got nil", *tt.want)
			case tt.want != nil && *f.Value != *tt.want:
				t.Errorf("expected %d, got %d", *tt.want, *f.Value)
			}
		})
	}
}

func TestFlexInt_Marshal(t *testing.T) {
	out, err := json.Marshal(FlexInt{Value: IntPtr(1200)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "1200" {
		t.Errorf("expected 1200, got %s", out)
	}

	out, err = json.Marshal(FlexInt{})
	if err != nil {
		t.Fatalf("marshal nil: %v", err)
	}
	if string(out) != "null" {
		t.Errorf("expected null, got %s", out)
	}
}

func TestLifestyleList_Unmarshal(t *testing.T) {
	var f SearchFilters
	if err := json.Unmarshal([]byte(`{"location": "Toronto", "lifestyle": "near transit"}`), &f); err != nil {
		t.Fatalf("unmarshal string form: %v", err)
	}
	if len(f.Lifestyle) != 1 || f.Lifestyle[0] != "near transit" {
		t.Errorf("unexpected lifestyle %v", f.Lifestyle)
	}

	if err := json.Unmarshal([]byte(`{"lifestyle": ["quiet", "walkable"]}`), &f); err != nil {
		t.Fatalf("unmarshal array form: %v", err)
	}
	if len(f.Lifestyle) != 2 || f.Lifestyle[1] != "walkable" {
		t.Errorf("unexpected lifestyle %v", f.Lifestyle)
	}

	if err := json.Unmarshal([]byte(`{"lifestyle": 42}`), &f); err == nil {
		t.Error("expected an error for a numeric lifestyle")
	}
}

func TestProviderStatus_WireFormat(t *testing.T) {
	out, err := json.Marshal(ProviderStatus{Name: "google", Configured: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"available":true`) {
		t.Errorf("expected an available field, got %s", out)
	}
}

func TestNewListing_Defaults(t *testing.T) {
	l := NewListing()

	if l.Title != TitleDefault {
		t.Errorf("title default %q", l.Title)
	}
	if l.Location != LocationDefault {
		t.Errorf("location default %q", l.Location)
	}
	if l.Contact.Name != ContactNameDefault || l.Contact.Phone != ContactValueDefault {
		t.Errorf("contact defaults %+v", l.Contact)
	}
	if l.Amenities == nil || l.Images == nil || l.Features == nil {
		t.Error("expected empty slices, not nil")
	}
	if l.AvailabilityDate == "" {
		t.Error("expected an availability date")
	}
}
