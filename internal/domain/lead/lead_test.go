package lead

import (
	"errors"
	"testing"
)

func TestLeadHeaderHelpers(t *testing.T) {
	l := Lead{
		FirstName:   "Sam",
		LastName:    "Nguyen",
		Suburb:      "Brunswick",
		Postcode:    "3056",
		ServiceType: "Mould inspection",
	}

	if got := l.FullName(); got != "Sam Nguyen" {
		t.Fatalf("FullName() = %q", got)
	}
	if got := l.PropertyAddress(); got != "Brunswick, VIC 3056" {
		t.Fatalf("PropertyAddress() = %q", got)
	}
	if got := l.Triage(); got != "Mould inspection - Brunswick" {
		t.Fatalf("Triage() = %q", got)
	}

	l.Address = "12 Sydney Rd, Brunswick VIC 3056"
	l.Notes = "Black mould behind wardrobe"
	if got := l.PropertyAddress(); got != l.Address {
		t.Fatalf("PropertyAddress() = %q", got)
	}
	if got := l.Triage(); got != l.Notes {
		t.Fatalf("Triage() = %q", got)
	}
}

func TestLeadValidate(t *testing.T) {
	tests := []struct {
		name    string
		lead    Lead
		wantErr bool
	}{
		{"phone only", Lead{FirstName: "Ana", Phone: "0400 000 000"}, false},
		{"email only", Lead{FirstName: "Ana", Email: "ana@example.com"}, false},
		{"missing name", Lead{Phone: "0400 000 000"}, true},
		{"no contact", Lead{FirstName: "Ana"}, true},
		{"bad email", Lead{FirstName: "Ana", Email: "not-an-email"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.lead.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Validate() error = %v, want ErrInvalidInput", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	got, err := ParseStatus(" form_completed ")
	if err != nil || got != StatusFormCompleted {
		t.Fatalf("ParseStatus() = %q, %v", got, err)
	}
	if _, err := ParseStatus("ARCHIVED"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("ParseStatus(ARCHIVED) error = %v", err)
	}
}
