// internal/bizparse/parser_test.go
package bizparse

import (
	"errors"
	"strings"
	"testing"

	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/utils"
)

func newTestParser() *Parser {
	cfg := config.Default()
	return New(cfg.Parser)
}

func TestParseFullBlob(t *testing.T) {
	p := newTestParser()

	blob := "Tim Hortons 123 Main St, Wetaskiwin, AB T9A 1A1 Phone: (780) 361-2222 Link: www.timhortons.com"
	got, err := p.Parse(blob)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if got.Name != "Tim Hortons" {
		t.Errorf("Name = %q, want %q", got.Name, "Tim Hortons")
	}
	if got.Contact != "" {
		t.Errorf("Contact = %q, want empty", got.Contact)
	}
	if got.Phone != "780-361-2222" {
		t.Errorf("Phone = %q, want %q", got.Phone, "780-361-2222")
	}
	if got.Website != "https://www.timhortons.com" {
		t.Errorf("Website = %q, want %q", got.Website, "https://www.timhortons.com")
	}
	if !strings.Contains(got.Address, "123 Main St") {
		t.Errorf("Address = %q, want it to contain %q", got.Address, "123 Main St")
	}
	if !strings.Contains(got.Address, "Wetaskiwin") {
		t.Errorf("Address = %q, want it to contain the city", got.Address)
	}
}

func TestParseBlobWithLeadingLabels(t *testing.T) {
	p := newTestParser()

	// Link and phone come right after the name and the address trails with
	// an unspaced postal code.
	blob := "Tim Hortons Coffee Shop Link: www.timhortons.com Phone: 780-361-2222 123 Main St, Wetaskiwin, AB T9A1A1"
	got, err := p.Parse(blob)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if got.Name != "Tim Hortons Coffee Shop" {
		t.Errorf("Name = %q, want %q", got.Name, "Tim Hortons Coffee Shop")
	}
	if got.Contact != "" {
		t.Errorf("Contact = %q, want empty", got.Contact)
	}
	if got.Website != "https://www.timhortons.com" {
		t.Errorf("Website = %q, want %q", got.Website, "https://www.timhortons.com")
	}
	if got.Phone != "780-361-2222" {
		t.Errorf("Phone = %q, want %q", got.Phone, "780-361-2222")
	}
	if !strings.Contains(got.Address, "123 Main St") || !strings.Contains(got.Address, "Wetaskiwin") {
		t.Errorf("Address = %q, want street and city present", got.Address)
	}
}

func TestParseNameContactSplit(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name        string
		blob        string
		wantName    string
		wantContact string
	}{
		{
			// "Repair" is a business suffix with nothing after it, so no
			// contact is invented from the name itself.
			name:        "suffix-final name keeps no contact",
			blob:        "Johnson Auto Repair 456 Railway Ave, Wetaskiwin, AB Phone: 780-312-1111",
			wantName:    "Johnson Auto Repair",
			wantContact: "",
		},
		{
			name:        "trailing person after suffix",
			blob:        "ABC Auto Repair John 789 50 St, Wetaskiwin, AB Phone: 780-312-2222",
			wantName:    "ABC Auto Repair",
			wantContact: "John",
		},
		{
			name:        "two-word contact after suffix",
			blob:        "Prairie Welding Ltd Gary Olson 12 Industrial Dr, Millet, AB",
			wantName:    "Prairie Welding Ltd",
			wantContact: "Gary Olson",
		},
		{
			// "Services" is both a suffix and a common noun; it must never
			// be peeled off as a contact.
			name:        "common noun tail is not a contact",
			blob:        "Wetaskiwin Cleaning Services 34 49 Ave, Wetaskiwin, AB",
			wantName:    "Wetaskiwin Cleaning Services",
			wantContact: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.blob)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.blob, err)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Contact != tt.wantContact {
				t.Errorf("Contact = %q, want %q", got.Contact, tt.wantContact)
			}
		})
	}
}

func TestParseAddressForms(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name string
		blob string
		want string
	}{
		{
			name: "po box",
			blob: "Millet Greenhouse Box 240, Millet, AB T0C 1Z0",
			want: "Box 240",
		},
		{
			name: "rural route",
			blob: "Falun Farms RR 2, Wetaskiwin, AB",
			want: "RR 2",
		},
		{
			name: "city province only",
			blob: "Gwynne Hall Society Gwynne, AB",
			want: "Gwynne, AB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.blob)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.blob, err)
			}
			if !strings.Contains(got.Address, tt.want) {
				t.Errorf("Address = %q, want it to contain %q", got.Address, tt.want)
			}
		})
	}
}

func TestParseWebsiteNormalization(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		blob string
		want string
	}{
		{"Acme Welding 1 Main St, Wetaskiwin, AB Link: http://acme.example.com", "https://acme.example.com"},
		{"Acme Welding 1 Main St, Wetaskiwin, AB https://acme.example.com/about", "https://acme.example.com/about"},
		{"Acme Welding 1 Main St, Wetaskiwin, AB www.acme.example.com.", "https://www.acme.example.com"},
	}
	for _, tt := range tests {
		got, err := p.Parse(tt.blob)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.blob, err)
		}
		if got.Website != tt.want {
			t.Errorf("Website = %q, want %q", got.Website, tt.want)
		}
	}
}

func TestParseRejectsInvalidBlobs(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name string
		blob string
	}{
		{"no address", "Tim Hortons Phone: 780-361-2222"},
		{"placeholder name", "Wetaskiwin 123 Main St, Wetaskiwin, AB"},
		{"empty residue", "50 St, Wetaskiwin, AB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(tt.blob)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want validation error", tt.blob)
			}
			var vErr *utils.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("error type %T, want *utils.ValidationError", err)
			}
		})
	}
}
