package site

import (
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	cases := []struct {
		description string
		name        string
		host        string
		icon        string
		wanted      Site
	}{
		{"plain", "BT", "ib.btrl.ro", "https://example.com/favicon.ico",
			Site{Name: "BT", Host: "ib.btrl.ro", Icon: "https://example.com/favicon.ico"}},
		{"trimmed and lowered", " ING ", " HomeBank.RO ", "",
			Site{Name: "ING", Host: "homebank.ro", Icon: ""}},
		{"unicode host", "Bücher", "bücher.example", "",
			Site{Name: "Bücher", Host: "xn--bcher-kva.example", Icon: ""}},
	}

	for _, tt := range cases {
		s, err := New(tt.name, tt.host, tt.icon)
		if err != nil {
			t.Fatalf("[%s] %s", tt.description, err)
		}
		if !reflect.DeepEqual(s, tt.wanted) {
			t.Errorf("[%s] Unexpected site: %#v", tt.description, s)
		}
	}
}

func TestNewRejects(t *testing.T) {
	cases := []struct {
		description string
		name        string
		host        string
		icon        string
	}{
		{"no name", "", "example.com", ""},
		{"no host", "Example", "  ", ""},
		{"tab in name", "Exa\tmple", "example.com", ""},
		{"newline in icon", "Example", "example.com", "https://example.com/\n"},
	}

	for _, tt := range cases {
		if _, err := New(tt.name, tt.host, tt.icon); err == nil {
			t.Errorf("[%s] site should be rejected", tt.description)
		}
	}
}

func TestDefault(t *testing.T) {
	sites := Default()
	if len(sites) != 20 {
		t.Fatalf("Unexpected number of sites: %d", len(sites))
	}
	if sites[0].Name != "BT" || sites[19].Name != "Banca Feroviara" {
		t.Errorf("Unexpected order: %s ... %s", sites[0].Name, sites[19].Name)
	}
	if _, err := Validate(sites); err != nil {
		t.Errorf("default registry should validate: %s", err)
	}
}

func TestValidate(t *testing.T) {
	sites, err := Validate([]Site{
		{Name: "Example", Host: "WWW.Example.com", Icon: "https://www.example.com/favicon.ico"},
		{Name: " Other ", Host: "other.example"},
	})
	if err != nil {
		t.Fatalf("%s", err)
	}

	wanted := []Site{
		{Name: "Example", Host: "www.example.com", Icon: "https://www.example.com/favicon.ico"},
		{Name: "Other", Host: "other.example"},
	}
	if !reflect.DeepEqual(sites, wanted) {
		t.Errorf("Unexpected sites: %#v", sites)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		description string
		sites       []Site
	}{
		{"empty", nil},
		{"missing host", []Site{{Name: "A"}}},
		{"duplicate host", []Site{{Name: "A", Host: "a.example"}, {Name: "B", Host: "A.example"}}},
	}

	for _, tt := range cases {
		if _, err := Validate(tt.sites); err == nil {
			t.Errorf("[%s] registry should be rejected", tt.description)
		}
	}
}
