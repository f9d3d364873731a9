package cran

import (
	"reflect"
	"testing"
)

const ggplotDescription = `Package: ggplot2
Version: 3.5.1
Title: Create Elegant Data Visualisations Using the Grammar of
        Graphics
Depends: R (>= 3.5)
Imports: cli, glue, grDevices, grid, gtable (>= 0.1.1),
        isoband
License: MIT + file LICENSE
URL: https://ggplot2.tidyverse.org, https://github.com/tidyverse/ggplot2
Maintainer: Thomas Lin Pedersen <thomas.pedersen@posit.co>
Date/Publication: 2024-04-23 08:00:08 UTC
`

func TestParseDescription(t *testing.T) {
	d := ParseDescription(ggplotDescription)
	if d.Package != "ggplot2" || d.Version != "3.5.1" {
		t.Fatalf("unexpected identity: %+v", d)
	}
	if d.Title != "Create Elegant Data Visualisations Using the Grammar of Graphics" {
		t.Errorf("continuation not joined: %q", d.Title)
	}
	if d.Published != "2024-04-23 08:00:08 UTC" {
		t.Errorf("published = %q", d.Published)
	}
	if got := d.Homepage(); got != "https://ggplot2.tidyverse.org" {
		t.Errorf("homepage = %q", got)
	}
	name, email := d.MaintainerParts()
	if name != "Thomas Lin Pedersen" || email != "thomas.pedersen@posit.co" {
		t.Errorf("maintainer = %q <%q>", name, email)
	}
	want := []string{"cli", "glue", "grDevices", "grid", "gtable", "isoband"}
	if got := d.Dependencies(); !reflect.DeepEqual(got, want) {
		t.Errorf("dependencies = %v, want %v", got, want)
	}
}

func TestParseDescriptionEmpty(t *testing.T) {
	if d := ParseDescription(""); d != (Description{}) {
		t.Fatalf("expected zero description, got %+v", d)
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.10.0", "1.9.0", 1},
		{"0.4-2", "0.4-10", -1},
		{"1.0", "1.0.0", -1},
		{"2.0", "1.99.99", 1},
		{"1.3-1", "1.3.1", 0},
	}
	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParseIndex(t *testing.T) {
	index := "Package: A3\nVersion: 1.0.0\nDepends: R (>= 2.15.0), xtable, pbapply\n\n" +
		"Package: abc\nVersion: 2.2.1\nImports: abc.data,\n        nnet\n   \n" +
		"Version: 0.1\n\n\n" +
		"Package: zoo\r\nVersion: 1.8-12\r\n"
	got := ParseIndex(index)
	if len(got) != 3 {
		t.Fatalf("expected 3 packages, got %+v", got)
	}
	if got[0].Package != "A3" || got[0].Version != "1.0.0" {
		t.Errorf("unexpected first entry %+v", got[0])
	}
	if deps := got[1].Dependencies(); len(deps) != 2 || deps[1] != "nnet" {
		t.Errorf("continuation lost in second entry: %v", deps)
	}
	if got[2].Package != "zoo" || got[2].Version != "1.8-12" {
		t.Errorf("unexpected last entry %+v", got[2])
	}
}
