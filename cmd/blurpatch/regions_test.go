package main

import (
	"flag"
	"testing"

	"github.com/example/blurpatch/internal/geom"
)

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in       string
		rect     geom.Rect
		rotation float64
		wantErr  bool
	}{
		{in: "10,20,110,220", rect: geom.R(10, 20, 110, 220)},
		{in: " 110, 220, 10, 20 ", rect: geom.R(10, 20, 110, 220)},
		{in: "0,0,50.5,40@45", rect: geom.R(0, 0, 50.5, 40), rotation: 45},
		{in: "0,0,50,40@-90", rect: geom.R(0, 0, 50, 40), rotation: 270},
		{in: "1,2,3", wantErr: true},
		{in: "a,b,c,d", wantErr: true},
		{in: "0,0,0,10", wantErr: true},
		{in: "0,0,10,10@x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := parseRegion(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseRegion(%q) = %+v, want error", tt.in, p)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRegion(%q): %v", tt.in, err)
			}
			if p.Rect != tt.rect || p.Rotation != tt.rotation {
				t.Fatalf("parseRegion(%q) = %+v", tt.in, p)
			}
		})
	}
}

func TestRegionListFlag(t *testing.T) {
	var regions regionList
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&regions, "region", "")
	if err := fs.Parse([]string{"-region", "0,0,10,10", "-region", "5,5,20,30@15"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(regions) != 2 {
		t.Fatalf("regions = %d, want 2", len(regions))
	}
	if got := regions.String(); got != "0,0,10,10 5,5,20,30@15" {
		t.Fatalf("String = %q", got)
	}
	if err := fs.Parse([]string{"-region", "bad"}); err == nil {
		t.Fatalf("invalid region accepted")
	}
}
