package controller

import "testing"

func TestClampSearchBounds(t *testing.T) {
	cases := []struct {
		name            string
		maxResults      int
		maxPatterns     int
		resultsCap      int
		patternsCap     int
		wantResults     int
		wantPatterns    int
	}{
		{"defaults", 0, 0, 20, 60, 2, 8},
		{"explicit results, default patterns", 5, 0, 20, 60, 5, 20},
		{"both over cap", 50, 100, 20, 60, 20, 60},
		{"single result", 1, 0, 20, 60, 1, 4},
		{"patterns below results", 10, 5, 20, 60, 10, 10},
		{"patterns over cap", 3, 200, 20, 60, 3, 60},
		{"negative inputs", -1, -1, 20, 60, 2, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotResults, gotPatterns := clampSearchBounds(tc.maxResults, tc.maxPatterns, tc.resultsCap, tc.patternsCap)
			if gotResults != tc.wantResults || gotPatterns != tc.wantPatterns {
				t.Errorf("clampSearchBounds(%d, %d, %d, %d) = (%d, %d), want (%d, %d)",
					tc.maxResults, tc.maxPatterns, tc.resultsCap, tc.patternsCap,
					gotResults, gotPatterns, tc.wantResults, tc.wantPatterns)
			}
		})
	}
}

func TestCell(t *testing.T) {
	record := []string{" john ", "doe"}
	if got := cell(record, 0); got != "john" {
		t.Errorf("expected trimmed cell, got %q", got)
	}
	if got := cell(record, 5); got != "" {
		t.Errorf("out-of-range index must be empty, got %q", got)
	}
	if got := cell(record, -1); got != "" {
		t.Errorf("missing column must be empty, got %q", got)
	}
}

func TestColumnIndex(t *testing.T) {
	header := []string{"First_Name", " last_name ", "domain"}
	if got := columnIndex(header, "first_name"); got != 0 {
		t.Errorf("expected case-insensitive match at 0, got %d", got)
	}
	if got := columnIndex(header, "last_name"); got != 1 {
		t.Errorf("expected trimmed match at 1, got %d", got)
	}
	if got := columnIndex(header, "email"); got != -1 {
		t.Errorf("expected -1 for missing column, got %d", got)
	}
}

func TestFormatConfidence(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.0, "0.00"},
		{0.7, "0.70"},
		{1.0, "1.00"},
	}
	for _, tc := range cases {
		if got := formatConfidence(tc.in); got != tc.want {
			t.Errorf("formatConfidence(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
