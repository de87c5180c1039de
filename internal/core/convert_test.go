package core

import (
	"errors"
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// ParseCurrency Tests
// ----------------------------------------------------------------------------

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "thousands separator", input: "$1,234.50", want: "1234.5"},
		{name: "zero", input: "$0.00", want: "0"},
		{name: "plain decimal", input: "19.99", want: "19.99"},
		{name: "no symbol integer", input: "123", want: "123"},
		{name: "leading decimal point", input: ".99", want: "0.99"},
		{name: "euro sign", input: "€1234.56", want: "1234.56"},
		{name: "pound sign", input: "£1234.56", want: "1234.56"},
		{name: "surrounding whitespace", input: "  $10.00  ", want: "10"},
		{name: "space after symbol", input: "$ 10.00", want: "10"},
		{name: "non-breaking space", input: "$\u00a010.00", want: "10"},
		{name: "negative sign", input: "-$5.00", want: "-5"},
		{name: "accounting negative", input: "($1,000.00)", want: "-1000"},

		{name: "residual letter", input: "12A.50", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "symbol only", input: "$", wantErr: true},
		{name: "two decimal points", input: "1.2.3", wantErr: true},
		{name: "double negative accounting", input: "(-5.00)", wantErr: true},
		{name: "unknown currency symbol", input: "¥100", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCurrency(tt.input)
			if tt.wantErr {
				var fe *FormatError
				if !errors.As(err, &fe) {
					t.Fatalf("ParseCurrency(%q) error = %v, want *FormatError", tt.input, err)
				}
				if fe.Value != tt.input {
					t.Errorf("FormatError.Value = %q, want %q", fe.Value, tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCurrency(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseCurrency(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ParseDate Tests
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "US slash", input: "1/10/2024"},
		{name: "US slash padded", input: "01/10/2024"},
		{name: "US dash", input: "01-10-2024"},
		{name: "ISO", input: "2024-01-10"},
		{name: "ISO slash", input: "2024/01/10"},
		{name: "compact", input: "20240110"},
		{name: "month name", input: "Jan 10, 2024"},
		{name: "day month name", input: "10 Jan 2024"},
		{name: "timestamp", input: "2024-01-10 23:59:59"},
		{name: "RFC3339 keeps written date", input: "2024-01-10T22:00:00-08:00"},
		{name: "surrounding whitespace", input: "  2024-01-10 "},

		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "not a date", wantErr: true},
		{name: "impossible day", input: "2024-02-30", wantErr: true},
		{name: "month thirteen", input: "13/01/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnparseable) {
					t.Errorf("ParseDate(%q) error = %v, want ErrUnparseable", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, want)
			}
		})
	}
}

func TestParseDate_TwoDigitYear(t *testing.T) {
	originalPivot := TwoDigitYearPivot
	defer func() { TwoDigitYearPivot = originalPivot }()
	TwoDigitYearPivot = 20
	ref := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    string
		wantYear int
	}{
		{name: "2-digit year 25 as 2025", input: "01/15/25", wantYear: 2025},
		{name: "2-digit year 99 as 1999", input: "01/15/99", wantYear: 1999},
		{name: "2-digit year 85 as 1985", input: "01/15/85", wantYear: 1985},
		{name: "dash format", input: "1-15-99", wantYear: 1999},
		{name: "dot format", input: "01.15.99", wantYear: 1999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateAt(tt.input, ref)
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got.Year() != tt.wantYear {
				t.Errorf("ParseDate(%q).Year = %d, want %d", tt.input, got.Year(), tt.wantYear)
			}
		})
	}
}

func TestParseDateAt_ReferenceYear(t *testing.T) {
	originalPivot := TwoDigitYearPivot
	defer func() { TwoDigitYearPivot = originalPivot }()
	TwoDigitYearPivot = 20

	tests := []struct {
		name     string
		ref      time.Time
		wantYear int
	}{
		{name: "reference 2020 sends 45 to last century", ref: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), wantYear: 1945},
		{name: "reference 2030 keeps 45 in this century", ref: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), wantYear: 2045},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateAt("1/2/45", tt.ref)
			if err != nil {
				t.Fatalf("ParseDateAt() unexpected error: %v", err)
			}
			if got.Year() != tt.wantYear {
				t.Errorf("ParseDateAt(%q, %d).Year = %d, want %d", "1/2/45", tt.ref.Year(), got.Year(), tt.wantYear)
			}
		})
	}
}

func TestParseDateAt_FourDigitYearIgnoresReference(t *testing.T) {
	ref := time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := ParseDateAt("1/2/2045", ref)
	if err != nil {
		t.Fatalf("ParseDateAt() unexpected error: %v", err)
	}
	if got.Year() != 2045 {
		t.Errorf("ParseDateAt(%q).Year = %d, want 2045", "1/2/2045", got.Year())
	}
}

// ----------------------------------------------------------------------------
// ParseDecimal / ParseInt Tests
// ----------------------------------------------------------------------------

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "0.92", want: "0.92"},
		{input: " 1.3456 ", want: "1.3456"},
		{input: "1e2", want: "100"},
		{input: "-0.5", want: "-0.5"},
		{input: "", wantErr: true},
		{input: "$1.00", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDecimal(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnparseable) {
					t.Errorf("ParseDecimal(%q) error = %v, want ErrUnparseable", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimal(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDecimal(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "42", want: 42},
		{input: " 7 ", want: 7},
		{input: "1,234", want: 1234},
		{input: "-3", want: -3},
		{input: "", wantErr: true},
		{input: "1.5", wantErr: true},
		{input: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInt(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnparseable) {
					t.Errorf("ParseInt(%q) error = %v, want ErrUnparseable", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInt(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseInt(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
