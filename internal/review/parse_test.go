// internal/review/parse_test.go
package review

import "testing"

func TestParseRating(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"empty", "", 0},
		{"out of five", "4.5 out of 5 stars", 4.5},
		{"slash five", "4/5", 4},
		{"whole out of five", "3 out of 5", 3},
		{"above scale out of five", "6 out of 5", 5},
		{"bare number", "4.0", 4},
		{"bare number above scale", "7", 5},
		{"star glyphs", "★★★★", 4},
		{"emoji star glyphs", "⭐⭐⭐", 3},
		{"star word is not a rating", "no stars here", 0},
		{"no digits no stars", "rated highly", 0},
		{"negative", "-2 out of 5", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRating(tt.input); got != tt.want {
				t.Errorf("ParseRating(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseVotes(t *testing.T) {
	tests := []struct {
		input       string
		wantHelpful int
		wantTotal   int
	}{
		{"12 people found this helpful", 12, 0},
		{"12 of 20 people found this helpful", 12, 20},
		{"One person found this helpful", 0, 0},
		{"", 0, 0},
		{"Helpful (3)", 3, 0},
		{"9 of 4 people", 9, 0},
	}

	for _, tt := range tests {
		helpful, total := ParseVotes(tt.input)
		if helpful != tt.wantHelpful || total != tt.wantTotal {
			t.Errorf("ParseVotes(%q) = %d/%d, want %d/%d",
				tt.input, helpful, total, tt.wantHelpful, tt.wantTotal)
		}
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"iso passthrough", "2024-06-01", "2024-06-01"},
		{"long month", "June 1, 2024", "2024-06-01"},
		{"short month", "Jun 1, 2024", "2024-06-01"},
		{"us slashes", "6/1/2024", "2024-06-01"},
		{"platform prefix", "Reviewed in the United States on June 1, 2024", "2024-06-01"},
		{"with time", "2024-06-01 10:30:00", "2024-06-01"},
		{"unparseable keeps original", "two weeks ago", "two weeks ago"},
		{"whitespace collapsed", "  June  1,   2024 ", "2024-06-01"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDate(tt.input); got != tt.want {
				t.Errorf("ParseDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := CollapseWhitespace("  great \n\t product  ")
	if got != "great product" {
		t.Errorf("CollapseWhitespace = %q, want %q", got, "great product")
	}
}
