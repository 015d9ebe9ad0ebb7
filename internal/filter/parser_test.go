package filter

import (
	"testing"
	"time"
)

func TestParseDateRange_SameMonth(t *testing.T) {
	from, to, err := ParseDateRange("Mar 1-15")
	if err != nil {
		t.Fatalf("ParseDateRange() error = %v", err)
	}

	if from.Month() != time.March || from.Day() != 1 {
		t.Errorf("from = %v, want March 1", from)
	}
	if to.Month() != time.March || to.Day() != 15 {
		t.Errorf("to = %v, want March 15", to)
	}
	if from.Hour() != 0 || to.Hour() != 23 {
		t.Errorf("range should span full days: %v - %v", from, to)
	}
}

func TestParseDateRange_CrossMonth(t *testing.T) {
	from, to, err := ParseDateRange("March 20 - April 5")
	if err != nil {
		t.Fatalf("ParseDateRange() error = %v", err)
	}
	if from.Month() != time.March || from.Day() != 20 {
		t.Errorf("from = %v, want March 20", from)
	}
	if to.Month() != time.April || to.Day() != 5 {
		t.Errorf("to = %v, want April 5", to)
	}
}

func TestParseDateRange_WholeMonth(t *testing.T) {
	from, to, err := ParseDateRange("June")
	if err != nil {
		t.Fatalf("ParseDateRange() error = %v", err)
	}
	if from.Month() != time.June || from.Day() != 1 {
		t.Errorf("from = %v, want June 1", from)
	}
	if to.Month() != time.June || to.Day() != 30 {
		t.Errorf("to = %v, want June 30", to)
	}
}

func TestParseDateRange_YearRollover(t *testing.T) {
	// December ending in January rolls the end into the next year
	from, to, err := ParseDateRange("Dec 28 - Jan 3")
	if err != nil {
		t.Fatalf("ParseDateRange() error = %v", err)
	}
	if to.Year() != from.Year()+1 {
		t.Errorf("end year = %d, want %d", to.Year(), from.Year()+1)
	}
}

func TestParseDateRange_Invalid(t *testing.T) {
	tests := []string{
		"",
		"not a date",
		"Mar 15-1",
		"Mar 32-40",
		"2026-03-01",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, _, err := ParseDateRange(input); err == nil {
				t.Errorf("ParseDateRange(%q) expected error", input)
			}
		})
	}
}
