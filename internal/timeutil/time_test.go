package timeutil

import "testing"

func TestSub(t *testing.T) {
	tests := []struct {
		name  string
		start Timestamp
		end   Timestamp
		want  float64
	}{
		{
			name:  "same second",
			start: Timestamp{Sec: 1, Usec: 100},
			end:   Timestamp{Sec: 1, Usec: 350},
			want:  0.000250,
		},
		{
			name:  "microsecond borrow",
			start: Timestamp{Sec: 1, Usec: 900_000},
			end:   Timestamp{Sec: 2, Usec: 100_000},
			want:  0.2,
		},
		{
			name:  "whole seconds",
			start: Timestamp{Sec: 10, Usec: 0},
			end:   Timestamp{Sec: 12, Usec: 0},
			want:  2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.end.Sub(tt.start); got != tt.want {
				t.Fatalf("Sub: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	ts, err := Parse("1381234567", "123456")
	if err != nil {
		t.Fatal(err)
	}
	if ts.Sec != 1381234567 || ts.Usec != 123456 {
		t.Fatalf("Parse: got %+v", ts)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse("abc", "0"); err == nil {
		t.Fatal("expected an error for non-numeric seconds")
	}
	if _, err := Parse("0", "abc"); err == nil {
		t.Fatal("expected an error for non-numeric microseconds")
	}
}
