package calculator

import "testing"

func TestSuggestPoints(t *testing.T) {
	tests := []struct {
		attendees int
		want      int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{5, 1},
		{6, 3},
		{8, 3},
		{9, 5},
		{15, 5},
		{16, 10},
		{40, 10},
	}

	for _, tt := range tests {
		if got := SuggestPoints(tt.attendees); got != tt.want {
			t.Errorf("SuggestPoints(%d) = %d, want %d", tt.attendees, got, tt.want)
		}
	}
}

func TestClampPoints(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  int
	}{
		{"negative clamps to zero", -5, 0},
		{"above max clamps to twenty", 25, 20},
		{"in range unchanged", 12, 12},
		{"lower bound", 0, 0},
		{"upper bound", 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPoints(tt.input); got != tt.want {
				t.Errorf("ClampPoints(%d) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolvePoints(t *testing.T) {
	manual := func(v int) *int { return &v }

	tests := []struct {
		name      string
		attendees int
		manual    *int
		want      int
	}{
		{"no override uses tier", 7, nil, 3},
		{"override wins over tier", 7, manual(12), 12},
		{"override of zero is honored", 20, manual(0), 0},
		{"override is clamped high", 3, manual(99), 20},
		{"override is clamped low", 3, manual(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePoints(tt.attendees, tt.manual); got != tt.want {
				t.Errorf("ResolvePoints(%d) = %d, want %d", tt.attendees, got, tt.want)
			}
		})
	}
}
