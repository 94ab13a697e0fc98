package models

import "testing"

func TestFixtureStatus(t *testing.T) {
	tests := []struct {
		status            FixtureStatus
		live              bool
		finished          bool
		voided            bool
		secondHalfOrLater bool
	}{
		{"NS", false, false, false, false},
		{"1H", true, false, false, false},
		{"HT", true, false, false, true},
		{"2H", true, false, false, true},
		{"ET", true, false, false, true},
		{"P", true, false, false, true},
		{"FT", false, true, false, true},
		{"AET", false, true, false, true},
		{"PEN", false, true, false, true},
		{"PST", false, false, true, false},
		{"CANC", false, false, true, false},
		{"ABD", false, false, true, false},
		{"AWD", false, false, true, false},
		{"WO", false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsLive(); got != tt.live {
				t.Errorf("IsLive() = %v, want %v", got, tt.live)
			}
			if got := tt.status.IsFinished(); got != tt.finished {
				t.Errorf("IsFinished() = %v, want %v", got, tt.finished)
			}
			if got := tt.status.IsVoid(); got != tt.voided {
				t.Errorf("IsVoid() = %v, want %v", got, tt.voided)
			}
			if got := tt.status.IsSecondHalfOrLater(); got != tt.secondHalfOrLater {
				t.Errorf("IsSecondHalfOrLater() = %v, want %v", got, tt.secondHalfOrLater)
			}
		})
	}
}

func TestPredictionResultIsTerminal(t *testing.T) {
	if ResultPending.IsTerminal() {
		t.Error("pending must not be terminal")
	}
	for _, r := range []PredictionResult{ResultWon, ResultLost, ResultVoid} {
		if !r.IsTerminal() {
			t.Errorf("%s must be terminal", r)
		}
	}
}
