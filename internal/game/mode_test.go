package game

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"auto", Auto, false},
		{"AUTO", Auto, false},
		{"0", Auto, false},
		{"manual", Manual, false},
		{" Manual ", Manual, false},
		{"1", Manual, false},
		{"fast", Auto, true},
		{"", Auto, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMode(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestModeFromChoice(t *testing.T) {
	if ModeFromChoice(0) != Auto {
		t.Error("0 should select Auto")
	}
	for _, n := range []int{1, 2, -1} {
		if ModeFromChoice(n) != Manual {
			t.Errorf("%d should select Manual", n)
		}
	}
}

func TestModeString(t *testing.T) {
	if Auto.String() != "AUTO" || Manual.String() != "MANUAL" {
		t.Errorf("unexpected names %s %s", Auto, Manual)
	}
	if Mode(7).String() != "Mode(7)" {
		t.Errorf("unexpected name for unknown mode: %s", Mode(7))
	}
}
