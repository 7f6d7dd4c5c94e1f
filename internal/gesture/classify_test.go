package gesture

import (
	"testing"

	"github.com/ayusman/handcursor/internal/detector"
)

func TestClassify_AllCombinations(t *testing.T) {
	want := map[[4]bool]Gesture{
		{true, false, false, false}:  Move,
		{false, false, false, false}: Click,
		{true, true, false, false}:   RightClick,
		{true, true, true, true}:     Drag,
	}

	counts := make(map[Gesture]int)
	for mask := 0; mask < 16; mask++ {
		key := [4]bool{mask&1 != 0, mask&2 != 0, mask&4 != 0, mask&8 != 0}
		for _, thumb := range []bool{false, true} {
			f := FingerState{Thumb: thumb, Index: key[0], Middle: key[1], Ring: key[2], Pinky: key[3]}

			got := Classify(f)

			expected, ok := want[key]
			if !ok {
				expected = Other
			}
			if got != expected {
				t.Errorf("Classify(%+v) = %v, want %v", f, got, expected)
			}
			if !thumb {
				counts[got]++
			}
		}
	}

	wantCounts := map[Gesture]int{Move: 1, Click: 1, RightClick: 1, Drag: 1, Other: 12}
	for g, n := range wantCounts {
		if counts[g] != n {
			t.Errorf("%v matched %d combinations, want %d", g, counts[g], n)
		}
	}
}

func TestClassify_Landmarks(t *testing.T) {
	tests := []struct {
		name string
		hand detector.HandLandmarks
		want Gesture
	}{
		{"pointing", detector.PointingLandmarks(), Move},
		{"fist", detector.FistLandmarks(), Click},
		{"thumbs up is still a click", detector.ThumbsUpLandmarks(), Click},
		{"victory", detector.VictoryLandmarks(), RightClick},
		{"open palm", detector.OpenPalmLandmarks(), Drag},
		{"pinky only", detector.PoseLandmarks(false, false, false, false, true), Other},
		{"three fingers", detector.PoseLandmarks(false, true, true, true, false), Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(Fingers(&tt.hand)); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGesture_Strings(t *testing.T) {
	tests := []struct {
		g     Gesture
		name  string
		label string
	}{
		{Move, "move", "Cursor Move"},
		{Click, "click", "Click"},
		{RightClick, "right-click", "Right Click"},
		{Drag, "drag", "Drag Mode"},
		{Other, "other", "Other"},
	}

	for _, tt := range tests {
		if got := tt.g.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
		if got := tt.g.Label(); got != tt.label {
			t.Errorf("Label() = %q, want %q", got, tt.label)
		}
		text, err := tt.g.MarshalText()
		if err != nil || string(text) != tt.name {
			t.Errorf("MarshalText() = %q, %v", text, err)
		}

		var parsed Gesture
		if err := parsed.UnmarshalText(text); err != nil || parsed != tt.g {
			t.Errorf("UnmarshalText(%q) = %v, %v", text, parsed, err)
		}
	}

	if _, err := ParseGesture("wave"); err == nil {
		t.Error("ParseGesture(wave) should fail")
	}
}
