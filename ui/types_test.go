package ui

import "testing"

func TestSaturatingSub(t *testing.T) {
	d := Dimensions{Width: 10, Height: 3}

	tests := []struct {
		n    int
		dir  Direction
		want Dimensions
	}{
		{1, Vertical, Dimensions{Width: 10, Height: 2}},
		{5, Vertical, Dimensions{Width: 10, Height: 0}},
		{4, Horizontal, Dimensions{Width: 6, Height: 3}},
		{40, Horizontal, Dimensions{Width: 0, Height: 3}},
	}
	for _, tt := range tests {
		if got := d.SaturatingSub(tt.n, tt.dir); got != tt.want {
			t.Errorf("SaturatingSub(%d, %v) = %v, want %v", tt.n, tt.dir, got, tt.want)
		}
	}
}

func TestParseDimensions(t *testing.T) {
	d, err := ParseDimensions(" 120X40 ")
	if err != nil {
		t.Fatal(err)
	}
	if d != (Dimensions{Width: 120, Height: 40}) {
		t.Errorf("got %v", d)
	}

	for _, bad := range []string{"", "80", "0x24", "80x", "ax24", "-1x5"} {
		if _, err := ParseDimensions(bad); err == nil {
			t.Errorf("ParseDimensions(%q) should fail", bad)
		}
	}
}

func TestIsZero(t *testing.T) {
	if !(Dimensions{Width: 0, Height: 5}).IsZero() {
		t.Error("zero width should be zero")
	}
	if !(Dimensions{Width: 5}).IsZero() {
		t.Error("zero height should be zero")
	}
	if NewDimensions(-3, 4) != (Dimensions{Width: 0, Height: 4}) {
		t.Error("negative axes should clamp to zero")
	}
	if (Dimensions{Width: 1, Height: 1}).IsZero() {
		t.Error("1x1 is not zero")
	}
}
