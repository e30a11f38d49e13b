package render

import "testing"

func TestToPNG_RejectsScale(t *testing.T) {
	for _, scale := range []float64{0, -1} {
		if _, err := ToPNG([]byte("<svg/>"), scale); err == nil {
			t.Errorf("ToPNG(scale=%g) should fail", scale)
		}
	}
}

func TestToPDF_MissingTool(t *testing.T) {
	if Available() {
		t.Skip("rsvg-convert installed")
	}
	if _, err := ToPDF([]byte("<svg/>")); err == nil {
		t.Error("ToPDF should fail without rsvg-convert")
	}
}
