package canvas

import "testing"

func TestFitQuadPillarbox(t *testing.T) {
	const eps = 1e-6
	tAR := float32(1.5)
	wAR := float32(16.0 / 9.0)

	sx, sy := FitQuad(wAR, tAR)
	if sy != 1 {
		t.Fatalf("scaleY\nhave %v\nwant 1 (pillarboxed, w_ar > t_ar keeps y at magnitude 1)", sy)
	}
	if diff := sx - 0.84375; diff > eps || diff < -eps {
		t.Fatalf("scaleX\nhave %v\nwant 0.84375", sx)
	}

	q := Quad(wAR, tAR)
	top := q[0]
	if diff := top.X - (-0.84375); diff > eps || diff < -eps {
		t.Fatalf("top-left X\nhave %v\nwant -0.84375", top.X)
	}
	if diff := top.Y - 1.0; diff > eps || diff < -eps {
		t.Fatalf("top-left Y\nhave %v\nwant 1.0", top.Y)
	}
}

func TestFitQuadSquareWindow(t *testing.T) {
	// texture wider than a square window: letterboxed top/bottom, x stays at magnitude 1.
	sx, sy := FitQuad(1.0, TextureAspect)
	if sx != 1 {
		t.Fatalf("scaleX\nhave %v\nwant 1", sx)
	}
	if sy <= 0 || sy >= 1 {
		t.Fatalf("scaleY\nhave %v\nwant in (0,1)", sy)
	}
}
