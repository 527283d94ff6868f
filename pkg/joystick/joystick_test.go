package joystick

import (
	"errors"
	"testing"
	"time"
)

// scriptedADC returns queued samples per axis and records the read order.
type scriptedADC struct {
	x, y   []uint16
	order  []Axis
	err    error
	failAt int
}

func (a *scriptedADC) ReadAxis(axis Axis) (uint16, error) {
	a.order = append(a.order, axis)
	if a.err != nil && len(a.order) > a.failAt {
		return 0, a.err
	}
	var v uint16
	if axis == AxisX {
		v, a.x = a.x[0], a.x[1:]
	} else {
		v, a.y = a.y[0], a.y[1:]
	}
	return v, nil
}

func TestAdjustDeadZone(t *testing.T) {
	for _, center := range []int{0, 200, 2048, 4095} {
		for diff := -199; diff <= 199; diff++ {
			if got := Adjust(center+diff, center, 200); got != 0 {
				t.Fatalf("Adjust(%d, %d): expected 0 inside dead zone, got %d", center+diff, center, got)
			}
		}
	}
}

func TestAdjustLinearOutsideDeadZone(t *testing.T) {
	tests := []struct {
		raw, center int
	}{
		{2200, 2000},
		{1800, 2000},
		{4095, 2000},
		{0, 2000},
		{2300, 2000},
		{1700, 2000},
		{250, 0},
	}

	for _, tt := range tests {
		want := tt.raw - tt.center
		if got := Adjust(tt.raw, tt.center, 200); got != want {
			t.Errorf("Adjust(%d, %d): expected %d, got %d", tt.raw, tt.center, want, got)
		}
	}
}

func TestDeviation(t *testing.T) {
	dx, dy := Deviation(Sample{X: 2300, Y: 1700}, Center{X: 2000, Y: 2000}, 200)
	if dx != 300 {
		t.Errorf("dx: expected 300, got %d", dx)
	}
	if dy != -300 {
		t.Errorf("dy: expected -300, got %d", dy)
	}

	dx, dy = Deviation(Sample{X: 2100, Y: 1950}, Center{X: 2000, Y: 2000}, 200)
	if dx != 0 || dy != 0 {
		t.Errorf("Expected (0, 0) inside dead zone, got (%d, %d)", dx, dy)
	}
}

func TestCalibrateAverages(t *testing.T) {
	const n = 150
	adc := &scriptedADC{}
	var wantX, wantY uint32
	for i := 0; i < n; i++ {
		x := uint16(1900 + i%7*13)
		y := uint16(2100 - i%5*11)
		adc.x = append(adc.x, x)
		adc.y = append(adc.y, y)
		wantX += uint32(x)
		wantY += uint32(y)
	}

	var slept []time.Duration
	center, err := Calibrate(adc, n, 10*time.Millisecond, func(d time.Duration) {
		slept = append(slept, d)
	})
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}

	if center.X != uint16(wantX/n) {
		t.Errorf("Center.X: expected %d, got %d", wantX/n, center.X)
	}
	if center.Y != uint16(wantY/n) {
		t.Errorf("Center.Y: expected %d, got %d", wantY/n, center.Y)
	}
	if len(slept) != n {
		t.Errorf("Expected %d pauses, got %d", n, len(slept))
	}
	for i, d := range slept {
		if d != 10*time.Millisecond {
			t.Fatalf("Pause %d: expected 10ms, got %v", i, d)
		}
	}

	// X and Y are read alternately, X first
	for i, axis := range adc.order {
		want := AxisX
		if i%2 == 1 {
			want = AxisY
		}
		if axis != want {
			t.Fatalf("Read %d: expected axis %d, got %d", i, want, axis)
		}
	}
}

func TestCalibrateTruncates(t *testing.T) {
	adc := &scriptedADC{
		x: []uint16{1, 2},
		y: []uint16{4095, 4094},
	}
	center, err := Calibrate(adc, 2, 0, func(time.Duration) {})
	if err != nil {
		t.Fatalf("Calibrate failed: %v", err)
	}
	if center.X != 1 {
		t.Errorf("Center.X: expected 1, got %d", center.X)
	}
	if center.Y != 4094 {
		t.Errorf("Center.Y: expected 4094, got %d", center.Y)
	}
}

func TestCalibrateReadError(t *testing.T) {
	errADC := errors.New("adc timeout")
	adc := &scriptedADC{
		x:      []uint16{2000, 2000},
		y:      []uint16{2000, 2000},
		err:    errADC,
		failAt: 3,
	}
	_, err := Calibrate(adc, 2, 0, func(time.Duration) {})
	if !errors.Is(err, errADC) {
		t.Errorf("Expected wrapped adc error, got %v", err)
	}
}

func TestCalibrateNoSamples(t *testing.T) {
	_, err := Calibrate(&scriptedADC{}, 0, 0, nil)
	if err != ErrNoSamples {
		t.Errorf("Expected ErrNoSamples, got %v", err)
	}
}
