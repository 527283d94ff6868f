// Package joystick reads the two-axis analog stick, calibrates its resting
// position and converts raw samples into dead-zone filtered deviations.
//
// The package never touches hardware directly; the ADC is reached through the
// Reader interface so calibration and normalization can run on the host.
package joystick

import (
	"errors"
	"fmt"
	"time"
)

// Axis identifies one joystick axis.
type Axis uint8

const (
	AxisX Axis = 0
	AxisY Axis = 1
)

// Reader is the ADC collaborator. ReadAxis returns a 12-bit sample.
type Reader interface {
	ReadAxis(axis Axis) (uint16, error)
}

// Sample is one instantaneous reading of both axes.
type Sample struct {
	X uint16
	Y uint16
}

// Center is the resting position of the stick, measured once at startup.
type Center struct {
	X uint16
	Y uint16
}

var ErrNoSamples = errors.New("calibration needs at least one sample")

// ReadSample reads X then Y.
func ReadSample(r Reader) (Sample, error) {
	x, err := r.ReadAxis(AxisX)
	if err != nil {
		return Sample{}, fmt.Errorf("read x axis: %w", err)
	}
	y, err := r.ReadAxis(AxisY)
	if err != nil {
		return Sample{}, fmt.Errorf("read y axis: %w", err)
	}
	return Sample{X: x, Y: y}, nil
}

// Calibrate samples the stick at rest and returns the truncated mean of each
// axis. Axes are read alternately, X first, with a pause of interval after
// every pair. It blocks for roughly samples*interval.
func Calibrate(r Reader, samples int, interval time.Duration, sleep func(time.Duration)) (Center, error) {
	if samples <= 0 {
		return Center{}, ErrNoSamples
	}
	if sleep == nil {
		sleep = time.Sleep
	}

	var sumX, sumY uint32
	for i := 0; i < samples; i++ {
		s, err := ReadSample(r)
		if err != nil {
			return Center{}, fmt.Errorf("calibration sample %d: %w", i, err)
		}
		sumX += uint32(s.X)
		sumY += uint32(s.Y)
		sleep(interval)
	}

	return Center{
		X: uint16(sumX / uint32(samples)),
		Y: uint16(sumY / uint32(samples)),
	}, nil
}

// Adjust returns raw-center, or 0 when that difference is inside the dead zone.
func Adjust(raw, center, deadZone int) int {
	diff := raw - center
	if abs(diff) < deadZone {
		return 0
	}
	return diff
}

// Deviation applies Adjust to both axes of a sample.
func Deviation(s Sample, c Center, deadZone int) (dx, dy int) {
	dx = Adjust(int(s.X), int(c.X), deadZone)
	dy = Adjust(int(s.Y), int(c.Y), deadZone)
	return dx, dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
