//go:build tinygo

package display

import (
	"fmt"
	"machine"
	"time"

	"tinygo.org/x/drivers/ssd1306"

	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/config"
)

// Bus describes the I2C wiring of the OLED.
type Bus struct {
	I2C     *machine.I2C
	SDA     machine.Pin
	SCL     machine.Pin
	Address uint16
}

// Open configures the I2C bus at 400kHz and initializes the SSD1306.
// Any failure here is fatal for the firmware.
func Open(bus Bus) (*ssd1306.Device, error) {
	if err := bus.I2C.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz, // fast mode
		SCL:       bus.SCL,
		SDA:       bus.SDA,
	}); err != nil {
		return nil, fmt.Errorf("configure i2c: %w", err)
	}

	// Small delay for bus stabilization
	time.Sleep(10 * time.Millisecond)

	dev := ssd1306.NewI2C(bus.I2C)
	dev.Configure(ssd1306.Config{
		Address: bus.Address,
		Width:   config.ScreenWidth,
		Height:  config.ScreenHeight,
	})

	// The panel powers up with random RAM contents
	dev.ClearDisplay()

	return dev, nil
}
