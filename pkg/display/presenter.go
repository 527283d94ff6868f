// Package display renders the joystick cursor, the optional border and a
// banner on the SSD1306 OLED.
//
// Rendering goes through the Screen interface so the presenter can draw into
// an in-memory framebuffer under test. On the board the screen is a
// *ssd1306.Device (see display.go).
package display

import (
	"fmt"
	"image/color"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/config"
)

// Pixels are either lit or not; any non-black color lights them.
var white = color.RGBA{255, 255, 255, 255}

// Screen is a buffered monochrome display.
type Screen interface {
	drivers.Displayer
	ClearBuffer()
}

// Cursor is the top-left corner of the cursor square in display pixels.
// Row is driven by the X axis (inverted) and Col by the Y axis, matching how
// the stick is mounted on the board.
type Cursor struct {
	Row int // 0..CursorRowSpan
	Col int // 0..CursorColSpan
}

// CursorAt maps a raw sample onto the display using integer truncation.
// Raw values above MaxADC are clamped.
func CursorAt(rawX, rawY uint16) Cursor {
	x := int(min(rawX, config.MaxADC))
	y := int(min(rawY, config.MaxADC))
	return Cursor{
		Row: ((config.MaxADC - x) * config.CursorRowSpan) / config.MaxADC,
		Col: (y * config.CursorColSpan) / config.MaxADC,
	}
}

// Presenter draws frames onto a Screen.
type Presenter struct {
	screen Screen
	settle time.Duration
	sleep  func(time.Duration)
}

// NewPresenter creates a presenter that waits settle after every flush.
func NewPresenter(screen Screen, settle time.Duration, sleep func(time.Duration)) *Presenter {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Presenter{
		screen: screen,
		settle: settle,
		sleep:  sleep,
	}
}

// Render draws one frame for the given raw sample and flushes it.
// The settle delay is observed even when the flush fails.
func (p *Presenter) Render(rawX, rawY uint16, border bool) error {
	p.screen.ClearBuffer()

	if border {
		tinydraw.Rectangle(p.screen, 0, 0, 127, 63, white)
		tinydraw.Rectangle(p.screen, 2, 2, 123, 59, white)
	}

	tinyfont.WriteLine(p.screen, &proggy.TinySZ8pt7b, config.BannerX, config.BannerY, config.BannerText, white)

	c := CursorAt(rawX, rawY)
	tinydraw.FilledRectangle(p.screen, int16(c.Col), int16(c.Row), config.CursorSize, config.CursorSize, white)

	err := p.screen.Display()
	p.sleep(p.settle)
	if err != nil {
		return fmt.Errorf("flush display: %w", err)
	}
	return nil
}

// Splash clears the screen and shows up to four lines of text.
// Used while the stick is being calibrated.
func (p *Presenter) Splash(lines ...string) error {
	p.screen.ClearBuffer()
	for i, line := range lines {
		if i >= 4 {
			break
		}
		tinyfont.WriteLine(p.screen, &proggy.TinySZ8pt7b, 4, int16(14+i*14), line, white)
	}
	return p.screen.Display()
}

// Blank clears the screen.
func (p *Presenter) Blank() error {
	p.screen.ClearBuffer()
	return p.screen.Display()
}
