package protocol

import (
	"encoding/binary"
	"errors"
)

// Status flag bits
const (
	FlagGreenLED   uint8 = 1 << 0
	FlagBorder     uint8 = 1 << 1
	FlagPWMEnabled uint8 = 1 << 2
	FlagCalibrated uint8 = 1 << 3
)

// statusSize is the fixed binary size of Status.
const statusSize = 24

var ErrInvalidSize = errors.New("invalid payload size")

// Status is what the firmware saw and did on its last loop iteration.
// Total size: 24 bytes
// Layout:
//
//	[0-1]:   RawX (uint16)
//	[2-3]:   RawY (uint16)
//	[4-5]:   DevX (int16)
//	[6-7]:   DevY (int16)
//	[8]:     CursorRow (uint8)
//	[9]:     CursorCol (uint8)
//	[10]:    Flags (uint8)
//	[11]:    Reserved (uint8)
//	[12-13]: RedDuty (uint16)
//	[14-15]: BlueDuty (uint16)
//	[16-17]: JoystickPresses (uint16)
//	[18-19]: ActionPresses (uint16)
//	[20-23]: Cycles (uint32)
type Status struct {
	RawX            uint16
	RawY            uint16
	DevX            int16
	DevY            int16
	CursorRow       uint8
	CursorCol       uint8
	Flags           uint8
	Reserved        uint8
	RedDuty         uint16
	BlueDuty        uint16
	JoystickPresses uint16
	ActionPresses   uint16
	Cycles          uint32
}

// Has reports whether every bit of flag is set.
func (s Status) Has(flag uint8) bool {
	return s.Flags&flag == flag
}

// MarshalBinary implements encoding.BinaryMarshaler for Status.
func (s *Status) MarshalBinary() ([]byte, error) {
	buf := make([]byte, statusSize)
	binary.LittleEndian.PutUint16(buf[0:], s.RawX)
	binary.LittleEndian.PutUint16(buf[2:], s.RawY)
	binary.LittleEndian.PutUint16(buf[4:], uint16(s.DevX))
	binary.LittleEndian.PutUint16(buf[6:], uint16(s.DevY))
	buf[8] = s.CursorRow
	buf[9] = s.CursorCol
	buf[10] = s.Flags
	buf[11] = s.Reserved
	binary.LittleEndian.PutUint16(buf[12:], s.RedDuty)
	binary.LittleEndian.PutUint16(buf[14:], s.BlueDuty)
	binary.LittleEndian.PutUint16(buf[16:], s.JoystickPresses)
	binary.LittleEndian.PutUint16(buf[18:], s.ActionPresses)
	binary.LittleEndian.PutUint32(buf[20:], s.Cycles)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for Status.
func (s *Status) UnmarshalBinary(data []byte) error {
	if len(data) < statusSize {
		return ErrInvalidSize
	}

	s.RawX = binary.LittleEndian.Uint16(data[0:])
	s.RawY = binary.LittleEndian.Uint16(data[2:])
	s.DevX = int16(binary.LittleEndian.Uint16(data[4:]))
	s.DevY = int16(binary.LittleEndian.Uint16(data[6:]))
	s.CursorRow = data[8]
	s.CursorCol = data[9]
	s.Flags = data[10]
	s.Reserved = data[11]
	s.RedDuty = binary.LittleEndian.Uint16(data[12:])
	s.BlueDuty = binary.LittleEndian.Uint16(data[14:])
	s.JoystickPresses = binary.LittleEndian.Uint16(data[16:])
	s.ActionPresses = binary.LittleEndian.Uint16(data[18:])
	s.Cycles = binary.LittleEndian.Uint32(data[20:])
	return nil
}
