package bsl

import (
	"io"
	"time"

	"fr2x5x-go/errcode"

	"github.com/tarm/serial"
)

// Port is a serial link to the loader.
type Port interface {
	io.ReadWriteCloser

	// Flush discards unread input and unsent output.
	Flush() error
}

// SerialConfig selects the host serial device. The loader always runs 8
// data bits, even parity and one stop bit.
type SerialConfig struct {
	Device  string
	Baud    int
	Timeout time.Duration
}

// OpenSerial opens the device for the loader's line settings.
func OpenSerial(cfg SerialConfig) (Port, error) {
	if cfg.Device == "" {
		return nil, errcode.New(errcode.InvalidParams, "bsl.OpenSerial", "no serial device")
	}
	if _, ok := baudCodes[cfg.Baud]; !ok {
		return nil, errcode.New(errcode.InvalidParams, "bsl.OpenSerial", "unsupported baud rate")
	}
	p, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.Timeout,
		Size:        8,
		Parity:      serial.ParityEven,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, errcode.Wrap(errcode.Error, "bsl.OpenSerial", err)
	}
	return p, nil
}
