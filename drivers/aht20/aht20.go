// Package aht20 provides a driver for the AHT20 temperature/humidity sensor.
// It exposes a two-phase measurement API:
//
//	d.Trigger()              // start a measurement (fast)
//	err := d.Collect(&s)     // fetch when ready; errcode.WouldBlock while busy
//
// Collect fits nb.Do; d.Read() performs trigger + bounded polling with the
// delay passed to New.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided, without releasing the bus. i2c.Master does.
//
// The driver avoids floating-point; fixed-point helpers return tenths of
// units (deci-°C and deci-%RH).
package aht20

import (
	"fr2x5x-go/errcode"

	"tinygo.org/x/drivers"
)

// I2C address.
const Address = 0x38

// Commands and status bits (per datasheet/common driver practice).
const (
	cmdTrigger    = 0xAC
	cmdInitialize = 0xBE
	cmdSoftReset  = 0xBA
	cmdStatus     = 0x71

	statusBusy       = 0x80
	statusCalibrated = 0x08
)

// Delayer is a blocking millisecond delay; clock.Delay and timer.Delay
// both qualify.
type Delayer interface{ DelayMs(ms uint32) }

// Config controls non-hardware behaviour.
type Config struct {
	// Address defaults to 0x38 if zero.
	Address uint16
	// PollMs is the wait between Collect attempts in Read.
	PollMs uint32
	// TimeoutMs bounds the total wait in Read.
	TimeoutMs uint32
	// TriggerHintMs is the nominal conversion time, for callers that
	// schedule Collect themselves.
	TriggerHintMs uint32
	// SkipCRC ignores the checksum byte; early parts do not send a valid one.
	SkipCRC bool
}

func DefaultConfig() Config {
	return Config{
		Address:       Address,
		PollMs:        15,
		TimeoutMs:     250,
		TriggerHintMs: 80,
	}
}

func (c Config) Validate() error {
	const op = "aht20.Config"
	switch {
	case c.Address > 0x7F:
		return errcode.New(errcode.InvalidParams, op, "address must be 7-bit")
	case c.PollMs == 0:
		return errcode.New(errcode.InvalidParams, op, "poll interval must be non-zero")
	case c.TimeoutMs < c.PollMs:
		return errcode.New(errcode.InvalidParams, op, "timeout shorter than poll interval")
	}
	return nil
}

// Device wraps an I2C connection to an AHT20 device.
type Device struct {
	bus   drivers.I2C
	delay Delayer

	cfg      Config
	buf      [7]byte // reuse buffer to avoid allocations
	humidity uint32  // last raw humidity sample
	temp     uint32  // last raw temperature sample
}

// New creates a new AHT20 connection. The I2C bus must already be configured.
// This function only creates the Device object; it does not touch the device.
func New(bus drivers.I2C, delay Delayer) *Device {
	return &Device{bus: bus, delay: delay, cfg: DefaultConfig()}
}

// Configure applies cfg and initialises the device unless it already
// reports calibration.
func (d *Device) Configure(cfg Config) error {
	if cfg.Address == 0 {
		cfg.Address = Address
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.cfg = cfg

	st, err := d.Status()
	if err == nil && st&statusCalibrated != 0 {
		return nil
	}
	if err := d.bus.Tx(d.cfg.Address, []byte{cmdInitialize, 0x08, 0x00}, nil); err != nil {
		return err
	}
	// Guard delay; callers should not expect an immediate ready sample.
	d.delay.DelayMs(10)
	return nil
}

// Reset issues a soft reset. Give the device ~20ms afterwards before using.
func (d *Device) Reset() error {
	return d.bus.Tx(d.cfg.Address, []byte{cmdSoftReset}, nil)
}

// Status reads and returns the status byte.
func (d *Device) Status() (byte, error) {
	data := d.buf[:1]
	if err := d.bus.Tx(d.cfg.Address, []byte{cmdStatus}, data); err != nil {
		return 0, err
	}
	return data[0], nil
}

// Trigger starts a measurement. It is a quick register write with no blocking.
// After Trigger, the device needs time to convert; see d.TriggerHintMs().
func (d *Device) Trigger() error {
	return d.bus.Tx(d.cfg.Address, []byte{cmdTrigger, 0x33, 0x00}, nil)
}

// TriggerHintMs returns the nominal conversion time to wait before
// attempting Collect.
func (d *Device) TriggerHintMs() uint32 { return d.cfg.TriggerHintMs }

// Collect attempts to read one measurement into the device cache and the
// provided sample. While the device is busy it returns errcode.WouldBlock;
// a corrupt frame gives errcode.Checksum. Bus errors are returned as-is.
func (d *Device) Collect(out *Sample) error {
	data := d.buf[:]
	if err := d.bus.Tx(d.cfg.Address, nil, data); err != nil {
		return err
	}
	// Check status bits in byte 0.
	if (data[0]&statusCalibrated) == 0 || (data[0]&statusBusy) != 0 {
		return errcode.WouldBlock
	}
	if !d.cfg.SkipCRC && crc8(data[:6]) != data[6] {
		return errcode.New(errcode.Checksum, "aht20.Collect", "measurement CRC mismatch")
	}
	// Parse raw values.
	hraw := (uint32(data[1]) << 12) | (uint32(data[2]) << 4) | (uint32(data[3]) >> 4)
	traw := (uint32(data[3]&0x0F) << 16) | (uint32(data[4]) << 8) | uint32(data[5])

	d.humidity = hraw
	d.temp = traw

	if out != nil {
		out.RawHumidity = hraw
		out.RawTemp = traw
	}
	return nil
}

// Read performs a full measurement cycle: Trigger followed by bounded
// polling until Collect succeeds or the timeout elapses.
func (d *Device) Read() error {
	if err := d.Trigger(); err != nil {
		return err
	}
	for waited := uint32(0); ; waited += d.cfg.PollMs {
		err := d.Collect(nil)
		if !errcode.IsWouldBlock(err) {
			return err
		}
		if waited >= d.cfg.TimeoutMs {
			return errcode.New(errcode.Timeout, "aht20.Read", "sensor stayed busy")
		}
		d.delay.DelayMs(d.cfg.PollMs)
	}
}

// crc8 is the sensor's checksum: polynomial 0x31, initial value 0xFF.
func crc8(p []byte) byte {
	c := byte(0xFF)
	for _, b := range p {
		c ^= b
		for i := 0; i < 8; i++ {
			if c&0x80 != 0 {
				c = c<<1 ^ 0x31
			} else {
				c <<= 1
			}
		}
	}
	return c
}

// Sample holds raw readings.
type Sample struct {
	RawHumidity uint32
	RawTemp     uint32
}

// Fixed-point conversion helpers operating on Sample.

func (s Sample) DeciRelHumidity() int32 {
	return (int32(s.RawHumidity) * 1000) / 0x100000
}

func (s Sample) DeciCelsius() int32 {
	return ((int32(s.RawTemp) * 2000) / 0x100000) - 500
}

// Accessors for the last cached sample.

func (d *Device) RawHumidity() uint32 { return d.humidity }
func (d *Device) RawTemp() uint32     { return d.temp }

func (d *Device) Sample() Sample {
	return Sample{RawHumidity: d.humidity, RawTemp: d.temp}
}

// DeciRelHumidity returns tenths of %RH.
func (d *Device) DeciRelHumidity() int32 { return d.Sample().DeciRelHumidity() }

// DeciCelsius returns tenths of °C.
func (d *Device) DeciCelsius() int32 { return d.Sample().DeciCelsius() }
