// Package nb turns non-blocking operations into blocking ones.
//
// A non-blocking HAL call returns errcode.WouldBlock while the hardware is
// not ready. Block retries such a call until it yields a value or a real
// error, the way the blocking driver variants poll their ready flags.
package nb

import "fr2x5x-go/errcode"

// Block calls f until it stops returning errcode.WouldBlock.
func Block[T any](f func() (T, error)) (T, error) {
	for {
		v, err := f()
		if !errcode.IsWouldBlock(err) {
			return v, err
		}
	}
}

// Do is Block for operations without a result.
func Do(f func() error) error {
	for {
		if err := f(); !errcode.IsWouldBlock(err) {
			return err
		}
	}
}
