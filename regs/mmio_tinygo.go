//go:build tinygo

package regs

import (
	"runtime/volatile"
	"unsafe"
)

// MMIO is the memory-mapped register bus of the running chip.
var MMIO Bus = mmio{}

type mmio struct{}

func (mmio) Read8(addr uintptr) uint8 {
	return volatile.LoadUint8((*uint8)(unsafe.Pointer(addr)))
}

func (mmio) Write8(addr uintptr, v uint8) {
	volatile.StoreUint8((*uint8)(unsafe.Pointer(addr)), v)
}

func (mmio) Read16(addr uintptr) uint16 {
	return volatile.LoadUint16((*uint16)(unsafe.Pointer(addr)))
}

func (mmio) Write16(addr uintptr, v uint16) {
	volatile.StoreUint16((*uint16)(unsafe.Pointer(addr)), v)
}
