//go:build rp2040 || rp2350

package main

import "machine"

const (
	// LED pin. GP14/GP15 are driven by PWM slice 7 on the RP2040/RP2350.
	PIN_LED = machine.GP15

	// Battery sense divider output (GP26).
	PIN_BATTERY = machine.ADC0

	// PWM carrier period in nanoseconds (1 kHz, above visible flicker).
	PWM_PERIOD_NS = 1e6

	// Bits kept from the ADC reading. machine.ADC.Get scales every sample to 16 bits.
	ADC_BITS = 10

	// The RP2040/RP2350 ADC reads 0..3.3V.
	ADC_REFERENCE_V = 3.3

	// Battery sense divider. A full 2S pack (8.4V) stays at 2.8V on the pin.
	BATTERY_DIVIDER = 3.0
)

var PWM_LED = machine.PWM7
