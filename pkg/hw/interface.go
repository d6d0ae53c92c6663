// Package hw defines the hardware boundary the firmware logic is written against.
// The device binds these to TinyGo machine peripherals, the simulator to pkg/sim.
package hw

// DigitalOut is a push-pull output pin used for blink codes.
type DigitalOut interface {
	ConfigureOutput()
	High()
	Low()
}

// AnalogIn is an ADC channel. Read returns a raw sample in the configured
// ADC resolution (0..1023 for a 10-bit converter).
type AnalogIn interface {
	ConfigureInput()
	Read() uint16
}

// PWMOut drives the LED with an 8-bit duty cycle.
type PWMOut interface {
	ConfigurePWM() error
	SetDuty(duty uint8)
}
