//go:build rp2040 || rp2350

package main

import (
	"machine"

	"github.com/itohio/goheartbeat/pkg/hw"
)

// pwmGroup is the subset of a TinyGo PWM slice the LED uses.
type pwmGroup interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Set(channel uint8, value uint32)
	Top() uint32
}

// led drives the heartbeat LED as a plain output during the startup blinks
// and through PWM afterwards.
type led struct {
	pin machine.Pin
	pwm pwmGroup
	ch  uint8
}

var (
	_ hw.DigitalOut = (*led)(nil)
	_ hw.PWMOut     = (*led)(nil)
)

func (l *led) ConfigureOutput() { l.pin.Configure(machine.PinConfig{Mode: machine.PinOutput}) }
func (l *led) High()            { l.pin.High() }
func (l *led) Low()             { l.pin.Low() }

func (l *led) ConfigurePWM() error {
	if err := l.pwm.Configure(machine.PWMConfig{Period: PWM_PERIOD_NS}); err != nil {
		return err
	}
	ch, err := l.pwm.Channel(l.pin)
	if err != nil {
		return err
	}
	l.ch = ch
	return nil
}

// SetDuty maps 0..255 onto the slice's counter range.
func (l *led) SetDuty(duty uint8) {
	l.pwm.Set(l.ch, uint32(uint64(l.pwm.Top())*uint64(duty)/255))
}

// batterySense reads the divider through the ADC.
type batterySense struct {
	adc machine.ADC
}

var _ hw.AnalogIn = (*batterySense)(nil)

func (b *batterySense) ConfigureInput() {
	machine.InitADC()
	b.adc.Configure(machine.ADCConfig{})
}

// Read returns the sample reduced to ADC_BITS.
func (b *batterySense) Read() uint16 {
	return b.adc.Get() >> (16 - ADC_BITS)
}
