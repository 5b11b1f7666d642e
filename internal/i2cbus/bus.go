// Package i2cbus is the register-oriented transport shared by the I2C peripherals.
//
// A Port owns one physical bus and serialises transactions on it. A Device is a
// single peripheral on that port: every Write or Read is one addressed
// transaction followed by the peripheral's settle delay. Retrying is left to the
// callers; nothing here loops.
package i2cbus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
)

var (
	// ErrBus wraps every transaction-level failure (no ACK, bus busy, closed bus).
	ErrBus = errors.New("i2c transaction failed")
	// ErrShortRead is returned by callers that got fewer bytes than they asked for.
	ErrShortRead = errors.New("short read")
)

// Port serialises access to one I2C bus. Both poll loops share a Port, so a
// write from one peripheral can never land between another peripheral's
// transaction bytes.
type Port struct {
	mu  sync.Mutex
	bus i2c.Bus
}

// NewPort wraps an opened periph.io bus.
func NewPort(bus i2c.Bus) *Port {
	return &Port{bus: bus}
}

func (p *Port) String() string {
	return p.bus.String()
}

func (p *Port) tx(addr uint16, w, r []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bus.Tx(addr, w, r)
}

// Device is one addressed peripheral on a Port.
type Device struct {
	port   *Port
	addr   uint16
	settle time.Duration
	sleep  func(time.Duration)
}

// NewDevice binds a 7-bit address and the settle delay the peripheral needs
// after each transaction.
func NewDevice(port *Port, addr uint16, settle time.Duration) *Device {
	return &Device{
		port:   port,
		addr:   addr,
		settle: settle,
		sleep:  time.Sleep,
	}
}

// SetSleep replaces time.Sleep for the settle delay.
func (d *Device) SetSleep(fn func(time.Duration)) {
	d.sleep = fn
}

func (d *Device) Addr() uint16 { return d.addr }

func (d *Device) Settle() time.Duration { return d.settle }

// Write sends b as one transaction and then waits the settle delay, whether
// or not the transaction succeeded.
func (d *Device) Write(b []byte) error {
	err := d.port.tx(d.addr, b, nil)
	d.wait()
	if err != nil {
		return fmt.Errorf("addr=0x%02X write % X: %w: %v", d.addr, b, ErrBus, err)
	}
	return nil
}

// Read fills buf in one transaction and then waits the settle delay. periph.io
// reports a transfer as all-or-nothing, so a nil error always means len(buf)
// bytes.
func (d *Device) Read(buf []byte) (int, error) {
	err := d.port.tx(d.addr, nil, buf)
	d.wait()
	if err != nil {
		return 0, fmt.Errorf("addr=0x%02X read %d bytes: %w: %v", d.addr, len(buf), ErrBus, err)
	}
	return len(buf), nil
}

func (d *Device) wait() {
	if d.settle > 0 {
		d.sleep(d.settle)
	}
}
