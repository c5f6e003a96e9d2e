package printer

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

type Alignment byte

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return "left"
}

// Driver is an open connection to a receipt printer.
type Driver interface {
	SetAlignment(a Alignment) error
	WriteText(text string) error
	Cut() error
	Close() error
}

// Dialer opens a Driver for a single print job.
type Dialer interface {
	Dial(ctx context.Context) (Driver, error)
}

type DialerFunc func(ctx context.Context) (Driver, error)

func (f DialerFunc) Dial(ctx context.Context) (Driver, error) { return f(ctx) }

var (
	cmdInit    = []byte{0x1b, 0x40}
	cmdAlign   = []byte{0x1b, 0x61}
	cmdFeedCut = []byte{0x1b, 0x64, 0x06}
	cmdFullCut = []byte{0x1d, 0x56, 0x00}
)

// ESCPOS writes the minimal ESC/POS command set to an io.WriteCloser.
type ESCPOS struct {
	w io.WriteCloser
}

func NewESCPOS(w io.WriteCloser) (*ESCPOS, error) {
	if _, err := w.Write(cmdInit); err != nil {
		return nil, fmt.Errorf("failed to initialize printer: %w", err)
	}
	return &ESCPOS{w: w}, nil
}

func (p *ESCPOS) SetAlignment(a Alignment) error {
	_, err := p.w.Write(append(append([]byte{}, cmdAlign...), byte(a)))
	return err
}

func (p *ESCPOS) WriteText(text string) error {
	_, err := io.WriteString(p.w, text)
	return err
}

func (p *ESCPOS) Cut() error {
	if _, err := p.w.Write(cmdFeedCut); err != nil {
		return err
	}
	_, err := p.w.Write(cmdFullCut)
	return err
}

func (p *ESCPOS) Close() error {
	return p.w.Close()
}

type SerialConfig struct {
	Port     string
	BaudRate int
	Timeout  time.Duration
}

// SerialDialer opens the configured serial port for every job.
type SerialDialer struct {
	cfg SerialConfig
}

func NewSerialDialer(cfg SerialConfig) *SerialDialer {
	return &SerialDialer{cfg: cfg}
}

func (d *SerialDialer) Dial(ctx context.Context) (Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	port, err := serial.Open(d.cfg.Port, &serial.Mode{BaudRate: d.cfg.BaudRate})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", d.cfg.Port, err)
	}
	if d.cfg.Timeout > 0 {
		if err := port.SetReadTimeout(d.cfg.Timeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("failed to set read timeout: %w", err)
		}
	}

	drv, err := NewESCPOS(port)
	if err != nil {
		port.Close()
		return nil, err
	}
	return drv, nil
}
