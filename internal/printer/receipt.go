package printer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/gudang-pos/internal/metrics"
	"github.com/fekuna/gudang-pos/pkg/logger"
	"go.uber.org/zap"
)

const (
	DefaultAttempts   = 2
	DefaultRetryDelay = time.Second

	timestampLayout = "2006-01-02 15:04"
)

// ReceiptLine is one printed body line. Stock is carried for callers but is
// not part of the layout.
type ReceiptLine struct {
	Name     string
	Stock    int
	Quantity int
	Unit     string
}

// Block is a run of text printed under one alignment.
type Block struct {
	Align Alignment
	Text  string
}

// Notifier surfaces a failure to whoever is operating the terminal.
type Notifier interface {
	Notify(title, message string)
}

type NotifierFunc func(title, message string)

func (f NotifierFunc) Notify(title, message string) { f(title, message) }

type Config struct {
	AppName    string
	Attempts   int
	RetryDelay time.Duration
}

type ReceiptPrinter struct {
	dialer     Dialer
	appName    string
	attempts   int
	retryDelay time.Duration

	logger   logger.ZapLogger
	notifier Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewReceiptPrinter(dialer Dialer, cfg Config, log logger.ZapLogger) *ReceiptPrinter {
	p := &ReceiptPrinter{
		dialer:     dialer,
		appName:    cfg.AppName,
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
		logger:     log,
		now:        time.Now,
	}
	if p.attempts <= 0 {
		p.attempts = DefaultAttempts
	}
	if p.retryDelay < 0 {
		p.retryDelay = DefaultRetryDelay
	}
	return p
}

func (p *ReceiptPrinter) WithNotifier(n Notifier) *ReceiptPrinter {
	p.notifier = n
	return p
}

func (p *ReceiptPrinter) WithMetrics(m *metrics.Metrics) *ReceiptPrinter {
	p.metrics = m
	return p
}

// Render lays out a receipt for lines printed at now.
func Render(appName string, lines []ReceiptLine, now time.Time) []Block {
	var body strings.Builder
	total := 0
	for _, l := range lines {
		fmt.Fprintf(&body, "%d %s - %s\n", l.Quantity, l.Unit, l.Name)
		total += l.Quantity
	}

	return []Block{
		{Align: AlignCenter, Text: appName + "\n"},
		{Align: AlignCenter, Text: now.Format(timestampLayout) + "\n\n"},
		{Align: AlignLeft, Text: body.String()},
		{Align: AlignLeft, Text: fmt.Sprintf("\nTotal Qty: %d\n", total)},
	}
}

// Text flattens blocks into the plain text that reaches the paper.
func Text(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(b.Text)
	}
	return sb.String()
}

// Print sends the receipt, retrying the whole job on failure. It reports
// success instead of an error; failures are logged and passed to the notifier.
func (p *ReceiptPrinter) Print(ctx context.Context, lines []ReceiptLine) bool {
	blocks := Render(p.appName, lines, p.now())

	var err error
retry:
	for attempt := 1; attempt <= p.attempts; attempt++ {
		err = p.printOnce(ctx, blocks)
		p.metrics.ObservePrint(err == nil)
		if err == nil {
			p.logger.Info("receipt printed", zap.Int("lines", len(lines)), zap.Int("attempt", attempt))
			return true
		}

		p.logger.Warn("print attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		if attempt == p.attempts {
			break
		}

		t := time.NewTimer(p.retryDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			err = errors.Join(err, ctx.Err())
			break retry
		case <-t.C:
		}
	}

	p.logger.Error("failed to print receipt", zap.Error(err))
	if p.notifier != nil {
		p.notifier.Notify("Print Error", fmt.Sprintf("Could not print:\n%v", err))
	}
	return false
}

func (p *ReceiptPrinter) printOnce(ctx context.Context, blocks []Block) (err error) {
	drv, err := p.dialer.Dial(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := drv.Close(); err == nil {
			err = cerr
		}
	}()

	align := Alignment(255)
	for _, b := range blocks {
		if b.Align != align {
			if err := drv.SetAlignment(b.Align); err != nil {
				return fmt.Errorf("set alignment: %w", err)
			}
			align = b.Align
		}
		if err := drv.WriteText(b.Text); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}
	if err := drv.Cut(); err != nil {
		return fmt.Errorf("cut: %w", err)
	}
	return nil
}
