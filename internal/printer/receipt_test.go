package printer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/gudang-pos/pkg/logger"
)

type call struct {
	op  string
	arg string
}

type fakeDriver struct {
	calls   *[]call
	failCut bool
}

func (d *fakeDriver) SetAlignment(a Alignment) error {
	*d.calls = append(*d.calls, call{"align", a.String()})
	return nil
}

func (d *fakeDriver) WriteText(text string) error {
	*d.calls = append(*d.calls, call{"text", text})
	return nil
}

func (d *fakeDriver) Cut() error {
	if d.failCut {
		return errors.New("paper jam")
	}
	*d.calls = append(*d.calls, call{"cut", ""})
	return nil
}

func (d *fakeDriver) Close() error {
	*d.calls = append(*d.calls, call{"close", ""})
	return nil
}

var fixedNow = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func TestRender(t *testing.T) {
	blocks := Render("Barang Gudang", []ReceiptLine{
		{Name: "Bolt", Stock: 10, Quantity: 5, Unit: "pcs"},
		{Name: "Cable", Stock: 3, Quantity: 2, Unit: "m"},
	}, fixedNow)

	want := "Barang Gudang\n2024-03-09 14:05\n\n5 pcs - Bolt\n2 m - Cable\n\nTotal Qty: 7\n"
	if got := Text(blocks); got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
	if blocks[0].Align != AlignCenter || blocks[2].Align != AlignLeft {
		t.Errorf("alignment = %v / %v", blocks[0].Align, blocks[2].Align)
	}
}

func TestPrintSendsLayoutAndCut(t *testing.T) {
	var calls []call
	dialer := DialerFunc(func(ctx context.Context) (Driver, error) {
		return &fakeDriver{calls: &calls}, nil
	})
	p := NewReceiptPrinter(dialer, Config{AppName: "Shop", RetryDelay: 0}, logger.NewNop())
	p.now = func() time.Time { return fixedNow }

	if !p.Print(context.Background(), []ReceiptLine{{Name: "Bolt", Quantity: 1, Unit: "pcs"}}) {
		t.Fatal("Print returned false")
	}

	var ops []string
	for _, c := range calls {
		if c.op == "align" {
			ops = append(ops, "align:"+c.arg)
		} else {
			ops = append(ops, c.op)
		}
	}
	want := "align:center,text,text,align:left,text,text,cut,close"
	if got := strings.Join(ops, ","); got != want {
		t.Errorf("ops = %s, want %s", got, want)
	}
}

func TestPrintRetriesOnce(t *testing.T) {
	var calls []call
	dials := 0
	dialer := DialerFunc(func(ctx context.Context) (Driver, error) {
		dials++
		if dials == 1 {
			return nil, errors.New("port busy")
		}
		return &fakeDriver{calls: &calls}, nil
	})
	p := NewReceiptPrinter(dialer, Config{AppName: "Shop"}, logger.NewNop())

	if !p.Print(context.Background(), nil) {
		t.Fatal("second attempt should succeed")
	}
	if dials != 2 {
		t.Errorf("dials = %d, want 2", dials)
	}
}

func TestPrintFailureNotifies(t *testing.T) {
	var calls []call
	dials := 0
	dialer := DialerFunc(func(ctx context.Context) (Driver, error) {
		dials++
		return &fakeDriver{calls: &calls, failCut: true}, nil
	})
	var title, msg string
	p := NewReceiptPrinter(dialer, Config{AppName: "Shop"}, logger.NewNop()).
		WithNotifier(NotifierFunc(func(t, m string) { title, msg = t, m }))

	if p.Print(context.Background(), []ReceiptLine{{Name: "Bolt", Quantity: 1, Unit: "pcs"}}) {
		t.Fatal("Print should fail")
	}
	if dials != DefaultAttempts {
		t.Errorf("dials = %d, want %d", dials, DefaultAttempts)
	}
	if title != "Print Error" || !strings.Contains(msg, "paper jam") {
		t.Errorf("notification = %q / %q", title, msg)
	}
	closes := 0
	for _, c := range calls {
		if c.op == "close" {
			closes++
		}
	}
	if closes != DefaultAttempts {
		t.Errorf("driver closed %d times, want %d", closes, DefaultAttempts)
	}
}

func TestPrintStopsRetryOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	dials := 0
	dialer := DialerFunc(func(context.Context) (Driver, error) {
		dials++
		cancel()
		return nil, errors.New("offline")
	})
	p := NewReceiptPrinter(dialer, Config{AppName: "Shop", RetryDelay: time.Hour}, logger.NewNop())

	done := make(chan bool)
	go func() { done <- p.Print(ctx, nil) }()

	select {
	case ok := <-done:
		if ok || dials != 1 {
			t.Errorf("ok = %v, dials = %d", ok, dials)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Print did not honour cancellation")
	}
}

type bufCloser struct {
	strings.Builder
	closed bool
}

func (b *bufCloser) Close() error {
	b.closed = true
	return nil
}

func TestESCPOSCommands(t *testing.T) {
	var out bufCloser
	drv, err := NewESCPOS(&out)
	if err != nil {
		t.Fatal(err)
	}
	_ = drv.SetAlignment(AlignCenter)
	_ = drv.WriteText("hi\n")
	_ = drv.Cut()
	_ = drv.Close()

	want := "\x1b@" + "\x1ba\x01" + "hi\n" + "\x1bd\x06" + "\x1dV\x00"
	if out.String() != want {
		t.Errorf("bytes = %q, want %q", out.String(), want)
	}
	if !out.closed {
		t.Error("writer not closed")
	}
}
