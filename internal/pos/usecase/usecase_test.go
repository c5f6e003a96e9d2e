package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/fekuna/gudang-pos/internal/cart"
	invrepo "github.com/fekuna/gudang-pos/internal/inventory/repository"
	"github.com/fekuna/gudang-pos/internal/pos"
	"github.com/fekuna/gudang-pos/internal/printer"
	"github.com/fekuna/gudang-pos/pkg/logger"
)

type fakePrinter struct {
	ok      bool
	printed [][]printer.ReceiptLine
}

func (p *fakePrinter) Print(ctx context.Context, lines []printer.ReceiptLine) bool {
	p.printed = append(p.printed, lines)
	return p.ok
}

type failingSave struct {
	*invrepo.CSVRepository
}

func (failingSave) Save(ctx context.Context) error {
	return errors.New("disk full")
}

func newStore(t *testing.T, content string) *invrepo.CSVRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "barang.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	store := invrepo.NewCSVRepository(path, "pcs", logger.NewNop())
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return store
}

func reloadStock(t *testing.T, path, name string) int {
	t.Helper()
	store := invrepo.NewCSVRepository(path, "pcs", logger.NewNop())
	if err := store.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	row, ok := store.GetByName(name)
	if !ok {
		t.Fatalf("%s missing after reload", name)
	}
	return row.Stock
}

func TestCheckoutDeductsAndPersists(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "Item,Stock,Unit\nBolt,10,pcs\n")
	prn := &fakePrinter{ok: true}
	uc := NewPOSUseCase(pos.Components{Inventory: store, Printer: prn, DefaultUnit: "pcs"}, logger.NewNop(), nil)

	if _, err := uc.AddToCart(ctx, "Bolt", "3"); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.AddToCart(ctx, "bolt", "2"); err != nil {
		t.Fatal(err)
	}
	want := []cart.Line{{Name: "Bolt", Stock: 10, Quantity: 5, Unit: "pcs"}}
	if got := uc.Cart(); !reflect.DeepEqual(got, want) {
		t.Fatalf("cart = %+v, want %+v", got, want)
	}

	res, err := uc.Checkout(ctx, true)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.TotalQuantity != 5 || len(res.Updates) != 1 || res.Updates[0].After != 5 {
		t.Errorf("result = %+v", res)
	}
	if len(prn.printed) != 1 || prn.printed[0][0].Quantity != 5 {
		t.Errorf("printed = %+v", prn.printed)
	}
	if len(uc.Cart()) != 0 {
		t.Error("cart should be cleared")
	}
	if got := reloadStock(t, store.Path(), "Bolt"); got != 5 {
		t.Errorf("stored stock = %d, want 5", got)
	}
}

func TestCheckoutPrintFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "Item,Stock,Unit\nBolt,10,pcs\n")
	uc := NewPOSUseCase(pos.Components{Inventory: store, Printer: &fakePrinter{ok: false}}, logger.NewNop(), nil)

	if _, err := uc.AddToCart(ctx, "Bolt", "4"); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Checkout(ctx, true); !errors.Is(err, pos.ErrPrintFailed) {
		t.Fatalf("err = %v, want ErrPrintFailed", err)
	}
	if len(uc.Cart()) != 1 {
		t.Error("cart should be kept after a print failure")
	}
	if row, _ := store.GetByName("Bolt"); row.Stock != 10 {
		t.Errorf("in-memory stock = %d, want 10", row.Stock)
	}
	if got := reloadStock(t, store.Path(), "Bolt"); got != 10 {
		t.Errorf("stored stock = %d, want 10", got)
	}
}

func TestCheckoutPersistFailureClearsCart(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "Item,Stock,Unit\nBolt,10,pcs\n")
	uc := NewPOSUseCase(pos.Components{Inventory: failingSave{store}, Printer: &fakePrinter{ok: true}}, logger.NewNop(), nil)

	if _, err := uc.AddToCart(ctx, "Bolt", "1"); err != nil {
		t.Fatal(err)
	}
	res, err := uc.Checkout(ctx, true)
	if !errors.Is(err, pos.ErrPersistFailed) {
		t.Fatalf("err = %v, want ErrPersistFailed", err)
	}
	if res == nil || res.TotalQuantity != 1 {
		t.Errorf("result = %+v", res)
	}
	if len(uc.Cart()) != 0 {
		t.Error("cart should be cleared once the receipt is printed")
	}
	if row, _ := store.GetByName("Bolt"); row.Stock != 9 {
		t.Errorf("in-memory stock = %d, want 9", row.Stock)
	}
}

func TestCheckoutGuards(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "Item,Stock,Unit\nBolt,2,pcs\n")
	prn := &fakePrinter{ok: true}
	uc := NewPOSUseCase(pos.Components{Inventory: store, Printer: prn}, logger.NewNop(), nil)

	if _, err := uc.Checkout(ctx, true); !errors.Is(err, pos.ErrEmptyCart) {
		t.Errorf("empty cart err = %v", err)
	}
	if _, err := uc.AddToCart(ctx, "Bolt", "3"); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Checkout(ctx, false); !errors.Is(err, pos.ErrNotConfirmed) {
		t.Errorf("unconfirmed err = %v", err)
	}
	if _, err := uc.Checkout(ctx, true); !errors.Is(err, pos.ErrInsufficientStock) {
		t.Errorf("oversell err = %v", err)
	}
	if len(prn.printed) != 0 {
		t.Error("nothing should be printed when checkout is refused")
	}
	if len(uc.Cart()) != 1 {
		t.Error("cart should survive a refused checkout")
	}
}

func TestAddToCartErrors(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "Item,Stock,Unit\nBolt,2,pcs\n")
	uc := NewPOSUseCase(pos.Components{Inventory: store, Printer: &fakePrinter{}}, logger.NewNop(), nil)

	if _, err := uc.AddToCart(ctx, "washer", "1"); !errors.Is(err, pos.ErrNotFound) {
		t.Errorf("not found err = %v", err)
	}
	if _, err := uc.AddToCart(ctx, "", "1"); !errors.Is(err, pos.ErrNotFound) {
		t.Errorf("blank keyword err = %v", err)
	}
	for _, q := range []string{"-1", "x", "2.5"} {
		if _, err := uc.AddToCart(ctx, "bolt", q); !errors.Is(err, cart.ErrInvalidQuantity) {
			t.Errorf("qty %q err = %v", q, err)
		}
	}
	if len(uc.Cart()) != 0 {
		t.Error("failed adds must not touch the cart")
	}
}

func TestEditAndRemove(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "Item,Stock,Unit\nBolt,10,pcs\nNut,5,pcs\n")
	uc := NewPOSUseCase(pos.Components{Inventory: store, Printer: &fakePrinter{}}, logger.NewNop(), nil)

	_, _ = uc.AddToCart(ctx, "Bolt", "1")
	_, _ = uc.AddToCart(ctx, "Nut", "1")

	if err := uc.EditQuantity(ctx, "Bolt", "7"); err != nil {
		t.Fatal(err)
	}
	if err := uc.EditQuantity(ctx, "Nut", "0"); err != nil {
		t.Fatal(err)
	}
	want := []cart.Line{{Name: "Bolt", Stock: 10, Quantity: 7, Unit: "pcs"}}
	if got := uc.Cart(); !reflect.DeepEqual(got, want) {
		t.Errorf("cart = %+v", got)
	}
	if err := uc.EditQuantity(ctx, "Bolt", "lots"); !errors.Is(err, cart.ErrInvalidQuantity) {
		t.Errorf("err = %v", err)
	}
	if err := uc.RemoveLine(ctx, "Bolt"); err != nil {
		t.Fatal(err)
	}
	if err := uc.RemoveLine(ctx, "Bolt"); !errors.Is(err, cart.ErrLineNotFound) {
		t.Errorf("err = %v", err)
	}

	_, _ = uc.AddToCart(ctx, "Nut", "1")
	uc.ClearCart(ctx)
	if len(uc.Cart()) != 0 {
		t.Error("ClearCart left lines")
	}
}

func TestReloadKeepsCart(t *testing.T) {
	ctx := context.Background()
	first := newStore(t, "Item,Stock,Unit\nBolt,10,pcs\n")
	second := newStore(t, "Item,Stock,Unit\nCable,3,m\n")
	uc := NewPOSUseCase(pos.Components{Inventory: first, Printer: &fakePrinter{}}, logger.NewNop(), nil)

	_, _ = uc.AddToCart(ctx, "Bolt", "1")
	uc.Reload(pos.Components{Inventory: second, Printer: &fakePrinter{}})

	if got := uc.Suggest("cab"); !reflect.DeepEqual(got, []string{"Cable"}) {
		t.Errorf("Suggest after reload = %v", got)
	}
	if len(uc.Cart()) != 1 {
		t.Error("reload should keep the cart")
	}
}

func TestConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "Item,Stock,Unit\nBolt,1000,pcs\n")
	uc := NewPOSUseCase(pos.Components{Inventory: store, Printer: &fakePrinter{}}, logger.NewNop(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.AddToCart(ctx, "Bolt", "1")
		}()
	}
	wg.Wait()

	if got := uc.Cart(); len(got) != 1 || got[0].Quantity != 50 {
		t.Errorf("cart = %+v", got)
	}
}
