package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fekuna/gudang-pos/internal/cart"
	"github.com/fekuna/gudang-pos/internal/pos"
	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	msgInvalidQtyNonNeg = "Please enter a valid non-negative integer for quantity."
	msgInvalidQtyInt    = "Please enter a valid integer quantity."
	msgNotFound         = "No item found matching: %s"
	msgPrintConfirm     = "Print the receipt and update stock?"
	msgClearConfirm     = "Clear all items from the cart?"
)

// ErrQuit is returned by Execute when the operator asks to leave.
var ErrQuit = errors.New("quit")

// Confirm asks the operator a yes/no question.
type Confirm func(question string) bool

// Shell turns operator commands into session calls and renders the result.
type Shell struct {
	uc      pos.UseCase
	out     io.Writer
	confirm Confirm
}

func New(uc pos.UseCase, out io.Writer, confirm Confirm) *Shell {
	return &Shell{uc: uc, out: out, confirm: confirm}
}

func (s *Shell) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "add", "a":
		return s.add(ctx, args)
	case "find", "f":
		s.find(strings.Join(args, " "))
	case "qty", "q":
		return s.editQuantity(ctx, args)
	case "rm", "remove":
		return s.remove(ctx, strings.Join(args, " "))
	case "clear":
		if len(s.uc.Cart()) == 0 {
			fmt.Fprintln(s.out, "Cart is already empty.")
			return nil
		}
		if s.confirm(msgClearConfirm) {
			s.uc.ClearCart(ctx)
			s.renderCart()
		}
	case "print", "p":
		return s.checkout(ctx)
	case "cart", "c":
		s.renderCart()
	case "list", "ls":
		s.renderStock()
	case "help", "h", "?":
		s.help()
	case "quit", "exit":
		return ErrQuit
	default:
		fmt.Fprintf(s.out, "Unknown command %q, type 'help'.\n", cmd)
	}
	return nil
}

// add handles "add [qty] <keyword>"; the quantity defaults to 1.
func (s *Shell) add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "usage: add [qty] <keyword>")
		return nil
	}
	qty := "1"
	if len(args) > 1 && isNumeric(args[0]) {
		qty, args = args[0], args[1:]
	}
	keyword := strings.Join(args, " ")

	_, err := s.uc.AddToCart(ctx, keyword, qty)
	switch {
	case errors.Is(err, pos.ErrNotFound):
		fmt.Fprintf(s.out, msgNotFound+"\n", keyword)
		return nil
	case errors.Is(err, cart.ErrInvalidQuantity):
		fmt.Fprintln(s.out, msgInvalidQtyNonNeg)
		return nil
	case err != nil:
		return err
	}
	s.renderCart()
	return nil
}

func (s *Shell) find(keyword string) {
	names := s.uc.Suggest(keyword)
	if len(names) == 0 {
		fmt.Fprintf(s.out, msgNotFound+"\n", keyword)
		return
	}
	for _, n := range names {
		fmt.Fprintln(s.out, "  "+n)
	}
}

// editQuantity handles "qty <name> <n>". The name may contain spaces.
func (s *Shell) editQuantity(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "usage: qty <name> <n>")
		return nil
	}
	name := strings.Join(args[:len(args)-1], " ")
	err := s.uc.EditQuantity(ctx, name, args[len(args)-1])
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		fmt.Fprintln(s.out, msgInvalidQtyInt)
		return nil
	case errors.Is(err, cart.ErrLineNotFound):
		fmt.Fprintf(s.out, "%q is not in the cart.\n", name)
		return nil
	case err != nil:
		return err
	}
	s.renderCart()
	return nil
}

func (s *Shell) remove(ctx context.Context, name string) error {
	if err := s.uc.RemoveLine(ctx, name); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			fmt.Fprintf(s.out, "%q is not in the cart.\n", name)
			return nil
		}
		return err
	}
	s.renderCart()
	return nil
}

func (s *Shell) checkout(ctx context.Context) error {
	if len(s.uc.Cart()) == 0 {
		fmt.Fprintln(s.out, "Cart is empty.")
		return nil
	}
	res, err := s.uc.Checkout(ctx, s.confirm(msgPrintConfirm))
	switch {
	case errors.Is(err, pos.ErrNotConfirmed):
		return nil
	case errors.Is(err, pos.ErrInsufficientStock):
		fmt.Fprintf(s.out, "Not printed: %v\n", err)
		return nil
	case errors.Is(err, pos.ErrPrintFailed):
		fmt.Fprintln(s.out, "Receipt was not printed, stock is unchanged.")
		return nil
	case errors.Is(err, pos.ErrPersistFailed):
		fmt.Fprintf(s.out, "Receipt printed but stock could not be saved: %v\n", err)
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintf(s.out, "Printed %d line(s), total qty %d.\n", len(res.Lines), res.TotalQuantity)
	return nil
}

func (s *Shell) renderCart() {
	lines := s.uc.Cart()
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "Cart is empty.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(s.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Item", "Stock", "Qty", "Unit"})
	total := 0
	for i, l := range lines {
		t.AppendRow(table.Row{i + 1, l.Name, l.Stock, l.Quantity, l.Unit})
		total += l.Quantity
	}
	t.AppendFooter(table.Row{"", "Total", "", total, ""})
	t.Render()
}

func (s *Shell) renderStock() {
	rows := s.uc.Stock()
	t := table.NewWriter()
	t.SetOutputMirror(s.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Item", "Stock", "Unit"})
	for _, r := range rows {
		t.AppendRow(table.Row{r.Name, r.Stock, r.Unit})
	}
	t.Render()
}

func (s *Shell) help() {
	fmt.Fprint(s.out, `Commands:
  add [qty] <keyword>   add the first matching item (qty defaults to 1)
  find <keyword>        list matching items
  qty <name> <n>        set a cart line quantity, 0 or less removes it
  rm <name>             remove a cart line
  clear                 empty the cart
  print                 print the receipt and update stock
  cart                  show the cart
  list                  show the inventory
  quit                  leave the shell
`)
}

func isNumeric(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
