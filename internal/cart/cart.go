// Package cart holds the in-progress checkout lines of a POS session.
package cart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrLineNotFound    = errors.New("cart line not found")
)

// Line is one cart entry. Stock is the store value seen when the item was
// first added.
type Line struct {
	Name     string `json:"name"`
	Stock    int    `json:"stock"`
	Quantity int    `json:"quantity"`
	Unit     string `json:"unit"`
}

// Remaining is the stock left once this line is checked out.
func (l Line) Remaining() int {
	return l.Stock - l.Quantity
}

// ParseQuantity accepts a non-negative integer.
func ParseQuantity(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a non-negative integer", ErrInvalidQuantity, text)
	}
	return n, nil
}

// ParseEditQuantity accepts any integer; zero or less means removal.
func ParseEditQuantity(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidQuantity, text)
	}
	return n, nil
}

type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add merges into the line with the same name or appends a new one.
func (c *Cart) Add(name string, stock, qty int, unit string) Line {
	for i := range c.lines {
		if c.lines[i].Name == name {
			c.lines[i].Quantity += qty
			return c.lines[i]
		}
	}
	l := Line{Name: name, Stock: stock, Quantity: qty, Unit: unit}
	c.lines = append(c.lines, l)
	return l
}

// SetQuantity overwrites a line's quantity; qty <= 0 removes the line.
func (c *Cart) SetQuantity(name string, qty int) error {
	i := c.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrLineNotFound, name)
	}
	if qty <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return nil
	}
	c.lines[i].Quantity = qty
	return nil
}

func (c *Cart) Remove(name string) error {
	i := c.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrLineNotFound, name)
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

func (c *Cart) Find(name string) (Line, bool) {
	if i := c.index(name); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

func (c *Cart) index(name string) int {
	for i := range c.lines {
		if c.lines[i].Name == name {
			return i
		}
	}
	return -1
}
