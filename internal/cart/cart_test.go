package cart

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"3", 3, false},
		{" 12 ", 12, false},
		{"0", 0, false},
		{"-1", 0, true},
		{"1.5", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseQuantity(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseQuantity(%q) err = %v", tt.in, err)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("ParseQuantity(%q) err = %v, want ErrInvalidQuantity", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseQuantity(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if n, err := ParseEditQuantity("-4"); err != nil || n != -4 {
		t.Errorf("ParseEditQuantity(-4) = %d, %v", n, err)
	}
	if _, err := ParseEditQuantity("x"); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("ParseEditQuantity(x) err = %v", err)
	}
}

func TestAddMergesByExactName(t *testing.T) {
	c := New()
	c.Add("Bolt", 10, 3, "pcs")
	c.Add("Bolt", 7, 2, "pcs")
	c.Add("bolt", 1, 1, "pcs")

	want := []Line{
		{Name: "Bolt", Stock: 10, Quantity: 5, Unit: "pcs"},
		{Name: "bolt", Stock: 1, Quantity: 1, Unit: "pcs"},
	}
	if got := c.Lines(); !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %+v, want %+v", got, want)
	}
	if c.TotalQuantity() != 6 || c.Len() != 2 {
		t.Errorf("total = %d, len = %d", c.TotalQuantity(), c.Len())
	}
}

func TestSetQuantity(t *testing.T) {
	tests := []struct {
		name    string
		qty     int
		wantLen int
		wantQty int
	}{
		{"update in place", 8, 1, 8},
		{"zero removes", 0, 0, 0},
		{"negative removes", -3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.Add("Nut", 5, 1, "pcs")
			if err := c.SetQuantity("Nut", tt.qty); err != nil {
				t.Fatal(err)
			}
			if c.Len() != tt.wantLen {
				t.Fatalf("len = %d, want %d", c.Len(), tt.wantLen)
			}
			if l, ok := c.Find("Nut"); ok && l.Quantity != tt.wantQty {
				t.Errorf("qty = %d, want %d", l.Quantity, tt.wantQty)
			}
		})
	}

	if err := New().SetQuantity("ghost", 1); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("err = %v, want ErrLineNotFound", err)
	}
}

func TestRemoveAndClear(t *testing.T) {
	c := New()
	c.Add("A", 1, 1, "pcs")
	c.Add("B", 1, 1, "pcs")
	c.Add("C", 1, 1, "pcs")

	if err := c.Remove("B"); err != nil {
		t.Fatal(err)
	}
	if got := c.Lines(); len(got) != 2 || got[0].Name != "A" || got[1].Name != "C" {
		t.Errorf("lines = %+v", got)
	}
	if err := c.Remove("B"); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("err = %v", err)
	}
	c.Clear()
	if c.Len() != 0 || c.TotalQuantity() != 0 {
		t.Error("cart not cleared")
	}
}

func TestRemaining(t *testing.T) {
	if got := (Line{Stock: 10, Quantity: 3}).Remaining(); got != 7 {
		t.Errorf("Remaining = %d", got)
	}
}
