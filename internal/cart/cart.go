// Package cart holds the order being composed at the POS before it is sent to
// the backend. Cart values are snapshots: every operation returns a new Cart
// and leaves the receiver untouched. Totals are computed from the lines on
// each read.
package cart

import (
	"github.com/shopspring/decimal"

	"restopos/internal/domain"
)

var TaxRate = decimal.NewFromFloat(0.10)

type Line struct {
	ItemID    int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Notes     string
}

func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	lines        []Line
	orderType    domain.OrderType
	tableID      *int64
	customerName string
	discount     decimal.Decimal
}

// CustomerInfo fields left nil are not touched by SetCustomerInfo.
// ClearTable unsets the table and wins over TableID.
type CustomerInfo struct {
	TableID      *int64
	ClearTable   bool
	CustomerName *string
}

func New() Cart {
	return Cart{orderType: domain.OrderTypeDineIn}
}

func (c Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c Cart) OrderType() domain.OrderType { return c.orderType }

func (c Cart) TableID() (int64, bool) {
	if c.tableID == nil {
		return 0, false
	}
	return *c.tableID, true
}

func (c Cart) CustomerName() string { return c.customerName }

func (c Cart) Discount() decimal.Decimal { return c.discount }

func (c Cart) IsEmpty() bool { return len(c.lines) == 0 }

// NeedsTable is true when the cart cannot be checked out until a table is picked.
func (c Cart) NeedsTable() bool {
	return c.orderType == domain.OrderTypeDineIn && c.tableID == nil
}

func (c Cart) index(itemID int64) int {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

func (c Cart) withLines(lines []Line) Cart {
	c.lines = lines
	return c
}

func (c Cart) AddItem(item domain.MenuItem) Cart {
	lines := c.Lines()
	if i := c.index(item.ID); i >= 0 {
		lines[i].Quantity++
		return c.withLines(lines)
	}
	return c.withLines(append(lines, Line{
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.Price,
		Quantity:  1,
	}))
}

func (c Cart) RemoveItem(itemID int64) Cart {
	i := c.index(itemID)
	if i < 0 {
		return c
	}
	lines := make([]Line, 0, len(c.lines)-1)
	lines = append(lines, c.lines[:i]...)
	lines = append(lines, c.lines[i+1:]...)
	return c.withLines(lines)
}

// SetQuantity removes the line when quantity < 1. Unknown items are ignored.
func (c Cart) SetQuantity(itemID int64, quantity int) Cart {
	if quantity < 1 {
		return c.RemoveItem(itemID)
	}
	i := c.index(itemID)
	if i < 0 {
		return c
	}
	lines := c.Lines()
	lines[i].Quantity = quantity
	return c.withLines(lines)
}

func (c Cart) SetLineNotes(itemID int64, notes string) Cart {
	i := c.index(itemID)
	if i < 0 {
		return c
	}
	lines := c.Lines()
	lines[i].Notes = notes
	return c.withLines(lines)
}

// SetOrderType drops the table for anything but dine-in.
func (c Cart) SetOrderType(t domain.OrderType) Cart {
	c.orderType = t
	if t != domain.OrderTypeDineIn {
		c.tableID = nil
	}
	return c
}

// SetCustomerInfo ignores a table for anything but dine-in.
func (c Cart) SetCustomerInfo(info CustomerInfo) Cart {
	switch {
	case info.ClearTable:
		c.tableID = nil
	case info.TableID != nil && c.orderType == domain.OrderTypeDineIn:
		id := *info.TableID
		c.tableID = &id
	}
	if info.CustomerName != nil {
		c.customerName = *info.CustomerName
	}
	return c
}

// SetDiscount stores amount as given; Total may go negative.
func (c Cart) SetDiscount(amount decimal.Decimal) Cart {
	c.discount = amount
	return c
}

func (c Cart) Clear() Cart {
	return New()
}

func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.Amount())
	}
	return sum
}

func (c Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(TaxRate)
}

func (c Cart) Total() decimal.Decimal {
	return c.Subtotal().Add(c.Tax()).Sub(c.discount)
}

// PayableTotal is the total shown at the payment step, never below zero.
func (c Cart) PayableTotal() decimal.Decimal {
	return decimal.Max(c.Total(), decimal.Zero)
}

// Quantity is the line quantity for itemID, 0 when it is not in the cart.
func (c Cart) Quantity(itemID int64) int {
	if i := c.index(itemID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Change is max(paid - payable total, 0).
func (c Cart) Change(paid decimal.Decimal) decimal.Decimal {
	return decimal.Max(paid.Sub(c.PayableTotal()), decimal.Zero)
}
