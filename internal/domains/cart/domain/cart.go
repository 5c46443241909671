package domain

import "errors"

// ErrUnknownCommand is returned when Apply receives a command outside the
// closed set defined in this package.
var ErrUnknownCommand = errors.New("unknown cart command")

// Product is the catalog snapshot captured when an item enters the cart or
// the wishlist. Prices are integer COP.
type Product struct {
	ID        int64
	Name      string
	UnitPrice int64
	ImageRef  string
}

// Line is one cart entry with an aggregated quantity.
type Line struct {
	ProductID int64
	Name      string
	UnitPrice int64
	Quantity  int
	ImageRef  string
}

// WishlistEntry is one favorited product. No quantity.
type WishlistEntry struct {
	ProductID int64
	Name      string
	UnitPrice int64
	ImageRef  string
}

// Snapshot is the immutable cart/wishlist state. Commands produce a new
// snapshot; callers never mutate one in place.
type Snapshot struct {
	Lines    []Line
	Wishlist []WishlistEntry
}

// Command is the closed set of cart mutations. Each implementation is a
// value type applied through Apply.
type Command interface {
	isCommand()
}

// AddItem merges qty into an existing line for the product or appends a new
// one. A non-positive qty counts as 1.
type AddItem struct {
	Product  Product
	Quantity int
}

// RemoveItem drops the line for the product if present.
type RemoveItem struct {
	ProductID int64
}

// SetQuantity replaces a line's quantity; qty <= 0 removes the line.
type SetQuantity struct {
	ProductID int64
	Quantity  int
}

// Clear empties the cart. The wishlist is untouched.
type Clear struct{}

// AddWishlist favorites a product. Adding a duplicate leaves the snapshot
// unchanged.
type AddWishlist struct {
	Product Product
}

// RemoveWishlist unfavorites a product if present.
type RemoveWishlist struct {
	ProductID int64
}

func (AddItem) isCommand()        {}
func (RemoveItem) isCommand()     {}
func (SetQuantity) isCommand()    {}
func (Clear) isCommand()          {}
func (AddWishlist) isCommand()    {}
func (RemoveWishlist) isCommand() {}

// Apply runs one command against the snapshot and returns the resulting
// state. The receiver is never modified.
func (s Snapshot) Apply(cmd Command) (Snapshot, error) {
	switch c := cmd.(type) {
	case AddItem:
		return s.addItem(c), nil
	case RemoveItem:
		return s.withLines(removeLine(s.Lines, c.ProductID)), nil
	case SetQuantity:
		if c.Quantity <= 0 {
			return s.withLines(removeLine(s.Lines, c.ProductID)), nil
		}
		return s.withLines(setQuantity(s.Lines, c.ProductID, c.Quantity)), nil
	case Clear:
		return s.withLines(nil), nil
	case AddWishlist:
		return s.addWishlist(c.Product), nil
	case RemoveWishlist:
		return s.removeWishlist(c.ProductID), nil
	default:
		return s, ErrUnknownCommand
	}
}

// Total is the sum of unit price times quantity over all lines.
func (s Snapshot) Total() int64 {
	var total int64
	for _, line := range s.Lines {
		total += line.UnitPrice * int64(line.Quantity)
	}
	return total
}

// Count is the sum of quantities over all lines.
func (s Snapshot) Count() int {
	count := 0
	for _, line := range s.Lines {
		count += line.Quantity
	}
	return count
}

// Empty reports whether the cart holds no lines.
func (s Snapshot) Empty() bool { return len(s.Lines) == 0 }

// InWishlist reports whether the product is favorited.
func (s Snapshot) InWishlist(productID int64) bool {
	for _, entry := range s.Wishlist {
		if entry.ProductID == productID {
			return true
		}
	}
	return false
}

func (s Snapshot) addItem(cmd AddItem) Snapshot {
	qty := cmd.Quantity
	if qty <= 0 {
		qty = 1
	}
	lines := cloneLines(s.Lines)
	for i := range lines {
		if lines[i].ProductID == cmd.Product.ID {
			lines[i].Quantity += qty
			return s.withLines(lines)
		}
	}
	lines = append(lines, Line{
		ProductID: cmd.Product.ID,
		Name:      cmd.Product.Name,
		UnitPrice: cmd.Product.UnitPrice,
		Quantity:  qty,
		ImageRef:  cmd.Product.ImageRef,
	})
	return s.withLines(lines)
}

func (s Snapshot) addWishlist(product Product) Snapshot {
	if s.InWishlist(product.ID) {
		return s
	}
	wishlist := append(cloneWishlist(s.Wishlist), WishlistEntry{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		ImageRef:  product.ImageRef,
	})
	return Snapshot{Lines: s.Lines, Wishlist: wishlist}
}

func (s Snapshot) removeWishlist(productID int64) Snapshot {
	wishlist := make([]WishlistEntry, 0, len(s.Wishlist))
	for _, entry := range s.Wishlist {
		if entry.ProductID != productID {
			wishlist = append(wishlist, entry)
		}
	}
	return Snapshot{Lines: s.Lines, Wishlist: wishlist}
}

func (s Snapshot) withLines(lines []Line) Snapshot {
	return Snapshot{Lines: lines, Wishlist: s.Wishlist}
}

func removeLine(lines []Line, productID int64) []Line {
	out := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.ProductID != productID {
			out = append(out, line)
		}
	}
	return out
}

func setQuantity(lines []Line, productID int64, qty int) []Line {
	out := cloneLines(lines)
	for i := range out {
		if out[i].ProductID == productID {
			out[i].Quantity = qty
		}
	}
	return out
}

func cloneLines(lines []Line) []Line {
	return append([]Line(nil), lines...)
}

func cloneWishlist(entries []WishlistEntry) []WishlistEntry {
	return append([]WishlistEntry(nil), entries...)
}
