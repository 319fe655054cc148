package chain

import (
	"fmt"
	"math/big"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/yndnr/nftsnap/internal/core/domain"
)

// Stack is the result of a get-method call, top of stack last.
//
// Entries are *big.Int, *cell.Cell, *cell.Slice or nil.
type Stack []any

// Len returns the number of entries.
func (s Stack) Len() int {
	return len(s)
}

func (s Stack) at(i int) (any, error) {
	if i < 0 || i >= len(s) {
		return nil, domain.ErrMalformedStack.WithDetails(
			fmt.Sprintf("index %d out of range (len %d)", i, len(s)))
	}
	return s[i], nil
}

// IsNull reports whether entry i is null.
func (s Stack) IsNull(i int) bool {
	v, err := s.at(i)
	return err == nil && v == nil
}

// Int returns entry i as an integer.
func (s Stack) Int(i int) (*big.Int, error) {
	v, err := s.at(i)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*big.Int)
	if !ok {
		return nil, mismatch(i, "int", v)
	}
	return new(big.Int).Set(n), nil
}

// Cell returns entry i as a cell. Slices are converted to cells.
func (s Stack) Cell(i int) (*cell.Cell, error) {
	v, err := s.at(i)
	if err != nil {
		return nil, err
	}
	switch c := v.(type) {
	case *cell.Cell:
		return c, nil
	case *cell.Slice:
		out, err := c.Copy().ToCell()
		if err != nil {
			return nil, domain.ErrMalformedStack.WithDetails(fmt.Sprintf("index %d", i)).WithCause(err)
		}
		return out, nil
	default:
		return nil, mismatch(i, "cell", v)
	}
}

// Slice returns entry i as a fresh slice. Cells are opened for parsing.
func (s Stack) Slice(i int) (*cell.Slice, error) {
	v, err := s.at(i)
	if err != nil {
		return nil, err
	}
	switch c := v.(type) {
	case *cell.Slice:
		return c.Copy(), nil
	case *cell.Cell:
		return c.BeginParse(), nil
	default:
		return nil, mismatch(i, "slice", v)
	}
}

// Address loads a message address from the slice at entry i.
func (s Stack) Address(i int) (*address.Address, error) {
	sl, err := s.Slice(i)
	if err != nil {
		return nil, err
	}
	addr, err := sl.LoadAddr()
	if err != nil {
		return nil, domain.ErrMalformedStack.WithDetails(fmt.Sprintf("index %d: address", i)).WithCause(err)
	}
	return addr, nil
}

func mismatch(i int, want string, got any) error {
	return domain.ErrMalformedStack.WithDetails(fmt.Sprintf("index %d: want %s, got %T", i, want, got))
}
