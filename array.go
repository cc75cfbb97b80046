package jsbridge

import (
	"github.com/hostside/jsbridge/errors"
)

// Array refines Object with integer-indexed access. The array is
// engine-owned: its length is read from the length property at call time,
// never cached, so it may change between calls if script code mutates the
// array.
type Array struct {
	Object
}

// NewArray creates a new array with length undefined elements.
func NewArray(c *Context, length int64) Array {
	return Array{Object{h: c.wrap(c.adapter.CreateArray(length))}}
}

// NewArrayWith creates an array from the given elements, each converted
// through the same rules as SetProperty.
func NewArrayWith(c *Context, elements ...any) (Array, error) {
	arr := NewArray(c, int64(len(elements)))
	for i, el := range elements {
		if err := arr.SetIndex(c, int64(i), el); err != nil {
			arr.Release(c)
			return Array{}, err
		}
	}
	return arr, nil
}

// Length returns the array's current length property.
func (a Array) Length(c *Context) (int64, error) {
	return c.adapter.ArrayLength(a.h.checkRef(c, "array"))
}

// GetIndex returns the element at index i, raising a catchable range error
// when i falls outside [0, length).
func (a Array) GetIndex(c *Context, i int64) (Value, error) {
	if err := a.checkIndex(c, i); err != nil {
		return Undefined(), err
	}
	raw, err := c.adapter.GetIndex(a.h.checkRef(c, "array"), i)
	if err != nil {
		return Undefined(), err
	}
	return c.Adopt(raw), nil
}

// SetIndex sets the element at index i from a Value or anything
// convertible to one, raising a catchable range error when i falls
// outside [0, length).
func (a Array) SetIndex(c *Context, i int64, value any) error {
	if err := a.checkIndex(c, i); err != nil {
		return err
	}
	v := ToValue(c, value)
	defer v.Release(c)
	return c.adapter.SetIndex(a.h.checkRef(c, "array"), i, c.Raw(v))
}

// checkIndex validates i against the length read now, not a cached one.
func (a Array) checkIndex(c *Context, i int64) error {
	length, err := a.Length(c)
	if err != nil {
		return err
	}
	if i < 0 || i >= length {
		return errors.OutOfRange(i, length)
	}
	return nil
}
