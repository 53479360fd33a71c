// Package tensor implements the fixed-length real-vector algebra the rest of
// hdkernel is built on: unit-length hyperdimensional vectors combined by
// bind (elementwise product), bundle (normalized sum), permute (circular
// rotation), and compared by cosine similarity.
//
// Tensor is a small value type: a logical shape plus a contiguous []float32
// buffer, where product(shape) == len(buffer). All algebra operations treat
// the buffer as flat and require operands to share the same element count;
// a mismatch is a caller contract violation and panics, matching the rest of
// this module's error-handling discipline.
package tensor

import "fmt"

// Tensor is an immutable-by-convention fixed-length real vector: a logical
// shape plus a contiguous buffer. Callers must not mutate Data() in place;
// use Clone to obtain an independent copy before mutating.
type Tensor struct {
	shape []int
	data  []float32
}

// New returns a zero-valued Tensor with the given shape. An empty shape (no
// dims, or a shape containing a 0) yields the empty tensor.
func New(shape ...int) Tensor {
	s := append([]int(nil), shape...)
	n := product(s)
	return Tensor{shape: s, data: make([]float32, n)}
}

// FromData builds a Tensor from shape and data. Panics if product(shape) !=
// len(data) (dimension_mismatch contract violation).
func FromData(shape []int, data []float32) Tensor {
	s := append([]int(nil), shape...)
	n := product(s)
	if n != len(data) {
		panic(fmt.Sprintf("tensor: dimension_mismatch: shape %v implies %d elements, got %d", s, n, len(data)))
	}
	buf := make([]float32, len(data))
	copy(buf, data)
	return Tensor{shape: s, data: buf}
}

// FromFlat builds a 1-D Tensor of length len(data).
func FromFlat(data []float32) Tensor {
	return FromData([]int{len(data)}, data)
}

// Shape returns a defensive copy of the tensor's logical shape.
func (t Tensor) Shape() []int { return append([]int(nil), t.shape...) }

// Len returns the number of elements in the tensor's buffer.
func (t Tensor) Len() int { return len(t.data) }

// IsEmpty reports whether the tensor holds zero elements.
func (t Tensor) IsEmpty() bool { return len(t.data) == 0 }

// Data returns a defensive copy of the tensor's buffer.
func (t Tensor) Data() []float32 { return append([]float32(nil), t.data...) }

// At returns the element at flat index i.
func (t Tensor) At(i int) float32 { return t.data[i] }

// Clone returns an independent copy of t.
func (t Tensor) Clone() Tensor {
	return Tensor{shape: append([]int(nil), t.shape...), data: append([]float32(nil), t.data...)}
}

// Flatten reshapes t to a single dimension without reallocating the buffer.
func (t Tensor) Flatten() Tensor {
	return Tensor{shape: []int{len(t.data)}, data: t.data}
}

// SameLen reports whether t and other hold the same number of elements.
func (t Tensor) SameLen(other Tensor) bool { return len(t.data) == len(other.data) }

func product(shape []int) int {
	n := 1
	for _, d := range shape {
		if d < 0 {
			panic("tensor: shape dimensions must be non-negative")
		}
		n *= d
	}
	if len(shape) == 0 {
		return 0
	}
	return n
}

func requireSameLen(a, b Tensor) {
	if len(a.data) != len(b.data) {
		panic(fmt.Sprintf("tensor: dimension_mismatch: %d vs %d elements", len(a.data), len(b.data)))
	}
}
