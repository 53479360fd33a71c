package tensor

import "math"

// epsilon is the norm floor below which a vector is treated as the zero
// vector rather than normalized, preserving the unit-vector invariant.
const epsilon = 1e-8

// sanitize returns x, or 0 if x is not finite: NaN/Inf inputs are silently
// zeroed, never an error.
func sanitize(x float32) float32 {
	f := float64(x)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return x
}

// L2Normalize returns a unit-length copy of t. Non-finite elements are
// sanitized to zero before normalizing. If the resulting norm is below
// epsilon (or non-finite), the zero tensor of the same shape is returned.
func L2Normalize(t Tensor) Tensor {
	out := t.Clone()
	var sumSq float64
	for i, x := range out.data {
		x = sanitize(x)
		out.data[i] = x
		sumSq += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSq)
	if math.IsNaN(norm) || math.IsInf(norm, 0) || norm < epsilon {
		for i := range out.data {
			out.data[i] = 0
		}
		return out
	}
	inv := float32(1.0 / norm)
	for i := range out.data {
		out.data[i] *= inv
	}
	return out
}

// Norm returns the Euclidean norm of t, sanitizing non-finite elements to
// zero first.
func Norm(t Tensor) float64 {
	var sumSq float64
	for _, x := range t.data {
		x = sanitize(x)
		sumSq += float64(x) * float64(x)
	}
	return math.Sqrt(sumSq)
}

// Bind returns the elementwise product of a and b. Commutative, and
// approximately self-inverse for ±1 hypervectors: Bind(Bind(a,b),b) ≈ a.
// Panics if a and b do not share the same element count.
func Bind(a, b Tensor) Tensor {
	requireSameLen(a, b)
	out := New(a.shape...)
	for i := range out.data {
		out.data[i] = sanitize(a.data[i]) * sanitize(b.data[i])
	}
	return out
}

// Bundle returns the elementwise sum of vecs, L2-normalized unless
// normalize is false. Panics if any operand's element count differs from
// the first, or if vecs is empty.
func Bundle(normalize bool, vecs ...Tensor) Tensor {
	if len(vecs) == 0 {
		panic("tensor: Bundle requires at least one operand")
	}
	for _, v := range vecs[1:] {
		requireSameLen(vecs[0], v)
	}
	out := New(vecs[0].shape...)
	for _, v := range vecs {
		for i, x := range v.data {
			out.data[i] += sanitize(x)
		}
	}
	if normalize {
		return L2Normalize(out)
	}
	return out
}

// Scale returns t with every element multiplied by s.
func Scale(t Tensor, s float64) Tensor {
	out := t.Clone()
	f := float32(s)
	for i, x := range out.data {
		out.data[i] = sanitize(x) * f
	}
	return out
}

// Sub returns the elementwise difference a-b, the kernel's geometric gap
// operation for anomaly detection. Panics on element-count mismatch.
func Sub(a, b Tensor) Tensor {
	requireSameLen(a, b)
	out := New(a.shape...)
	for i := range out.data {
		out.data[i] = sanitize(a.data[i]) - sanitize(b.data[i])
	}
	return out
}

// Permute circularly rotates t's buffer destination-wise by k positions:
// result[(i+k) mod n] = t[i]. Negative k and |k| > n are handled by modular
// wraparound; k == 0 returns a copy. The shape is preserved.
func Permute(t Tensor, k int) Tensor {
	n := len(t.data)
	out := New(t.shape...)
	if n == 0 {
		return out
	}
	m := k % n
	if m < 0 {
		m += n
	}
	for i, x := range t.data {
		out.data[(i+m)%n] = x
	}
	return out
}

// Cosine returns the cosine similarity between a and b, clamped to
// [-1, 1]. Returns 0 if either operand's norm is at or below epsilon.
// Panics on element-count mismatch, like the other algebra ops.
func Cosine(a, b Tensor) float64 {
	requireSameLen(a, b)
	var dot, na, nb float64
	for i := range a.data {
		x := float64(sanitize(a.data[i]))
		y := float64(sanitize(b.data[i]))
		dot += x * y
		na += x * x
		nb += y * y
	}
	na = math.Sqrt(na)
	nb = math.Sqrt(nb)
	if na <= epsilon || nb <= epsilon {
		return 0
	}
	c := dot / (na * nb)
	if c > 1 {
		return 1
	}
	if c < -1 {
		return -1
	}
	return c
}
