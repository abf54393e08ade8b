package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// DensityMatrix is a dense Hermitian matrix over a subsystem basis.
type DensityMatrix [][]complex128

// Reduced traces out every qubit not listed in keep and returns the
// reduced density matrix over the kept qubits. keep must name one or
// two distinct qubits; the first kept qubit is the least significant
// bit of the reduced basis.
func (v StateVector) Reduced(keep ...int) (DensityMatrix, error) {
	n := v.NumQubits()
	if len(keep) < 1 || len(keep) > 2 {
		return nil, malformed("partial trace keeps %d qubits, want 1 or 2", len(keep))
	}
	seen := map[int]bool{}
	for _, q := range keep {
		if q < 0 || q >= n {
			return nil, malformed("partial trace keeps qubit %d outside %d-qubit register", q, n)
		}
		if seen[q] {
			return nil, malformed("partial trace keeps qubit %d twice", q)
		}
		seen[q] = true
	}

	traced := make([]int, 0, n-len(keep))
	for q := 0; q < n; q++ {
		if !seen[q] {
			traced = append(traced, q)
		}
	}

	dim := 1 << len(keep)
	rho := make(DensityMatrix, dim)
	for i := range rho {
		rho[i] = make([]complex128, dim)
	}

	// rho[a][b] = sum over assignments t of the traced qubits of
	// psi[idx(a,t)] * conj(psi[idx(b,t)]).
	envDim := 1 << len(traced)
	for a := 0; a < dim; a++ {
		for b := 0; b < dim; b++ {
			var sum complex128
			for t := 0; t < envDim; t++ {
				ia := scatterBits(a, keep) | scatterBits(t, traced)
				ib := scatterBits(b, keep) | scatterBits(t, traced)
				sum += v[ia] * cmplx.Conj(v[ib])
			}
			rho[a][b] = sum
		}
	}

	if err := rho.checkInvariants(); err != nil {
		return nil, err
	}
	return rho, nil
}

// scatterBits places the low bits of val at the given basis-index bit
// positions.
func scatterBits(val int, positions []int) int {
	idx := 0
	for i, p := range positions {
		if val>>i&1 == 1 {
			idx |= 1 << p
		}
	}
	return idx
}

// checkInvariants verifies unit trace and Hermiticity. A failure here
// means the reduction itself is broken, not the input.
func (m DensityMatrix) checkInvariants() error {
	trace := 0.0
	for i := range m {
		trace += real(m[i][i])
		if math.Abs(imag(m[i][i])) > normTolerance {
			return &InvariantViolationError{
				Invariant: "hermiticity",
				Detail:    fmt.Sprintf("diagonal element %d has imaginary part %g", i, imag(m[i][i])),
			}
		}
		for j := i + 1; j < len(m); j++ {
			if cmplx.Abs(m[i][j]-cmplx.Conj(m[j][i])) > normTolerance {
				return &InvariantViolationError{
					Invariant: "hermiticity",
					Detail:    fmt.Sprintf("element (%d,%d) is not the conjugate of (%d,%d)", i, j, j, i),
				}
			}
		}
	}
	if math.Abs(trace-1) > normTolerance {
		return &InvariantViolationError{
			Invariant: "unit trace",
			Detail:    fmt.Sprintf("trace is %.12f", trace),
		}
	}
	return nil
}

// BlochVector is a point in or on the Bloch ball. Interior points
// indicate a mixed single-qubit reduction, i.e. entanglement with the
// rest of the register.
type BlochVector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Bloch computes the Bloch vector of one qubit from its 1-qubit
// reduction: x = 2Re(rho10), y = 2Im(rho10), z = rho00 - rho11.
func (v StateVector) Bloch(qubit int) (BlochVector, error) {
	rho, err := v.Reduced(qubit)
	if err != nil {
		return BlochVector{}, err
	}
	return BlochVector{
		X: 2 * real(rho[1][0]),
		Y: 2 * imag(rho[1][0]),
		Z: real(rho[0][0]) - real(rho[1][1]),
	}, nil
}

// BlochVectors computes Bloch vectors for every qubit, keyed as
// "qubit_0", "qubit_1", ...
func (v StateVector) BlochVectors() (map[string]BlochVector, error) {
	n := v.NumQubits()
	out := make(map[string]BlochVector, n)
	for q := 0; q < n; q++ {
		b, err := v.Bloch(q)
		if err != nil {
			return nil, err
		}
		out[fmt.Sprintf("qubit_%d", q)] = b
	}
	return out, nil
}
