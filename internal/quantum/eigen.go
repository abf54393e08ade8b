package quantum

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Eigenvalues returns the (real) eigenvalues of a Hermitian density
// matrix, ascending. The 2x2 case is closed-form; larger matrices go
// through gonum's symmetric eigensolver on the standard real embedding
// [[Re, -Im], [Im, Re]], whose spectrum is the Hermitian spectrum with
// every eigenvalue doubled.
func (m DensityMatrix) Eigenvalues() ([]float64, error) {
	dim := len(m)
	if dim == 2 {
		a := real(m[0][0])
		d := real(m[1][1])
		b := m[0][1]
		mean := (a + d) / 2
		radius := math.Sqrt((a-d)*(a-d)/4 + real(b)*real(b) + imag(b)*imag(b))
		return []float64{mean - radius, mean + radius}, nil
	}

	embedded := mat.NewSymDense(2*dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			re := real(m[i][j])
			im := imag(m[i][j])
			embedded.SetSym(i, j, re)
			embedded.SetSym(dim+i, dim+j, re)
			// Upper-right block holds -Im; SetSym mirrors it into the
			// lower-left block, which is valid because Im is
			// antisymmetric for a Hermitian matrix.
			embedded.SetSym(i, dim+j, -im)
			if i != j {
				embedded.SetSym(j, dim+i, im)
			}
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(embedded, false) {
		return nil, &InvariantViolationError{
			Invariant: "eigendecomposition",
			Detail:    "symmetric eigensolver failed to converge",
		}
	}

	doubled := eig.Values(nil)
	sort.Float64s(doubled)

	// Every Hermitian eigenvalue appears twice in the embedding; take
	// one of each adjacent pair.
	vals := make([]float64, dim)
	for i := 0; i < dim; i++ {
		vals[i] = doubled[2*i]
	}
	return vals, nil
}

// SubsystemEntropy is the true von Neumann entropy of a reduced density
// matrix: -sum of eigenvalue * log2(eigenvalue) over eigenvalues above
// probEpsilon. Small negative eigenvalues from floating-point noise are
// clamped to zero.
func (m DensityMatrix) SubsystemEntropy() (float64, error) {
	vals, err := m.Eigenvalues()
	if err != nil {
		return 0, err
	}
	entropy := 0.0
	for _, v := range vals {
		if v < 0 {
			v = 0
		}
		if v > probEpsilon {
			entropy -= v * math.Log2(v)
		}
	}
	return entropy, nil
}
