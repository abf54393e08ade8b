package quantum

// Operator is a dense complex matrix acting on the full register,
// row-major.
type Operator [][]complex128

func newOperator(dim int) Operator {
	op := make(Operator, dim)
	for i := range op {
		op[i] = make([]complex128, dim)
	}
	return op
}

// kron returns the Kronecker product a ⊗ b.
func kron(a, b Operator) Operator {
	da, db := len(a), len(b)
	out := newOperator(da * db)
	for i := 0; i < da; i++ {
		for j := 0; j < da; j++ {
			aij := a[i][j]
			if aij == 0 {
				continue
			}
			for r := 0; r < db; r++ {
				for c := 0; c < db; c++ {
					out[i*db+r][j*db+c] = aij * b[r][c]
				}
			}
		}
	}
	return out
}

func matrix2ToOperator(m Matrix2) Operator {
	return Operator{
		{m[0][0], m[0][1]},
		{m[1][0], m[1][1]},
	}
}

var identity2 = Operator{{1, 0}, {0, 1}}

// FullOperator lifts a single-qubit gate to the n-qubit register by
// tensoring identities around the target slot. Factors are composed
// from qubit n-1 down to qubit 0 so that basis index bit b stays
// qubit b.
func FullOperator(kind GateKind, target, numQubits int) (Operator, error) {
	m, err := GateMatrix(kind)
	if err != nil {
		return nil, err
	}
	if target < 0 || target >= numQubits {
		return nil, malformed("gate targets qubit %d outside %d-qubit register", target, numQubits)
	}

	gate := matrix2ToOperator(m)
	op := Operator{{1}}
	for q := numQubits - 1; q >= 0; q-- {
		if q == target {
			op = kron(op, gate)
		} else {
			op = kron(op, identity2)
		}
	}
	return op, nil
}

// Apply returns op·v as a new state vector.
func (op Operator) Apply(v StateVector) StateVector {
	out := make(StateVector, len(v))
	for i, row := range op {
		var sum complex128
		for j, u := range row {
			if u != 0 {
				sum += u * v[j]
			}
		}
		out[i] = sum
	}
	return out
}

// Entries serializes the operator for step payloads.
func (op Operator) Entries() [][]Amplitude {
	out := make([][]Amplitude, len(op))
	for i, row := range op {
		out[i] = make([]Amplitude, len(row))
		for j, u := range row {
			out[i][j] = Amplitude{Re: real(u), Im: imag(u)}
		}
	}
	return out
}
