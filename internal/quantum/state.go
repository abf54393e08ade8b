package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// normTolerance bounds the allowed drift of the state norm away from 1.
// Catalog gates are exactly unitary, so anything beyond floating-point
// noise means the engine corrupted the state.
const normTolerance = 1e-9

// probEpsilon is the cutoff below which a probability is treated as
// exactly zero in entropy sums and the participation-ratio guard.
const probEpsilon = 1e-16

// StateVector holds the 2^n complex amplitudes of an n-qubit register.
// Basis index bit b is the state of qubit b: (index >> b) & 1.
type StateVector []complex128

// GroundState returns |0...0⟩ for an n-qubit register.
func GroundState(numQubits int) StateVector {
	v := make(StateVector, 1<<numQubits)
	v[0] = 1
	return v
}

// NumQubits returns log2(len(v)).
func (v StateVector) NumQubits() int {
	n := 0
	for size := len(v); size > 1; size >>= 1 {
		n++
	}
	return n
}

// Clone returns an independent copy of the state.
func (v StateVector) Clone() StateVector {
	out := make(StateVector, len(v))
	copy(out, v)
	return out
}

// Probabilities returns the Born-rule measurement distribution |amp|^2.
func (v StateVector) Probabilities() []float64 {
	probs := make([]float64, len(v))
	for i, amp := range v {
		probs[i] = real(amp)*real(amp) + imag(amp)*imag(amp)
	}
	return probs
}

// CheckNormalization verifies that probabilities sum to 1 within
// normTolerance.
func (v StateVector) CheckNormalization() error {
	sum := 0.0
	for _, p := range v.Probabilities() {
		sum += p
	}
	if math.Abs(sum-1) > normTolerance {
		return &InvariantViolationError{
			Invariant: "normalization",
			Detail:    fmt.Sprintf("probabilities sum to %.12f", sum),
		}
	}
	return nil
}

// FidelityWith returns |⟨ref|v⟩|^2, the squared overlap with a
// reference state of the same dimension.
func (v StateVector) FidelityWith(ref StateVector) (float64, error) {
	if len(v) != len(ref) {
		return 0, malformed("reference state has dimension %d, want %d", len(ref), len(v))
	}
	var overlap complex128
	for i := range v {
		overlap += cmplx.Conj(ref[i]) * v[i]
	}
	mag := cmplx.Abs(overlap)
	return mag * mag, nil
}

// TraceDistanceFrom returns sqrt(1 - F) for pure states, clamped at 0
// to absorb floating-point noise when F slightly exceeds 1.
func (v StateVector) TraceDistanceFrom(ref StateVector) (float64, error) {
	f, err := v.FidelityWith(ref)
	if err != nil {
		return 0, err
	}
	if f > 1 {
		f = 1
	}
	return math.Sqrt(1 - f), nil
}

// UniformSuperposition returns the equal-weight state H^⊗n|0...0⟩.
func UniformSuperposition(numQubits int) StateVector {
	dim := 1 << numQubits
	amp := complex(1/math.Sqrt(float64(dim)), 0)
	v := make(StateVector, dim)
	for i := range v {
		v[i] = amp
	}
	return v
}

// BasisLabel renders a basis index as a ket label, qubit n-1 first,
// e.g. index 1 of a 2-qubit register is "|01⟩".
func BasisLabel(index, numQubits int) string {
	bits := make([]byte, numQubits)
	for b := 0; b < numQubits; b++ {
		if index>>(numQubits-1-b)&1 == 1 {
			bits[b] = '1'
		} else {
			bits[b] = '0'
		}
	}
	return "|" + string(bits) + "⟩"
}

// Amplitude is the JSON shape of a complex amplitude.
type Amplitude struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// StateEntry is one basis component of a serialized state vector.
type StateEntry struct {
	Index       int       `json:"index"`
	Amplitude   Amplitude `json:"amplitude"`
	Probability float64   `json:"probability"`
	BasisState  string    `json:"basis_state"`
}

// Entries serializes the state for API payloads.
func (v StateVector) Entries() []StateEntry {
	n := v.NumQubits()
	entries := make([]StateEntry, len(v))
	for i, amp := range v {
		entries[i] = StateEntry{
			Index:       i,
			Amplitude:   Amplitude{Re: real(amp), Im: imag(amp)},
			Probability: real(amp)*real(amp) + imag(amp)*imag(amp),
			BasisState:  BasisLabel(i, n),
		}
	}
	return entries
}

// ProbabilityAmplitude is the polar-form view of one basis component.
type ProbabilityAmplitude struct {
	Index       int     `json:"index"`
	Magnitude   float64 `json:"magnitude"`
	Phase       float64 `json:"phase"`
	Probability float64 `json:"probability"`
	Re          float64 `json:"re"`
	Im          float64 `json:"im"`
	BasisState  string  `json:"basis_state"`
}

// ProbabilityAmplitudes serializes the state in polar form.
func (v StateVector) ProbabilityAmplitudes() []ProbabilityAmplitude {
	n := v.NumQubits()
	out := make([]ProbabilityAmplitude, len(v))
	for i, amp := range v {
		mag := cmplx.Abs(amp)
		out[i] = ProbabilityAmplitude{
			Index:       i,
			Magnitude:   mag,
			Phase:       cmplx.Phase(amp),
			Probability: mag * mag,
			Re:          real(amp),
			Im:          imag(amp),
			BasisState:  BasisLabel(i, n),
		}
	}
	return out
}
