// Package quantum implements the state-vector simulation engine:
// gate catalog, circuit normalization, unitary evolution, reduced
// density matrices, and the derived analytics.
package quantum

import (
	"math"
	"strings"
)

// GateKind identifies a single-qubit gate in the catalog.
type GateKind string

const (
	GateH GateKind = "H"
	GateX GateKind = "X"
	GateY GateKind = "Y"
	GateZ GateKind = "Z"
	GateI GateKind = "I"
)

// Matrix2 is a 2x2 complex matrix in row-major order.
type Matrix2 [2][2]complex128

var invSqrt2 = complex(1/math.Sqrt2, 0)

// gateMatrices holds the catalog. All five gates are unitary, Hermitian
// and self-inverse.
var gateMatrices = map[GateKind]Matrix2{
	GateH: {
		{invSqrt2, invSqrt2},
		{invSqrt2, -invSqrt2},
	},
	GateX: {
		{0, 1},
		{1, 0},
	},
	GateY: {
		{0, complex(0, -1)},
		{complex(0, 1), 0},
	},
	GateZ: {
		{1, 0},
		{0, -1},
	},
	GateI: {
		{1, 0},
		{0, 1},
	},
}

// GateInfo describes a catalog gate for documentation endpoints and the
// step narrator.
type GateInfo struct {
	Kind          GateKind `json:"name"`
	FullName      string   `json:"full_name"`
	MatrixLiteral string   `json:"matrix"`
	BasisAction   string   `json:"basis_action"`
	BlochAction   string   `json:"bloch_action"`
	Description   string   `json:"description"`
}

var gateInfos = map[GateKind]GateInfo{
	GateH: {
		Kind:          GateH,
		FullName:      "Hadamard",
		MatrixLiteral: "(1/√2)[[1, 1], [1, -1]]",
		BasisAction:   "H|0⟩ = (|0⟩ + |1⟩)/√2, H|1⟩ = (|0⟩ - |1⟩)/√2",
		BlochAction:   "180° rotation about the diagonal X+Z axis",
		Description:   "Creates an equal superposition of |0⟩ and |1⟩",
	},
	GateX: {
		Kind:          GateX,
		FullName:      "Pauli-X",
		MatrixLiteral: "[[0, 1], [1, 0]]",
		BasisAction:   "X|0⟩ = |1⟩, X|1⟩ = |0⟩",
		BlochAction:   "180° rotation about the X axis",
		Description:   "Bit flip: swaps the |0⟩ and |1⟩ amplitudes",
	},
	GateY: {
		Kind:          GateY,
		FullName:      "Pauli-Y",
		MatrixLiteral: "[[0, -i], [i, 0]]",
		BasisAction:   "Y|0⟩ = i|1⟩, Y|1⟩ = -i|0⟩",
		BlochAction:   "180° rotation about the Y axis",
		Description:   "Combined bit and phase flip",
	},
	GateZ: {
		Kind:          GateZ,
		FullName:      "Pauli-Z",
		MatrixLiteral: "[[1, 0], [0, -1]]",
		BasisAction:   "Z|0⟩ = |0⟩, Z|1⟩ = -|1⟩",
		BlochAction:   "180° rotation about the Z axis",
		Description:   "Phase flip: negates the |1⟩ amplitude",
	},
	GateI: {
		Kind:          GateI,
		FullName:      "Identity",
		MatrixLiteral: "[[1, 0], [0, 1]]",
		BasisAction:   "I|0⟩ = |0⟩, I|1⟩ = |1⟩",
		BlochAction:   "No rotation",
		Description:   "Leaves the state unchanged",
	},
}

// ParseGateKind maps a case-insensitive gate name to its catalog kind.
// Unknown names (including multi-qubit tokens such as "CNOT") are
// rejected as malformed rather than silently skipped.
func ParseGateKind(name string) (GateKind, error) {
	kind := GateKind(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := gateMatrices[kind]; !ok {
		return "", malformed("unknown gate kind %q", name)
	}
	return kind, nil
}

// GateMatrix returns the 2x2 matrix for a catalog gate.
func GateMatrix(kind GateKind) (Matrix2, error) {
	m, ok := gateMatrices[kind]
	if !ok {
		return Matrix2{}, malformed("unknown gate kind %q", kind)
	}
	return m, nil
}

// LookupGateInfo returns descriptive metadata for a catalog gate.
func LookupGateInfo(kind GateKind) (GateInfo, bool) {
	info, ok := gateInfos[kind]
	return info, ok
}

// AllGateInfos returns the catalog in a stable order.
func AllGateInfos() []GateInfo {
	order := []GateKind{GateH, GateX, GateY, GateZ, GateI}
	infos := make([]GateInfo, 0, len(order))
	for _, k := range order {
		infos = append(infos, gateInfos[k])
	}
	return infos
}
