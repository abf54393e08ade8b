package quantum

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGateKind(t *testing.T) {
	kind, err := ParseGateKind("h")
	require.NoError(t, err)
	assert.Equal(t, GateH, kind)

	kind, err = ParseGateKind(" X ")
	require.NoError(t, err)
	assert.Equal(t, GateX, kind)
}

func TestParseGateKindRejectsUnknown(t *testing.T) {
	_, err := ParseGateKind("CNOT")
	require.Error(t, err)

	var malformedErr *MalformedCircuitError
	assert.ErrorAs(t, err, &malformedErr)
}

func TestGateMatricesAreUnitary(t *testing.T) {
	for _, info := range AllGateInfos() {
		m, err := GateMatrix(info.Kind)
		require.NoError(t, err)

		// U * U^dagger = I
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				var sum complex128
				for k := 0; k < 2; k++ {
					sum += m[i][k] * cmplx.Conj(m[j][k])
				}
				expected := complex128(0)
				if i == j {
					expected = 1
				}
				assert.InDelta(t, real(expected), real(sum), 1e-12, "gate %s (%d,%d)", info.Kind, i, j)
				assert.InDelta(t, imag(expected), imag(sum), 1e-12, "gate %s (%d,%d)", info.Kind, i, j)
			}
		}
	}
}

func TestGatesAreSelfInverse(t *testing.T) {
	for _, info := range AllGateInfos() {
		m, err := GateMatrix(info.Kind)
		require.NoError(t, err)

		// U * U = I for every catalog gate
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				var sum complex128
				for k := 0; k < 2; k++ {
					sum += m[i][k] * m[k][j]
				}
				expected := complex128(0)
				if i == j {
					expected = 1
				}
				assert.InDelta(t, real(expected), real(sum), 1e-12, "gate %s", info.Kind)
				assert.InDelta(t, imag(expected), imag(sum), 1e-12, "gate %s", info.Kind)
			}
		}
	}
}

func TestAllGateInfosOrder(t *testing.T) {
	infos := AllGateInfos()
	require.Len(t, infos, 5)
	assert.Equal(t, GateH, infos[0].Kind)
	assert.Equal(t, GateI, infos[4].Kind)
	for _, info := range infos {
		assert.NotEmpty(t, info.MatrixLiteral)
		assert.NotEmpty(t, info.BasisAction)
	}
}
