package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Entanglement classification thresholds on the mean per-qubit
// subsystem entropy.
const (
	entanglementSeparable = 0.1
	entanglementWeak      = 0.5
	entanglementModerate  = 0.9
)

// FinalMetrics is the summary bundle attached to a finished simulation.
//
// Naming note: VonNeumannEntropy is, and has always been, the Shannon
// entropy of the measurement distribution in the computational basis —
// for a pure state the true von Neumann entropy is identically zero.
// Fidelity here is sqrt(purity). Both definitions are kept for
// compatibility with existing clients; SubsystemEntropy in the
// entanglement analysis carries the spectral quantity.
type FinalMetrics struct {
	Purity             float64 `json:"purity"`
	Fidelity           float64 `json:"fidelity"`
	Entanglement       float64 `json:"entanglement"`
	VonNeumannEntropy  float64 `json:"von_neumann_entropy"`
	LinearEntropy      float64 `json:"linear_entropy"`
	ParticipationRatio float64 `json:"participation_ratio"`
}

// EntanglementAnalysis carries per-qubit and pairwise structure.
type EntanglementAnalysis struct {
	Overall           float64            `json:"overall_entanglement"`
	PerQubit          map[string]float64 `json:"qubit_entanglement"`
	PairwiseEntropy   map[string]float64 `json:"pairwise_entropy"`
	MutualInformation map[string]float64 `json:"mutual_information"`
	Classification    string             `json:"classification"`
}

// CoherenceMeasures carries the two coherence heuristics.
//
// L1Norm is sum|amp| - sqrt(sum p), a heuristic rather than the
// textbook off-diagonal l1 norm; RelativeEntropy is log2(N) minus the
// measurement-distribution entropy. Both formulas are load-bearing for
// existing clients and are preserved exactly.
type CoherenceMeasures struct {
	L1Norm          float64 `json:"l1_norm"`
	RelativeEntropy float64 `json:"relative_entropy"`
}

// DistanceMetrics compares the state against a reference.
type DistanceMetrics struct {
	Fidelity      float64 `json:"fidelity"`
	TraceDistance float64 `json:"trace_distance"`
}

// Purity returns sum p^2 over the measurement distribution.
func (v StateVector) Purity() float64 {
	sum := 0.0
	for _, p := range v.Probabilities() {
		sum += p * p
	}
	return sum
}

// DistributionEntropy returns -sum p*log2(p) over probabilities above
// probEpsilon. This is the quantity historically reported as
// "von Neumann entropy".
func (v StateVector) DistributionEntropy() float64 {
	entropy := 0.0
	for _, p := range v.Probabilities() {
		if p > probEpsilon {
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}

// LinearEntropy returns 1 - purity.
func (v StateVector) LinearEntropy() float64 {
	return 1 - v.Purity()
}

// ParticipationRatio returns 1/sum(p^2), the effective number of basis
// states the distribution spreads over. A vanishing denominator
// (degenerate all-zero distribution) maps to 1.
func (v StateVector) ParticipationRatio() float64 {
	sum := 0.0
	for _, p := range v.Probabilities() {
		sum += p * p
	}
	if sum < probEpsilon {
		return 1
	}
	return 1 / sum
}

// Coherence computes both coherence heuristics.
func (v StateVector) Coherence() CoherenceMeasures {
	ampSum := 0.0
	probSum := 0.0
	for _, amp := range v {
		ampSum += cmplx.Abs(amp)
	}
	for _, p := range v.Probabilities() {
		probSum += p
	}
	return CoherenceMeasures{
		L1Norm:          ampSum - math.Sqrt(probSum),
		RelativeEntropy: math.Log2(float64(len(v))) - v.DistributionEntropy(),
	}
}

// QubitEntropy returns the subsystem entropy of a single qubit.
// Nonzero entropy means the qubit is entangled with the rest of the
// register.
func (v StateVector) QubitEntropy(qubit int) (float64, error) {
	rho, err := v.Reduced(qubit)
	if err != nil {
		return 0, err
	}
	return rho.SubsystemEntropy()
}

// PairEntropy returns the subsystem entropy of a qubit pair.
func (v StateVector) PairEntropy(q1, q2 int) (float64, error) {
	rho, err := v.Reduced(q1, q2)
	if err != nil {
		return 0, err
	}
	return rho.SubsystemEntropy()
}

// MutualInformation returns I(q1;q2) = S(q1) + S(q2) - S(q1,q2).
func (v StateVector) MutualInformation(q1, q2 int) (float64, error) {
	s1, err := v.QubitEntropy(q1)
	if err != nil {
		return 0, err
	}
	s2, err := v.QubitEntropy(q2)
	if err != nil {
		return 0, err
	}
	s12, err := v.PairEntropy(q1, q2)
	if err != nil {
		return 0, err
	}
	return s1 + s2 - s12, nil
}

// AnalyzeEntanglement computes per-qubit entropies, pairwise entropies,
// mutual information, and the overall classification.
func (v StateVector) AnalyzeEntanglement() (EntanglementAnalysis, error) {
	n := v.NumQubits()
	analysis := EntanglementAnalysis{
		PerQubit:          make(map[string]float64, n),
		PairwiseEntropy:   make(map[string]float64),
		MutualInformation: make(map[string]float64),
	}

	total := 0.0
	perQubit := make([]float64, n)
	for q := 0; q < n; q++ {
		s, err := v.QubitEntropy(q)
		if err != nil {
			return EntanglementAnalysis{}, err
		}
		perQubit[q] = s
		analysis.PerQubit[fmt.Sprintf("qubit_%d", q)] = s
		total += s
	}
	analysis.Overall = total / float64(n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			key := fmt.Sprintf("%d-%d", i, j)
			s12, err := v.PairEntropy(i, j)
			if err != nil {
				return EntanglementAnalysis{}, err
			}
			analysis.PairwiseEntropy[key] = s12
			analysis.MutualInformation[key] = perQubit[i] + perQubit[j] - s12
		}
	}

	analysis.Classification = classifyEntanglement(analysis.Overall)
	return analysis, nil
}

func classifyEntanglement(overall float64) string {
	switch {
	case overall < entanglementSeparable:
		return "separable"
	case overall < entanglementWeak:
		return "weakly entangled"
	case overall < entanglementModerate:
		return "moderately entangled"
	default:
		return "strongly entangled"
	}
}

// FinalMetricsFor bundles the summary metrics for a final state.
func (v StateVector) FinalMetricsFor() (FinalMetrics, error) {
	analysis, err := v.AnalyzeEntanglement()
	if err != nil {
		return FinalMetrics{}, err
	}
	purity := v.Purity()
	return FinalMetrics{
		Purity:             purity,
		Fidelity:           math.Sqrt(purity),
		Entanglement:       analysis.Overall,
		VonNeumannEntropy:  v.DistributionEntropy(),
		LinearEntropy:      v.LinearEntropy(),
		ParticipationRatio: v.ParticipationRatio(),
	}, nil
}

// DistanceFrom computes fidelity and trace distance against a
// reference state.
func (v StateVector) DistanceFrom(ref StateVector) (DistanceMetrics, error) {
	f, err := v.FidelityWith(ref)
	if err != nil {
		return DistanceMetrics{}, err
	}
	td, err := v.TraceDistanceFrom(ref)
	if err != nil {
		return DistanceMetrics{}, err
	}
	return DistanceMetrics{Fidelity: f, TraceDistance: td}, nil
}
