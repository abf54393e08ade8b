package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/qscope/internal/quantum"
)

// ErrUnsupportedFormat is returned for export formats outside the
// json/csv/matlab set.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Export formats.
const (
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatMATLAB = "matlab"
)

// ExportMetadata describes an export for downstream tooling.
type ExportMetadata struct {
	Timestamp string   `json:"timestamp"`
	Format    string   `json:"export_format"`
	Columns   []string `json:"columns,omitempty"`
}

// Export is a rendered metrics export. Data holds the metrics bundle
// for json exports and a rendered string for csv and matlab.
type Export struct {
	Format   string          `json:"format"`
	Data     interface{}     `json:"data"`
	Metadata *ExportMetadata `json:"metadata,omitempty"`
}

// scalarMetric is one flattened (name, value) row of the bundle.
type scalarMetric struct {
	name  string
	value float64
}

// flatten extracts the scalar metrics of a bundle in a stable order.
func flatten(bundle *MetricsBundle) []scalarMetric {
	return []scalarMetric{
		{"purity", bundle.Basic.Purity},
		{"von_neumann_entropy", bundle.Basic.VonNeumannEntropy},
		{"linear_entropy", bundle.Basic.LinearEntropy},
		{"participation_ratio", bundle.Basic.ParticipationRatio},
		{"overall_entanglement", bundle.Entanglement.Overall},
		{"l1_coherence", bundle.Coherence.L1Norm},
		{"relative_entropy_coherence", bundle.Coherence.RelativeEntropy},
		{"ground_state_fidelity", bundle.Distance.GroundState.Fidelity},
		{"ground_state_trace_distance", bundle.Distance.GroundState.TraceDistance},
		{"uniform_superposition_fidelity", bundle.Distance.UniformSuperposition.Fidelity},
		{"uniform_superposition_trace_distance", bundle.Distance.UniformSuperposition.TraceDistance},
	}
}

// ExportMetrics computes the comprehensive metrics for a circuit and
// renders them in the requested format.
func (s *Service) ExportMetrics(circuit quantum.Circuit, format string, includeMetadata bool) (*Export, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}

	bundle, err := s.ComprehensiveMetrics(circuit, nil)
	if err != nil {
		return nil, err
	}

	export := &Export{Format: format}
	scalars := flatten(bundle)

	switch format {
	case FormatJSON:
		export.Data = bundle
	case FormatCSV:
		lines := make([]string, 0, len(scalars)+1)
		lines = append(lines, "metric,value")
		for _, m := range scalars {
			lines = append(lines, fmt.Sprintf("%s,%g", m.name, m.value))
		}
		export.Data = strings.Join(lines, "\n")
	case FormatMATLAB:
		var b strings.Builder
		b.WriteString("% qscope metrics export\n")
		for _, m := range scalars {
			fmt.Fprintf(&b, "%s = %g;\n", m.name, m.value)
		}
		export.Data = b.String()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	if includeMetadata {
		meta := &ExportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Format:    format,
		}
		if format != FormatJSON {
			for _, m := range scalars {
				meta.Columns = append(meta.Columns, m.name)
			}
		}
		export.Metadata = meta
	}

	return export, nil
}
