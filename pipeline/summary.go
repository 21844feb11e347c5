package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/insightlab/automl/dataset"
)

// Summary is the structured payload handed to the insight-generation
// collaborator. The pipeline only shapes the payload; calling the external
// text-generation service is the collaborator's job.
type Summary struct {
	TaskType       TaskType               `json:"task_type"`
	Algorithm      string                 `json:"algorithm"`
	TargetColumn   string                 `json:"target_column,omitempty"`
	Metrics        map[string]float64     `json:"metrics"`
	FeatureColumns []string               `json:"feature_columns"`
	TotalRows      int                    `json:"total_rows"`
	RetainedRows   int                    `json:"retained_rows"`
	Leaderboard    []CandidateScore       `json:"leaderboard"`
	Columns        []dataset.ColumnSchema `json:"columns"`
}

// BuildSummary shapes a TrainingResult into the insight payload.
func BuildSummary(result *TrainingResult) Summary {
	columns := make([]dataset.ColumnSchema, 0, len(result.Schema))
	for _, cs := range result.Schema {
		columns = append(columns, cs)
	}
	sort.Slice(columns, func(i, j int) bool { return columns[i].Name < columns[j].Name })

	return Summary{
		TaskType:       result.TaskType,
		Algorithm:      result.Algorithm,
		TargetColumn:   result.TargetColumn,
		Metrics:        result.Metrics.Values,
		FeatureColumns: result.FeatureColumns,
		TotalRows:      result.TotalRows,
		RetainedRows:   result.RetainedRows,
		Leaderboard:    result.Leaderboard,
		Columns:        columns,
	}
}

// Prompt renders the summary as the plain-text body the insight
// collaborator sends to its text-generation service.
func (s Summary) Prompt() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Task: %s\n", s.TaskType)
	fmt.Fprintf(&b, "Chosen algorithm: %s\n", s.Algorithm)
	if s.TargetColumn != "" {
		fmt.Fprintf(&b, "Target column: %s\n", s.TargetColumn)
	}
	fmt.Fprintf(&b, "Rows: %d total, %d used for training\n", s.TotalRows, s.RetainedRows)

	b.WriteString("\nMetrics:\n")
	names := make([]string, 0, len(s.Metrics))
	for name := range s.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %.4f\n", name, s.Metrics[name])
	}

	if len(s.Leaderboard) > 1 {
		b.WriteString("\nCandidates compared:\n")
		for _, entry := range s.Leaderboard {
			fmt.Fprintf(&b, "- %s\n", entry.Algorithm)
		}
	}

	b.WriteString("\nColumns:\n")
	for _, col := range s.Columns {
		fmt.Fprintf(&b, "- %s (%s): %d missing, %d distinct", col.Name, col.Type, col.MissingCount, col.DistinctCount)
		if col.Type == dataset.Numeric {
			fmt.Fprintf(&b, ", range %.4g to %.4g, mean %.4g", col.Min, col.Max, col.Mean)
		}
		b.WriteString("\n")
	}

	return b.String()
}
