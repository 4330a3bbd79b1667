package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/example/class-timetable/internal/scheduler"
)

// StatisticsReport is the JSON document produced by WriteStatistics.
type StatisticsReport struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Statistics  scheduler.Statistics `json:"statistics"`
}

// WriteStatistics encodes stats as an indented JSON report.
func WriteStatistics(w io.Writer, stats scheduler.Statistics, generatedAt time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(StatisticsReport{GeneratedAt: generatedAt.UTC(), Statistics: stats}); err != nil {
		return fmt.Errorf("encode statistics: %w", err)
	}
	return nil
}
