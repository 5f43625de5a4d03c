// Package export writes filtered, normalized datasets and the summary report
// to a directory as CSV, with a manifest of content hashes.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pushmetrics/internal/dataset"
	"pushmetrics/internal/formatter"
	"pushmetrics/internal/logger"
	"pushmetrics/internal/summary"
	"pushmetrics/internal/table"
	"pushmetrics/pkg/metadata"
)

// SummaryFile is the name of the exported summary report.
const SummaryFile = "summary.csv"

// WriteCSV writes t with its header. Timestamps use table.TimeLayout and
// missing cells are written empty.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rec := make([]string, len(t.Header))
	for i, row := range t.Rows {
		for j, v := range row {
			rec[j] = v.String()
		}

		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// SummaryHeader is the header of summary.csv.
func SummaryHeader() []string {
	return []string{"metric", "value", "display", "trend_percentage", "trend_direction", "values", "rows"}
}

// SummaryRows flattens a report into summary.csv records, in registry order.
func SummaryRows(rep *summary.Report, reg *dataset.Registry) [][]string {
	var rows [][]string

	for _, kind := range reg.Kinds() {
		st, ok := rep.Series[kind]
		if !ok {
			continue
		}

		rows = append(rows, []string{
			string(kind),
			formatFloat(st.Headline()),
			formatter.FormatHeadline(st),
			formatFloat(st.Trend.Percentage),
			string(st.Trend.Direction),
			strconv.Itoa(st.Values),
			strconv.Itoa(st.Rows),
		})
	}

	if rep.HasConversion {
		rows = append(rows, []string{
			"conversion_rate",
			formatFloat(rep.ConversionRate),
			formatter.FormatPercentage(rep.ConversionRate),
			"", "", "", "",
		})
	}

	if rep.Campaigns != nil {
		rows = append(rows,
			[]string{"campaigns", strconv.Itoa(rep.Campaigns.Count), "", "", "", "", ""},
			[]string{"top_performing_campaigns", strconv.Itoa(rep.Campaigns.TopPerforming), "", "", "", "", ""},
		)
	}

	return rows
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Exporter writes export directories.
type Exporter struct {
	dir string
	reg *dataset.Registry
	log *logger.Logger
	now func() time.Time
}

// New creates an exporter writing into dir.
func New(dir string, reg *dataset.Registry, log *logger.Logger) *Exporter {
	if reg == nil {
		reg = dataset.Default()
	}

	if log == nil {
		log = logger.Nop()
	}

	return &Exporter{dir: dir, reg: reg, log: log, now: time.Now}
}

// Export filters tables by r, writes one <kind>.csv per dataset plus
// summary.csv, and records them in the manifest.
func (e *Exporter) Export(tables map[dataset.Kind]*table.Table, r summary.Range, th summary.Thresholds) (*metadata.Manifest, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	filtered := summary.FilterAll(tables, e.reg, r)
	manifest := metadata.New(r.String(), e.now())

	for _, kind := range e.reg.Kinds() {
		t, ok := filtered[kind]
		if !ok {
			continue
		}

		var buf bytes.Buffer
		if err := WriteCSV(&buf, t); err != nil {
			return nil, fmt.Errorf("%s: %w", kind, err)
		}

		name := string(kind) + ".csv"
		if err := e.write(name, buf.Bytes()); err != nil {
			return nil, err
		}

		manifest.Add(name, string(kind), t.Len(), buf.Bytes())
		e.log.Debug("exported dataset", "kind", kind, "rows", t.Len(), "file", name)
	}

	rep := summary.Summarize(tables, e.reg, r, th)

	var buf bytes.Buffer

	sum := table.FromStrings(SummaryHeader(), SummaryRows(rep, e.reg))
	if err := WriteCSV(&buf, sum); err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	if err := e.write(SummaryFile, buf.Bytes()); err != nil {
		return nil, err
	}

	manifest.Add(SummaryFile, "summary", sum.Len(), buf.Bytes())

	if err := manifest.Write(e.dir); err != nil {
		return nil, err
	}

	e.log.Info("export complete", "dir", e.dir, "files", len(manifest.Files), "run_id", manifest.RunID)

	return manifest, nil
}

func (e *Exporter) write(name string, data []byte) error {
	if err := os.WriteFile(filepath.Join(e.dir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	return nil
}
