package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ErrEmptyReport is returned when a report has no rows to write.
var ErrEmptyReport = errors.New("report has no rows")

// ParseFormat maps a user supplied format name to an ExportFormat. Empty means CSV.
func ParseFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Row is one labeled value of a calculation result.
type Row struct {
	Parameter string `json:"parameter"`
	Value     string `json:"value"`
}

// Report is a named, ordered list of rows. Name is the artifact base name
// without extension, e.g. "mining_calculation".
type Report struct {
	Name string
	Rows []Row
}

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format      ExportFormat
	OutputDir   string
	Timestamped bool   // append a timestamp so earlier exports are kept
	Path        string // explicit destination, overrides OutputDir and the generated name
}

// ResultExporter writes calculator reports to disk
type ResultExporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewResultExporter creates a new result exporter
func NewResultExporter(logger *zap.Logger) *ResultExporter {
	return &ResultExporter{
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

// Save writes the report and returns the path of the produced artifact.
func (re *ResultExporter) Save(report Report, options ExportOptions) (string, error) {
	if len(report.Rows) == 0 {
		return "", ErrEmptyReport
	}
	if options.Format == "" {
		options.Format = FormatCSV
	}

	outputPath := options.Path
	if outputPath == "" {
		outputPath = filepath.Join(options.OutputDir, re.generateFilename(report.Name, options))
	}

	// Ensure output directory exists
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var write func(io.Writer) error
	switch options.Format {
	case FormatCSV:
		write = func(w io.Writer) error { return WriteCSV(w, report.Rows) }
	case FormatJSON:
		write = func(w io.Writer) error { return re.writeJSON(w, report) }
	default:
		return "", fmt.Errorf("unsupported format: %s", options.Format)
	}

	if err := writeFile(outputPath, write); err != nil {
		return "", err
	}

	re.logger.Info("Result exported",
		zap.String("file", outputPath),
		zap.String("report", report.Name),
		zap.Int("rows", len(report.Rows)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

// generateFilename creates a filename based on export options
func (re *ResultExporter) generateFilename(name string, options ExportOptions) string {
	if name == "" {
		name = "result"
	}
	if options.Timestamped {
		name = fmt.Sprintf("%s_%s", name, re.now().Format("20060102_150405"))
	}
	return fmt.Sprintf("%s.%s", name, options.Format)
}

// WriteCSV writes a Parameter,Value header followed by one record per row.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Parameter", "Value"}); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.Parameter, row.Value}); err != nil {
			return fmt.Errorf("failed to write row %q: %w", row.Parameter, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (re *ResultExporter) writeJSON(w io.Writer, report Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	exportData := struct {
		Report     string    `json:"report"`
		ExportTime time.Time `json:"export_time"`
		RowCount   int       `json:"row_count"`
		Rows       []Row     `json:"rows"`
	}{
		Report:     report.Name,
		ExportTime: re.now(),
		RowCount:   len(report.Rows),
		Rows:       report.Rows,
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

const exportFileMode os.FileMode = 0o644

// writeFile writes through a temp file in the destination directory. The temp
// file is closed on every path and either renamed over path or removed.
func writeFile(path string, write func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if werr := write(tmp); werr != nil {
		_ = tmp.Close()
		return werr
	}
	// CreateTemp is owner-only; exports get the usual file mode.
	if err := tmp.Chmod(exportFileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set export file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move export into place: %w", err)
	}
	return nil
}
