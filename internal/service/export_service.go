package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/bw-lms-api/internal/dto"
	appErrors "github.com/noah-isme/bw-lms-api/pkg/errors"
	"github.com/noah-isme/bw-lms-api/pkg/export"
)

// Export formats accepted by the admin report download.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type renderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportResult is a rendered report ready to be served as an attachment.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders progress reports into downloadable files.
type ExportService struct {
	renderers map[string]renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the pkg/export defaults.
func NewExportService(logger *zap.Logger, csv, pdf renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		renderers: map[string]renderer{ExportFormatCSV: csv, ExportFormatPDF: pdf},
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Render formats report as csv or pdf.
func (s *ExportService) Render(report *dto.ProgressReport, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", format))
	}
	if report == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "report is required")
	}

	payload, err := r.Render(buildProgressDataset(report))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render report")
	}

	s.logger.Debug("progress report rendered", zap.String("user_id", report.User.ID), zap.String("format", format), zap.Int("bytes", len(payload)))
	return &ExportResult{
		Filename:    s.buildFilename(report, r.Extension()),
		ContentType: r.ContentType(),
		Payload:     payload,
	}, nil
}

func buildProgressDataset(report *dto.ProgressReport) export.Dataset {
	rows := make([]map[string]string, 0, len(report.Modules))
	for _, m := range report.Modules {
		rows = append(rows, map[string]string{
			"Module ID": m.ID,
			"Module":    m.Title,
			"Status":    m.Status,
		})
	}
	return export.Dataset{
		Title:    "Training progress: " + report.User.Name,
		Subtitle: fmt.Sprintf("%s (%s) - %d%% complete", report.User.Username, strings.Join(report.User.Roles, ", "), report.Percent),
		Headers:  []string{"Module ID", "Module", "Status"},
		Rows:     rows,
	}
}

func (s *ExportService) buildFilename(report *dto.ProgressReport, ext string) string {
	timestamp := s.now().Format("20060102_150405")
	return fmt.Sprintf("progress_%s_%s.%s", sanitizeFilename(report.User.Username), timestamp, ext)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
