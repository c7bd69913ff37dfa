package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"

	"github.com/heart-risk-server/internal/domain"
)

// PDFRenderer renders a report record into a single-page PDF: title,
// generation line, patient detail rows, headline risk figure and disclaimer.
// The document creation date is pinned to the record timestamp so rendering
// the same record twice yields identical bytes.
type PDFRenderer struct {
	logger *logrus.Logger
}

// NewPDFRenderer creates a PDF renderer.
func NewPDFRenderer(logger *logrus.Logger) *PDFRenderer {
	return &PDFRenderer{logger: logger}
}

// Render implements domain.ReportRenderer.
func (r *PDFRenderer) Render(record *domain.ReportRecord) ([]byte, error) {
	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(record.Timestamp)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Heart Disease Risk Assessment Report", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated on: %s", record.Timestamp.Format("02-01-2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 4, "", "B", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Patient Details", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range record.Rows() {
		pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s", row.Label, row.Value), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Prediction Result", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Predicted Risk of Heart Disease: %.2f%%", record.Score.Percent()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, record.Score.Band.ClinicalSignificance(), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Recommendation: %s", record.Score.Recommendation), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5,
		"Disclaimer: This report is generated using a machine learning model and "+
			"is for educational purposes only. It is not a medical diagnosis.",
		"", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{
			"record_id": record.ID,
			"bytes":     buf.Len(),
		}).Debug("Rendered report PDF")
	}

	return buf.Bytes(), nil
}
