package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pdq-assistant-be/internal/entity"
	"pdq-assistant-be/pkg/questionnaire"

	"github.com/go-pdf/fpdf"
)

// ErrRender wraps any failure producing the document.
var ErrRender = errors.New("render failed")

const (
	pageMargin = 15.0
	colWidth   = 90.0
	rowHeight  = 6.0
)

// PDFRenderer turns a completed questionnaire response into a PDF: answers
// grouped by section in the order sections first appear in the definition,
// one question/answer table per section.
type PDFRenderer struct {
	outputDir string
}

func NewPDFRenderer(outputDir string) *PDFRenderer {
	return &PDFRenderer{outputDir: outputDir}
}

type sectionGroup struct {
	name string
	rows [][2]string // question text, answer text
}

// Render writes the document and returns its path. The file name embeds the
// chat id and completion timestamp so retained artifacts are identifiable.
func (r *PDFRenderer) Render(response *entity.QuestionnaireResponse, def *questionnaire.Definition) (string, error) {
	if response == nil || len(response.Answers) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrRender)
	}

	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}

	groups := groupBySection(response, def)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Product Development Questionnaire", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// Metadata
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("Chat ID: %d", response.ChatId), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Completed: %s", response.CompletedAt.Format(time.RFC3339)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	for _, group := range groups {
		// Section heading
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, group.name, "", 1, "L", false, 0, "")
		pdf.Ln(1)

		// Header row
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(211, 211, 211)
		pdf.CellFormat(colWidth, rowHeight+2, "Question", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colWidth, rowHeight+2, "Answer", "1", 1, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for _, row := range group.rows {
			writeTableRow(pdf, row[0], row[1])
		}
		pdf.Ln(4)
	}

	fileName := fmt.Sprintf("questionnaire_%d_%s.pdf", response.ChatId, response.CompletedAt.Format("20060102_150405"))
	outPath := filepath.Join(r.outputDir, fileName)

	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return outPath, nil
}

// writeTableRow writes one bordered Q/A row with wrapping text. Both cells
// grow to the taller of the two.
func writeTableRow(pdf *fpdf.Fpdf, question, answer string) {
	qLines := pdf.SplitText(question, colWidth-2)
	aLines := pdf.SplitText(answer, colWidth-2)
	lines := len(qLines)
	if len(aLines) > lines {
		lines = len(aLines)
	}
	height := float64(lines) * rowHeight

	x, y := pdf.GetXY()
	pdf.Rect(x, y, colWidth, height, "D")
	pdf.Rect(x+colWidth, y, colWidth, height, "D")

	pdf.MultiCell(colWidth, rowHeight, question, "", "L", false)
	pdf.SetXY(x+colWidth, y)
	pdf.MultiCell(colWidth, rowHeight, answer, "", "L", false)
	pdf.SetXY(x, y+height)
}

// groupBySection orders sections by first appearance in the definition and
// keeps each section's answered questions in definition order. Answers whose
// question id is no longer in the definition land in a trailing "Other"
// section rather than being dropped.
func groupBySection(response *entity.QuestionnaireResponse, def *questionnaire.Definition) []sectionGroup {
	answered := make(map[string]string, len(response.Answers))
	for _, a := range response.Answers {
		answered[a.QuestionId] = a.Text
	}

	var groups []sectionGroup
	index := make(map[string]int)
	seen := make(map[string]struct{})

	for _, q := range def.Questions() {
		text, ok := answered[q.Id]
		if !ok {
			continue
		}
		seen[q.Id] = struct{}{}
		i, ok := index[q.Section]
		if !ok {
			i = len(groups)
			index[q.Section] = i
			groups = append(groups, sectionGroup{name: q.Section})
		}
		groups[i].rows = append(groups[i].rows, [2]string{q.Text, text})
	}

	var orphans [][2]string
	for _, a := range response.Answers {
		if _, ok := seen[a.QuestionId]; !ok {
			orphans = append(orphans, [2]string{a.QuestionId, a.Text})
		}
	}
	if len(orphans) > 0 {
		groups = append(groups, sectionGroup{name: "Other", rows: orphans})
	}

	return groups
}
