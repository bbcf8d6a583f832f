// Package pdf exports the transaction log as a paginated statement. Page
// geometry belongs to the PDF collaborator; this package only lays out a
// title, a header row, and one line per transaction.
package pdf

import (
	"io"

	"github.com/jung-kurt/gofpdf"

	"banquito/internal/core"
)

// DefaultFilename is the download name offered for the export.
const DefaultFilename = "transactions.pdf"

// pageBreakY is the fixed vertical offset (mm) past which a new page
// starts.
const pageBreakY = 270.0

// Column widths in mm; together they fit a portrait A4 text body.
var columns = []struct {
	title string
	width float64
}{
	{"Date", 55},
	{"Type", 30},
	{"Detail", 70},
	{"Amount", 30},
}

// Statement renders one account's history.
type Statement struct {
	account *core.Account
}

func NewStatement(a *core.Account) *Statement {
	return &Statement{account: a}
}

// Write renders the document to w.
func (s *Statement) Write(w io.Writer) error {
	return s.doc().Output(w)
}

func (s *Statement) doc() *gofpdf.Fpdf {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.Cell(0, 10, "Transaction Log")
	doc.Ln(8)
	doc.SetFont("Helvetica", "", 10)
	doc.Cell(0, 8, s.account.OwnerName+"  -  "+s.account.AccountNumber)
	doc.Ln(12)

	if len(s.account.Moves) == 0 {
		doc.SetFont("Helvetica", "I", 11)
		doc.Cell(0, 8, "No transactions")
		return doc
	}

	s.writeHeader(doc)
	doc.SetFont("Helvetica", "", 10)
	for _, m := range s.account.Moves {
		if doc.GetY() > pageBreakY {
			doc.AddPage()
			s.writeHeader(doc)
			doc.SetFont("Helvetica", "", 10)
		}
		detail := m.Detail
		if detail == "" {
			detail = "-"
		}
		cells := []string{m.Date, string(m.Kind), detail, core.FormatUSD(m.AmountCents)}
		for i, c := range columns {
			align := "L"
			if c.title == "Amount" {
				align = "R"
			}
			doc.CellFormat(c.width, 7, cells[i], "", 0, align, false, 0, "")
		}
		doc.Ln(-1)
	}
	return doc
}

func (s *Statement) writeHeader(doc *gofpdf.Fpdf) {
	doc.SetFont("Helvetica", "B", 10)
	for _, c := range columns {
		doc.CellFormat(c.width, 7, c.title, "B", 0, "L", false, 0, "")
	}
	doc.Ln(-1)
}
