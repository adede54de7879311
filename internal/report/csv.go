package report

import (
	"bytes"

	"pettycash/internal/core"
)

// csvHeader matches the export consumed by the office spreadsheet; keep
// column order stable.
var csvHeader = []string{
	"ID", "Borrow Date", "Borrower", "Amount", "Returned Amount",
	"Status", "Return Date", "Contact", "Description", "Return Notes",
}

// CSV exports the ENTIRE transaction set in store order, independent of
// any active report filter. That full-history behavior is intentional.
// Every field is double-quoted; embedded quotes are not escaped (known
// limitation, mirrored from the legacy export).
func CSV(txs []core.Transaction) []byte {
	var buf bytes.Buffer
	writeRow(&buf, csvHeader)
	for _, t := range txs {
		buf.WriteByte('\n')
		writeRow(&buf, []string{
			t.ID,
			t.BorrowDate.String(),
			t.Borrower,
			t.Amount.Format(),
			t.ReturnedAmount.Format(),
			string(t.Status()),
			t.ReturnDate.String(),
			t.Contact,
			t.Description,
			t.ReturnNotes,
		})
	}
	return buf.Bytes()
}

func writeRow(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(f)
		buf.WriteByte('"')
	}
}
