package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// reportTemplate is the self-contained printable document. It mirrors
// the dashboard styling so the report can be printed or archived as-is.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Petty Cash Report</title>
<style>
    body { font-family: Arial, sans-serif; margin: 20px; }
    .header { text-align: center; margin-bottom: 30px; }
    .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin-bottom: 30px; }
    .stat-card { background: #f8f9fa; padding: 15px; border-radius: 8px; text-align: center; }
    .stat-value { font-size: 24px; font-weight: bold; color: #333; }
    .stat-label { font-size: 12px; color: #666; text-transform: uppercase; }
    table { width: 100%; border-collapse: collapse; margin-top: 20px; }
    th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
    th { background-color: #f2f2f2; font-weight: bold; }
    .status-borrowed { color: #dc3545; }
    .status-returned { color: #28a745; }
    @media print { body { margin: 0; } }
</style>
</head>
<body>
<div class="header">
    <h1>Petty Cash Report</h1>
    <p>Report Type: {{.Type}}</p>
    <p>Period: {{.Period}}</p>
    <p>From: {{.From}} To: {{.To}}</p>
    <p>Generated on: {{.GeneratedAt}}</p>
</div>
<div class="stats">
    <div class="stat-card"><div class="stat-value">{{.Stats.TotalTransactions}}</div><div class="stat-label">Total Transactions</div></div>
    <div class="stat-card"><div class="stat-value">{{.TotalBorrowed}}</div><div class="stat-label">Total Borrowed</div></div>
    <div class="stat-card"><div class="stat-value">{{.TotalReturned}}</div><div class="stat-label">Total Returned</div></div>
    <div class="stat-card"><div class="stat-value">{{.PendingReturns}}</div><div class="stat-label">Pending Returns</div></div>
</div>
<table>
    <thead>
        <tr><th>Date</th><th>Borrower</th><th>Amount</th><th>Returned Amount</th><th>Status</th><th>Return Date</th><th>Description</th></tr>
    </thead>
    <tbody>
    {{range .Rows}}
        <tr>
            <td>{{.Date}}</td>
            <td>{{.Borrower}}</td>
            <td>{{.Amount}}</td>
            <td>{{.Returned}}</td>
            <td class="status-{{.Status}}">{{.StatusLabel}}</td>
            <td>{{.ReturnDate}}</td>
            <td>{{.Description}}</td>
        </tr>
    {{end}}
    </tbody>
</table>
</body>
</html>
`))

type reportRow struct {
	Date        string
	Borrower    string
	Amount      string
	Returned    string
	Status      string
	StatusLabel string
	ReturnDate  string
	Description string
}

// HTML renders the printable report document.
func (r Report) HTML() ([]byte, error) {
	data := struct {
		Type        string
		Period      string
		From, To    string
		GeneratedAt string
		Stats       Stats
		TotalBorrowed, TotalReturned, PendingReturns string
		Rows        []reportRow
	}{
		Type:           strings.ToUpper(r.Type),
		Period:         strings.ToUpper(string(r.Period)),
		From:           r.Range.Start.Format("Mon Jan 02 2006"),
		To:             r.Range.End.Format("Mon Jan 02 2006"),
		GeneratedAt:    r.GeneratedAt.Format("2006-01-02 15:04:05"),
		Stats:          r.Stats,
		TotalBorrowed:  "Rs " + r.Stats.TotalBorrowed.Format(),
		TotalReturned:  "Rs " + r.Stats.TotalReturned.Format(),
		PendingReturns: "Rs " + r.Stats.PendingReturns.Format(),
	}
	for _, t := range r.Transactions {
		row := reportRow{
			Date:        t.BorrowDate.Format("Jan 02, 2006"),
			Borrower:    t.Borrower,
			Amount:      "Rs " + t.Amount.Format(),
			Returned:    "Rs " + t.ReturnedAmount.Format(),
			Status:      string(t.Status()),
			StatusLabel: strings.ToUpper(string(t.Status())),
			ReturnDate:  "-",
			Description: "-",
		}
		if !t.ReturnDate.IsZero() {
			row.ReturnDate = t.ReturnDate.Format("Jan 02, 2006")
		}
		if t.Description != "" {
			row.Description = t.Description
		}
		data.Rows = append(data.Rows, row)
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
