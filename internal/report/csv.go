package report

import (
	"encoding/csv"
	"io"
	"time"
)

// csvHeader is the export contract; column order is fixed.
var csvHeader = []string{"name", "roll_no", "email", "status", "scanned_at"}

// WriteCSV serializes rows in the fixed header order. Fields with embedded
// commas or quotes survive a parse-back.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		scanned := ""
		if r.ScannedAt != nil {
			scanned = r.ScannedAt.UTC().Format(time.RFC3339)
		}
		if err := cw.Write([]string{r.Name, r.RollNo, r.Email, r.Status, scanned}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
