package csvio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/smartfinance/internal/models"
)

// ExportHeader is the first line written by Export.
const ExportHeader = "id,date,description,amount,category,type"

// Export writes transactions as CSV. The description is always quoted with
// embedded quotes doubled; the amount has exactly two decimals.
func Export(w io.Writer, txs []models.Transaction) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, ExportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, tx := range txs {
		_, err := fmt.Fprintf(bw, "%s,%s,%s,%s,%s,%s\n",
			field(tx.ID),
			field(tx.Date),
			quote(tx.Description),
			decimal.NewFromFloat(tx.Amount).StringFixed(2),
			field(tx.Category),
			field(string(tx.Type)),
		)
		if err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// field quotes only values that would otherwise break the row.
func field(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quote(s)
	}
	return s
}
