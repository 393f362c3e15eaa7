// Package csvio reads and writes transaction CSV files.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/smartfinance/internal/models"
)

// ImportColumns is the column order expected by Import.
const ImportColumns = "date,description,category,amount,type"

// DefaultCategory is used when a row leaves the category empty.
const DefaultCategory = "Uncategorized"

// SkippedRow records why an input row was not imported.
type SkippedRow struct {
	Line   int
	Reason string
}

// ImportResult holds the parsed transactions and the rejected rows.
// Transactions carry no ID; the entity manager assigns one on save.
type ImportResult struct {
	Transactions []models.Transaction
	Skipped      []SkippedRow
}

// Import parses a CSV with the header row followed by ImportColumns.
//
// A bad row never fails the import. Rows missing a date, description or
// amount, or whose amount is not a number, are skipped and reported. The
// type is income only when the column says so (any case); anything else is
// an expense.
func Import(r io.Reader) (ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var result ImportResult
	header := true
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			if !header {
				result.Skipped = append(result.Skipped, SkippedRow{Line: parseErr.StartLine, Reason: parseErr.Err.Error()})
			}
			header = false
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to read csv: %w", err)
		}

		if header {
			header = false
			continue
		}

		tx, reason := parseRow(record)
		if reason != "" {
			line, _ := cr.FieldPos(0)
			result.Skipped = append(result.Skipped, SkippedRow{Line: line, Reason: reason})
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	return result, nil
}

func parseRow(record []string) (models.Transaction, string) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	date, description, category, amount, kind := field(0), field(1), field(2), field(3), field(4)
	switch {
	case date == "":
		return models.Transaction{}, "missing date"
	case description == "":
		return models.Transaction{}, "missing description"
	case amount == "":
		return models.Transaction{}, "missing amount"
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Transaction{}, fmt.Sprintf("invalid amount %q", amount)
	}

	if category == "" {
		category = DefaultCategory
	}
	txType := models.TransactionExpense
	if strings.EqualFold(kind, string(models.TransactionIncome)) {
		txType = models.TransactionIncome
	}

	return models.Transaction{
		Date:        date,
		Description: description,
		Category:    category,
		Amount:      value.InexactFloat64(),
		Type:        txType,
	}, ""
}

// Summary is the confirmation message shown after an import.
func Summary(result ImportResult) string {
	msg := fmt.Sprintf("Successfully imported %d transactions from your CSV file.", len(result.Transactions))
	if n := len(result.Skipped); n > 0 {
		msg += fmt.Sprintf(" %d rows were skipped.", n)
	}
	return msg
}
