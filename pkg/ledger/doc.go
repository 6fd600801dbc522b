// Package ledger records every generated term as a row of an .xlsx workbook.
package ledger
