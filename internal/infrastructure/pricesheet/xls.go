package pricesheet

import (
	"bytes"
	"errors"
	"io"
	"strings"

	xls "github.com/extrame/xls"
)

// scanCols bounds the column scan, the legacy format does not expose a reliable row width
const scanCols = 256

// Legacy workbooks from Brazilian ERPs are mostly cp1252
var xlsCharsets = []string{"windows-1252", "utf-8", "iso-8859-1"}

// readXLS returns the cell grid of the first worksheet of a legacy .xls workbook
func readXLS(r io.Reader) ([][]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var wb *xls.WorkBook
	var lastErr error
	for _, charset := range xlsCharsets {
		wb, err = xls.OpenReader(bytes.NewReader(b), charset)
		if err == nil && wb != nil {
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return nil, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	width := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := 0; j < scanCols; j++ {
			if strings.TrimSpace(row.Col(j)) != "" && j+1 > width {
				width = j + 1
			}
		}
	}
	if width == 0 {
		return nil, nil
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		cols := make([]string, width)
		if row := sheet.Row(i); row != nil {
			for j := 0; j < width; j++ {
				cols[j] = row.Col(j)
			}
		}
		rows = append(rows, cols)
	}
	return rows, nil
}
