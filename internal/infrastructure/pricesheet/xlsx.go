package pricesheet

import (
	"io"

	excelize "github.com/xuri/excelize/v2"
)

// readXLSX returns the cell grid of the first worksheet
func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	return f.GetRows(sheet)
}
