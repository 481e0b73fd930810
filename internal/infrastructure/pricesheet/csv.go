package pricesheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV reads a delimited price list, converting legacy encodings to UTF-8.
// The delimiter is ";" when the header sample has more semicolons than commas,
// which is what Brazilian spreadsheet exports produce.
func readCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	peek, _ := br.Peek(2048)

	var dec io.Reader = br
	switch detectCharset(peek) {
	case "utf-8":
	case "iso-8859-1":
		dec = transform.NewReader(br, charmap.ISO8859_1.NewDecoder())
	default:
		// Anything else that is not UTF-8 is read as cp1252
		dec = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = detectDelimiter(peek)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func detectCharset(sample []byte) string {
	if len(sample) == 0 || utf8.Valid(sample) {
		return "utf-8"
	}
	det, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || det == nil {
		return "utf-8"
	}
	return strings.ToLower(det.Charset)
}

func detectDelimiter(sample []byte) rune {
	line := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		line = sample[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
