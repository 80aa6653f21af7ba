package fetcher

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
)

// CSVOptions configures the CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	Latin1     bool // payload is ISO-8859-1 encoded (German push sources)
	LazyQuotes bool
}

// ReadCSV parses a CSV payload and returns the header row and the data rows.
// Rows may have variable field counts; mapping code decides what is required.
func ReadCSV(data []byte, opts CSVOptions) (header []string, rows [][]string, err error) {
	if opts.Latin1 {
		data, err = io.ReadAll(charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(data)))
		if err != nil {
			return nil, nil, eris.Wrap(err, "csv: decode latin1")
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, eris.Wrap(err, "csv: parse")
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}
