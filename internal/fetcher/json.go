package fetcher

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
)

// DecodeRawArray decodes a JSON array of objects into raw records. Numbers
// are kept as json.Number so the schema engine can coerce them without
// float precision loss.
func DecodeRawArray(r io.Reader) ([]model.RawRecord, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var records []model.RawRecord
	if err := decoder.Decode(&records); err != nil {
		return nil, eris.Wrap(err, "json: decode array")
	}
	return records, nil
}

// DecodeObject decodes a single JSON object from a reader.
func DecodeObject[T any](r io.Reader) (*T, error) {
	var obj T
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&obj); err != nil {
		return nil, eris.Wrap(err, "json: decode object")
	}
	return &obj, nil
}
