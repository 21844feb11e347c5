package dataset

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/insightlab/automl/pkg/errors"
)

// ReadCSV builds a Dataset from CSV content. The first record is the header.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewValueError("dataset.ReadCSV", "empty input")
	}
	if err != nil {
		return nil, errors.Wrap(err, "dataset.ReadCSV: reading header")
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "dataset.ReadCSV: reading record")
		}
		records = append(records, record)
	}

	return New(header, records)
}

// ReadCSVFile builds a Dataset from a CSV file on disk.
func ReadCSVFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset.ReadCSVFile: opening %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}
