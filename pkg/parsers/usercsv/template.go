package usercsv

import (
	"encoding/csv"
	"io"
)

// templateRows are the example rows included in the downloadable import
// template. Grants are top-level category indexes, never deeper levels.
var templateRows = [][]string{
	{"ivanov@example.com", "Ivan Ivanov", "1,2,3"},
	{"petrova@example.com", "Anna Petrova", "2"},
}

// WriteTemplate writes a sample import file with the expected header
// and a couple of example rows. encoding/csv quotes the processes
// field automatically because it contains commas.
func WriteTemplate(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, row := range templateRows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
