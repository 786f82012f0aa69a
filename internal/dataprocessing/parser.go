package dataprocessing

import (
	"bufio"
	"encoding/csv"
	stderrors "errors"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"wbstats/internal/errors"
)

// ReadRecords reads an indicator CSV, discarding the first skipRows physical
// lines (blank lines included) and a leading UTF-8 BOM. The first returned
// record is the header. Read failures from r are returned unchanged.
func ReadRecords(r io.Reader, skipRows int) ([][]string, error) {
	br := bufio.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))

	for i := 0; i < skipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if stderrors.As(err, &parseErr) {
			return nil, errors.NewParsingError("failed to parse indicator CSV", err)
		}
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.NewDataFormatError("missing header row").
			WithContext("skip_rows", skipRows)
	}

	for i, h := range records[0] {
		records[0][i] = strings.TrimSpace(h)
	}
	return records, nil
}
