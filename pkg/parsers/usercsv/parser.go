package usercsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/laborhours/api/pkg/domain/provisioning"
)

// Parser errors.
var (
	ErrEmptyFile     = errors.New("file contains no data rows")
	ErrInvalidHeader = errors.New("invalid header row")
	ErrTooManyRows   = errors.New("too many rows")
)

// Header is the expected column layout. The processes column holds a
// comma-separated list and is therefore quoted in well-formed files.
var Header = []string{"email", "full_name", "processes"}

// Parser parses bulk user import files.
type Parser struct {
	opts *Options
}

// Options configures the parser behavior.
type Options struct {
	// MaxRows limits the number of data rows accepted (0 = unlimited).
	MaxRows int

	// SkipBlankRows drops rows whose fields are all empty instead of
	// reporting them as malformed.
	SkipBlankRows bool
}

// DefaultOptions returns the default parser options.
func DefaultOptions() *Options {
	return &Options{
		MaxRows:       1000,
		SkipBlankRows: true,
	}
}

// NewParser creates a new parser. If opts is nil, defaults are used.
func NewParser(opts *Options) *Parser {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Parser{opts: opts}
}

// RowError describes a row that could not be parsed at all. Rows that
// parse but fail validation are handled downstream, not here.
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ParseFile parses an import file from the given path.
func (p *Parser) ParseFile(path string) ([]provisioning.BatchItem, []RowError, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse parses CSV content from a reader into batch items. The first
// row must be the header. Returns the items in file order plus any
// row-level parse errors.
func (p *Parser) Parse(r io.Reader) ([]provisioning.BatchItem, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, nil, err
	}

	var (
		items     []provisioning.BatchItem
		rowErrors []RowError
		line      = 1
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++

		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rowErrors = append(rowErrors, RowError{
					Line:    parseErr.Line,
					Message: parseErr.Err.Error(),
				})
				continue
			}
			return nil, nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}

		if p.opts.SkipBlankRows && isBlank(record) {
			continue
		}

		if len(record) < len(Header) {
			rowErrors = append(rowErrors, RowError{
				Line:    line,
				Message: fmt.Sprintf("expected %d columns, got %d", len(Header), len(record)),
			})
			continue
		}

		items = append(items, provisioning.BatchItem{
			Email:     strings.TrimSpace(record[0]),
			FullName:  strings.TrimSpace(record[1]),
			Processes: splitProcesses(record[2]),
		})

		if p.opts.MaxRows > 0 && len(items) > p.opts.MaxRows {
			return nil, nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, p.opts.MaxRows)
		}
	}

	if len(items) == 0 && len(rowErrors) == 0 {
		return nil, nil, ErrEmptyFile
	}
	return items, rowErrors, nil
}

func validateHeader(header []string) error {
	if len(header) < len(Header) {
		return fmt.Errorf("%w: expected columns %s", ErrInvalidHeader, strings.Join(Header, ","))
	}
	for i, want := range Header {
		got := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
		if got != want {
			return fmt.Errorf("%w: column %d is %q, expected %q", ErrInvalidHeader, i+1, header[i], want)
		}
	}
	return nil
}

// splitProcesses splits the quoted processes field on commas. Empty
// segments are kept so the validator can report them per item.
func splitProcesses(field string) []string {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	parts := strings.Split(field, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
