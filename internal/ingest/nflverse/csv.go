package nflverse

import (
	"database/sql"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// CSVReader wraps a streaming CSV body with header-name column lookup.
// nflverse assets occasionally grow columns, so rows are read with
// FieldsPerRecord disabled and columns are addressed by name.
type CSVReader struct {
	r    *csv.Reader
	body io.Closer
	idx  map[string]int
}

// NewCSVReader reads the header row and prepares column lookup.
func NewCSVReader(body io.ReadCloser) (*CSVReader, error) {
	r := csv.NewReader(body)
	r.FieldsPerRecord = -1

	hdr, err := r.Read()
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(hdr))
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	return &CSVReader{r: r, body: body, idx: idx}, nil
}

// Col returns the column index for a header name, or -1 when absent.
func (c *CSVReader) Col(name string) int {
	if i, ok := c.idx[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

// Next returns the next record, or io.EOF when exhausted.
func (c *CSVReader) Next() ([]string, error) {
	return c.r.Read()
}

// Close closes the underlying body.
func (c *CSVReader) Close() error {
	if c.body == nil {
		return nil
	}
	return c.body.Close()
}

// field returns the trimmed cell at idx, or "" when the column is absent or
// the row is short.
func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func intField(rec []string, idx int) int {
	n, _ := strconv.Atoi(field(rec, idx))
	return n
}

func floatField(rec []string, idx int) float64 {
	f, _ := strconv.ParseFloat(field(rec, idx), 64)
	return f
}

// boolField handles nflverse's 0/1 flag columns.
func boolField(rec []string, idx int) bool {
	switch field(rec, idx) {
	case "1", "1.0", "true", "TRUE":
		return true
	}
	return false
}

func nullStrField(rec []string, idx int) sql.NullString {
	s := field(rec, idx)
	if s == "" || s == "NA" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullFloatField(rec []string, idx int) sql.NullFloat64 {
	s := field(rec, idx)
	if s == "" || s == "NA" {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func nullIntField(rec []string, idx int) sql.NullInt32 {
	s := field(rec, idx)
	if s == "" || s == "NA" {
		return sql.NullInt32{}
	}
	// Some integer columns arrive as "3.0".
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(f), Valid: true}
}
