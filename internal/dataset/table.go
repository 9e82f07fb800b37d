package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// LoadOptions controls how a dataset file is read.
type LoadOptions struct {
	// Delimiter for CSV. If 0, ',' unless the file name ends in .tsv.
	Delimiter rune
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
	// Sheet selects an XLSX worksheet by name; empty means the first sheet.
	Sheet string
	// Numeric parsing locale. Zero values mean plain Go float syntax.
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// Column is one named field of a Table. Nums is populated only for numeric columns.
type Column struct {
	Name   string
	Kind   Kind
	Values []string
	Nums   []float64
}

// IsNumeric reports whether every value in the column parsed as a number.
func (c *Column) IsNumeric() bool { return c != nil && c.Kind == KindNumeric }

// Table is an in-memory rectangular dataset with no missing values.
// It is read-only once Load returns.
type Table struct {
	Name    string
	Path    string
	Columns []*Column
	Read    int // data rows read from the source
	Dropped int // rows removed because a field was missing
}

// Len returns the number of rows kept.
func (t *Table) Len() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Names returns column names in declared order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// NumericColumns returns the numeric columns in declared order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}

// naTokens are cell values treated as missing in addition to blanks.
var naTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

// isMissing reports blank or whitespace-only cells and NA tokens, compared
// after trimming.
func isMissing(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	_, ok := naTokens[v]
	return ok
}

// Load reads a CSV/TSV or XLSX file into a Table and drops every row that has
// a missing value in any column. All failures are returned as *DataSourceError.
func Load(path string, opt LoadOptions) (*Table, error) {
	var (
		header  []string
		records [][]string
		err     error
	)
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		header, records, err = readXLSX(path, opt)
	} else {
		header, records, err = readCSV(path, opt)
	}
	if err != nil {
		return nil, &DataSourceError{Path: path, Err: err}
	}
	t := build(header, records, opt)
	t.Name = filepath.Base(path)
	t.Path = path
	return t, nil
}

func readCSV(path string, opt LoadOptions) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, errors.New("no columns to parse from file")
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	header = cleanHeader(header)
	var records [][]string
	for {
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			break
		}
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		if len(rec) > len(header) {
			return nil, nil, fmt.Errorf("row %d: expected %d fields, saw %d", len(records)+1, len(header), len(rec))
		}
		records = append(records, rec)
	}
	return header, records, nil
}

// cleanHeader trims names, strips a UTF-8 BOM and disambiguates duplicates
// as name, name.1, name.2 ...
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	seen := map[string]int{}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for {
			n, dup := seen[name]
			if !dup {
				break
			}
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", h, n+1)
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}

// build infers column kinds from every non-missing cell read, then drops
// incomplete rows. A column with cells but none observed (all missing) is
// numeric; a column with no data rows at all is categorical.
func build(header []string, records [][]string, opt LoadOptions) *Table {
	ncol := len(header)
	t := &Table{Read: len(records)}
	t.Columns = make([]*Column, ncol)
	for i, name := range header {
		t.Columns[i] = &Column{Name: name, Kind: KindCategorical, Values: []string{}}
	}
	if len(records) > 0 {
		for j, c := range t.Columns {
			if columnIsNumeric(records, j, opt) {
				c.Kind = KindNumeric
				c.Nums = []float64{}
			}
		}
	}

	for _, rec := range records {
		complete := len(rec) >= ncol
		if complete {
			for j := 0; j < ncol; j++ {
				if isMissing(rec[j]) {
					complete = false
					break
				}
			}
		}
		if !complete {
			t.Dropped++
			continue
		}
		for j, c := range t.Columns {
			v := strings.TrimSpace(rec[j])
			c.Values = append(c.Values, v)
			if c.Kind == KindNumeric {
				x, _ := parseNumeric(v, opt)
				c.Nums = append(c.Nums, x)
			}
		}
	}
	return t
}

// columnIsNumeric reports whether every non-missing cell of column j parses
// as a finite number, including cells of rows that will be dropped.
func columnIsNumeric(records [][]string, j int, opt LoadOptions) bool {
	for _, rec := range records {
		if j >= len(rec) || isMissing(rec[j]) {
			continue
		}
		if _, ok := parseNumeric(rec[j], opt); !ok {
			return false
		}
	}
	return true
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func parseNumeric(s string, opt LoadOptions) (float64, bool) {
	raw := strings.TrimSpace(s)
	if thou := opt.ThousandsSeparator; thou != 0 && thou != opt.DecimalSeparator {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec := opt.DecimalSeparator; dec != 0 && dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
