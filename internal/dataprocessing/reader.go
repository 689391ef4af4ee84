package dataprocessing

import (
	"bytes"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"unicode/utf8"

	"genosum/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCNVFile parses a tab-separated copy-number segment file. The first line
// is the header.
func ReadCNVFile(path string) (*Table, error) {
	data, err := readText(path)
	if err != nil {
		return nil, err
	}
	return parseTSV(path, data)
}

// ReadMAFFile parses a Mutation Annotation Format file. Lines starting with
// '#' are metadata and are dropped before parsing; the first remaining line is
// the header.
func ReadMAFFile(path string) (*Table, error) {
	data, err := readText(path)
	if err != nil {
		return nil, err
	}
	return parseTSV(path, stripCommentLines(data))
}

func readText(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFoundError(path, err)
		}
		return nil, errors.NewStorageError(fmt.Sprintf("failed to read %s", path), err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, errors.NewParsingError(fmt.Sprintf("%s is not valid UTF-8 text", path), nil)
	}
	return data, nil
}

func stripCommentLines(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))
	for len(data) > 0 {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i+1], data[i+1:]
		} else {
			data = nil
		}
		if bytes.HasPrefix(line, []byte("#")) {
			continue
		}
		out.Write(line)
	}
	return out.Bytes()
}

func parseTSV(path string, data []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.NewParsingError(fmt.Sprintf("%s: no columns to parse from file", path), nil)
	}
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("%s: malformed header", path), err)
	}

	table := &Table{Columns: normalizeHeader(header)}
	width := len(table.Columns)

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("%s: malformed row", path), err)
		}

		if len(record) > width {
			line, _ := r.FieldPos(0)
			return nil, errors.NewParsingError(
				fmt.Sprintf("%s: expected %d fields in line %d, saw %d", path, width, line, len(record)), nil)
		}
		if len(record) < width {
			padded := make([]string, width)
			copy(padded, record)
			record = padded
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// normalizeHeader names blank columns and disambiguates repeated names by
// suffixing ".1", ".2", ...
func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		base := name
		for {
			if _, dup := seen[name]; !dup {
				break
			}
			seen[base]++
			name = base + "." + strconv.Itoa(seen[base])
		}
		seen[name] = 0
		columns[i] = name
	}
	return columns
}
