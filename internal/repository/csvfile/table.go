// Package csvfile implements the repository interfaces on top of flat,
// header-delimited comma-separated files.
//
// FILE FORMAT:
// The first non-blank line is the header row, e.g.
//
//	id,name,email,password,created_at,updated_at
//
// and every following non-blank line is one record. A record never spans
// lines. Fields are split on commas and stored verbatim, quotes included.
// Fields are positional: a short row gets "" for its missing trailing
// fields and extra fields are ignored. Blank lines anywhere are skipped.
//
// QUOTED ROWS:
// A row whose values contain a comma cannot be written as a plain join, so
// Write encodes that row (and only that row) in RFC 4180 form. Read
// recognises such a row because splitting it on commas yields more fields
// than the header has, while decoding it as RFC 4180 does not. Every other
// line is taken literally, so hand-written tables with stray quotes keep
// each row on its own line and keep their quotes.
//
// WHOLE-FILE SEMANTICS:
// There are no partial updates. Write replaces the entire table through a
// temp file and rename (moby/sys/atomicwriter), so a concurrent Read sees
// either the old table or the new one, never a torn mix of both.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/moby/sys/atomicwriter"

	"github.com/sakif/landing-auth/internal/apperror"
)

// Record is one parsed row keyed by header name.
type Record map[string]string

// ensureMu serializes Ensure across all tables in the process, so two
// goroutines racing on a new file cannot both write the header row.
var ensureMu sync.Mutex

// Ensure creates the parent directories and the file at path if they do
// not exist. A file that is missing or empty gets the header row followed
// by a newline. Existing content is never modified.
func Ensure(path string, headers []string) error {
	ensureMu.Lock()
	defer ensureMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperror.IO("creating directory for", path, err)
	}

	// O_APPEND: if the file already has content we must not overwrite it.
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return apperror.IO("opening", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return apperror.IO("inspecting", path, err)
	}
	if info.Size() > 0 {
		return nil
	}

	if _, err := f.WriteString(headerLine(headers) + "\n"); err != nil {
		return apperror.IO("writing header to", path, err)
	}
	return nil
}

// Read ensures the table exists and returns its records in file order.
//
// A table with no non-blank lines yields an empty slice, not an error.
// A first non-blank line that differs from the expected header yields
// invalid_header. A read failure yields io_error.
func Read(path string, headers []string) ([]Record, error) {
	if err := Ensure(path, headers); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, apperror.IO("reading", path, err)
	}

	header, body, found := splitHeader(content)
	if !found {
		return []Record{}, nil
	}
	if want := headerLine(headers); header != want {
		return nil, apperror.InvalidHeader(path, header, want)
	}

	records := []Record{}
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		row := splitRow(line, len(headers))
		rec := make(Record, len(headers))
		for i, key := range headers {
			if i < len(row) {
				rec[key] = row[i]
			} else {
				rec[key] = ""
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// Write ensures the table exists and replaces its entire contents with the
// header row plus one line per row, each terminated by "\n".
//
// A row without commas in its values is written as strings.Join(row, ","),
// byte for byte. A row with a comma in any value is written in RFC 4180
// form. A value containing a line break is rejected with validation_error:
// records are one line each.
func Write(path string, headers []string, rows [][]string) error {
	for _, row := range rows {
		for i, field := range row {
			if strings.ContainsAny(field, "\r\n") {
				return apperror.ValidationFailed(columnName(headers, i), "value must not contain a line break")
			}
		}
	}

	if err := Ensure(path, headers); err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(headerLine(headers))
	buf.WriteByte('\n')

	for _, row := range rows {
		if !needsQuoting(row) {
			buf.WriteString(strings.Join(row, ","))
			buf.WriteByte('\n')
			continue
		}
		w := csv.NewWriter(&buf)
		if err := w.Write(row); err != nil {
			return apperror.IO("encoding", path, err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return apperror.IO("encoding", path, err)
		}
	}

	if err := atomicwriter.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return apperror.IO("writing", path, err)
	}
	return nil
}

func headerLine(headers []string) string {
	return strings.Join(headers, ",")
}

// splitHeader returns the first non-blank line of content (without its line
// terminator) and everything after it. found is false when content holds
// nothing but whitespace.
func splitHeader(content []byte) (header string, rest []byte, found bool) {
	for len(content) > 0 {
		line := content
		next := []byte(nil)
		if i := bytes.IndexByte(content, '\n'); i >= 0 {
			line = content[:i]
			next = content[i+1:]
		}
		if len(bytes.TrimSpace(line)) > 0 {
			return string(bytes.TrimSuffix(line, []byte("\r"))), next, true
		}
		content = next
	}
	return "", nil, false
}

// splitRow splits one line into fields. The line is decoded as RFC 4180
// only when a plain split overflows the header and the decoded row fits it.
func splitRow(line string, width int) []string {
	fields := strings.Split(line, ",")
	if len(fields) <= width || !strings.Contains(line, `"`) {
		return fields
	}

	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	decoded, err := r.Read()
	if err != nil || len(decoded) > width {
		return fields
	}
	if _, err := r.Read(); !errors.Is(err, io.EOF) {
		return fields
	}
	return decoded
}

func needsQuoting(row []string) bool {
	for _, field := range row {
		if strings.Contains(field, ",") {
			return true
		}
	}
	return false
}

func columnName(headers []string, i int) string {
	if i < len(headers) {
		return headers[i]
	}
	return ""
}
