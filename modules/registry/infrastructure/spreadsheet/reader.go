package spreadsheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	gerrors "github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

var ErrUnsupportedFormat = gerrors.New("unsupported spreadsheet format")

// DetectFormat picks the decoder from the file extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", gerrors.Wrapf(ErrUnsupportedFormat, "%q", filepath.Ext(name))
	}
}

// DetectContent decides by extension and sniffs the leading bytes only when the name has
// none: any zip container is treated as a workbook and any text as CSV. r is rewound.
func DetectContent(r io.ReadSeeker, name string) (Format, error) {
	if filepath.Ext(name) != "" {
		return DetectFormat(name)
	}
	mt, err := mimetype.DetectReader(r)
	if _, serr := r.Seek(0, io.SeekStart); serr != nil {
		return "", gerrors.Wrap(serr, "rewind upload")
	}
	if err != nil {
		return "", gerrors.Wrap(err, "sniff upload")
	}
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is("application/zip"):
			return FormatXLSX, nil
		case m.Is("text/plain"):
			return FormatCSV, nil
		}
	}
	return "", gerrors.Wrapf(ErrUnsupportedFormat, "content %s", mt.String())
}

type Options struct {
	// Sheet selects a worksheet by name; the first sheet is used when empty. Ignored for CSV.
	Sheet string
}

// sourceRow is one decoded line with its 1-based line number in the file.
type sourceRow struct {
	line  int
	cells []string
}

// Read decodes the first row as headers and every following non-blank row into a RawRow
// keyed by header text, with the row's line in the file under record.SourceLineKey. Cells are
// returned as displayed strings; dates that use the locale short-date format are rendered as
// yyyy-mm-dd.
func Read(r io.Reader, format Format, opts Options) ([]record.RawRow, error) {
	var (
		rows []sourceRow
		err  error
	)
	switch format {
	case FormatXLSX:
		rows, err = readXLSX(r, opts.Sheet)
	case FormatCSV:
		rows, err = readCSV(r)
	default:
		return nil, gerrors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
	if err != nil {
		return nil, err
	}
	return toRawRows(rows), nil
}

func readXLSX(r io.Reader, sheet string) ([]sourceRow, error) {
	f, err := excelize.OpenReader(r, excelize.Options{ShortDatePattern: "yyyy-mm-dd"})
	if err != nil {
		return nil, gerrors.Wrap(err, "open workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, gerrors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, gerrors.Wrapf(err, "read sheet %q", sheet)
	}
	// GetRows keeps interior empty rows, so the index maps to the sheet row.
	out := make([]sourceRow, len(rows))
	for i, cells := range rows {
		out[i] = sourceRow{line: i + 1, cells: cells}
	}
	return out, nil
}

func readCSV(r io.Reader) ([]sourceRow, error) {
	br := stripUTF8BOM(bufio.NewReader(r))
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if first, err := br.Peek(br.Size()); err == nil || len(first) > 0 {
		cr.Comma = detectDelimiter(first)
	}
	var rows []sourceRow
	for {
		cells, err := cr.Read()
		if gerrors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, gerrors.Wrap(err, "read csv")
		}
		// csv.Reader drops empty lines; FieldPos keeps the count honest.
		line, _ := cr.FieldPos(0)
		rows = append(rows, sourceRow{line: line, cells: cells})
	}
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

// detectDelimiter chooses between comma and the semicolon used by spreadsheet exports in
// comma-decimal locales, judging by the header line.
func detectDelimiter(head []byte) rune {
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	if bytes.Count(head, []byte{';'}) > bytes.Count(head, []byte{','}) {
		return ';'
	}
	return ','
}

func toRawRows(rows []sourceRow) []record.RawRow {
	if len(rows) == 0 {
		return nil
	}
	headers := make([]string, len(rows[0].cells))
	for i, h := range rows[0].cells {
		headers[i] = strings.TrimSpace(h)
	}

	out := make([]record.RawRow, 0, len(rows)-1)
	for _, src := range rows[1:] {
		row := make(record.RawRow, len(headers)+1)
		blank := true
		for j, cell := range src.cells {
			if j >= len(headers) || headers[j] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				blank = false
			}
			// Repeated header text keeps the first non-empty cell.
			if prev, ok := row[headers[j]].(string); ok && prev != "" {
				continue
			}
			row[headers[j]] = cell
		}
		if blank {
			continue
		}
		row[record.SourceLineKey] = src.line
		out = append(out, row)
	}
	return out
}
