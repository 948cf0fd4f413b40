package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("Data Akta.XLSX")
	require.NoError(t, err)
	require.Equal(t, FormatXLSX, f)

	f, err = DetectFormat("ktp.csv")
	require.NoError(t, err)
	require.Equal(t, FormatCSV, f)

	_, err = DetectFormat("ktp.pdf")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDetectContent(t *testing.T) {
	wb := workbook(t, "Sheet1", [][]any{{"NIK", "NAMA"}, {"3201010101010001", "Siti"}})
	r := bytes.NewReader(wb.Bytes())
	f, err := DetectContent(r, "upload")
	require.NoError(t, err)
	require.Equal(t, FormatXLSX, f)
	rows, err := Read(r, f, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	f, err = DetectContent(strings.NewReader("NIK,NAMA\n3201010101010001,Siti\n"), "blob")
	require.NoError(t, err)
	require.Equal(t, FormatCSV, f)

	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	_, err = DetectContent(bytes.NewReader(png), "scan")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = DetectContent(strings.NewReader("NIK\n"), "ktp.pdf")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestRead_XLSXFirstSheet(t *testing.T) {
	buf := workbook(t, "Sheet1", [][]any{
		{" KODE ARSIP ", "Nama Anak", "Tipe Akta"},
		{"AK-12012023-001", "Budi", "LT"},
		{nil, nil, nil},
		{"AK-13012023-002", "Sari"},
	})

	rows, err := Read(buf, FormatXLSX, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "AK-12012023-001", rows[0]["KODE ARSIP"])
	require.Equal(t, "LT", rows[0]["Tipe Akta"])
	require.Equal(t, "Sari", rows[1]["Nama Anak"])
	_, ok := rows[1]["Tipe Akta"]
	require.False(t, ok)
}

func TestRead_XLSXNamedSheet(t *testing.T) {
	buf := workbook(t, "Kelahiran", [][]any{
		{"NO AKTA", "NAMA"},
		{"A-1", "Budi"},
	})

	rows, err := Read(buf, FormatXLSX, Options{Sheet: "Kelahiran"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "A-1", rows[0]["NO AKTA"])

	_, err = Read(workbook(t, "Kelahiran", [][]any{{"NO AKTA"}}), FormatXLSX, Options{Sheet: "Missing"})
	require.Error(t, err)
}

func TestRead_CSVStripsBOMAndDetectsSemicolon(t *testing.T) {
	input := "\xEF\xBB\xBFNIK;NAMA;ALAMAT\n'3201010101010001;Budi;Jl. Merdeka, 1\n;;\n"

	rows, err := Read(strings.NewReader(input), FormatCSV, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "'3201010101010001", rows[0]["NIK"])
	require.Equal(t, "Jl. Merdeka, 1", rows[0]["ALAMAT"])
}

func TestRead_RepeatedHeaderKeepsFirstNonEmpty(t *testing.T) {
	input := "NAMA,NAMA,NIK\n,Budi,1\nSari,Ani,2\n"

	rows, err := Read(strings.NewReader(input), FormatCSV, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Budi", rows[0]["NAMA"])
	require.Equal(t, "Sari", rows[1]["NAMA"])
}

func TestRead_RecordsSourceLines(t *testing.T) {
	input := "NO AKTA,NAMA ANAK\nA-1,Budi\n,,\n\n,,\nA-2,\n"

	rows, err := Read(strings.NewReader(input), FormatCSV, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	line, ok := rows[0].SourceLine()
	require.True(t, ok)
	require.Equal(t, 2, line)
	line, ok = rows[1].SourceLine()
	require.True(t, ok)
	require.Equal(t, 6, line)

	buf := workbook(t, "Sheet1", [][]any{
		{"NO AKTA", "NAMA ANAK"},
		{"A-1", "Budi"},
		{nil, nil},
		{nil, nil},
		{"A-2", nil},
	})
	rows, err = Read(buf, FormatXLSX, Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	line, _ = rows[1].SourceLine()
	require.Equal(t, 5, line)
}

func TestRead_EmptyInput(t *testing.T) {
	rows, err := Read(strings.NewReader(""), FormatCSV, Options{})
	require.NoError(t, err)
	require.Empty(t, rows)
}
