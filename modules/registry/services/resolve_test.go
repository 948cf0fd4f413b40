package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/civreg/modules/registry/domain/record"
)

func mustSchema(t *testing.T, kind record.Kind) record.Schema {
	t.Helper()
	s, err := record.Lookup(kind)
	require.NoError(t, err)
	return s
}

func TestResolveRecord_AliasPriority(t *testing.T) {
	s := mustSchema(t, record.KindAktaKelahiran)

	rec := ResolveRecord(s, NormalizeRow(record.RawRow{
		"Kode Arsip": "AK-12012023-001",
		"No. Akta":   "OTHER-1",
		"Nama Anak":  "Budi",
	}), 2)
	key, _ := rec.Get("no_akta")
	require.Equal(t, "AK-12012023-001", key)

	rec = ResolveRecord(s, NormalizeRow(record.RawRow{
		"Kode Arsip": "  ",
		"No. Akta":   "OTHER-1",
		"Nama Anak":  "Budi",
	}), 2)
	key, _ = rec.Get("no_akta")
	require.Equal(t, "OTHER-1", key)
}

func TestResolveRecord_DefaultsAndDates(t *testing.T) {
	s := mustSchema(t, record.KindAktaKelahiran)

	rec := ResolveRecord(s, NormalizeRow(record.RawRow{
		"KODE ARSIP":    "AK-12012023-001",
		"NAMA ANAK":     "Budi",
		"TANGGAL LAHIR": "DI TERBITKAN 12 JULI 2002",
	}), 7)

	require.Equal(t, 7, rec.Line())
	require.Equal(t, "AK-12012023-001", rec.Key())

	tipe, ok := rec.Get("tipe_akta")
	require.True(t, ok)
	require.Equal(t, "UMUM", tipe)

	lahir, ok := rec.Get("tanggal_lahir")
	require.True(t, ok)
	require.Equal(t, "2002-07-12", lahir)

	terbit, ok := rec.Get("tanggal_terbit")
	require.True(t, ok)
	require.Equal(t, "2023-01-12", terbit)

	ayah, ok := rec.Get("nama_ayah")
	require.True(t, ok)
	require.Empty(t, ayah)
}

func TestResolveRecord_DateWithoutFallbackIsNull(t *testing.T) {
	s := mustSchema(t, record.KindKTP)

	rec := ResolveRecord(s, NormalizeRow(record.RawRow{
		"NIK":           "'3201010101010001",
		"NAMA":          "Budi",
		"TANGGAL LAHIR": "no date info",
	}), 2)

	require.Equal(t, "3201010101010001", rec.Key())
	require.Nil(t, rec.Value("tanggal_lahir"))
	require.Nil(t, rec.Value("tanggal_terbit"))
}

func TestResolveRecord_NumericKey(t *testing.T) {
	s := mustSchema(t, record.KindKK)

	rec := ResolveRecord(s, NormalizeRow(record.RawRow{
		"NO. KK":          3201010101010001.0,
		"KEPALA KELUARGA": "Budi",
	}), 2)
	require.Equal(t, "3201010101010001", rec.Key())
}

func TestFirstAlias(t *testing.T) {
	row := record.NormalizedRow{"A": "", "B": nil, "C": "c", "D": "d"}

	v, ok := FirstAlias(row, []string{"A", "B", "C", "D"})
	require.True(t, ok)
	require.Equal(t, "c", v)

	_, ok = FirstAlias(row, []string{"A", "Z"})
	require.False(t, ok)
}
