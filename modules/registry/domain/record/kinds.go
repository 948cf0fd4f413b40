package record

// Alias lists are ordered by priority: the first alias with a non-empty value supplies the field.

var tanggalTerbitAliases = []string{"TANGGAL TERBIT", "TGL TERBIT", "TGL. TERBIT", "KETERANGAN TERBIT", "DITERBITKAN"}

var definitions = []Schema{
	{
		Kind:      KindKTP,
		Label:     "Kartu Tanda Penduduk",
		Table:     "ktp",
		Key:       "nik",
		KeyFormat: KeyDigits16,
		Identity:  []string{"nama"},
		Protected: []string{"foto_path"},
		Fields: []Field{
			{Name: "nik", Type: FieldText, Aliases: []string{"NIK", "NO. NIK", "NO NIK", "NOMOR INDUK KEPENDUDUKAN"}},
			{Name: "no_kk", Type: FieldText, Aliases: []string{"NO. KK", "NO KK", "NOMOR KK", "NOMOR KARTU KELUARGA"}},
			{Name: "nama", Type: FieldText, Aliases: []string{"NAMA", "NAMA LENGKAP", "NAMA PENDUDUK"}},
			{Name: "tempat_lahir", Type: FieldText, Aliases: []string{"TEMPAT LAHIR", "TMPT LAHIR"}},
			{Name: "tanggal_lahir", Type: FieldDate, Aliases: []string{"TANGGAL LAHIR", "TGL LAHIR", "TGL. LAHIR"}},
			{Name: "jenis_kelamin", Type: FieldText, Aliases: []string{"JENIS KELAMIN", "JK", "L/P"}},
			{Name: "alamat", Type: FieldText, Aliases: []string{"ALAMAT", "ALAMAT LENGKAP"}},
			{Name: "agama", Type: FieldText, Aliases: []string{"AGAMA"}},
			{Name: "status_perkawinan", Type: FieldText, Aliases: []string{"STATUS PERKAWINAN", "STATUS KAWIN"}},
			{Name: "pekerjaan", Type: FieldText, Aliases: []string{"PEKERJAAN"}},
			{Name: "tanggal_terbit", Type: FieldDate, Aliases: tanggalTerbitAliases},
			{Name: "foto_path", Type: FieldText, Aliases: []string{"FOTO"}},
		},
	},
	{
		Kind:      KindKK,
		Label:     "Kartu Keluarga",
		Table:     "kartu_keluarga",
		Key:       "no_kk",
		KeyFormat: KeyDigits16,
		Identity:  []string{"kepala_keluarga"},
		Protected: []string{"scan_path"},
		Fields: []Field{
			{Name: "no_kk", Type: FieldText, Aliases: []string{"NO. KK", "NO KK", "NOMOR KK", "NOMOR KARTU KELUARGA"}},
			{Name: "kepala_keluarga", Type: FieldText, Aliases: []string{"NAMA KEPALA KELUARGA", "KEPALA KELUARGA", "NAMA KK"}},
			{Name: "alamat", Type: FieldText, Aliases: []string{"ALAMAT", "ALAMAT LENGKAP"}},
			{Name: "rt", Type: FieldText, Aliases: []string{"RT"}},
			{Name: "rw", Type: FieldText, Aliases: []string{"RW"}},
			{Name: "desa", Type: FieldText, Aliases: []string{"DESA/KELURAHAN", "KELURAHAN", "DESA"}},
			{Name: "kecamatan", Type: FieldText, Aliases: []string{"KECAMATAN"}},
			{Name: "tanggal_terbit", Type: FieldDate, Aliases: tanggalTerbitAliases},
			{Name: "scan_path", Type: FieldText, Aliases: []string{"SCAN", "FILE SCAN"}},
		},
	},
	{
		Kind:      KindAktaKelahiran,
		Label:     "Akta Kelahiran",
		Table:     "akta_kelahiran",
		Key:       "no_akta",
		KeyFormat: KeyFreeForm,
		Identity:  []string{"nama"},
		Protected: []string{"tipe_akta", "scan_path"},
		Fields: []Field{
			{Name: "no_akta", Type: FieldText, Aliases: []string{"KODE ARSIP", "KODE AKTA KELAHIRAN", "NO. AKTA", "NO AKTA", "KODE AKTA"}},
			{Name: "nama", Type: FieldText, Aliases: []string{"NAMA ANAK", "NAMA", "NAMA LENGKAP"}},
			{Name: "nik", Type: FieldText, Aliases: []string{"NIK", "NIK ANAK"}},
			{Name: "jenis_kelamin", Type: FieldText, Aliases: []string{"JENIS KELAMIN", "JK", "L/P"}},
			{Name: "tempat_lahir", Type: FieldText, Aliases: []string{"TEMPAT LAHIR", "TMPT LAHIR"}},
			{Name: "tanggal_lahir", Type: FieldDate, Aliases: []string{"TANGGAL LAHIR", "TGL LAHIR", "TGL. LAHIR"}},
			{Name: "nama_ayah", Type: FieldText, Aliases: []string{"NAMA AYAH", "AYAH"}},
			{Name: "nama_ibu", Type: FieldText, Aliases: []string{"NAMA IBU", "IBU"}},
			{Name: "tipe_akta", Type: FieldText, Aliases: []string{"TIPE AKTA", "JENIS AKTA"}, Default: "UMUM"},
			{Name: "tanggal_terbit", Type: FieldDate, Aliases: tanggalTerbitAliases, DateSource: "no_akta"},
			{Name: "scan_path", Type: FieldText, Aliases: []string{"SCAN", "FILE SCAN"}},
		},
	},
	{
		Kind:      KindAktaPerkawinan,
		Label:     "Akta Perkawinan",
		Table:     "akta_perkawinan",
		Key:       "no_akta",
		KeyFormat: KeyFreeForm,
		Identity:  []string{"nama_suami", "nama_istri"},
		Protected: []string{"scan_path"},
		Fields: []Field{
			{Name: "no_akta", Type: FieldText, Aliases: []string{"KODE ARSIP", "KODE AKTA PERKAWINAN", "NO. AKTA", "NO AKTA", "KODE AKTA"}},
			{Name: "nama_suami", Type: FieldText, Aliases: []string{"NAMA SUAMI", "SUAMI"}},
			{Name: "nama_istri", Type: FieldText, Aliases: []string{"NAMA ISTRI", "ISTRI"}},
			{Name: "agama", Type: FieldText, Aliases: []string{"AGAMA"}},
			{Name: "tempat_perkawinan", Type: FieldText, Aliases: []string{"TEMPAT PERKAWINAN", "TEMPAT NIKAH"}},
			{Name: "tanggal_perkawinan", Type: FieldDate, Aliases: []string{"TANGGAL PERKAWINAN", "TGL PERKAWINAN", "TANGGAL NIKAH"}},
			{Name: "tanggal_terbit", Type: FieldDate, Aliases: tanggalTerbitAliases, DateSource: "no_akta"},
			{Name: "scan_path", Type: FieldText, Aliases: []string{"SCAN", "FILE SCAN"}},
		},
	},
	{
		Kind:      KindAktaPerceraian,
		Label:     "Akta Perceraian",
		Table:     "akta_perceraian",
		Key:       "no_akta",
		KeyFormat: KeyFreeForm,
		Identity:  []string{"nama_suami", "nama_istri"},
		Protected: []string{"scan_path"},
		Fields: []Field{
			{Name: "no_akta", Type: FieldText, Aliases: []string{"KODE ARSIP", "KODE AKTA PERCERAIAN", "NO. AKTA", "NO AKTA", "KODE AKTA"}},
			{Name: "nama_suami", Type: FieldText, Aliases: []string{"NAMA SUAMI", "SUAMI"}},
			{Name: "nama_istri", Type: FieldText, Aliases: []string{"NAMA ISTRI", "ISTRI"}},
			{Name: "no_putusan", Type: FieldText, Aliases: []string{"NO. PUTUSAN", "NO PUTUSAN", "NOMOR PUTUSAN PENGADILAN"}},
			{Name: "tanggal_putusan", Type: FieldDate, Aliases: []string{"TANGGAL PUTUSAN", "TGL PUTUSAN"}},
			{Name: "tanggal_perceraian", Type: FieldDate, Aliases: []string{"TANGGAL PERCERAIAN", "TGL PERCERAIAN"}},
			{Name: "tanggal_terbit", Type: FieldDate, Aliases: tanggalTerbitAliases, DateSource: "no_akta"},
			{Name: "scan_path", Type: FieldText, Aliases: []string{"SCAN", "FILE SCAN"}},
		},
	},
	{
		Kind:      KindAktaKematian,
		Label:     "Akta Kematian",
		Table:     "akta_kematian",
		Key:       "no_akta",
		KeyFormat: KeyFreeForm,
		Identity:  []string{"nama"},
		Protected: []string{"scan_path"},
		Fields: []Field{
			{Name: "no_akta", Type: FieldText, Aliases: []string{"KODE ARSIP", "KODE AKTA KEMATIAN", "NO. AKTA", "NO AKTA", "KODE AKTA"}},
			{Name: "nama", Type: FieldText, Aliases: []string{"NAMA", "NAMA ALMARHUM", "NAMA JENAZAH"}},
			{Name: "nik", Type: FieldText, Aliases: []string{"NIK"}},
			{Name: "tempat_kematian", Type: FieldText, Aliases: []string{"TEMPAT KEMATIAN", "TEMPAT MENINGGAL"}},
			{Name: "tanggal_kematian", Type: FieldDate, Aliases: []string{"TANGGAL KEMATIAN", "TGL KEMATIAN", "TANGGAL MENINGGAL"}},
			{Name: "sebab_kematian", Type: FieldText, Aliases: []string{"SEBAB KEMATIAN", "PENYEBAB"}},
			{Name: "tanggal_terbit", Type: FieldDate, Aliases: tanggalTerbitAliases, DateSource: "no_akta"},
			{Name: "scan_path", Type: FieldText, Aliases: []string{"SCAN", "FILE SCAN"}},
		},
	},
}
