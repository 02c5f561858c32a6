package spreadsheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/warehouse-api/internal/application/importer"
)

var _ importer.RowReader = (*Reader)(nil)

// Reader lee archivos CSV y XLSX como filas de texto.
type Reader struct {
	// MaxBytes corta la lectura del archivo (0 = sin límite).
	MaxBytes int64
}

// NewReader construye el lector con un tamaño máximo de archivo.
func NewReader(maxBytes int64) *Reader {
	return &Reader{MaxBytes: maxBytes}
}

// ReadRows devuelve todas las filas del archivo (CSV) o de la primera hoja (XLSX).
func (r *Reader) ReadRows(src io.Reader, format, enc string) ([][]string, error) {
	if src == nil {
		return nil, fmt.Errorf("archivo vacío")
	}
	if r.MaxBytes > 0 {
		src = &limitedReader{r: src, left: r.MaxBytes}
	}
	switch format {
	case importer.FormatCSV:
		return readCSV(src, enc)
	case importer.FormatXLSX:
		return readXLSX(src)
	}
	return nil, fmt.Errorf("formato no soportado: %s", format)
}

func decoderFor(enc string) (encoding.Encoding, error) {
	switch enc {
	case "", importer.EncodingUTF8:
		// Descarta el BOM UTF-8 que agrega Excel al exportar.
		return unicode.UTF8BOM, nil
	case importer.EncodingWindows1256:
		return charmap.Windows1256, nil
	case importer.EncodingISO88591:
		return charmap.ISO8859_1, nil
	}
	return nil, fmt.Errorf("codificación no soportada: %s", enc)
}

func readCSV(src io.Reader, enc string) ([][]string, error) {
	e, err := decoderFor(enc)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(transform.NewReader(src, e.NewDecoder()))

	// Excel en configuración regional es/ar exporta con ';'.
	first, _ := br.Peek(4096)
	if i := bytes.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	cr := csv.NewReader(br)
	if bytes.Count(first, []byte{';'}) > bytes.Count(first, []byte{','}) {
		cr.Comma = ';'
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	return rows, nil
}

func readXLSX(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("abrir XLSX: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("XLSX sin hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("leer hoja %s: %w", sheets[0], err)
	}
	return rows, nil
}

// limitedReader como io.LimitReader pero falla en vez de truncar en silencio.
type limitedReader struct {
	r    io.Reader
	left int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.left <= 0 {
		// Un byte más indica que el archivo supera el límite.
		var one [1]byte
		if n, _ := l.r.Read(one[:]); n > 0 {
			return 0, fmt.Errorf("el archivo supera el tamaño máximo permitido")
		}
		return 0, io.EOF
	}
	if int64(len(p)) > l.left {
		p = p[:l.left]
	}
	n, err := l.r.Read(p)
	l.left -= int64(n)
	return n, err
}
