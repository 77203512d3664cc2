package exporter

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrodash/pkg/contracts/domain"
)

func uncompressedOptions() PDFOptions {
	opts := DefaultPDFOptions()
	opts.Compress = false
	opts.DocumentID = "test-doc"
	return opts
}

func longTable(rows int) domain.Table {
	t := domain.Table{
		Title:   "Dados",
		Columns: []string{domain.ColumnDate, domain.ColumnSoja, domain.ColumnBuyRate},
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, []domain.Cell{
			domain.DateCell(start.AddDate(0, 0, i), true),
			domain.NumberCell(domain.Some(100 + float64(i))),
			domain.NumberCell(domain.Absent()),
		})
	}
	return t
}

// pageCount reads the page count from the uncompressed page tree.
func pageCount(pdf []byte) int {
	return bytes.Count(pdf, []byte("/Type /Page\n"))
}

func TestWritePDF_SinglePage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, longTable(3), uncompressedOptions()))

	out := buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, 1, pageCount(out))
	assert.Equal(t, 1, bytes.Count(out, []byte("Projeto Agr")), "watermark")
	assert.Equal(t, 1, bytes.Count(out, []byte("(Relat")), "title")
	assert.Contains(t, string(out), "(01/01/2024) Tj")
	assert.Contains(t, string(out), "(100.00) Tj")
}

func TestWritePDF_RepeatsHeaderAndWatermark(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, longTable(120), uncompressedOptions()))

	out := buf.Bytes()
	pages := pageCount(out)
	require.Greater(t, pages, 1)

	assert.Equal(t, pages, bytes.Count(out, []byte("Projeto Agr")), "watermark on every page")
	assert.Equal(t, pages, bytes.Count(out, []byte("(Soja) Tj")), "header on every page")
	assert.Equal(t, 1, bytes.Count(out, []byte("(Relat")), "title on the first page only")
	assert.Equal(t, pages, bytes.Count(out, []byte(fmt.Sprintf("/%d) Tj", pages))), "footer page totals")

	// 45 degree rotation about the anchor
	assert.Contains(t, string(out), "0.70711 0.70711 -0.70711 0.70711")
}

func TestWritePDF_EmptyInput(t *testing.T) {
	var buf bytes.Buffer
	err := WritePDF(&buf, domain.Table{Columns: []string{"Data"}}, DefaultPDFOptions())
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Zero(t, buf.Len())
}

func TestWritePDF_Compressed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, longTable(5), DefaultPDFOptions()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.NotContains(t, buf.String(), "(Soja) Tj")
}
