package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVReader_Comma(t *testing.T) {
	data := "Vencimento,Evento,Fornecedor,Categoria,Subcategoria,Valor,Descrição,Status,Observações\n" +
		"45292,evento a,,Aluguel,Sala,100.00,desc,Pago,\n"

	rows, err := (&CSVReader{}).Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "45292", rows[1][colDueDate])
	assert.Equal(t, "Sala", rows[1][colSubcategory])
}

func TestCSVReader_SemicolonAndBOM(t *testing.T) {
	data := "\ufeffVencimento;Evento;Fornecedor;Categoria;Subcategoria;Valor\n" +
		"45292;evento a;;Aluguel;Sala;1.234,50\n"

	rows, err := (&CSVReader{}).Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Vencimento", rows[0][0])
	assert.Equal(t, "1.234,50", rows[1][colAmount])
}

func TestCSVReader_RaggedRows(t *testing.T) {
	data := "a,b,c\n1\n1,2,3,4\n"
	rows, err := (&CSVReader{}).Read(strings.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestXLSXReader_RawValues(t *testing.T) {
	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]any{"Vencimento", "Evento", "Fornecedor", "Categoria", "Subcategoria", "Valor", "Descrição", "Status", "Observações"}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]any{45292, "evento a", "", "Aluguel", "Sala", 100.5, "desc", "Pago", ""}))
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	rows, err := (&XLSXReader{}).Read(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "45292", rows[1][colDueDate])
	assert.Equal(t, "evento a", rows[1][colEvent])
	assert.Equal(t, "100.5", rows[1][colAmount])
	assert.Equal(t, "Pago", rows[1][colStatus])
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("xlsx"))
	assert.NotNil(t, r.Get(".CSV"))
	assert.Nil(t, r.Get("ods"))

	assert.Panics(t, func() { r.Register(&CSVReader{}) })
}

func TestRegistry_ReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contas.csv")
	require.NoError(t, os.WriteFile(path, []byte("h1,h2\n45292,evento a\n"), 0o644))

	rows, err := DefaultRegistry().ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = DefaultRegistry().ReadFile(filepath.Join(dir, "contas.ods"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported sheet format")

	_, err = DefaultRegistry().ReadFile(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestXLSXToImport_EndToEnd(t *testing.T) {
	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]any{"Vencimento", "Evento"}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]any{45292, "evento a", "", "Aluguel", "Sala", 100, "desc", "Pago"}))
	path := filepath.Join(t.TempDir(), "contas.xlsx")
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	rows, err := DefaultRegistry().ReadFile(path)
	require.NoError(t, err)

	store := referenceStore()
	report, err := New(store, nil, Options{}).Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Imported)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, int64(10000), store.inserted[0].AmountCents)
	assert.Equal(t, "2024-01-01", store.inserted[0].DueDate)
}
