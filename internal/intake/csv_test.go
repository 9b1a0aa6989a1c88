package intake

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "\ufefftransaction id,Payer Name,Payer Country,Receiver Name,Receiver Country,Transaction Details,Amount,Remarks,Channel\n" +
		"TXN-001, Acme Corp ,US,Global Holdings,KY,Consulting fees,\"$1,250,000.00\",urgent,wire\n" +
		"\n" +
		"TXN-002,Bob Smith,GB,Alice Jones,FR,Gift,,N/A,card\n"

	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "TXN-001", first.ID)
	assert.Equal(t, "Acme Corp", first.PayerName)
	assert.Equal(t, "KY", first.ReceiverCountry)
	assert.Equal(t, "Consulting fees", first.Details)
	assert.Equal(t, "urgent", first.Remarks)
	assert.True(t, decimal.RequireFromString("1250000").Equal(first.Amount), first.Amount.String())

	assert.Equal(t, "TXN-002", rows[1].ID)
	assert.True(t, rows[1].Amount.IsZero())
}

func TestReadCSVOptionalColumns(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("Transaction ID,Payer Name,Receiver Name\nT1,A,B\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].PayerCountry)
	assert.True(t, rows[0].Amount.IsZero())
}

func TestReadCSVRejectsWholeFile(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"missing column": "Transaction ID,Payer Name\nT1,A\n",
		"bad amount":     "Transaction ID,Payer Name,Receiver Name,Amount\nT1,A,B,100\nT2,C,D,ten dollars\n",
		"bad quoting":    "Transaction ID,Payer Name,Receiver Name\nT1,\"A,B\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			rows, err := ReadCSV(strings.NewReader(input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), err.Error())
			assert.Nil(t, rows)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.csv")
	require.NoError(t, os.WriteFile(path, []byte("Transaction ID,Payer Name,Receiver Name\nT1,A,B\n"), 0o600))

	rows, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
