package rowparser

import (
	"errors"
	"testing"

	"fjacquet/ledger-import/internal/columnmap"
	"fjacquet/ledger-import/internal/logging"
	"fjacquet/ledger-import/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var singleAmount = columnmap.NewMapping(map[models.Field]string{
	models.FieldDate:        "Date",
	models.FieldDescription: "Description",
	models.FieldAmount:      "Amount",
})

var debitCredit = columnmap.NewMapping(map[models.Field]string{
	models.FieldDate:        "Date",
	models.FieldDescription: "Libellé",
	models.FieldDebit:       "Débit",
	models.FieldCredit:      "Crédit",
})

func row(line int, headers []string, values ...string) RawRow {
	return NewRawRow(line, headers, values)
}

func TestParseRow_SingleAmount(t *testing.T) {
	headers := []string{"Date", "Description", "Amount"}
	tests := []struct {
		name      string
		values    []string
		amount    string
		direction models.Direction
		date      string
	}{
		{"french thousands", []string{"01/12/2025", "SALAIRE", "1 234,56"}, "1234.56", models.DirectionIncome, "2025-12-01"},
		{"anglo thousands", []string{"2025-12-01", "BONUS", "1,234.56"}, "1234.56", models.DirectionIncome, "2025-12-01"},
		{"plain", []string{"01/12/2025", "REFUND", "1234.56"}, "1234.56", models.DirectionIncome, "2025-12-01"},
		{"negative is expense", []string{"01/12/2025", "CARREFOUR", "-42,30"}, "42.30", models.DirectionExpense, "2025-12-01"},
	}
	p := New(singleAmount)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := p.ParseRow(row(2, headers, tt.values...))
			require.NoError(t, err)
			require.NotNil(t, tx)
			assert.Equal(t, tt.amount, tx.Amount.StringFixed(2))
			assert.Equal(t, tt.direction, tx.Direction)
			assert.Equal(t, tt.date, tx.Date.Format("2006-01-02"))
			assert.False(t, tx.Amount.IsNegative())
		})
	}
}

func TestParseRow_Dropped(t *testing.T) {
	headers := []string{"Date", "Description", "Amount"}
	tests := []struct {
		name   string
		values []string
	}{
		{"unparseable date", []string{"not-a-date", "X", "10"}},
		{"empty date", []string{"", "X", "10"}},
		{"unparseable amount", []string{"01/12/2025", "X", "ten"}},
		{"empty amount", []string{"01/12/2025", "X", ""}},
		{"zero amount", []string{"01/12/2025", "X", "0,00"}},
		{"short record", []string{"01/12/2025", "X"}},
	}
	p := New(singleAmount)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := p.ParseRow(row(3, headers, tt.values...))
			assert.NoError(t, err)
			assert.Nil(t, tx)
		})
	}
}

func TestParseRow_DebitCredit(t *testing.T) {
	headers := []string{"Date", "Libellé", "Débit", "Crédit"}
	p := New(debitCredit)

	tx, err := p.ParseRow(row(2, headers, "05/01/2025", "VIR SALAIRE", "", "2 500,00"))
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, models.DirectionIncome, tx.Direction)
	assert.Equal(t, "2500.00", tx.Amount.StringFixed(2))

	tx, err = p.ParseRow(row(3, headers, "06/01/2025", "CB MONOPRIX", "35,10", ""))
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, models.DirectionExpense, tx.Direction)
	assert.Equal(t, "35.10", tx.Amount.StringFixed(2))

	tx, err = p.ParseRow(row(4, headers, "06/01/2025", "NEGATIVE DEBIT", "-12,00", ""))
	require.NoError(t, err)
	assert.Nil(t, tx)

	tx, err = p.ParseRow(row(4, headers, "07/01/2025", "NOTHING", "", ""))
	require.NoError(t, err)
	assert.Nil(t, tx)

	tx, err = p.ParseRow(row(5, headers, "07/01/2025", "ZEROES", "0,00", "0,00"))
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestParseRow_NoAmountStrategy(t *testing.T) {
	mapping := columnmap.NewMapping(map[models.Field]string{models.FieldDate: "Date"})
	tx, err := New(mapping).ParseRow(row(2, []string{"Date"}, "01/01/2025"))
	assert.NoError(t, err)
	assert.Nil(t, tx)
}

func TestParseRow_Description(t *testing.T) {
	headers := []string{"Date", "Description", "Amount"}

	tx, err := New(singleAmount).ParseRow(row(2, headers, "01/01/2025", "  CB  SHOP  ", "-1"))
	require.NoError(t, err)
	assert.Equal(t, "CB  SHOP", tx.Description)

	tx, err = New(singleAmount).ParseRow(row(2, headers, "01/01/2025", "   ", "-1"))
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDescription, tx.Description)

	tx, err = New(singleAmount, WithPlaceholder("Imported")).ParseRow(row(2, headers, "01/01/2025", "", "-1"))
	require.NoError(t, err)
	assert.Equal(t, "Imported", tx.Description)
}

func TestParseRow_DateOpFallback(t *testing.T) {
	mapping := columnmap.NewMapping(map[models.Field]string{
		models.FieldDate:   "dateVal",
		models.FieldAmount: "amount",
	})
	headers := []string{"dateOp", "dateVal", "amount"}

	tx, err := New(mapping).ParseRow(row(2, headers, "2025-03-04", "", "-9,99"))
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, "2025-03-04", tx.Date.Format("2006-01-02"))
}

func TestParseAll_RowNumbersAndDrops(t *testing.T) {
	table, err := ReadTable("Date,Description,Amount\n01/01/2025,A,-1\nbad,B,-2\n03/01/2025,C,3\n", ',')
	require.NoError(t, err)

	logger := logging.NewMockLogger()
	txs, failures := New(singleAmount, WithLogger(logger)).ParseAll(table.Rows)

	assert.Empty(t, failures)
	require.Len(t, txs, 2)
	assert.Equal(t, 2, txs[0].Row)
	assert.Equal(t, 4, txs[1].Row)
	assert.Len(t, logger.EntriesByLevel("DEBUG"), 1)
}

func TestParseAll_FailingRowsAreRecorded(t *testing.T) {
	table, err := ReadTable("Date,Description,Amount\n01/01/2025,A,-1\n02/01/2025,BOOM,-2\n03/01/2025,PANIC,4\n04/01/2025,D,5\n", ',')
	require.NoError(t, err)

	logger := logging.NewMockLogger()
	p := New(singleAmount, WithLogger(logger), WithCheck(func(r RawRow) error {
		desc, _ := r.Get("Description")
		switch desc {
		case "BOOM":
			return errors.New("rejected")
		case "PANIC":
			panic("broken row")
		}
		return nil
	}))
	txs, failures := p.ParseAll(table.Rows)

	require.Len(t, failures, 2)
	assert.Equal(t, 3, failures[0].Row)
	assert.EqualError(t, failures[0], "row 3: rejected")
	assert.Equal(t, 4, failures[1].Row)
	assert.Contains(t, failures[1].Error(), "unexpected failure: broken row")

	require.Len(t, txs, 2)
	assert.Equal(t, "A", txs[0].Description)
	assert.Equal(t, "D", txs[1].Description)
	assert.Equal(t, 5, txs[1].Row)

	warnings := logger.EntriesByLevel("WARN")
	require.Len(t, warnings, 2)
	assert.Equal(t, "Failed to parse row", warnings[0].Message)
	assert.Contains(t, warnings[0].Fields, logging.F(logging.FieldRow, 3))
}

func TestReadTable(t *testing.T) {
	text := "\ufeff dateOp ;label;amount\n01/01/2025;\"CB \"\"SHOP\"\"; PARIS\";-1,00\n\n02/01/2025;X\n"

	table, err := ReadTable(text, ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"dateOp", "label", "amount"}, table.Headers)
	require.Len(t, table.Rows, 2)

	label, ok := table.Rows[0].Get("label")
	require.True(t, ok)
	assert.Equal(t, `CB "SHOP"; PARIS`, label)
	assert.Equal(t, 2, table.Rows[0].Line)

	_, ok = table.Rows[1].Get("amount")
	assert.False(t, ok)
	assert.Equal(t, map[string]string{"dateOp": "02/01/2025", "label": "X", "amount": ""}, table.Rows[1].Cells())
}

func TestReadTable_Empty(t *testing.T) {
	_, err := ReadTable("\ufeff  \n", ',')
	assert.Error(t, err)
}
