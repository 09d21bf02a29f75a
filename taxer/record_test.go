package taxer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTaxCode(t *testing.T, raw string) TaxCode {
	t.Helper()
	code, err := NewTaxCode(raw)
	require.NoError(t, err)
	return code
}

func mustAmount(t *testing.T, raw float64) Amount {
	t.Helper()
	amount, err := NewAmount(raw)
	require.NoError(t, err)
	return amount
}

func mustRecord(t *testing.T, code TaxCode, date time.Time, amount Amount, comment string) Record {
	t.Helper()
	record, err := NewRecord(code, date, amount, comment)
	require.NoError(t, err)
	return record
}

var sampleDate = time.Date(2025, time.July, 22, 13, 24, 35, 0, time.UTC)

func TestBuilderCompleteRecord(t *testing.T) {
	record, err := Builder().
		TaxCode(mustTaxCode(t, "2121049841")).
		Date(sampleDate).
		Amount(mustAmount(t, 220394.05)).
		Comment("Послуги з розробки").
		Operation("Дохід").
		IncomeType("Основний дохід").
		AccountName("ФОП").
		CurrencyCode("UAH").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "2121049841", record.TaxCode().String())
	assert.True(t, sampleDate.Equal(record.Date()))
	assert.Equal(t, 220394.05, record.Amount().Raw())
	assert.Equal(t, "Послуги з розробки", record.Comment())
	assert.Equal(t, "Дохід", record.Operation())
	assert.Equal(t, "Основний дохід", record.IncomeType())
	assert.Equal(t, "ФОП", record.AccountName())
	assert.Equal(t, "UAH", record.CurrencyCode())
}

func TestBuilderDefaultsOptionalFields(t *testing.T) {
	record, err := NewRecordBuilder().
		TaxCode(mustTaxCode(t, "3141592600")).
		Date(sampleDate).
		Amount(mustAmount(t, 10)).
		Build()
	require.NoError(t, err)
	assert.Empty(t, record.Comment())
	assert.Empty(t, record.Operation())
	assert.Empty(t, record.IncomeType())
	assert.Empty(t, record.AccountName())
	assert.Empty(t, record.CurrencyCode())
}

func TestBuilderMissingAmount(t *testing.T) {
	_, err := Builder().
		TaxCode(mustTaxCode(t, "3141592600")).
		Date(sampleDate).
		Build()
	require.ErrorIs(t, err, ErrMissingAmount)
}

func TestBuilderMissingFieldPrecedence(t *testing.T) {
	cases := []struct {
		name    string
		builder *RecordBuilder
		want    error
	}{
		{"nothing set", Builder(), ErrMissingTaxCode},
		{"only amount", Builder().Amount(mustAmount(t, 1)), ErrMissingTaxCode},
		{"only date", Builder().Date(sampleDate), ErrMissingTaxCode},
		{"date and amount", Builder().Date(sampleDate).Amount(mustAmount(t, 1)), ErrMissingTaxCode},
		{"only tax code", Builder().TaxCode(mustTaxCode(t, "12345678")), ErrMissingDate},
		{"tax code and amount", Builder().TaxCode(mustTaxCode(t, "12345678")).Amount(mustAmount(t, 1)), ErrMissingDate},
		{"tax code and date", Builder().TaxCode(mustTaxCode(t, "12345678")).Date(sampleDate), ErrMissingAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.builder.Build()
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBuilderZeroDateCountsAsMissing(t *testing.T) {
	_, err := Builder().
		TaxCode(mustTaxCode(t, "12345678")).
		Date(time.Time{}).
		Amount(mustAmount(t, 1)).
		Build()
	require.ErrorIs(t, err, ErrMissingDate)
}

func TestBuilderRawSetters(t *testing.T) {
	b := Builder().Date(sampleDate)
	b, err := b.RawTaxCode("3141592600")
	require.NoError(t, err)
	b, err = b.RawAmount(15.75)
	require.NoError(t, err)

	record, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "3141592600", record.TaxCode().String())
	assert.Equal(t, 15.75, record.Amount().Raw())
}

func TestBuilderRawSettersFailAtCallSite(t *testing.T) {
	b := Builder()

	_, err := b.RawTaxCode("123")
	var buildErr *BuildError
	require.True(t, errors.As(err, &buildErr))
	assert.Equal(t, "tax_code", buildErr.Field)
	var codeErr *TaxCodeError
	require.True(t, errors.As(err, &codeErr))
	assert.Equal(t, "123", codeErr.Code)

	_, err = b.RawAmount(0)
	require.True(t, errors.As(err, &buildErr))
	assert.Equal(t, "amount", buildErr.Field)
	var amountErr *AmountError
	require.True(t, errors.As(err, &amountErr))
	assert.Equal(t, 0.0, amountErr.Value)

	_, err = b.Build()
	require.ErrorIs(t, err, ErrMissingTaxCode)
}

func TestBuilderTruncatesToSeconds(t *testing.T) {
	date := sampleDate.Add(750 * time.Millisecond)
	record, err := Builder().
		TaxCode(mustTaxCode(t, "12345678")).
		Date(date).
		Amount(mustAmount(t, 1)).
		Build()
	require.NoError(t, err)
	assert.True(t, sampleDate.Equal(record.Date()))
}

func TestBuiltRecordIsDetachedFromBuilder(t *testing.T) {
	b := Builder().
		TaxCode(mustTaxCode(t, "12345678")).
		Date(sampleDate).
		Amount(mustAmount(t, 1)).
		Comment("first")
	first, err := b.Build()
	require.NoError(t, err)

	b.Comment("second").Amount(mustAmount(t, 2))
	assert.Equal(t, "first", first.Comment())
	assert.Equal(t, 1.0, first.Amount().Raw())
}

func TestBuilderRejectsZeroValueObjects(t *testing.T) {
	_, err := Builder().
		TaxCode(TaxCode{}).
		Date(sampleDate).
		Amount(mustAmount(t, 1)).
		Build()
	require.ErrorIs(t, err, ErrMissingTaxCode)

	_, err = Builder().
		TaxCode(mustTaxCode(t, "12345678")).
		Date(sampleDate).
		Amount(Amount{}).
		Build()
	require.ErrorIs(t, err, ErrMissingAmount)

	_, err = Builder().TaxCode(TaxCode{}).Date(sampleDate).Amount(Amount{}).Build()
	require.ErrorIs(t, err, ErrMissingTaxCode)
}

func TestNewRecordRejectsMissingValues(t *testing.T) {
	_, err := NewRecord(TaxCode{}, sampleDate, mustAmount(t, 1), "")
	require.ErrorIs(t, err, ErrMissingTaxCode)

	_, err = NewRecord(mustTaxCode(t, "12345678"), time.Time{}, mustAmount(t, 1), "")
	require.ErrorIs(t, err, ErrMissingDate)

	_, err = NewRecord(mustTaxCode(t, "12345678"), sampleDate, Amount{}, "")
	require.ErrorIs(t, err, ErrMissingAmount)
}

func TestNewRecord(t *testing.T) {
	record := mustRecord(t, mustTaxCode(t, "3141592600"), sampleDate, mustAmount(t, 220394.05), "Послуги з розробки")
	assert.Equal(t, "3141592600", record.TaxCode().String())
	assert.Equal(t, "Послуги з розробки", record.Comment())
	assert.Empty(t, record.CurrencyCode())
}
