package taxer

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrMissingTaxCode indicates Build was called without a tax code.
	ErrMissingTaxCode = errors.New("taxer: tax code is required")
	// ErrMissingDate indicates Build was called without a date.
	ErrMissingDate = errors.New("taxer: date is required")
	// ErrMissingAmount indicates Build was called without an amount.
	ErrMissingAmount = errors.New("taxer: amount is required")
)

// BuildError wraps a validation failure raised by a raw builder setter.
type BuildError struct {
	Field string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("taxer: invalid %s: %v", e.Field, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Record is a single Taxer import line. It is created by RecordBuilder.Build
// or NewRecord and cannot be changed afterwards.
type Record struct {
	taxCode      TaxCode
	date         time.Time
	amount       Amount
	comment      string
	operation    string
	incomeType   string
	accountName  string
	currencyCode string
}

// NewRecord creates a record with the required data and a comment. Other
// fields stay empty. It applies the same checks as RecordBuilder.Build.
func NewRecord(code TaxCode, date time.Time, amount Amount, comment string) (Record, error) {
	return Builder().
		TaxCode(code).
		Date(date).
		Amount(amount).
		Comment(comment).
		Build()
}

// TaxCode returns the payer tax code.
func (r Record) TaxCode() TaxCode { return r.taxCode }

// Date returns the transaction time, truncated to seconds.
func (r Record) Date() time.Time { return r.date }

// Amount returns the transaction amount.
func (r Record) Amount() Amount { return r.amount }

// Comment returns the payment purpose text.
func (r Record) Comment() string { return r.comment }

// Operation returns the operation kind, e.g. "Дохід".
func (r Record) Operation() string { return r.operation }

// IncomeType returns the income category.
func (r Record) IncomeType() string { return r.incomeType }

// AccountName returns the account label used by the importer.
func (r Record) AccountName() string { return r.accountName }

// CurrencyCode returns the currency code, empty when not set.
func (r Record) CurrencyCode() string { return r.currencyCode }

// RecordBuilder stages record fields until Build validates them.
type RecordBuilder struct {
	taxCode      *TaxCode
	date         *time.Time
	amount       *Amount
	comment      string
	operation    string
	incomeType   string
	accountName  string
	currencyCode string
}

// NewRecordBuilder returns an empty builder.
func NewRecordBuilder() *RecordBuilder {
	return &RecordBuilder{}
}

// Builder is shorthand for NewRecordBuilder.
func Builder() *RecordBuilder {
	return NewRecordBuilder()
}

// TaxCode stages an already validated tax code.
func (b *RecordBuilder) TaxCode(code TaxCode) *RecordBuilder {
	b.taxCode = &code
	return b
}

// RawTaxCode validates raw before staging it.
func (b *RecordBuilder) RawTaxCode(raw string) (*RecordBuilder, error) {
	code, err := NewTaxCode(raw)
	if err != nil {
		return b, &BuildError{Field: "tax_code", Err: err}
	}
	return b.TaxCode(code), nil
}

// Date stages the transaction time. A zero time leaves the date unset.
func (b *RecordBuilder) Date(date time.Time) *RecordBuilder {
	if date.IsZero() {
		b.date = nil
		return b
	}
	date = date.Truncate(time.Second)
	b.date = &date
	return b
}

// Amount stages an already validated amount.
func (b *RecordBuilder) Amount(amount Amount) *RecordBuilder {
	b.amount = &amount
	return b
}

// RawAmount validates raw before staging it.
func (b *RecordBuilder) RawAmount(raw float64) (*RecordBuilder, error) {
	amount, err := NewAmount(raw)
	if err != nil {
		return b, &BuildError{Field: "amount", Err: err}
	}
	return b.Amount(amount), nil
}

// Comment sets the comment.
func (b *RecordBuilder) Comment(comment string) *RecordBuilder {
	b.comment = comment
	return b
}

// Operation sets the operation.
func (b *RecordBuilder) Operation(operation string) *RecordBuilder {
	b.operation = operation
	return b
}

// IncomeType sets the income type.
func (b *RecordBuilder) IncomeType(incomeType string) *RecordBuilder {
	b.incomeType = incomeType
	return b
}

// AccountName sets the account name.
func (b *RecordBuilder) AccountName(accountName string) *RecordBuilder {
	b.accountName = accountName
	return b
}

// CurrencyCode sets the currency code.
func (b *RecordBuilder) CurrencyCode(currencyCode string) *RecordBuilder {
	b.currencyCode = currencyCode
	return b
}

// Build checks required fields in the order tax code, date, amount and
// returns the first one missing. Zero TaxCode and Amount values count as
// missing since they never come out of NewTaxCode or NewAmount.
func (b *RecordBuilder) Build() (Record, error) {
	if b.taxCode == nil || b.taxCode.IsZero() {
		return Record{}, ErrMissingTaxCode
	}
	if b.date == nil {
		return Record{}, ErrMissingDate
	}
	if b.amount == nil || b.amount.IsZero() {
		return Record{}, ErrMissingAmount
	}
	return Record{
		taxCode:      *b.taxCode,
		date:         *b.date,
		amount:       *b.amount,
		comment:      b.comment,
		operation:    b.operation,
		incomeType:   b.incomeType,
		accountName:  b.accountName,
		currencyCode: b.currencyCode,
	}, nil
}
