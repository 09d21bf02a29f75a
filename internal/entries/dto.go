package entries

import (
	"encoding/json"
	"fmt"
)

// Entry is a raw transaction as supplied by upstream bookkeeping exports.
type Entry struct {
	TaxCode      string      `json:"tax_code" validate:"required,max=32"`
	Date         string      `json:"date" validate:"required"`
	Amount       json.Number `json:"amount" validate:"required"`
	Comment      string      `json:"comment" validate:"max=1024"`
	Operation    string      `json:"operation" validate:"max=128"`
	IncomeType   string      `json:"income_type" validate:"max=128"`
	AccountName  string      `json:"account_name" validate:"max=256"`
	CurrencyCode string      `json:"currency_code" validate:"omitempty,len=3,alpha"`
}

// EntryError ties a conversion failure to the 1-based entry position.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entries: entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
