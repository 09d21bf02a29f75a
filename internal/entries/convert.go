package entries

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/taxer/taxer"
)

// Options control defaults applied while converting entries.
type Options struct {
	DefaultCurrency string
	DateLayout      string
	TrimText        bool
}

// Converter turns raw entries into taxer records.
type Converter struct {
	validator *validator.Validate
	opts      Options
	layouts   []string
}

// NewConverter constructs a Converter. An empty layout falls back to
// "2006-01-02 15:04:05".
func NewConverter(opts Options) *Converter {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	opts.DefaultCurrency = strings.ToUpper(strings.TrimSpace(opts.DefaultCurrency))
	layout := opts.DateLayout
	if strings.TrimSpace(layout) == "" {
		layout = "2006-01-02 15:04:05"
	}
	return &Converter{
		validator: v,
		opts:      opts,
		layouts:   []string{layout, time.RFC3339, "2006-01-02T15:04:05", taxer.DateLayout, "2006-01-02"},
	}
}

// Record validates a single entry and builds its record.
func (c *Converter) Record(entry Entry) (taxer.Record, error) {
	if c.opts.TrimText {
		entry = trimEntry(entry)
	}
	if err := c.validator.Struct(entry); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fieldErr := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return taxer.Record{}, fmt.Errorf("entries: %s", strings.Join(msgs, ", "))
		}
		return taxer.Record{}, err
	}

	date, err := c.parseDate(entry.Date)
	if err != nil {
		return taxer.Record{}, err
	}
	amount, err := taxer.ParseAmount(entry.Amount.String())
	if err != nil {
		return taxer.Record{}, err
	}

	b, err := taxer.Builder().RawTaxCode(entry.TaxCode)
	if err != nil {
		return taxer.Record{}, err
	}
	currency := strings.ToUpper(entry.CurrencyCode)
	if currency == "" {
		currency = c.opts.DefaultCurrency
	}
	return b.
		Date(date).
		Amount(amount).
		Comment(entry.Comment).
		Operation(entry.Operation).
		IncomeType(entry.IncomeType).
		AccountName(entry.AccountName).
		CurrencyCode(currency).
		Build()
}

// Records converts every entry, keeping input order. All failures are
// reported together as EntryError values joined with errors.Join.
func (c *Converter) Records(list []Entry) ([]taxer.Record, error) {
	records := make([]taxer.Record, 0, len(list))
	var errs []error
	for idx, entry := range list {
		record, err := c.Record(entry)
		if err != nil {
			errs = append(errs, &EntryError{Index: idx + 1, Err: err})
			continue
		}
		records = append(records, record)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return records, nil
}

func (c *Converter) parseDate(value string) (time.Time, error) {
	for _, layout := range c.layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("entries: unrecognised date %q", value)
}

func trimEntry(e Entry) Entry {
	e.TaxCode = strings.TrimSpace(e.TaxCode)
	e.Date = strings.TrimSpace(e.Date)
	e.Comment = strings.TrimSpace(e.Comment)
	e.Operation = strings.TrimSpace(e.Operation)
	e.IncomeType = strings.TrimSpace(e.IncomeType)
	e.AccountName = strings.TrimSpace(e.AccountName)
	e.CurrencyCode = strings.TrimSpace(e.CurrencyCode)
	return e
}
