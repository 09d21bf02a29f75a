package taxer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// DateLayout is the date column format, DD.MM.YYYY HH:MM:SS.
const DateLayout = "02.01.2006 15:04:05"

// EncodingError identifies the record that could not be written.
type EncodingError struct {
	Record int
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("taxer: failed to serialize taxer records, faulty record %d: %v", e.Record, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Encoder writes records as headerless Taxer CSV lines. It is not safe for
// concurrent use.
type Encoder struct {
	w     io.Writer
	buf   bytes.Buffer
	count int
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Write renders one record and hands the complete line to the sink in a
// single call. Records are numbered from 1 across calls.
func (e *Encoder) Write(record Record) error {
	e.count++
	e.buf.Reset()
	for i, field := range record.columns() {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		writeField(&e.buf, field)
	}
	e.buf.WriteByte('\n')

	n, err := e.w.Write(e.buf.Bytes())
	if err == nil && n < e.buf.Len() {
		err = io.ErrShortWrite
	}
	if err != nil {
		return &EncodingError{Record: e.count, Err: err}
	}
	return nil
}

// Count returns how many records Write has been called with.
func (e *Encoder) Count() int {
	return e.count
}

// Encode writes records to w in order. Lines already written stay in w when
// a later record fails.
func Encode(w io.Writer, records []Record) error {
	enc := NewEncoder(w)
	for _, record := range records {
		if err := enc.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// writeField quotes only fields holding the delimiter, a quote or a line
// break. Leading spaces are kept verbatim.
func writeField(buf *bytes.Buffer, field string) {
	if !strings.ContainsAny(field, ",\"\r\n") {
		buf.WriteString(field)
		return
	}
	buf.WriteByte('"')
	buf.WriteString(strings.ReplaceAll(field, `"`, `""`))
	buf.WriteByte('"')
}

func (r Record) columns() []string {
	return []string{
		r.taxCode.String(),
		r.date.Format(DateLayout),
		r.amount.String(),
		r.comment,
		r.operation,
		r.incomeType,
		r.accountName,
		r.currencyCode,
	}
}
