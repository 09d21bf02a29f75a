package entries

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode"
)

// ErrNoEntries indicates the input held no entries at all.
var ErrNoEntries = errors.New("entries: input contains no entries")

// Decode reads either a JSON array of entries or a stream of JSON objects
// (one per line or concatenated).
func Decode(r io.Reader) ([]Entry, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoEntries
		}
		return nil, err
	}

	dec := json.NewDecoder(br)
	dec.DisallowUnknownFields()

	var out []Entry
	if first == '[' {
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("entries: decode array: %w", err)
		}
	} else {
		for {
			var entry Entry
			err := dec.Decode(&entry)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("entries: decode entry %d: %w", len(out)+1, err)
			}
			out = append(out, entry)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoEntries
	}
	return out, nil
}

func peekNonSpace(br *bufio.Reader) (rune, error) {
	for {
		r, _, err := br.ReadRune()
		if err != nil {
			return 0, err
		}
		if r == '\uFEFF' || unicode.IsSpace(r) {
			continue
		}
		if err := br.UnreadRune(); err != nil {
			return 0, err
		}
		return r, nil
	}
}
