// Package catalog holds the fixed district and apartment-type dictionaries
// offered to the user. The dictionaries are built once and never modified.
package catalog

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Entry pairs a display label with the numeric code used by the model.
type Entry struct {
	Label string
	Code  int
}

// Dictionary is an immutable, ordered label ↔ code mapping.
type Dictionary struct {
	entries []Entry
	byLabel map[string]int
	byCode  map[int]string
	folded  []string
}

// NewDictionary builds a dictionary, rejecting duplicate labels or codes.
func NewDictionary(entries []Entry) (*Dictionary, error) {
	d := &Dictionary{
		entries: make([]Entry, len(entries)),
		byLabel: make(map[string]int, len(entries)),
		byCode:  make(map[int]string, len(entries)),
		folded:  make([]string, len(entries)),
	}
	copy(d.entries, entries)
	for i, e := range entries {
		if _, dup := d.byLabel[e.Label]; dup {
			return nil, fmt.Errorf("duplicate label %q", e.Label)
		}
		if _, dup := d.byCode[e.Code]; dup {
			return nil, fmt.Errorf("duplicate code %d", e.Code)
		}
		d.byLabel[e.Label] = e.Code
		d.byCode[e.Code] = e.Label
		d.folded[i] = strings.ToLower(e.Label)
	}
	return d, nil
}

func mustDictionary(entries []Entry) *Dictionary {
	d, err := NewDictionary(entries)
	if err != nil {
		panic(err)
	}
	return d
}

// Code returns the code of an exact label.
func (d *Dictionary) Code(label string) (int, bool) {
	c, ok := d.byLabel[label]
	return c, ok
}

// Label returns the display label of a code.
func (d *Dictionary) Label(code int) (string, bool) {
	l, ok := d.byCode[code]
	return l, ok
}

// Labels returns the labels in presentation order. The slice is a copy.
func (d *Dictionary) Labels() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.Label
	}
	return out
}

// Entries returns a copy of the entries in presentation order.
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

func (d *Dictionary) Len() int { return len(d.entries) }

// Suggest returns the label closest to free-form input, if any matches.
func (d *Dictionary) Suggest(input string) (string, bool) {
	matches := d.Candidates(input)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// Candidates returns every label that fuzzy-matches input, best first.
func (d *Dictionary) Candidates(input string) []string {
	pattern := strings.ToLower(strings.TrimSpace(input))
	if pattern == "" {
		return nil
	}
	matches := fuzzy.Find(pattern, d.folded)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, d.entries[m.Index].Label)
	}
	return out
}
