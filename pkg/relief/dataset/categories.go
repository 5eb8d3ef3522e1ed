package dataset

import (
	"fmt"
	"strings"
)

// Flag is one decoded "name-value" category token
type Flag struct {
	Name  string
	Value int
}

// ParseFlag decodes a token such as "related-1".
// The name is the token without its last two characters and the value is
// the trailing digit.
func ParseFlag(token string) (Flag, error) {
	if len(token) < 3 {
		return Flag{}, fmt.Errorf("%w: %q", ErrBadFlag, token)
	}
	last := token[len(token)-1]
	if last < '0' || last > '9' {
		return Flag{}, fmt.Errorf("%w: %q", ErrBadFlag, token)
	}
	return Flag{Name: token[:len(token)-2], Value: int(last - '0')}, nil
}

// ParseCategories splits a delimited category string into flags
func ParseCategories(raw, delim string) ([]Flag, error) {
	tokens := strings.Split(raw, delim)
	flags := make([]Flag, len(tokens))
	for i, tok := range tokens {
		f, err := ParseFlag(tok)
		if err != nil {
			return nil, err
		}
		flags[i] = f
	}
	return flags, nil
}

// Schema is the ordered list of category names every row must carry
type Schema struct {
	names []string
	delim string
}

// NewSchema creates a schema from explicit names
func NewSchema(names []string, delim string) *Schema {
	return &Schema{names: append([]string{}, names...), delim: delim}
}

// DeriveSchema takes the category names from a single row's tokens
func DeriveSchema(raw, delim string) (*Schema, error) {
	flags, err := ParseCategories(raw, delim)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(flags))
	seen := make(map[string]struct{}, len(flags))
	for i, f := range flags {
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrSchemaMismatch, f.Name)
		}
		seen[f.Name] = struct{}{}
		names[i] = f.Name
	}
	return &Schema{names: names, delim: delim}, nil
}

// Names returns the category names in column order
func (s *Schema) Names() []string {
	return append([]string{}, s.names...)
}

// Decode parses raw and checks it against the schema: same number of tokens,
// same names, same order.
func (s *Schema) Decode(raw string) ([]int, error) {
	flags, err := ParseCategories(raw, s.delim)
	if err != nil {
		return nil, err
	}
	if len(flags) != len(s.names) {
		return nil, fmt.Errorf("%w: got %d categories, want %d", ErrSchemaMismatch, len(flags), len(s.names))
	}
	values := make([]int, len(flags))
	for i, f := range flags {
		if f.Name != s.names[i] {
			return nil, fmt.Errorf("%w: position %d is %q, want %q", ErrSchemaMismatch, i, f.Name, s.names[i])
		}
		values[i] = f.Value
	}
	return values, nil
}
