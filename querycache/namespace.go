package querycache

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// namespaceFor derives the default cache namespace for T: the bare type name,
// lowercased, with word boundaries joined by underscores. Pointer stars,
// package paths and generic suffixes are stripped first so reflected names
// cannot leak characters that Redis or Memcache would reject in a key.
func namespaceFor[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
		t = t.Elem()
	}

	name := t.Name()
	if name == "" {
		name = t.String()
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}

	return toSnake(name)
}

// toSnake lowercases s, inserting underscores at case boundaries and dropping
// any rune a cache backend could choke on.
func toSnake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(runes) + len(runes)/2)

	lastUnderscore := false

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			if b.Len() > 0 && !lastUnderscore {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || nextLower {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			lastUnderscore = false

		case unicode.IsLower(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false

		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.Trim(b.String(), "_")
}

// IdentifierOf extracts the stable identifier from a record by looking for
// the conventional exported ID fields. Managers use it as the default when no
// Identifier function is configured; bunsource uses it to restore cached
// ordering.
func IdentifierOf(record any) (any, error) {
	v := reflect.ValueOf(record)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, errors.New("cannot extract identifier from nil record")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, errors.Errorf("cannot extract identifier from %T", record)
	}

	for _, fieldName := range []string{"ID", "Id", "UID", "PK"} {
		field := v.FieldByName(fieldName)
		if field.IsValid() && field.CanInterface() {
			return field.Interface(), nil
		}
	}
	return nil, errors.Errorf("no identifier field found in %T", record)
}
