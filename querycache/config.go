package querycache

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Defaults mirror the granularity split the package is built around: list
// entries hold only identifiers and can live for a day, detail entries gate a
// per-record lookup and are kept short.
const (
	DefaultListTTL   = 24 * time.Hour
	DefaultDetailTTL = time.Minute
)

var namespacePattern = regexp.MustCompile(`^[\w-]*$`)

// Config is the per-record-type manager configuration. It is read once at
// construction; managers never mutate it afterwards.
type Config[T any] struct {
	// Namespace overrides the cache key namespace. Empty derives it from the
	// type name. Namespaces must be unique across managers sharing a store;
	// that contract is the caller's to keep.
	Namespace string

	// Relations are eager-load hints applied to every fetch.
	Relations []string

	// PrefetchRelations are additional eager-load hints. They always apply
	// to detail fetches; UsePrefetchForList controls collection fetches.
	PrefetchRelations []string

	// UsePrefetchForList applies PrefetchRelations to collection fetches.
	UsePrefetchForList bool

	// ListTTL is the lifetime of collection entries. Zero means
	// DefaultListTTL.
	ListTTL time.Duration

	// DetailTTL is the lifetime of detail entries. Zero means
	// DefaultDetailTTL.
	DetailTTL time.Duration

	// NotFound is the error reported when a detail fetch matches nothing.
	// Nil means ErrNotFound. Integrators map it to their boundary (for an
	// HTTP API, typically a 404) outside this package.
	NotFound error

	// Identifier extracts the stable identifier from a record. Nil falls
	// back to reflection over the conventional ID fields.
	Identifier func(record T) (any, error)
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig[T any]() Config[T] {
	return Config[T]{
		UsePrefetchForList: true,
		ListTTL:            DefaultListTTL,
		DetailTTL:          DefaultDetailTTL,
		NotFound:           ErrNotFound,
	}
}

// Validate checks whether the configuration values are valid. It runs once,
// inside New; invalid configuration never surfaces at request time.
func (c Config[T]) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Namespace, validation.Match(namespacePattern)),
		validation.Field(&c.ListTTL, validation.Required, validation.Min(time.Nanosecond)),
		validation.Field(&c.DetailTTL, validation.Required, validation.Min(time.Nanosecond)),
	)
}

// normalize fills zero values with defaults before validation.
func (c Config[T]) normalize() Config[T] {
	if c.ListTTL == 0 {
		c.ListTTL = DefaultListTTL
	}
	if c.DetailTTL == 0 {
		c.DetailTTL = DefaultDetailTTL
	}
	if c.NotFound == nil {
		c.NotFound = ErrNotFound
	}
	return c
}

// listRelations returns the eager-load hints for collection fetches.
func (c Config[T]) listRelations() []string {
	if c.UsePrefetchForList {
		return unionStrings(c.Relations, c.PrefetchRelations)
	}
	return c.Relations
}

// detailRelations returns the eager-load hints for detail fetches.
func (c Config[T]) detailRelations() []string {
	return unionStrings(c.Relations, c.PrefetchRelations)
}

func unionStrings(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	for _, s := range b {
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
