package cache

import "fmt"

// KeySeparator delimits the namespace from the suffix or identifier segment.
// The format is part of the external contract: operators inspect and flush
// entries with tooling that assumes `<ns>`, `<ns>_<suffix>` and `<ns>_<id>`.
const KeySeparator = "_"

// CollectionKey builds the key for a cached collection. With an empty suffix
// the namespace itself is the key.
func CollectionKey(namespace, suffix string) string {
	if suffix == "" {
		return namespace
	}
	return namespace + KeySeparator + suffix
}

// DetailKey builds the key for a cached single-record entry.
func DetailKey(namespace string, identifier any) string {
	return namespace + KeySeparator + FormatIdentifier(identifier)
}

// FormatIdentifier renders an identifier in its canonical string form.
// Callers are responsible for identifiers whose rendering could collide with
// a suffix in use; the builder does not police that.
func FormatIdentifier(identifier any) string {
	if s, ok := identifier.(string); ok {
		return s
	}
	if s, ok := identifier.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", identifier)
}
