package header

// Entry is one response header. A name may occur multiple times (notably
// Set-Cookie); insertion order is preserved so serialization is
// deterministic.
type Entry struct {
	Name  string
	Value string
}

// Value returns the value of the first entry with the given name, or the
// empty string.
func Value(entries []*Entry, name string) string {
	for _, entry := range entries {
		if entry != nil && entry.Name == name {
			return entry.Value
		}
	}
	return ""
}

// Set replaces every entry with the given name by a single entry appended at
// the end of the list.
func Set(entries []*Entry, name string, value string) []*Entry {
	entries = Remove(entries, name)
	return append(entries, &Entry{Name: name, Value: value})
}

// Add appends an entry, keeping any existing entries with the same name.
func Add(entries []*Entry, name string, value string) []*Entry {
	return append(entries, &Entry{Name: name, Value: value})
}

// Remove deletes every entry with the given name.
func Remove(entries []*Entry, name string) []*Entry {
	filtered := entries[:0]
	for _, entry := range entries {
		if entry == nil || entry.Name != name {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}
