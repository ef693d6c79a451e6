package models

// Fields maps field names to values while remembering insertion order.
// A missing key and a key holding "" are different states.
type Fields struct {
	keys   []string
	values map[string]string
}

// NewFields builds Fields from alternating name, value pairs.
func NewFields(pairs ...string) Fields {
	var f Fields
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Set(pairs[i], pairs[i+1])
	}
	return f
}

func (f *Fields) Get(name string) (string, bool) {
	v, ok := f.values[name]
	return v, ok
}

func (f *Fields) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Lookup returns a pointer to a copy of the value, nil when absent.
func (f *Fields) Lookup(name string) *string {
	v, ok := f.values[name]
	if !ok {
		return nil
	}
	return &v
}

// Set stores a value. Overwriting keeps the key's original position.
func (f *Fields) Set(name, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[name]; !ok {
		f.keys = append(f.keys, name)
	}
	f.values[name] = value
}


// Keys returns the field names in insertion order.
func (f *Fields) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

func (f *Fields) Len() int {
	return len(f.keys)
}

func (f Fields) Clone() Fields {
	var c Fields
	for _, k := range f.keys {
		c.Set(k, f.values[k])
	}
	return c
}
