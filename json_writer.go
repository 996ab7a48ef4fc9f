package ledgerdash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// orderedJSON is a JSON object whose members keep the order they were added
// in. The zero value is an empty object.
type orderedJSON struct {
	keys   []string
	values []json.RawMessage
	err    error
}

// Add marshals value under key. The first marshaling error is reported by
// MarshalJSON.
func (o *orderedJSON) Add(key string, value any) *orderedJSON {
	if o.err != nil {
		return o
	}
	raw, err := json.Marshal(value)
	if err != nil {
		o.err = fmt.Errorf("cannot marshal %q: %w", key, err)
		return o
	}
	o.keys = append(o.keys, key)
	o.values = append(o.values, raw)
	return o
}

// AddNonZero is Add, skipped when value is nil or the zero value of its
// type.
func (o *orderedJSON) AddNonZero(key string, value any) *orderedJSON {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return o
	}
	return o.Add(key, value)
}

func (o *orderedJSON) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return nil, o.err
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		b.Write(k)
		b.WriteByte(':')
		b.Write(o.values[i])
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
