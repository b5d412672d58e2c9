package table

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Cell is one key/value pair of a row, value already in display form.
type Cell struct {
	Key   string
	Value string
}

// Row keeps the cells of one data object in the order the appliance sent
// them.
type Row []Cell

// Keys returns the row's keys in order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, c := range r {
		keys[i] = c.Key
	}
	return keys
}

// Get returns the value stored under key.
func (r Row) Get(key string) (string, bool) {
	for _, c := range r {
		if c.Key == key {
			return c.Value, true
		}
	}
	return "", false
}

// UnmarshalJSON decodes a JSON object, preserving key order. A repeated key
// keeps its first position and its last value.
func (r *Row) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("row is not an object")
	}

	row := Row{}
	index := map[string]int{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}
		value, err := display(raw)
		if err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}
		if i, ok := index[key]; ok {
			row[i].Value = value
			continue
		}
		index[key] = len(row)
		row = append(row, Cell{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = row
	return nil
}

// display converts a raw JSON value to the text shown in a cell.
func display(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		// numbers, true, false, null
		return string(raw), nil
	}
}

// APIResponse is the envelope every appliance list endpoint answers with.
type APIResponse struct {
	Success bool
	Data    []Row
}

// UnmarshalJSON accepts "status" as a synonym for "success"; the network
// endpoints of the appliance use it. A missing or null data is empty.
func (a *APIResponse) UnmarshalJSON(b []byte) error {
	var raw struct {
		Success *bool           `json:"success"`
		Status  *bool           `json:"status"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch {
	case raw.Success != nil:
		a.Success = *raw.Success
	case raw.Status != nil:
		a.Success = *raw.Status
	default:
		a.Success = false
	}

	a.Data = nil
	data := bytes.TrimSpace(raw.Data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] != '[' {
		return fmt.Errorf("data is not a list")
	}
	return json.Unmarshal(data, &a.Data)
}

// ParseResponse decodes an appliance response body. Anything after the
// envelope is an error.
func ParseResponse(body string) (*APIResponse, error) {
	var a APIResponse
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		return nil, err
	}
	return &a, nil
}
