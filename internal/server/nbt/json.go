package nbt

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes v, as encoding/json would see it, as network NBT. JSON
// objects become compounds, arrays lists, booleans bytes and whole numbers
// ints.
func WriteJSON(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("nbt: %w", err)
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return fmt.Errorf("nbt: %w", err)
	}
	nw := NewWriter(w)
	nw.WriteValue(generic)
	return nw.Err()
}

// ReadJSON reads one network NBT value into v through its JSON form.
func ReadJSON(r io.Reader, v any) error {
	val, err := NewReader(r).ReadValue()
	if err != nil {
		return err
	}
	b, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("nbt: %w", err)
	}
	return json.Unmarshal(b, v)
}
