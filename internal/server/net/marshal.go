package net

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-theft-craft/oreveins/internal/server/nbt"
)

const tagName = "mc"

// Marshal encodes a Packet struct into bytes using mc struct tags. Packets
// implementing Encoder are written by their own Encode method.
//
// The "json" tag writes the field's JSON encoding as a protocol string, which
// is how text travels before the configuration state. The "nbt" tag writes the
// same value as network NBT, which is how play-state text travels.
func Marshal(p Packet) ([]byte, error) {
	var buf bytes.Buffer
	if enc, ok := p.(Encoder); ok {
		if err := enc.Encode(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	v := reflect.ValueOf(p)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("marshal: expected struct, got %s", v.Kind())
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get(tagName)
		if tag == "" || tag == "-" {
			continue
		}

		if tag == "nbt" {
			if err := nbt.WriteJSON(&buf, v.Field(i).Interface()); err != nil {
				return nil, fmt.Errorf("marshal field %s: %w", field.Name, err)
			}
			continue
		}

		if tag == "json" {
			b, err := json.Marshal(v.Field(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("marshal field %s: %w", field.Name, err)
			}
			if _, err := WriteString(&buf, string(b)); err != nil {
				return nil, fmt.Errorf("marshal field %s: %w", field.Name, err)
			}
			continue
		}

		if err := WriteField(&buf, tag, v.Field(i).Interface()); err != nil {
			return nil, fmt.Errorf("marshal field %s: %w", field.Name, err)
		}
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes bytes into a Packet struct using mc struct tags.
func Unmarshal(data []byte, p Packet) error {
	r := bytes.NewReader(data)
	if dec, ok := p.(Decoder); ok {
		return dec.Decode(r)
	}

	v := reflect.ValueOf(p)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("unmarshal: expected non-nil pointer, got %T", p)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("unmarshal: expected pointer to struct, got pointer to %s", v.Kind())
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		tag := field.Tag.Get(tagName)
		if tag == "" || tag == "-" {
			continue
		}

		fv := v.Field(i)
		if tag == "nbt" {
			if err := nbt.ReadJSON(r, fv.Addr().Interface()); err != nil {
				return fmt.Errorf("unmarshal field %s: %w", field.Name, err)
			}
			continue
		}

		if tag == "json" {
			s, err := ReadString(r)
			if err != nil {
				return fmt.Errorf("unmarshal field %s: %w", field.Name, err)
			}
			if err := json.Unmarshal([]byte(s), fv.Addr().Interface()); err != nil {
				return fmt.Errorf("unmarshal field %s: %w", field.Name, err)
			}
			continue
		}

		val, err := ReadField(r, tag)
		if err != nil {
			return fmt.Errorf("unmarshal field %s: %w", field.Name, err)
		}

		rv := reflect.ValueOf(val)
		if !rv.Type().AssignableTo(fv.Type()) {
			return fmt.Errorf("unmarshal field %s: cannot assign %s to %s", field.Name, rv.Type(), fv.Type())
		}
		fv.Set(rv)
	}

	return nil
}
