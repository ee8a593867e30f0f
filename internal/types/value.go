package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Value holds either a natural number or a string.
// The zero Value is the natural number 0.
type Value struct {
	is_str bool
	nat    uint64
	str    string
}

func Nat(n uint64) Value    { return Value{nat: n} }
func String(s string) Value { return Value{is_str: true, str: s} }

func (v Value) Type() FieldType {
	if v.is_str {
		return FieldTypeString
	}
	return FieldTypeNat
}

func (v Value) IsNat() bool    { return v.Type() == FieldTypeNat }
func (v Value) IsString() bool { return v.Type() == FieldTypeString }

// AsNat panics if v does not hold a natural number.
func (v Value) AsNat() uint64 {
	if !v.IsNat() {
		panic(fmt.Sprintf("types: AsNat called on %s value", v.Type()))
	}
	return v.nat
}

// AsString panics if v does not hold a string.
func (v Value) AsString() string {
	if !v.IsString() {
		panic(fmt.Sprintf("types: AsString called on %s value", v.Type()))
	}
	return v.str
}

func (v Value) Equal(other Value) bool { return v == other }

// Compare returns -1, 0 or 1. Values of different types have no order and
// comparing them panics.
func (v Value) Compare(other Value) int {
	if v.Type() != other.Type() {
		panic(fmt.Sprintf("types: cannot compare %s with %s", v.Type(), other.Type()))
	}
	if v.IsString() {
		return strings.Compare(v.str, other.str)
	}
	switch {
	case v.nat < other.nat:
		return -1
	case v.nat > other.nat:
		return 1
	}
	return 0
}

func (v Value) Less(other Value) bool { return v.Compare(other) < 0 }

func (v Value) String() string {
	if v.IsString() {
		return strconv.Quote(v.str)
	}
	return strconv.FormatUint(v.nat, 10)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsString() {
		return json.Marshal(v.str)
	}
	return []byte(strconv.FormatUint(v.nat, 10)), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	}

	n, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid value %s: must be a string or a natural number", data)
	}
	*v = Nat(n)
	return nil
}
