// Package flatjson implements the narrow JSON subset spoken by the server:
// one flat object of string or integer fields on the way in, and objects or a
// top-level list of objects on the way out.
//
// The format is deliberately small. Nesting, escapes, commas or colons inside
// string values, and non-integer numbers are not supported. Pairs are split
// on every comma and each pair on its first colon, so a body such as
// {"name":"a,b","age":3} does not decode. Callers treat every decode failure
// as malformed input.
package flatjson

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformed means the body is not a single flat {...} object or a pair
	// lacks its colon.
	ErrMalformed = errors.New("malformed flat json object")

	// ErrMissingField means a required key was absent or empty.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField means a required key was present but failed coercion.
	ErrInvalidField = errors.New("invalid field value")
)

// Field is one key/value pair with quotes and surrounding whitespace removed.
type Field struct {
	Key   string
	Value string
}

// Object is the ordered list of pairs of a decoded body. Keys may repeat.
type Object []Field

// Lookup returns the value of the last pair with the given key.
func (o Object) Lookup(key string) (string, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return "", false
}

// Parse splits a raw body into its pairs.
//
// Leading and trailing NUL bytes and whitespace are trimmed first; the result
// must start with '{' and end with '}'.
func Parse(body string) (Object, error) {
	body = strings.TrimSpace(strings.Trim(body, "\x00"))
	if len(body) < 2 || body[0] != '{' || body[len(body)-1] != '}' {
		return nil, ErrMalformed
	}
	body = body[1 : len(body)-1]

	pairs := strings.Split(body, ",")
	obj := make(Object, 0, len(pairs))
	for i, pair := range pairs {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("pair %d has no colon: %w", i, ErrMalformed)
		}
		obj = append(obj, Field{
			Key:   unquote(key),
			Value: unquote(value),
		})
	}
	return obj, nil
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// UserMessage is the body of a create-user request.
type UserMessage struct {
	Name string
	Age  uint8
}

// DecodeUser decodes {"name":<text>,"age":<0..255>}. Unknown keys are ignored.
func DecodeUser(body string) (UserMessage, error) {
	obj, err := Parse(body)
	if err != nil {
		return UserMessage{}, err
	}

	name, err := requireText(obj, "name")
	if err != nil {
		return UserMessage{}, err
	}

	raw, ok := obj.Lookup("age")
	if !ok {
		return UserMessage{}, fmt.Errorf("age: %w", ErrMissingField)
	}
	age, err := ParseAge(raw)
	if err != nil {
		return UserMessage{}, fmt.Errorf("age %q: %w", raw, ErrInvalidField)
	}

	return UserMessage{Name: name, Age: age}, nil
}

// ParseAge parses a decimal age in 0..255. One leading '+' is accepted, the
// same as for signed integer fields.
func ParseAge(raw string) (uint8, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(raw, "+"), 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}

// MathMessage is the body of an evaluate-math request.
type MathMessage struct {
	Operator string
	Arg1     int64
	Arg2     int64
}

// DecodeMath decodes {"operator":<text>,"arg1":<int64>,"arg2":<int64>}.
// The operator is not validated here.
func DecodeMath(body string) (MathMessage, error) {
	obj, err := Parse(body)
	if err != nil {
		return MathMessage{}, err
	}

	op, err := requireText(obj, "operator")
	if err != nil {
		return MathMessage{}, err
	}
	a, err := requireInt(obj, "arg1")
	if err != nil {
		return MathMessage{}, err
	}
	b, err := requireInt(obj, "arg2")
	if err != nil {
		return MathMessage{}, err
	}

	return MathMessage{Operator: op, Arg1: a, Arg2: b}, nil
}

func requireText(obj Object, key string) (string, error) {
	v, ok := obj.Lookup(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%s: %w", key, ErrMissingField)
	}
	return v, nil
}

func requireInt(obj Object, key string) (int64, error) {
	raw, ok := obj.Lookup(key)
	if !ok {
		return 0, fmt.Errorf("%s: %w", key, ErrMissingField)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", key, raw, ErrInvalidField)
	}
	return v, nil
}
