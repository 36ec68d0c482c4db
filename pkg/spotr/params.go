package spotr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// FormatType describes how the exercises in a block are performed.
type FormatType string

const (
	FormatStandard FormatType = "standard"
	FormatCircuit  FormatType = "circuit"
	FormatAMRAP    FormatType = "amrap"
	FormatEMOM     FormatType = "emom"
	FormatTabata   FormatType = "tabata"
	FormatComplex  FormatType = "complex"
)

var FormatTypes = []FormatType{
	FormatStandard,
	FormatCircuit,
	FormatAMRAP,
	FormatEMOM,
	FormatTabata,
	FormatComplex,
}

func (f FormatType) Valid() bool {
	for _, ft := range FormatTypes {
		if f == ft {
			return true
		}
	}
	return false
}

// RequiresParameters reports whether blocks of this format must carry
// format_parameters.
func (f FormatType) RequiresParameters() bool {
	switch f {
	case FormatEMOM, FormatAMRAP, FormatCircuit, FormatTabata:
		return true
	}
	return false
}

// FormatParameters is the tagged union of per-format settings. The concrete
// type is chosen by the block's format type.
type FormatParameters interface {
	Format() FormatType
}

// EMOMParameters: every minute on the minute for Time units.
type EMOMParameters struct {
	Time      *float64 `json:"time" validate:"required,gt=0"`
	TimeUnits string   `json:"time_units,omitempty"`
}

func (EMOMParameters) Format() FormatType { return FormatEMOM }

// AMRAPParameters: as many rounds as possible within Time.
type AMRAPParameters struct {
	Time      *float64 `json:"time" validate:"required,gt=0"`
	TimeUnits string   `json:"time_units,omitempty"`
}

func (AMRAPParameters) Format() FormatType { return FormatAMRAP }

type CircuitParameters struct {
	Rounds *int `json:"rounds" validate:"required,min=1"`
}

func (CircuitParameters) Format() FormatType { return FormatCircuit }

type TabataParameters struct {
	Work      *float64 `json:"work" validate:"required,gt=0"`
	Rest      *float64 `json:"rest" validate:"required,min=0"`
	Rounds    *int     `json:"rounds" validate:"required,min=1"`
	TimeUnits string   `json:"time_units,omitempty"`
}

func (TabataParameters) Format() FormatType { return FormatTabata }

// OpenParameters holds settings for formats without a fixed shape
// (standard, complex, or a block with no format type).
type OpenParameters struct {
	Type   FormatType
	Values map[string]any
}

func (p OpenParameters) Format() FormatType { return p.Type }

func (p OpenParameters) MarshalJSON() ([]byte, error) {
	if p.Values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.Values)
}

// ParseFormatParameters decodes raw into the shape required by ft. Absent or
// null parameters yield nil.
func ParseFormatParameters(ft FormatType, raw json.RawMessage) (FormatParameters, error) {
	if IsNull(raw) {
		return nil, nil
	}
	switch ft {
	case FormatEMOM:
		var p EMOMParameters
		if err := DecodeStrict(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case FormatAMRAP:
		var p AMRAPParameters
		if err := DecodeStrict(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case FormatCircuit:
		var p CircuitParameters
		if err := DecodeStrict(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	case FormatTabata:
		var p TabataParameters
		if err := DecodeStrict(raw, &p); err != nil {
			return nil, err
		}
		return p, nil
	}
	var values map[string]any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, &DecodeError{Message: "must be an object"}
	}
	return OpenParameters{Type: ft, Values: values}, nil
}

func openParameters(ft FormatType, raw json.RawMessage) FormatParameters {
	var values map[string]any
	_ = json.Unmarshal(raw, &values)
	return OpenParameters{Type: ft, Values: values}
}

// IsNull reports whether raw is absent or the JSON literal null.
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// DecodeError is a JSON decoding failure attributed to a dotted field path.
type DecodeError struct {
	Field   string
	Message string
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// DecodeStrict decodes raw into v, rejecting unknown keys and anything
// after the first JSON value, and reports failures as *DecodeError.
func DecodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return decodeError(raw, v, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return &DecodeError{Message: fmt.Sprintf("unexpected data after the JSON value at offset %d", dec.InputOffset())}
	}
	return nil
}

func decodeError(raw []byte, v any, err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr):
		return &DecodeError{Field: typeErr.Field, Message: "must be " + jsonTypeName(typeErr.Type)}
	case errors.As(err, &syntaxErr):
		return &DecodeError{Message: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		name := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		if path, found := unknownField(json.NewDecoder(bytes.NewReader(raw)), reflect.TypeOf(v), ""); found {
			name = path
		}
		return &DecodeError{Field: name, Message: "is not a recognised field"}
	}
	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return decErr
	}
	return &DecodeError{Message: err.Error()}
}

var unmarshalerType = reflect.TypeFor[json.Unmarshaler]()

// unknownField consumes one value from dec and returns the path of the first
// object key t does not declare. Values decoded by their own UnmarshalJSON
// are not descended into.
func unknownField(dec *json.Decoder, t reflect.Type, path string) (string, bool) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	tok, err := dec.Token()
	if err != nil {
		return "", false
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return "", false
	}
	opaque := t == nil || t.Kind() == reflect.Interface || reflect.PointerTo(t).Implements(unmarshalerType)

	switch delim {
	case '[':
		var elem reflect.Type
		if !opaque && (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) {
			elem = t.Elem()
		}
		for i := 0; dec.More(); i++ {
			if p, found := unknownField(dec, elem, fmt.Sprintf("%s[%d]", path, i)); found {
				return p, true
			}
		}
	case '{':
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return "", false
			}
			key, _ := keyTok.(string)
			keyPath := key
			if path != "" {
				keyPath = path + "." + key
			}
			var next reflect.Type
			switch {
			case opaque:
			case t.Kind() == reflect.Map:
				next = t.Elem()
			case t.Kind() == reflect.Struct:
				field, ok := fieldByJSONName(t, key)
				if !ok {
					return keyPath, true
				}
				next = field
			}
			if p, found := unknownField(dec, next, keyPath); found {
				return p, true
			}
		}
	}
	_, _ = dec.Token()
	return "", false
}

// fieldByJSONName finds the type of the field encoding/json would decode key
// into, including fields promoted from embedded structs.
func fieldByJSONName(t reflect.Type, key string) (reflect.Type, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				if typ, ok := fieldByJSONName(ft, key); ok {
					return typ, true
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if strings.EqualFold(name, key) {
			return f.Type, true
		}
	}
	return nil, false
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Map, reflect.Struct:
		return "an object"
	}
	return "a valid " + t.String()
}
