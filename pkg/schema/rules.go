package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/misfitdev/spotr-mcp/pkg/spotr"
)

// CheckProgramInput enforces position-key uniqueness and per-format
// parameter shapes on a program being created. path prefixes every
// reported field.
func CheckProgramInput(p *spotr.ProgramInput, path string) []FieldError {
	if p == nil {
		return nil
	}
	var errs []FieldError
	days := positions{}
	for i, d := range p.Days {
		dayPath := fmt.Sprintf("%s.days[%d]", path, i)
		errs = append(errs, days.check(d.DayNumber, dayPath+".day_number", "days", i)...)

		blocks := positions{}
		for j, b := range d.Blocks {
			blockPath := fmt.Sprintf("%s.blocks[%d]", dayPath, j)
			errs = append(errs, blocks.check(b.OrderIndex, blockPath+".order_index", "blocks", j)...)
			errs = append(errs, CheckFormatParameters(deref(b.FormatType), b.FormatParameters, blockPath, true)...)

			exercises := positions{}
			for k, e := range b.Exercises {
				exPath := fmt.Sprintf("%s.exercises[%d]", blockPath, k)
				errs = append(errs, exercises.check(e.OrderIndex, exPath+".order_index", "exercises", k)...)
				errs = append(errs, CheckModifiableParameters(e.ModifiableParameters, exPath+".modifiable_parameters")...)
			}
		}
	}
	return errs
}

// CheckProgramUpdate applies the same rules to a partial update. A format
// type set to a shaped format must come with its parameters. An update that
// names no fields is valid and changes nothing.
func CheckProgramUpdate(u *spotr.ProgramUpdate, path string) []FieldError {
	if u == nil {
		return nil
	}
	var errs []FieldError
	days := positions{}
	for i, d := range u.Days {
		dayPath := fmt.Sprintf("%s.days[%d]", path, i)
		errs = append(errs, days.check(d.DayNumber, dayPath+".day_number", "days", i)...)

		blocks := positions{}
		for j, b := range d.Blocks {
			blockPath := fmt.Sprintf("%s.blocks[%d]", dayPath, j)
			errs = append(errs, blocks.check(b.OrderIndex, blockPath+".order_index", "blocks", j)...)

			var ft spotr.FormatType
			if b.FormatType.Value != nil {
				ft = *b.FormatType.Value
				if !ft.Valid() {
					errs = append(errs, FieldError{Field: blockPath + ".format_type", Message: "must be one of: " + formatTypeList()})
				}
			}
			if ft.Valid() || ft == "" {
				errs = append(errs, CheckFormatParameters(ft, b.FormatParameters, blockPath, b.FormatType.Set)...)
			}

			exercises := positions{}
			for k, e := range b.Exercises {
				exPath := fmt.Sprintf("%s.exercises[%d]", blockPath, k)
				errs = append(errs, exercises.check(e.OrderIndex, exPath+".order_index", "exercises", k)...)
				if e.ModifiableParameters.Value != nil {
					errs = append(errs, CheckModifiableParameters(*e.ModifiableParameters.Value, exPath+".modifiable_parameters")...)
				}
			}
		}
	}
	return errs
}

// CheckFormatParameters resolves raw against the tagged shape of ft and
// validates it. When required is set, shaped formats must carry parameters.
func CheckFormatParameters(ft spotr.FormatType, raw json.RawMessage, blockPath string, required bool) []FieldError {
	if ft != "" && !ft.Valid() {
		return nil
	}
	paramPath := blockPath + ".format_parameters"
	params, err := spotr.ParseFormatParameters(ft, raw)
	if err != nil {
		var decErr *spotr.DecodeError
		if errors.As(err, &decErr) {
			return []FieldError{{Field: joinPath(paramPath, decErr.Field), Message: decErr.Message + forFormat(ft)}}
		}
		return []FieldError{{Field: paramPath, Message: err.Error()}}
	}
	if params == nil {
		if required && ft.RequiresParameters() {
			return []FieldError{{Field: paramPath, Message: "is required" + forFormat(ft)}}
		}
		return nil
	}
	if _, open := params.(spotr.OpenParameters); open {
		return nil
	}
	if err := validate.Struct(params); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return convert(vErrs, paramPath)
		}
		return []FieldError{{Field: paramPath, Message: err.Error()}}
	}
	return nil
}

func forFormat(ft spotr.FormatType) string {
	if ft == "" {
		return ""
	}
	return fmt.Sprintf(" for format_type %s", ft)
}

// CheckModifiableParameters narrows the well-known exercise parameters:
// sets is a positive integer, reps a positive integer or a range string
// such as "8-10", time/distance/rest/work non-negative numbers and every
// *_units key a string. Other keys are left open.
func CheckModifiableParameters(params map[string]any, path string) []FieldError {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []FieldError
	for _, key := range keys {
		value := params[key]
		field := path + "." + key
		switch {
		case key == "sets":
			if n, ok := number(value); !ok || n < 1 || n != math.Trunc(n) {
				errs = append(errs, FieldError{Field: field, Message: "must be a positive integer"})
			}
		case key == "reps":
			if s, ok := value.(string); ok {
				if strings.TrimSpace(s) == "" {
					errs = append(errs, FieldError{Field: field, Message: "must not be empty"})
				}
				continue
			}
			if n, ok := number(value); !ok || n < 1 || n != math.Trunc(n) {
				errs = append(errs, FieldError{Field: field, Message: "must be a positive integer or a range such as \"8-10\""})
			}
		case key == "time" || key == "distance" || key == "rest" || key == "work":
			if n, ok := number(value); !ok || n < 0 {
				errs = append(errs, FieldError{Field: field, Message: "must be a non-negative number"})
			}
		case strings.HasSuffix(key, "_units"):
			if s, ok := value.(string); !ok || strings.TrimSpace(s) == "" {
				errs = append(errs, FieldError{Field: field, Message: "must be a unit string such as \"s\" or \"kg\""})
			}
		}
	}
	return errs
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// positions tracks position keys already seen within one list.
type positions map[int]int

func (p positions) check(key *int, field, list string, index int) []FieldError {
	if key == nil {
		return nil
	}
	if prev, ok := p[*key]; ok {
		return []FieldError{{Field: field, Message: fmt.Sprintf("duplicates %s[%d]; position keys must be unique", list, prev)}}
	}
	p[*key] = index
	return nil
}

func deref(ft *spotr.FormatType) spotr.FormatType {
	if ft == nil {
		return ""
	}
	return *ft
}

func formatTypeList() string {
	names := make([]string, 0, len(spotr.FormatTypes))
	for _, ft := range spotr.FormatTypes {
		names = append(names, string(ft))
	}
	return strings.Join(names, ", ")
}
