package operation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"

	"github.com/btw-claude/confluence-skills/internal/errs"
	"github.com/btw-claude/confluence-skills/internal/parse"
)

// Decode reads exactly one JSON object from r and turns it into an Input:
// every missing required param is reported in one error, declared types are
// enforced, defaults are applied and bounded integers are clamped. Unknown
// keys are ignored.
func Decode(def *Definition, r io.Reader) (Input, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Input{}, errs.Input("failed to read stdin: %v", err)
	}
	raw, err := decodeObject(data)
	if err != nil {
		return Input{}, err
	}

	if err := checkRequired(def, raw); err != nil {
		return Input{}, err
	}

	values := make(map[string]any, len(def.Params))
	var result *multierror.Error
	for _, p := range def.Params {
		rawValue, ok := raw[p.Name]
		if !ok || rawValue == nil {
			if p.Default != nil {
				values[p.Name] = p.Default
			}
			continue
		}

		value, err := convert(p, rawValue)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		values[p.Name] = value
	}

	if err := result.ErrorOrNil(); err != nil {
		result.ErrorFormat = joinErrors
		return Input{}, errs.Validation("%s", result.Error())
	}
	return NewInput(values), nil
}

func decodeObject(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errs.Input("no input: expected a JSON object on stdin")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errs.Input("invalid JSON input: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errs.Input("invalid JSON input: expected a single JSON object")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, errs.Input("invalid JSON input: expected a JSON object, got %s", jsonKind(raw))
	}
	return obj, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case json.Number:
		return "a number"
	case bool:
		return "a boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// checkRequired validates presence of every required param at once.
// Required strings must also be non-blank.
func checkRequired(def *Definition, raw map[string]any) error {
	var keys []*validation.KeyRules
	for _, p := range def.Params {
		if !p.Required {
			continue
		}
		if p.Type == String {
			keys = append(keys, validation.Key(p.Name, validation.NotNil, validation.By(notBlank)))
		} else {
			keys = append(keys, validation.Key(p.Name, validation.NotNil))
		}
	}
	if len(keys) == 0 {
		return nil
	}

	err := validation.Validate(raw, validation.Map(keys...).AllowExtraKeys())
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return errs.Validation("%v", err)
	}

	var missing []string
	for _, p := range def.Params {
		if _, failed := fieldErrs[p.Name]; failed {
			missing = append(missing, p.Name)
		}
	}
	return errs.Validation("missing required parameters: %s", strings.Join(missing, ", "))
}

// notBlank accepts anything that is not an empty or whitespace-only string.
func notBlank(value any) error {
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

func convert(p Param, raw any) (any, error) {
	switch p.Type {
	case Integer:
		if num, ok := raw.(json.Number); ok {
			return numberToInt(p, num)
		}
		var n int
		if err := weakDecode(raw, &n); err != nil {
			return nil, typeError(p, raw)
		}
		if p.Bounded {
			n = clamp(n, p.Min, p.Max)
		}
		return n, nil

	case Boolean:
		var b bool
		if err := weakDecode(raw, &b); err != nil {
			return nil, typeError(p, raw)
		}
		return b, nil

	default:
		var s string
		if n, ok := raw.(json.Number); ok {
			// Numeric IDs are common in hand-written input.
			s = n.String()
		} else if err := mapstructure.Decode(raw, &s); err != nil {
			return nil, typeError(p, raw)
		}
		if p.PageID {
			id, err := parse.ConfluencePageID(s)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %v", p.Name, err)
			}
			s = id
		}
		return s, nil
	}
}

// numberToInt accepts any whole JSON number, including 1e3, 100.0 and values
// beyond int64; bounded params clamp before the conversion.
func numberToInt(p Param, num json.Number) (any, error) {
	f, err := strconv.ParseFloat(num.String(), 64)
	if err != nil && !math.IsInf(f, 0) {
		return nil, typeError(p, num)
	}
	if !math.IsInf(f, 0) && math.Trunc(f) != f {
		return nil, fmt.Errorf("parameter %s must be %s, got %s", p.Name, p.Type, num)
	}

	if p.Bounded {
		switch {
		case f < float64(p.Min):
			return p.Min, nil
		case f > float64(p.Max):
			return p.Max, nil
		}
		return int(f), nil
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("parameter %s is out of range: %s", p.Name, num)
	}
	return int(f), nil
}

func weakDecode(raw any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func typeError(p Param, raw any) error {
	return fmt.Errorf("parameter %s must be %s, got %s", p.Name, p.Type, jsonKind(raw))
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func joinErrors(es []error) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}
