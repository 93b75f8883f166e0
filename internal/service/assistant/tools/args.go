package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"harmonyhealth/internal/domain/models"
)

// OwnerKey is the argument overwritten with the authenticated caller
const OwnerKey = "user_id"

// Schema types for scalars the models sometimes quote. The coercions
// below accept both spellings.
var (
	intOrString    = []string{"integer", "string"}
	numberOrString = []string{"number", "string"}
	boolOrString   = []string{"boolean", "string"}
)

// Args is a decoded tool argument object. Unknown keys are kept.
type Args map[string]interface{}

// ParseArguments decodes the model's JSON argument string. An empty string
// is treated as an empty object; anything that is not an object is an error.
func ParseArguments(raw string) (Args, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Args{}, nil
	}

	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decode tool arguments: %w", err)
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("tool arguments must be a JSON object, got %T", v)
	}
	return Args(obj), nil
}

// Compact drops null members, so an optional argument sent as null reads
// as absent. Objects nested in arrays or objects are compacted too.
func (a Args) Compact() Args {
	return Args(compactObject(a))
}

func compactObject(obj map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		if v == nil {
			continue
		}
		out[k] = compactValue(v)
	}
	return out
}

func compactValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return compactObject(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = compactValue(item)
		}
		return out
	default:
		return v
	}
}

// Owner returns the injected caller identity
func (a Args) Owner() (int64, error) {
	switch v := a[OwnerKey].(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("missing caller identity")
	}
}

// Has reports whether key is present and not null
func (a Args) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// Int reads an integer that the model may send as a number or numeric string
func (a Args) Int(key string) (*int, error) {
	if !a.Has(key) {
		return nil, nil
	}
	n, err := toInt(a[key])
	if err != nil {
		return nil, fmt.Errorf("%s: %v", key, err)
	}
	return &n, nil
}

// Int64 is Int for identifiers
func (a Args) Int64(key string) (*int64, error) {
	n, err := a.Int(key)
	if err != nil || n == nil {
		return nil, err
	}
	v := int64(*n)
	return &v, nil
}

func (a Args) String(key string) (*string, error) {
	if !a.Has(key) {
		return nil, nil
	}
	s, ok := a[key].(string)
	if !ok {
		return nil, fmt.Errorf("%s: must be a string", key)
	}
	return &s, nil
}

func (a Args) Bool(key string) (*bool, error) {
	if !a.Has(key) {
		return nil, nil
	}
	switch v := a[key].(type) {
	case bool:
		return &v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: must be true or false", key)
		}
		return &b, nil
	default:
		return nil, fmt.Errorf("%s: must be true or false", key)
	}
}

// Clock reads an "HH:MM" wall-clock time
func (a Args) Clock(key string) (*models.ClockTime, error) {
	s, err := a.String(key)
	if err != nil || s == nil {
		return nil, err
	}
	c, err := models.ParseClockTime(*s)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", key, err)
	}
	return &c, nil
}

// Strings reads an array of strings. A single string is accepted as a one-element list.
func (a Args) Strings(key string) ([]string, error) {
	if !a.Has(key) {
		return nil, nil
	}
	switch v := a[key].(type) {
	case string:
		return []string{v}, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: must be a string", key, i)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: must be an array of strings", key)
	}
}

// Objects reads an array of objects
func (a Args) Objects(key string) ([]Args, error) {
	if !a.Has(key) {
		return nil, nil
	}
	list, ok := a[key].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: must be an array", key)
	}
	out := make([]Args, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s[%d]: must be an object", key, i)
		}
		out = append(out, Args(obj))
	}
	return out, nil
}

// Without returns a shallow copy without the given keys
func (a Args) Without(keys ...string) map[string]interface{} {
	out := make(map[string]interface{}, len(a))
	for k, v := range a {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("must be a whole number")
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("must be a whole number")
		}
		return i, nil
	default:
		return 0, fmt.Errorf("must be a whole number")
	}
}
