// Package operation describes every Confluence command as data and runs it:
// read one JSON object, validate it, issue one request, print the result.
package operation

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"

	"github.com/iancoleman/strcase"

	"github.com/btw-claude/confluence-skills/internal/confluence"
	"github.com/btw-claude/confluence-skills/internal/httpclient"
)

const (
	DefaultLimit = 25
	MinLimit     = 1
	MaxLimit     = 250
)

type ParamType int

const (
	String ParamType = iota
	Integer
	Boolean
)

func (t ParamType) String() string {
	switch t {
	case Integer:
		return "an integer"
	case Boolean:
		return "a boolean"
	default:
		return "a string"
	}
}

// Param declares one field of the stdin object.
type Param struct {
	Name     string
	Type     ParamType
	Required bool
	Default  any
	// Min and Max clamp Integer params when Bounded is set.
	Bounded  bool
	Min, Max int
	// PageID params also accept a Confluence page URL.
	PageID bool
	Help   string
}

// Definition is one command. Path may reference params as {name}; they are
// path-escaped when rendered.
type Definition struct {
	Group   string
	Name    string
	Short   string
	Example string

	Method string
	API    confluence.APIVersion
	Path   string
	Params []Param

	Query func(Input) url.Values
	Body  func(Input) any
	// Result replaces the response body on stdout. Used by deletes, which
	// usually get an empty 204.
	Result func(Input, *httpclient.Response) any
	// ConflictHint is attached to a 409 so the caller knows what to refetch.
	ConflictHint func(Input) string
}

// CommandPath is the human name of the command, e.g. "pages update".
// A definition without a Name is run by its group command directly.
func (d *Definition) CommandPath() string {
	if d.Name == "" {
		return d.Group
	}
	return d.Group + " " + d.Name
}

var pathParamRegex = regexp.MustCompile(`\{([a-z_]+)\}`)

func (d *Definition) renderPath(in Input) (string, error) {
	var missing []string
	rendered := pathParamRegex.ReplaceAllStringFunc(d.Path, func(m string) string {
		name := m[1 : len(m)-1]
		value := in.String(name)
		if value == "" {
			missing = append(missing, name)
		}
		return url.PathEscape(value)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("path %s has no value for %v", d.Path, missing)
	}
	return rendered, nil
}

// Input holds the decoded, defaulted params of one invocation.
type Input struct {
	values map[string]any
}

func NewInput(values map[string]any) Input {
	if values == nil {
		values = map[string]any{}
	}
	return Input{values: values}
}

func (in Input) Lookup(name string) (any, bool) {
	v, ok := in.values[name]
	return v, ok
}

func (in Input) Has(name string) bool {
	_, ok := in.values[name]
	return ok
}

func (in Input) String(name string) string {
	v, _ := in.values[name].(string)
	return v
}

func (in Input) Int(name string) int {
	v, _ := in.values[name].(int)
	return v
}

func (in Input) Bool(name string) bool {
	v, _ := in.values[name].(bool)
	return v
}

// Names lists the params that are set, sorted.
func (in Input) Names() []string {
	names := make([]string, 0, len(in.values))
	for name := range in.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// camelFields copies the named params that are set into a request body,
// keyed in lowerCamelCase (space_id -> spaceId).
func camelFields(in Input, names ...string) map[string]any {
	out := make(map[string]any, len(names))
	for _, name := range names {
		if v, ok := in.Lookup(name); ok {
			out[strcase.ToLowerCamel(name)] = v
		}
	}
	return out
}

// kebabQuery copies the named params that are set into query parameters,
// keyed in kebab-case (space_id -> space-id).
func kebabQuery(in Input, names ...string) url.Values {
	return queryWith(in, strcase.ToKebab, names...)
}

// camelQuery is kebabQuery for endpoints that take lowerCamelCase keys.
func camelQuery(in Input, names ...string) url.Values {
	return queryWith(in, strcase.ToLowerCamel, names...)
}

func queryWith(in Input, keyFn func(string) string, names ...string) url.Values {
	q := url.Values{}
	for _, name := range names {
		v, ok := in.Lookup(name)
		if !ok {
			continue
		}
		q.Set(keyFn(name), formatValue(v))
	}
	return q
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// storageBody wraps a storage-format string the way v2 expects it.
func storageBody(value string) map[string]string {
	return map[string]string{
		"representation": "storage",
		"value":          value,
	}
}

func limitParam() Param {
	return Param{
		Name:    "limit",
		Type:    Integer,
		Default: DefaultLimit,
		Bounded: true,
		Min:     MinLimit,
		Max:     MaxLimit,
		Help:    fmt.Sprintf("page size, clamped to %d-%d", MinLimit, MaxLimit),
	}
}

func cursorParam() Param {
	return Param{Name: "cursor", Type: String, Help: "opaque cursor from a previous response's _links.next"}
}

// deleteResult reports a delete the way every delete command does:
// success plus the identifying params.
func deleteResult(idFields ...string) func(Input, *httpclient.Response) any {
	return func(in Input, resp *httpclient.Response) any {
		out := map[string]any{"success": isDeleteSuccess(resp.StatusCode)}
		for _, name := range idFields {
			if v, ok := in.Lookup(name); ok {
				out[name] = v
			}
		}
		return out
	}
}

func isDeleteSuccess(status int) bool {
	switch status {
	case 200, 202, 204:
		return true
	default:
		return false
	}
}
