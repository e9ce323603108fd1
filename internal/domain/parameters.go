package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Param is a single named task parameter. Value is an int64, a float64, a
// string or a []string.
type Param struct {
	Name  string
	Value any
}

// Parameters is an ordered parameter set. The order is preserved through
// JSON encoding so clients see parameters in the order the generator
// produced them.
type Parameters []Param

// pathEscaper escapes the characters sjson treats as path syntax.
var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	".", `\.`,
	"*", `\*`,
	"?", `\?`,
	"|", `\|`,
	"#", `\#`,
	"@", `\@`,
	":", `\:`,
)

// Get returns the value of the named parameter.
func (p Parameters) Get(name string) (any, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return nil, false
}

// Names returns the parameter names in order.
func (p Parameters) Names() []string {
	names := make([]string, 0, len(p))
	for _, param := range p {
		names = append(names, param.Name)
	}
	return names
}

// MarshalJSON encodes the parameters as a JSON object in declaration order.
func (p Parameters) MarshalJSON() ([]byte, error) {
	out := []byte("{}")
	for _, param := range p {
		if param.Name == "" {
			return nil, fmt.Errorf("%w: empty parameter name", ErrInvalidParameters)
		}

		var err error
		out, err = sjson.SetBytes(out, pathEscaper.Replace(param.Name), param.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidParameters, param.Name, err)
		}
	}
	return out, nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the document.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: malformed JSON", ErrInvalidParameters)
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return fmt.Errorf("%w: expected a JSON object", ErrInvalidParameters)
	}

	out := Parameters{}
	var decodeErr error
	doc.ForEach(func(key, value gjson.Result) bool {
		v, err := paramValue(value)
		if err != nil {
			decodeErr = fmt.Errorf("%w: %s: %v", ErrInvalidParameters, key.String(), err)
			return false
		}
		out = append(out, Param{Name: key.String(), Value: v})
		return true
	})
	if decodeErr != nil {
		return decodeErr
	}

	*p = out
	return nil
}

func paramValue(r gjson.Result) (any, error) {
	switch r.Type {
	case gjson.Number:
		if strings.ContainsAny(r.Raw, ".eE") {
			return r.Float(), nil
		}
		return r.Int(), nil
	case gjson.String:
		return r.String(), nil
	case gjson.JSON:
		if !r.IsArray() {
			return nil, errors.New("nested objects are not supported")
		}
		items := r.Array()
		words := make([]string, 0, len(items))
		for _, item := range items {
			if item.Type != gjson.String {
				return nil, errors.New("arrays may only contain strings")
			}
			words = append(words, item.String())
		}
		return words, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", r.Type)
	}
}
