// FILE: lixenwraith/preferences/decode.go
package preferences

import (
	"encoding"
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"golang.org/x/text/language"
)

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	languageTagType     = reflect.TypeOf(language.Tag{})
)

// decodeValue decodes a single raw TOML value into target, which must be a non-nil pointer.
// Input is strictly typed: a string is never coerced into a bool or a number. On error the
// target is left unchanged.
func decodeValue(raw any, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be non-nil pointer, got %T", target)
	}

	// Decode into a scratch value so a failed decode never leaves a partial result
	scratch := reflect.New(rv.Elem().Type())

	// Hooks run up front so their errors are reported without mapstructure's field prefix
	data, err := mapstructure.DecodeHookExec(getDecodeHook(), reflect.ValueOf(raw), scratch.Elem())
	if err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           scratch.Interface(),
		TagName:          "toml",
		WeaklyTypedInput: false,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return err
	}

	rv.Elem().Set(scratch.Elem())
	return nil
}

// getDecodeHook returns the composite decode hook for preference types
func getDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringToLanguageTagHookFunc(),
		stringToTextUnmarshalerHookFunc(),
		strictPrimitiveHookFunc(),
	)
}

// stringToLanguageTagHookFunc handles language.Tag conversion
func stringToLanguageTagHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != languageTagType {
			return data, nil
		}

		str, ok := data.(string)
		if !ok {
			return nil, fmt.Errorf("expected string but found %s", tomlTypeName(data))
		}

		tag, err := language.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid language identifier %q: %w", str, err)
		}
		return tag, nil
	}
}

// stringToTextUnmarshalerHookFunc decodes enum names through UnmarshalText.
// Unlike mapstructure.TextUnmarshallerHookFunc it rejects non-string input, so an integer
// in the file never becomes an arbitrary enum value.
func stringToTextUnmarshalerHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t == languageTagType || !reflect.PointerTo(t).Implements(textUnmarshalerType) {
			return data, nil
		}

		str, ok := data.(string)
		if !ok {
			return nil, fmt.Errorf("expected string but found %s", tomlTypeName(data))
		}

		result := reflect.New(t)
		if err := result.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(str)); err != nil {
			return nil, err
		}
		return result.Elem().Interface(), nil
	}
}

// strictPrimitiveHookFunc reports type mismatches for plain fields in TOML terms.
// mapstructure would also reject them, but with Go type names.
func strictPrimitiveHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		switch t.Kind() {
		case reflect.String:
			if _, ok := data.(string); !ok {
				return nil, fmt.Errorf("expected string but found %s", tomlTypeName(data))
			}
		case reflect.Bool:
			if _, ok := data.(bool); !ok {
				return nil, fmt.Errorf("expected boolean but found %s", tomlTypeName(data))
			}
		case reflect.Float32, reflect.Float64:
			switch data.(type) {
			case float64, int64:
			default:
				return nil, fmt.Errorf("expected float but found %s", tomlTypeName(data))
			}
		}
		return data, nil
	}
}

// tomlTypeName names the TOML type of a decoded value
func tomlTypeName(data any) string {
	switch data.(type) {
	case nil:
		return "nothing"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int64, int:
		return "integer"
	case float64:
		return "float"
	case map[string]any:
		return "table"
	case []map[string]any:
		return "array of tables"
	case []any:
		return "array"
	case time.Time:
		return "datetime"
	default:
		return fmt.Sprintf("%T", data)
	}
}
