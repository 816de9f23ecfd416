package mcmsync

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/gopass/pkg/set"
	"github.com/iancoleman/orderedmap"
	"github.com/tidwall/gjson"
)

// Setting is a single named setting value.
type Setting struct {
	Name  string
	Value Value
}

func (s Setting) String() string {
	return s.Name + " = " + s.Value.Raw()
}

// Settings is the incoming name to value mapping, usually read from
// settings.json. It remembers the order in which names were first added.
//
// A nil *Settings is valid and empty.
type Settings struct {
	m *orderedmap.OrderedMap
}

// NewSettings returns an empty mapping.
func NewSettings() *Settings {
	return &Settings{m: orderedmap.New()}
}

// SettingsFrom builds a mapping from the given settings, in order.
func SettingsFrom(in ...Setting) *Settings {
	s := NewSettings()
	for _, e := range in {
		s.Set(e.Name, e.Value)
	}

	return s
}

// Set adds or replaces a setting. Replacing keeps the original position.
func (s *Settings) Set(name string, v Value) {
	if s.m == nil {
		s.m = orderedmap.New()
	}
	s.m.Set(name, v)
}

// Get returns the value of a setting.
func (s *Settings) Get(name string) (Value, bool) {
	if s == nil || s.m == nil {
		return Value{}, false
	}
	v, found := s.m.Get(name)
	if !found {
		return Value{}, false
	}

	return v.(Value), true //nolint:forcetypeassert
}

// Has returns true if the setting is present, even if it is null.
func (s *Settings) Has(name string) bool {
	_, found := s.Get(name)

	return found
}

// Keys returns the setting names in insertion order.
func (s *Settings) Keys() []string {
	if s == nil || s.m == nil {
		return nil
	}

	return s.m.Keys()
}

// SortedKeys returns the setting names in alphabetical order.
func (s *Settings) SortedKeys() []string {
	return set.Sorted(s.Keys())
}

// Len returns the number of settings.
func (s *Settings) Len() int {
	return len(s.Keys())
}

// All returns all settings in insertion order.
func (s *Settings) All() []Setting {
	out := make([]Setting, 0, s.Len())
	for _, k := range s.Keys() {
		v, _ := s.Get(k)
		out = append(out, Setting{Name: k, Value: v})
	}

	return out
}

// Overlay copies every setting of o into s. Values from o win.
func (s *Settings) Overlay(o *Settings) {
	for _, e := range o.All() {
		debug.V(2).Log("overlaying %q with %#v", e.Name, e.Value)
		s.Set(e.Name, e.Value)
	}
}

// ParseSettings decodes a settings document. The document must be a
// JSON object; its members become settings in document order. Repeated
// names keep their first position and their last value.
func ParseSettings(data []byte) (*Settings, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidSettings)
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: expected a JSON object, got %s", ErrInvalidSettings, doc.Type)
	}

	s := NewSettings()
	doc.ForEach(func(key, value gjson.Result) bool {
		s.Set(key.String(), valueOf(value))

		return true
	})

	debug.V(3).Log("parsed %d settings: %v", s.Len(), s.Keys())

	return s, nil
}

// LoadSettings reads and decodes a settings document from disk.
func LoadSettings(fn string) (*Settings, error) {
	buf, err := os.ReadFile(fn)
	if err != nil {
		return nil, err
	}

	s, err := ParseSettings(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}

	return s, nil
}

// LoadSettingsFromEnv reads settings from <prefix>_COUNT,
// <prefix>_KEY_<n> and <prefix>_VALUE_<n>. Values that are valid JSON
// scalars keep their type, anything else is taken as a string.
// If the variables are incomplete the result is empty.
func LoadSettingsFromEnv(envPrefix string) *Settings {
	count, err := strconv.Atoi(os.Getenv(envPrefix + "_COUNT"))
	if err != nil || count < 1 {
		return NewSettings()
	}

	s := NewSettings()
	for i := range count {
		keyVar := fmt.Sprintf("%s%d", envPrefix+"_KEY_", i)
		key := os.Getenv(keyVar)

		valVar := fmt.Sprintf("%s%d", envPrefix+"_VALUE_", i)
		value, found := os.LookupEnv(valVar)

		if key == "" || !found {
			debug.Log("incomplete settings in env: %s or %s missing", keyVar, valVar)

			return NewSettings()
		}

		s.Set(key, envValue(value))
		debug.V(3).Log("added %s from env", key)
	}

	return s
}

func envValue(raw string) Value {
	if gjson.Valid(raw) {
		if r := gjson.Parse(raw); r.Type != gjson.JSON {
			return valueOf(r)
		}
	}

	return String(raw)
}

func valueOf(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.String:
		return String(r.Str)
	case gjson.Number:
		if strings.ContainsAny(r.Raw, ".eE") {
			return Float(r.Num)
		}
		if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
			return Int(i)
		}

		return integer(r.Raw)
	case gjson.JSON:
		return Composite(r.Raw)
	}

	return Composite(r.Raw)
}
