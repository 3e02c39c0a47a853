package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-catsearch/pkg/catalog"
)

// Formatter turns a present value into display text. Formatters are total:
// they never fail, they only format. The string argument after ":" in a
// formatter spec is bound at parse time.
type Formatter func(v catalog.Value) string

// FormatterFactory builds a Formatter from the argument portion of a spec
// such as "suffix: kg".
type FormatterFactory func(arg string) Formatter

// Formatters stores formatter factories by name, with the same discovery
// and duplication safeguards as the renderer registry.
type Formatters struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewFormatters constructs a registry with the built-in formatters
// registered.
func NewFormatters() *Formatters {
	f := &Formatters{factories: make(map[string]FormatterFactory)}
	f.registerBuiltins()
	return f
}

// Register adds a formatter factory. Duplicate names return an error.
func (f *Formatters) Register(name string, factory FormatterFactory) error {
	if name == "" {
		return fmt.Errorf("render: formatter name is required")
	}
	if factory == nil {
		return fmt.Errorf("render: formatter factory is required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.factories[name]; exists {
		return fmt.Errorf("render: formatter %q already registered", name)
	}
	f.factories[name] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (f *Formatters) MustRegister(name string, factory FormatterFactory) {
	if err := f.Register(name, factory); err != nil {
		panic(err)
	}
}

// Resolve binds a formatter spec ("name" or "name: arg") to a Formatter.
// Unknown names resolve to nil so the renderer can fall back to the plain
// display string with a warning.
func (f *Formatters) Resolve(spec string) Formatter {
	name, arg := splitSpec(spec)

	f.mu.RLock()
	factory, ok := f.factories[name]
	f.mu.RUnlock()
	if !ok {
		return nil
	}
	return factory(arg)
}

// List returns the sorted registered formatter names.
func (f *Formatters) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.factories))
	for name := range f.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func splitSpec(spec string) (name, arg string) {
	name = strings.TrimSpace(spec)
	if idx := strings.Index(spec, ":"); idx >= 0 {
		name = strings.TrimSpace(spec[:idx])
		arg = strings.TrimPrefix(spec[idx+1:], " ")
	}
	return name, arg
}

func (f *Formatters) registerBuiltins() {
	f.MustRegister("join", func(arg string) Formatter {
		sep := arg
		if sep == "" {
			sep = ", "
		}
		return func(v catalog.Value) string {
			if items, ok := v.AsList(); ok {
				return strings.Join(items, sep)
			}
			return v.Display()
		}
	})
	f.MustRegister("suffix", func(arg string) Formatter {
		return func(v catalog.Value) string { return v.Display() + arg }
	})
	f.MustRegister("prefix", func(arg string) Formatter {
		return func(v catalog.Value) string { return arg + v.Display() }
	})
	f.MustRegister("number", func(arg string) Formatter {
		decimals := -1
		if arg != "" {
			if parsed, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil && parsed >= 0 {
				decimals = parsed
			}
		}
		return func(v catalog.Value) string {
			n, ok := v.AsNumber()
			if !ok {
				return v.Display()
			}
			return strconv.FormatFloat(n, 'f', decimals, 64)
		}
	})
	f.MustRegister("upper", func(string) Formatter {
		return func(v catalog.Value) string { return strings.ToUpper(v.Display()) }
	})
	f.MustRegister("lower", func(string) Formatter {
		return func(v catalog.Value) string { return strings.ToLower(v.Display()) }
	})
}
