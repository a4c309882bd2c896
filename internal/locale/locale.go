package locale

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"
	"golang.org/x/sync/errgroup"
)

const (
	Arabic  = "ar"
	English = "en"

	// Default is used when no valid preference exists
	Default = Arabic
)

var ErrUnsupportedLocale = errors.New("unsupported locale")

var supported = []string{Arabic, English}

// Supported reports whether l is one of the shipped locales
func Supported(l string) bool {
	for _, s := range supported {
		if s == l {
			return true
		}
	}
	return false
}

// All lists the shipped locales
func All() []string {
	return append([]string(nil), supported...)
}

// Dir returns the text direction of a locale
func Dir(l string) string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

// Catalog holds one immutable dictionary per locale
type Catalog struct {
	dicts map[string]map[string]any
}

// Load reads "<locale>.json" for every supported locale from fsys in parallel.
// When any dictionary fails to load all dictionaries are left empty, so lookups
// return their keys.
func Load(ctx context.Context, fsys fs.FS) *Catalog {
	dicts := make([]map[string]any, len(supported))

	g, _ := errgroup.WithContext(ctx)
	for i, l := range supported {
		g.Go(func() error {
			data, err := fs.ReadFile(fsys, l+".json")
			if err != nil {
				return fmt.Errorf("failed to read %s dictionary: %w", l, err)
			}
			var dict map[string]any
			if err := json.Unmarshal(data, &dict); err != nil {
				return fmt.Errorf("failed to parse %s dictionary: %w", l, err)
			}
			dicts[i] = dict
			return nil
		})
	}

	c := &Catalog{dicts: make(map[string]map[string]any, len(supported))}
	if err := g.Wait(); err != nil {
		log.Printf("Error: Could not load translations: %v", err)
		for _, l := range supported {
			c.dicts[l] = map[string]any{}
		}
		return c
	}

	for i, l := range supported {
		c.dicts[l] = dicts[i]
	}
	return c
}

// Empty returns a catalog without translations
func Empty() *Catalog {
	c := &Catalog{dicts: make(map[string]map[string]any)}
	for _, l := range supported {
		c.dicts[l] = map[string]any{}
	}
	return c
}

// Size counts the top level sections of a locale dictionary
func (c *Catalog) Size(l string) int {
	return len(c.dicts[l])
}

var placeholder = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// T resolves a dot separated key in the locale's dictionary and fills {{name}}
// placeholders from vars. A missing key, or one that names a section instead of a
// string, yields the key itself. Placeholders without a matching var stay as they are.
func (c *Catalog) T(l, key string, vars map[string]any) string {
	var node any = c.dicts[l]
	for _, segment := range strings.Split(key, ".") {
		section, ok := node.(map[string]any)
		if !ok {
			return key
		}
		node, ok = section[segment]
		if !ok {
			return key
		}
	}

	text, ok := node.(string)
	if !ok {
		return key
	}
	if len(vars) == 0 {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(m string) string {
		name := m[2 : len(m)-2]
		v, ok := vars[name]
		if !ok {
			return m
		}
		return cast.ToString(v)
	})
}

// For binds the catalog to one locale
func (c *Catalog) For(l string) Localizer {
	if !Supported(l) {
		l = Default
	}
	return Localizer{catalog: c, Locale: l}
}

// Localizer translates for a single locale
type Localizer struct {
	catalog *Catalog
	Locale  string
}

// T translates key. vars are name/value pairs.
func (l Localizer) T(key string, vars ...any) string {
	return l.catalog.T(l.Locale, key, pairs(vars))
}

// Dir is the text direction of the bound locale
func (l Localizer) Dir() string {
	return Dir(l.Locale)
}

var byteUnits = []string{"units.bytes", "units.kb", "units.mb", "units.gb", "units.tb"}

// FormatBytes renders a size with two decimals at most and a localized unit name
func (l Localizer) FormatBytes(bytes int64) string {
	if bytes <= 0 {
		return "0 " + l.T(byteUnits[0])
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	return humanize.FtoaWithDigits(value, 2) + " " + l.T(byteUnits[i])
}

func pairs(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	vars := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		vars[cast.ToString(kv[i])] = kv[i+1]
	}
	return vars
}
