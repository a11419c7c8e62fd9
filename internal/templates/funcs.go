package templates

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var funcs = template.FuncMap{
	"underscore":           underscore,
	"underscore_all":       underscoreAll,
	"camelize":             camelize,
	"camelize_lower":       camelizeLower,
	"normalize":            normalize,
	"titleize":             titleize,
	"capitalize":           capitalize,
	"indent":               indent,
	"indent_with":          indentWith,
	"lines":                lines,
	"join":                 join,
	"prefix":               prefix,
	"quote":                quote,
	"escape_single_quotes": escapeSingleQuotes,
	"escape_double_quotes": escapeDoubleQuotes,
	"strip_last_colon":     stripLastColon,
	"trim":                 trim,
	"clear_empty_lines":    clearEmptyLines,
	"default":              defaultValue,
	"str":                  str,
}

// str formats a resolved value. nil is the empty string.
func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// items flattens a resolved list ([]any, []string, ...) into strings.
func items(v any) []string {
	if v == nil {
		return nil
	}
	if s, ok := v.([]string); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []string{str(v)}
	}
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = str(rv.Index(i).Interface())
	}
	return out
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalize removes diacritics: "Café" becomes "Cafe".
func normalize(v any) string {
	s, _, err := transform.String(stripMarks, str(v))
	if err != nil {
		return str(v)
	}
	return s
}

// words splits a name into its alphanumeric words.
func words(v any) []string {
	return strings.FieldsFunc(normalize(v), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func underscore(v any) string {
	return strings.ToLower(strings.Join(words(v), "_"))
}

func underscoreAll(v any) []string {
	in := items(v)
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = underscore(s)
	}
	return out
}

func camelize(v any) string {
	var b strings.Builder
	for _, w := range words(v) {
		b.WriteString(capitalize(strings.ToLower(w)))
	}
	return b.String()
}

func camelizeLower(v any) string {
	s := camelize(v)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

var title = cases.Title(language.English)

func titleize(v any) string {
	return title.String(str(v))
}

// capitalize upper-cases the first letter and keeps the rest.
func capitalize(v any) string {
	s := str(v)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// indent prefixes every non blank line with n spaces.
func indent(n int, v any) string {
	return indentWith(strings.Repeat(" ", n), v)
}

func indentWith(prefix string, v any) string {
	ls := strings.Split(str(v), "\n")
	for i, l := range ls {
		if strings.TrimSpace(l) != "" {
			ls[i] = prefix + l
		}
	}
	return strings.Join(ls, "\n")
}

func lines(v any) string {
	return strings.Join(items(v), "\n")
}

func join(sep string, v any) string {
	return strings.Join(items(v), sep)
}

func prefix(p string, v any) []string {
	in := items(v)
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = p + s
	}
	return out
}

func quote(v any) string {
	return strconv.Quote(str(v))
}

func escapeSingleQuotes(v any) string {
	return strings.ReplaceAll(str(v), "'", `\'`)
}

func escapeDoubleQuotes(v any) string {
	return strings.ReplaceAll(str(v), `"`, `\"`)
}

// stripLastColon drops one trailing colon: behave ignores it when matching.
func stripLastColon(v any) string {
	return strings.TrimSuffix(strings.TrimSpace(str(v)), ":")
}

func trim(v any) string {
	return strings.TrimSpace(str(v))
}

func clearEmptyLines(v any) string {
	var kept []string
	for _, l := range strings.Split(str(v), "\n") {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	return strings.Join(kept, "\n")
}

func defaultValue(def string, v any) string {
	if s := str(v); s != "" {
		return s
	}
	return def
}
