package verify

import (
	"net/url"
	"slices"
	"strings"

	"github.com/reoring/apicontract"
	"github.com/reoring/apicontract/internal/ordered"
	"github.com/reoring/apicontract/strval"
)

// queryEntry collects every occurrence of one query key.
type queryEntry struct {
	plain   []string       // key=v
	bracket []string       // key[]=v
	fields  []strval.Field // key[field]=v
}

// parseQuery splits a raw query string into entries keyed by parameter name,
// in order of first appearance. Keys and values are percent-decoded; text
// that fails to decode is kept as is.
func parseQuery(raw string) *ordered.Map[*queryEntry] {
	out := ordered.New[*queryEntry]()
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		k, v = unescape(k), unescape(v)
		name, field, bracketed := splitQueryKey(k)
		e, ok := out.Get(name)
		if !ok {
			e = &queryEntry{}
			out.Set(name, e)
		}
		switch {
		case bracketed && field == "":
			e.bracket = append(e.bracket, v)
		case bracketed:
			e.fields = append(e.fields, strval.Field{Name: field, Value: strval.Text(v)})
		default:
			e.plain = append(e.plain, v)
		}
	}
	return out
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

// splitQueryKey recognizes "name[]" and "name[field]".
func splitQueryKey(k string) (name, field string, bracketed bool) {
	i := strings.IndexByte(k, '[')
	if i <= 0 || !strings.HasSuffix(k, "]") {
		return k, "", false
	}
	return k[:i], k[i+1 : len(k)-1], true
}

// value shapes the entry for validation. For array parameters under the
// comma strategy only the first plain occurrence is split; the number of
// further plain occurrences is returned as extra.
func (e *queryEntry) value(array bool, strategy apicontract.QueryArrayStrategy) (v strval.Value, extra int) {
	if len(e.fields) > 0 && len(e.plain) == 0 && len(e.bracket) == 0 {
		return strval.Fields(e.fields...), 0
	}
	if array {
		items := e.plain
		if strategy == apicontract.QueryArrayComma && len(e.plain) > 0 {
			items = strings.Split(e.plain[0], ",")
			extra = len(e.plain) - 1
		}
		return strval.List(slices.Concat(items, e.bracket)...), extra
	}
	all := slices.Concat(e.plain, e.bracket)
	if len(all) == 1 && len(e.fields) == 0 {
		return strval.Text(all[0]), 0
	}
	return strval.List(all...), 0
}
