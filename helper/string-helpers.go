package helper

import (
	"fmt"
	"regexp"
	"strings"

	om "github.com/cevaris/ordered_map"
)

var (
	reUnquotedIdentifier = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_$#]{0,127}$`)
	reQuotedIdentifier   = regexp.MustCompile(`^"[^"\x00]{1,128}"$`)
)

// TokensToOrderedMap converts a string of the form, 'k1:v1,k2:v2' into an ordered map and returns a pointer to it.
// 1) Split on comma to find each key:value pair.
// 2) Split on the first colon to separate the key from the value.
func TokensToOrderedMap(s string) *om.OrderedMap {
	o := om.NewOrderedMap()
	tokens := strings.Split(s, ",")
	for idx := range tokens {
		k, v := Split(tokens[idx], ":")
		k = strings.TrimSpace(k)
		if k != "" && v != "" { // if there is a key:value...
			o.Set(k, strings.TrimSpace(v))
		}
	}
	return o
}

// OrderedMapToTokens converts the supplied ordered map to a CSV of key:value,key:value,...
// All keys and values are expected to be of type string.
func OrderedMapToTokens(o *om.OrderedMap) (string, error) {
	b := strings.Builder{}
	iter := o.IterFunc()
	if iter == nil {
		return "", fmt.Errorf("failed to get iterFunc in OrderedMapToTokens()")
	}
	for kv, ok := iter(); ok; kv, ok = iter() {
		b.WriteString(fmt.Sprintf(",%v:%v", kv.Key, kv.Value))
	}
	return strings.TrimLeft(b.String(), ","), nil
}

// Split cuts s around the first c, returning s, "" when c is absent.
func Split(s string, c string) (string, string) {
	i := strings.Index(s, c)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i+len(c):]
}

// IsQuoted returns true if s is wrapped in double quotes.
func IsQuoted(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)
}

// ToUpperIfNotQuoted converts unquoted identifiers to upper case, matching how Oracle stores them.
func ToUpperIfNotQuoted(s string) string {
	if IsQuoted(s) {
		return s
	}
	return strings.ToUpper(s)
}

// TrimQuotes removes the surrounding double quotes of a quoted identifier.
func TrimQuotes(s string) string {
	if IsQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}

// ValidateIdentifier returns an error unless s is a plain or double-quoted SQL identifier.
// Identifiers that pass can be placed into DDL text, which cannot use bind variables.
func ValidateIdentifier(s string) error {
	if reUnquotedIdentifier.MatchString(s) || reQuotedIdentifier.MatchString(s) {
		return nil
	}
	return fmt.Errorf("invalid identifier %q", s)
}

// TruncateIdentifier returns prefix+suffix, cutting prefix so that the result is at most maxLen characters.
func TruncateIdentifier(prefix string, suffix string, maxLen int) string {
	room := maxLen - len(suffix)
	if room < 1 {
		return suffix[:maxLen]
	}
	if len(prefix) > room {
		prefix = strings.TrimRight(prefix[:room], "_")
	}
	return prefix + suffix
}

// Redact replaces every occurrence of secret in s.
func Redact(s string, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "xxxxx")
}
