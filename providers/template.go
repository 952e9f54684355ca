package providers

import (
	"net/url"
	"strconv"
	"strings"
)

// Placeholder tokens recognised in URL templates.
const (
	PlaceholderUser  = "${user}"
	PlaceholderEmail = "${email}"
	PlaceholderID    = "${id}"
	PlaceholderSize  = "${size}"
)

const (
	schemeHTTP  = "http://"
	schemeHTTPS = "https://"
)

type placeholder struct {
	token   string
	project func(User) (string, bool)
}

// placeholders is iterated in this order. Tokens are distinct and do not
// overlap, so the order does not change the result.
var placeholders = []placeholder{
	{PlaceholderUser, func(u User) (string, bool) { return u.Username, u.Username != "" }},
	{PlaceholderEmail, func(u User) (string, bool) { return u.PreferredEmail, u.PreferredEmail != "" }},
	{PlaceholderID, func(u User) (string, bool) { return strconv.Itoa(u.AccountID), true }},
}

// SubstitutePlaceholders replaces every ${user}, ${email} and ${id} token in
// template with the matching attribute of user. Values are optionally
// lowercased and then query-escaped. A token whose attribute is absent is
// left in place.
func SubstitutePlaceholders(template string, user User, lowerCase bool) string {
	out := template
	for _, p := range placeholders {
		if !strings.Contains(out, p.token) {
			continue
		}
		value, ok := p.project(user)
		if !ok {
			continue
		}
		if lowerCase {
			value = strings.ToLower(value)
		}
		out = strings.ReplaceAll(out, p.token, url.QueryEscape(value))
	}
	return out
}

// UpgradeScheme rewrites a leading "http://" to "https://" when force is set.
// Occurrences of "http://" anywhere else in template are left untouched.
func UpgradeScheme(template string, force bool) string {
	if force && strings.HasPrefix(template, schemeHTTP) {
		return schemeHTTPS + template[len(schemeHTTP):]
	}
	return template
}

// AppendSizeParameter appends sizeTemplate, with ${size} replaced by
// imageSize, as a query parameter of u. Nothing is appended when imageSize
// is not positive or sizeTemplate is empty.
func AppendSizeParameter(u, sizeTemplate string, imageSize int) string {
	if imageSize <= 0 || sizeTemplate == "" {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + strings.ReplaceAll(sizeTemplate, PlaceholderSize, strconv.Itoa(imageSize))
}

func isHTTPS(canonicalWebURL string) bool {
	return strings.HasPrefix(canonicalWebURL, schemeHTTPS)
}
