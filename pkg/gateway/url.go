package gateway

import (
	"regexp"
	"strings"
)

var schemePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)

// HasScheme reports whether p is already an absolute URL.
func HasScheme(p string) bool {
	return schemePattern.MatchString(p)
}

// AbsoluteURL makes a backend path displayable: absolute URLs pass through,
// relative ones get the backend root in front.
func AbsoluteURL(root, p string) string {
	if p == "" || HasScheme(p) {
		return p
	}
	return JoinRoot(root, p)
}

// JoinRoot prefixes p with root without looking at p first. A path that is
// already absolute ends up doubled, which is how annotated detection images
// have always been resolved.
func JoinRoot(root, p string) string {
	if p == "" {
		return p
	}
	root = strings.TrimRight(root, "/")
	if strings.HasPrefix(p, "/") {
		return root + p
	}
	return root + "/" + p
}
