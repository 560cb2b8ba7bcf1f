package seed

import (
	"strings"

	"github.com/symbolscape/symbolscape/pkg/graph"
)

// inferVisibility buckets a member by kind and naming convention when the
// indexer supplies no explicit access modifier.
//
// The heuristic table is intentionally approximate; it classifies common
// C++/Java/Python conventions and makes no guarantee for codebases that
// deviate from them:
//
//	m_/s_/g_ prefix        -> private   (Hungarian-ish member prefixes)
//	leading underscore     -> private   (Python convention)
//	trailing underscore    -> private   (Google C++ style fields)
//	ALL_CAPS               -> public    (constants)
//	field kind             -> default   (package/default visibility)
//	everything else        -> public
func inferVisibility(kind, label string) Visibility {
	name := label
	if i := strings.LastIndexAny(name, ".:"); i >= 0 && i+1 < len(name) {
		name = name[i+1:]
	}
	if name == "" {
		return VisibilityDefault
	}

	switch {
	case strings.HasPrefix(name, "m_"),
		strings.HasPrefix(name, "s_"),
		strings.HasPrefix(name, "g_"):
		return VisibilityPrivate
	case strings.HasPrefix(name, "_"):
		return VisibilityPrivate
	case strings.HasSuffix(name, "_"):
		return VisibilityPrivate
	case isAllCaps(name):
		return VisibilityPublic
	case kind == graph.KindField:
		return VisibilityDefault
	}
	return VisibilityPublic
}

func isAllCaps(name string) bool {
	hasLetter := false
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}
