package render

import (
	"strings"

	"github.com/theoremus-urban-solutions/transit-geometry/network"
)

// ResolveColor returns the route color as #RRGGBB. Short #RGB colors are
// expanded. Unknown routes and routes without a hex color get fallback,
// given with or without '#'.
func ResolveColor(routes []network.Route, routeID, fallback string) string {
	for _, r := range routes {
		if r.ID != routeID {
			continue
		}
		if c, ok := normalizeHex(strings.TrimPrefix(r.Color, "#")); ok {
			return c
		}
		break
	}
	return "#" + strings.ToUpper(strings.TrimPrefix(fallback, "#"))
}

// normalizeHex upper-cases a 6 digit color and expands a 3 digit one
func normalizeHex(s string) (string, bool) {
	if !isHexColor(s) {
		return "", false
	}
	s = strings.ToUpper(s)
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	return "#" + s, true
}

func isHexColor(s string) bool {
	if len(s) != 6 && len(s) != 3 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
