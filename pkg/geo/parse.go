package geo

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rubiojr/letterpress/pkg/log"
)

var logger = log.ForService("geo")

var featureCall = regexp.MustCompile(
	`create_feature\(\s*create_point\(\s*([-+0-9.eE]+)\s*,\s*([-+0-9.eE]+)\s*\)\s*,\s*(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)')\s*\)`)

// ParseFeatures extracts the places of a map fragment. The fragment calls
// create_feature(create_point(lon, lat), "name") for every place. Places
// that cannot be projected are skipped, as the map script does.
func ParseFeatures(fragment string) []Feature {
	var features []Feature
	for _, m := range featureCall.FindAllStringSubmatch(fragment, -1) {
		lon, errX := strconv.ParseFloat(m[1], 64)
		lat, errY := strconv.ParseFloat(m[2], 64)
		if errX != nil || errY != nil {
			logger.Debugf("skipping unparsable point %q, %q", m[1], m[2])
			continue
		}

		p, err := Project(lon, lat)
		if err != nil {
			logger.Debugf("skipping place: %v", err)
			continue
		}

		name := unquoteJS(m[3], '"')
		if m[4] != "" {
			name = unquoteJS(m[4], '\'')
		}
		features = append(features, Feature{Name: name, Point: p})
	}
	return features
}

// unquoteJS decodes the body of a JavaScript string literal. Bodies Go
// cannot decode are returned as they are.
func unquoteJS(body string, quote byte) string {
	if quote == '\'' {
		body = strings.ReplaceAll(body, `\'`, `'`)
		body = strings.ReplaceAll(body, `"`, `\"`)
	}
	s, err := strconv.Unquote(`"` + body + `"`)
	if err != nil {
		return body
	}
	return s
}
