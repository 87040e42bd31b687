package places

import (
	"fmt"
	"net/url"
	"strconv"
)

// Parameter names used by the client itself.
const (
	ParamQuery        = "query"
	ParamAroundLatLng = "aroundLatLng"
	ParamHitsPerPage  = "hitsPerPage"
	ParamLanguage     = "language"
)

// Params maps Algolia Places parameter names to values. A nil value is treated
// as absent.
type Params map[string]any

// reverseKeys are the only parameters the reverse endpoint receives.
var reverseKeys = []string{ParamAroundLatLng, ParamHitsPerPage, ParamLanguage}

// merge returns a new Params holding every layer in order, later layers
// overriding earlier ones.
func merge(layers ...Params) Params {
	out := Params{}
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}

	return out
}

// FormatLatLng renders a position as "<lat>,<lon>" with the shortest exact
// decimal form of each number.
func FormatLatLng(lat, lon float64) string {
	return formatFloat(lat) + "," + formatFloat(lon)
}

func reverseQuery(params Params) url.Values {
	query := url.Values{}
	for _, key := range reverseKeys {
		value, ok := params[key]
		if !ok || value == nil {
			continue
		}
		query.Set(key, formatValue(value))
	}

	return query
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return formatFloat(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
