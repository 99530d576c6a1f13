package postgres

import (
	"strconv"
	"strings"

	"github.com/sitedex/sitedex"
)

// encodeVector renders a vector in pgvector's text literal form,
// e.g. "[0.1,0.2,0.3]". Text encoding keeps the services free of a
// driver-level codec registration.
func encodeVector(v []float32) string {
	var b strings.Builder
	b.Grow(len(v)*10 + 2)
	b.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(x), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// parseVector parses pgvector's text literal form back into a slice.
func parseVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, sitedex.Errorf(sitedex.EINTERNAL, "malformed vector literal %q", s)
	}
	body := s[1 : len(s)-1]
	if body == "" {
		return []float32{}, nil
	}

	parts := strings.Split(body, ",")
	v := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, sitedex.Errorf(sitedex.EINTERNAL, "malformed vector element %q: %v", p, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}
