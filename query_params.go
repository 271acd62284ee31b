package qparams

import (
	"slices"
	"strings"
)

// queryPairs accumulates encoded key=value pairs in the order they were serialized
type queryPairs []string

func (qp *queryPairs) add(pair string) {
	*qp = append(*qp, pair)
}

func (qp queryPairs) encode(sorted bool, prefixed bool) string {
	if sorted {
		qp = slices.Sorted(slices.Values(qp))
	}
	var buf strings.Builder
	if prefixed {
		buf.WriteByte('?')
	}
	for i, pair := range qp {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(pair)
	}
	return buf.String()
}
