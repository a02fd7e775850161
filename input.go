package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// inputHint is appended to every vector parse error.
const inputHint = "Example correct input: '10,3,5,1'"

var errVectorSyntax = errors.New("invalid input vector")

// parseVector reads a comma-separated list of positive integers, e.g.
// "10,3,5,1". Surrounding brackets and spaces are accepted.
func parseVector(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty. %s", errVectorSyntax, inputHint)
	}

	fields := strings.Split(s, ",")
	vector := make([]int, 0, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d %q is not an integer. %s", errVectorSyntax, i, f, inputHint)
		}
		vector = append(vector, v)
	}
	if len(vector) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 elements. %s", errVectorSyntax, inputHint)
	}
	return vector, nil
}
