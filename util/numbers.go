// Package util holds small parsing helpers shared by the CLI and sinks.
package util

import (
	"strconv"
	"strings"

	"github.com/regginator/omniwordlist/errors"
)

// ParseLengthRange parses "N" or "MIN-MAX" into an inclusive length range.
func ParseLengthRange(rangeStr string) (min int, max int, err error) {
	rangeStr = strings.TrimSpace(rangeStr)
	if rangeStr == "" {
		return 0, 0, errors.Configf("length range is empty")
	}

	rangeArr := strings.Split(rangeStr, "-")
	if len(rangeArr) > 2 {
		return 0, 0, errors.Configf("length range %q: expected at most 2 numbers, got %d", rangeStr, len(rangeArr))
	}

	min, err = strconv.Atoi(strings.TrimSpace(rangeArr[0]))
	if err != nil {
		return 0, 0, errors.WrapKindf(err, errors.ErrConfig, "length range %q", rangeStr)
	}
	if len(rangeArr) == 1 {
		return min, min, nil
	}

	max, err = strconv.Atoi(strings.TrimSpace(rangeArr[1]))
	if err != nil {
		return 0, 0, errors.WrapKindf(err, errors.ErrConfig, "length range %q", rangeStr)
	}
	if min > max {
		return 0, 0, errors.Configf("length range %q: min is greater than max", rangeStr)
	}
	return min, max, nil
}
