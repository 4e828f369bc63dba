package middleware

import "strconv"

func parseUintHeader(value string) (uint, error) {
	parsed, err := strconv.ParseUint(value, 10, 32)

	if err != nil {
		return 0, err
	}

	return uint(parsed), nil
}
