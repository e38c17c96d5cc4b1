package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var humanDurationRe = regexp.MustCompile(`^(\d+)\s*(week|day|hour|minute|second)s?$`)

// ParseDuration converts strings like "7 days", "2 weeks" or "90s" into a time.Duration.
// Go duration syntax is tried first, then the human-readable form.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if d, err := time.ParseDuration(s); err == nil {
		if d <= 0 {
			return 0, errors.New("duration must be positive")
		}
		return d, nil
	}

	matches := humanDurationRe.FindStringSubmatch(strings.ToLower(s))
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}
	value, _ := strconv.Atoi(matches[1])

	var unit time.Duration
	switch matches[2] {
	case "week":
		unit = 7 * 24 * time.Hour
	case "day":
		unit = 24 * time.Hour
	case "hour":
		unit = time.Hour
	case "minute":
		unit = time.Minute
	case "second":
		unit = time.Second
	}

	d := time.Duration(value) * unit
	if d == 0 {
		return 0, errors.New("duration must be positive")
	}
	return d, nil
}
