package sender

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Info is the summary a server reports in Response.Info, e.g.
// "processed: 1; failed: 0; total: 1; seconds spent: 0.000055".
type Info struct {
	Processed int
	Failed    int
	Total     int
	Spent     time.Duration
}

func ParseInfo(info string) (Info, error) {
	var out Info
	var seen int
	for _, part := range strings.Split(info, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		var err error
		switch name {
		case "processed":
			out.Processed, err = strconv.Atoi(value)
		case "failed":
			out.Failed, err = strconv.Atoi(value)
		case "total":
			out.Total, err = strconv.Atoi(value)
		case "seconds spent":
			var secs float64
			secs, err = strconv.ParseFloat(value, 64)
			out.Spent = time.Duration(math.Round(secs * float64(time.Second)))
		default:
			continue
		}
		if err != nil {
			return Info{}, fmt.Errorf("invalid %s in info %q: %w", name, info, err)
		}
		seen++
	}
	if seen == 0 {
		return Info{}, fmt.Errorf("no counters in info %q", info)
	}
	return out, nil
}
