package extraction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// StaticSource serves a fixed list of locations, e.g. from CLI arguments.
type StaticSource []string

func (s StaticSource) Locations(ctx context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}

// maxLocationLen bounds a single line read by LineSource.
const maxLocationLen = 1 << 20

// LineSource reads one location per line. Blank lines are ignored.
type LineSource struct {
	R io.Reader
}

func (s LineSource) Locations(ctx context.Context) ([]string, error) {
	var locations []string
	scanner := bufio.NewScanner(s.R)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLocationLen)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		locations = append(locations, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read locations: %w", err)
	}
	return locations, nil
}
