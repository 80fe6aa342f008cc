package gridgraph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadMap parses a grid in the MovingAI benchmark format:
//
//	type octile
//	height H
//	width W
//	map
//	<H rows of W symbols>
//
// Header keys may appear in any order before the "map" line.
func ReadMap(r io.Reader) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	width, height := -1, -1
	inBody := false
	var rows []string
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if !inBody {
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			switch strings.ToLower(fields[0]) {
			case "type":
				continue
			case "map":
				inBody = true
				continue
			case "height", "width":
				if len(fields) != 2 {
					return nil, fmt.Errorf("%w: %q", ErrBadMapHeader, line)
				}
				n, err := strconv.Atoi(fields[1])
				if err != nil || n <= 0 {
					return nil, fmt.Errorf("%w: %q", ErrBadMapHeader, line)
				}
				if fields[0] == "height" {
					height = n
				} else {
					width = n
				}
			default:
				return nil, fmt.Errorf("%w: unexpected %q", ErrBadMapHeader, line)
			}
			continue
		}
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("gridgraph: reading map: %w", err)
	}
	if width < 0 || height < 0 || !inBody {
		return nil, fmt.Errorf("%w: missing width, height or map line", ErrBadMapHeader)
	}
	if len(rows) != height {
		return nil, fmt.Errorf("%w: got %d rows, header says %d", ErrNonRectangular, len(rows), height)
	}
	for _, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row length %d, header says %d", ErrNonRectangular, len(row), width)
		}
	}

	return FromRows(rows)
}
