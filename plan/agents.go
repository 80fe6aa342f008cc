package plan

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvtraffic/gridgraph"
)

// ReadAgents parses start/goal pairs in one of two layouts.
//
// Plain: one agent per line as "sx sy gx gy"; blank lines and lines
// starting with '#' are skipped.
//
// MovingAI scenario: a "version" header followed by tab-separated rows
// "bucket map width height sx sy gx gy optimal".
//
// Coordinates are converted with grid.Index; validity against the map is
// checked by New, not here.
func ReadAgents(r io.Reader, grid *gridgraph.Grid) ([]Agent, error) {
	sc := bufio.NewScanner(r)
	var agents []Agent
	scenario := false
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(agents) == 0 && !scenario && strings.EqualFold(fields[0], "version") {
			scenario = true
			continue
		}
		if scenario {
			if len(fields) < 8 {
				return nil, fmt.Errorf("%w: line %d: want 9 scenario columns, got %d", ErrBadAgentsFile, lineNo, len(fields))
			}
			fields = fields[4:8]
		} else if len(fields) != 4 {
			return nil, fmt.Errorf("%w: line %d: want \"sx sy gx gy\", got %d fields", ErrBadAgentsFile, lineNo, len(fields))
		}
		var xy [4]int
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrBadAgentsFile, lineNo, err)
			}
			xy[i] = v
		}
		if !grid.InBounds(xy[0], xy[1]) || !grid.InBounds(xy[2], xy[3]) {
			return nil, fmt.Errorf("%w: line %d: coordinates outside %dx%d map", ErrBadAgentsFile, lineNo, grid.Width, grid.Height)
		}
		agents = append(agents, Agent{
			ID:    len(agents),
			Start: grid.Index(xy[0], xy[1]),
			Goal:  grid.Index(xy[2], xy[3]),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("plan: read agents: %w", err)
	}
	if len(agents) == 0 {
		return nil, ErrNoAgents
	}
	return agents, nil
}
