package mapio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/elektrokombinacija/mapf-lns/internal/core"
)

// LoadMap reads the standard grid-pathing map format: a
// header with `type`, `height H`, `width W`, `map`, followed by H lines
// of W characters, `.`/anything but `@`,`T` passable, `@`/`T` blocked.
func LoadMap(path string) (*core.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newErr(ConfigError, "opening map file %s: %w", path, err)
	}
	defer f.Close()

	grid, err := ParseMap(f)
	if err != nil {
		return nil, newErr(ParseError, "parsing map file %s: %w", path, err)
	}
	return grid, nil
}

// ParseMap parses the map format from r.
func ParseMap(r io.Reader) (*core.Grid, error) {
	scanner := bufio.NewScanner(r)
	height, width := -1, -1
	var rows [][]bool

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "type"):
			continue
		case strings.HasPrefix(trimmed, "height"):
			h, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(trimmed, "height")))
			if err != nil {
				return nil, err
			}
			height = h
		case strings.HasPrefix(trimmed, "width"):
			w, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(trimmed, "width")))
			if err != nil {
				return nil, err
			}
			width = w
		case trimmed == "map":
			continue
		default:
			row := make([]bool, len(line))
			for i, ch := range line {
				row[i] = ch != '@' && ch != 'T'
			}
			rows = append(rows, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if height >= 0 && len(rows) != height {
		return nil, errInvalidf("declared height %d does not match %d map rows", height, len(rows))
	}
	if width >= 0 {
		for i, row := range rows {
			if len(row) != width {
				return nil, errInvalidf("row %d has width %d, declared width is %d", i, len(row), width)
			}
		}
	}

	grid, err := core.NewGrid(rows)
	if err != nil {
		return nil, err
	}
	return grid, nil
}

func errInvalidf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
