package gcode

import (
	"regexp"
	"strconv"
	"strings"
)

// MoveType represents the type of saw movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0 along X: carriage positioning
	MoveFeed                    // G1 along X
	MovePlunge                  // Z decreasing: blade entering the bar
	MoveRetract                 // Z increasing: blade leaving the bar
)

// Move is a single parsed movement of a saw program.
type Move struct {
	Type     MoveType
	FromX    float64
	FromZ    float64
	ToX      float64
	ToZ      float64
	FeedRate float64
}

var coordRe = regexp.MustCompile(`([XZF])(-?\d+\.?\d*)`)

// Parse parses a saw program into moves, tracking absolute carriage and
// blade position. Comments and non-motion commands are skipped.
func Parse(code string) []Move {
	var moves []Move
	curX, curZ, curFeed := 0.0, 0.0, 0.0

	for _, line := range strings.Split(code, "\n") {
		line = stripComment(strings.TrimSpace(line))
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		word := strings.Fields(upper)[0]
		var rapid bool
		switch word {
		case "G0", "G00":
			rapid = true
		case "G1", "G01":
		default:
			continue
		}

		newX, newZ, newFeed := curX, curZ, curFeed
		for _, m := range coordRe.FindAllStringSubmatch(upper, -1) {
			val, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				newX = val
			case "Z":
				newZ = val
			case "F":
				newFeed = val
			}
		}

		moves = append(moves, Move{
			Type:     classifyMove(rapid, curZ, newZ),
			FromX:    curX,
			FromZ:    curZ,
			ToX:      newX,
			ToZ:      newZ,
			FeedRate: newFeed,
		})
		curX, curZ, curFeed = newX, newZ, newFeed
	}
	return moves
}

// Plunges returns the carriage position of every plunge, in program order.
func Plunges(moves []Move) []float64 {
	var xs []float64
	for _, m := range moves {
		if m.Type == MovePlunge {
			xs = append(xs, m.ToX)
		}
	}
	return xs
}

// stripComment removes semicolon and parenthesized comments.
func stripComment(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	for {
		start := strings.Index(line, "(")
		if start < 0 {
			break
		}
		end := strings.Index(line[start:], ")")
		if end < 0 {
			line = line[:start]
			break
		}
		line = line[:start] + line[start+end+1:]
	}
	return strings.TrimSpace(line)
}

func classifyMove(rapid bool, fromZ, toZ float64) MoveType {
	zDelta := toZ - fromZ
	switch {
	case zDelta < -0.001:
		return MovePlunge
	case zDelta > 0.001:
		return MoveRetract
	case rapid:
		return MoveRapid
	default:
		return MoveFeed
	}
}
