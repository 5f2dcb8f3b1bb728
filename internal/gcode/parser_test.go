package gcode

import (
	"testing"
)

func TestParse_Empty(t *testing.T) {
	moves := Parse("")
	if len(moves) != 0 {
		t.Errorf("expected 0 moves for empty input, got %d", len(moves))
	}
}

func TestParse_CommentsOnly(t *testing.T) {
	code := `; This is a comment
; Another comment
(parenthetical comment)
`
	moves := Parse(code)
	if len(moves) != 0 {
		t.Errorf("expected 0 moves for comments-only input, got %d", len(moves))
	}
}

func TestParse_IgnoresNonMotion(t *testing.T) {
	moves := Parse("G21\nG90\nM3 S3000\nM0\nM5\n")
	if len(moves) != 0 {
		t.Errorf("expected 0 moves, got %d", len(moves))
	}
}

func TestParse_RapidMove(t *testing.T) {
	moves := Parse("G0 X120.500\n")
	if len(moves) != 1 {
		t.Fatalf("expected 1 move, got %d", len(moves))
	}
	m := moves[0]
	if m.Type != MoveRapid {
		t.Errorf("expected MoveRapid, got %d", m.Type)
	}
	if m.FromX != 0 || m.ToX != 120.5 {
		t.Errorf("expected X 0 -> 120.5, got %.3f -> %.3f", m.FromX, m.ToX)
	}
}

func TestParse_PlungeAndRetract(t *testing.T) {
	code := `G0 Z10
G0 X500
G1 Z-50 F300 ; cut
G0 Z10
`
	moves := Parse(code)
	if len(moves) != 4 {
		t.Fatalf("expected 4 moves, got %d", len(moves))
	}
	want := []MoveType{MoveRetract, MoveRapid, MovePlunge, MoveRetract}
	for i, m := range moves {
		if m.Type != want[i] {
			t.Errorf("move %d: expected type %d, got %d", i, want[i], m.Type)
		}
	}
	if moves[2].FeedRate != 300 {
		t.Errorf("expected plunge feed 300, got %.0f", moves[2].FeedRate)
	}
	if moves[3].FeedRate != 300 {
		t.Errorf("expected feed to stay modal, got %.0f", moves[3].FeedRate)
	}
}

func TestParse_InlineParenComment(t *testing.T) {
	moves := Parse("G0 (park) X42\n")
	if len(moves) != 1 || moves[0].ToX != 42 {
		t.Fatalf("expected one move to X42, got %+v", moves)
	}
}

func TestParse_LowercaseAndPadded(t *testing.T) {
	moves := Parse("g00 x10\ng01 z-5 f100\n")
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	if moves[1].Type != MovePlunge || moves[1].ToX != 10 {
		t.Errorf("expected plunge at X10, got %+v", moves[1])
	}
}

func TestPlunges(t *testing.T) {
	moves := Parse("G0 Z10\nG0 X5\nG1 Z-50\nG0 Z10\nG0 X100\nG1 Z-50\nG0 Z10\n")
	xs := Plunges(moves)
	if len(xs) != 2 || xs[0] != 5 || xs[1] != 100 {
		t.Errorf("expected plunges at [5 100], got %v", xs)
	}
}
