package tui

import (
	"testing"

	"github.com/rokuctl/rokuctl/internal/ecp"
)

func TestMoveCursorSkipsSpacers(t *testing.T) {
	tests := []struct {
		name                 string
		row, col, dRow, dCol int
		wantRow, wantCol     int
	}{
		// Row 2 is {"", Up, ""}: moving down from Home lands on Up.
		{"down onto spacer row snaps to button", 1, 0, 1, 0, 2, 1},
		// Moving left from Up has no button to reach.
		{"left with no button stays put", 2, 1, 0, -1, 2, 1},
		// Moving right from Left skips nothing (Select is adjacent).
		{"right to adjacent button", 3, 0, 0, 1, 3, 1},
		// Top edge clamps.
		{"up from top row stays put", 0, 0, -1, 0, 0, 0},
		// Bottom edge clamps.
		{"down from bottom row stays put", 9, 1, 1, 0, 9, 1},
		// Row 4 is {"", Down, ""}: moving up from Replay snaps to Down.
		{"up onto spacer row snaps to button", 5, 0, -1, 0, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotRow, gotCol := moveCursor(tt.row, tt.col, tt.dRow, tt.dCol)
			if gotRow != tt.wantRow || gotCol != tt.wantCol {
				t.Errorf("moveCursor(%d,%d,%d,%d) = (%d,%d), want (%d,%d)",
					tt.row, tt.col, tt.dRow, tt.dCol, gotRow, gotCol, tt.wantRow, tt.wantCol)
			}
		})
	}
}

func TestMoveCursorAlwaysLandsOnButton(t *testing.T) {
	for r, row := range ecp.RemoteGrid {
		for c, token := range row {
			if token == "" {
				continue
			}
			for _, delta := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				gotRow, gotCol := moveCursor(r, c, delta[0], delta[1])
				if ecp.RemoteGrid[gotRow][gotCol] == "" {
					t.Errorf("moveCursor(%d,%d,%d,%d) landed on spacer (%d,%d)",
						r, c, delta[0], delta[1], gotRow, gotCol)
				}
			}
		}
	}
}

func TestButtonLabelsCoverAllCommands(t *testing.T) {
	for _, command := range ecp.Commands {
		if _, ok := buttonLabels[command]; !ok {
			t.Errorf("buttonLabels missing command %q", command)
		}
	}
}

func TestButtonLabelFallsBackToToken(t *testing.T) {
	if got := buttonLabel("SomethingElse"); got != "SomethingElse" {
		t.Errorf("buttonLabel() = %q, want the token itself", got)
	}
}
