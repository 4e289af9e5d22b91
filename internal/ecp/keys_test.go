package ecp

import "testing"

func TestIsKnownCommand(t *testing.T) {
	for _, c := range Commands {
		if !IsKnownCommand(c) {
			t.Errorf("IsKnownCommand(%q) = false, want true", c)
		}
	}

	for _, bad := range []string{"", "volumeup", "Lit_a", "Reboot"} {
		if IsKnownCommand(bad) {
			t.Errorf("IsKnownCommand(%q) = true, want false", bad)
		}
	}
}

func TestRemoteGrid(t *testing.T) {
	seen := make(map[string]bool)
	for i, row := range RemoteGrid {
		if len(row) != 3 {
			t.Errorf("row %d has %d columns, want 3", i, len(row))
		}
		for _, token := range row {
			if token == "" {
				continue
			}
			if !IsKnownCommand(token) {
				t.Errorf("grid token %q is not a known command", token)
			}
			if seen[token] {
				t.Errorf("grid token %q appears twice", token)
			}
			seen[token] = true
		}
	}

	// Every command should be reachable from the grid.
	for _, c := range Commands {
		if !seen[c] {
			t.Errorf("command %q missing from RemoteGrid", c)
		}
	}
}
