package theme

import "testing"

func TestGetFallsBack(t *testing.T) {
	if got := Get("dracula"); got.Name != "Dracula" {
		t.Errorf("Get(dracula) = %q", got.Name)
	}
	if got := Get("no-such-theme"); got.Key != "catppuccin-mocha" {
		t.Errorf("Get(unknown) = %q, want catppuccin-mocha", got.Key)
	}
}

func TestNextCycles(t *testing.T) {
	all := All()
	th := all[0]
	for i := 0; i < len(all); i++ {
		th = Next(th)
	}
	if th.Key != all[0].Key {
		t.Errorf("cycling %d times ended on %q", len(all), th.Key)
	}
	if Next(Theme{Key: "missing"}).Key != all[0].Key {
		t.Error("Next of an unknown theme should restart the cycle")
	}
}
