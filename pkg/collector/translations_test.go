package collector

import "testing"

func TestParseTranslations(t *testing.T) {
	text := "CARDIO_JUMPING_JACK=Jumping Jack\n" +
		"CARDIO_BURPEE = Burpee \n" +
		"# a comment line without an equals sign\n" +
		"\n" +
		"PLANK_PLANK=Plank"

	table := ParseTranslations(text)
	if table.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", table.Len())
	}

	cases := []struct {
		category, key string
		want          string
		ok            bool
	}{
		{"CARDIO", "JUMPING_JACK", "Jumping Jack", true},
		{"CARDIO", "BURPEE", "Burpee", true},
		{"PLANK", "PLANK", "Plank", true},
		{"CARDIO", "MISSING", "", false},
	}
	for _, tc := range cases {
		got, ok := table.Resolve(tc.category, tc.key)
		if ok != tc.ok || got != tc.want {
			t.Errorf("Resolve(%s, %s) = (%q, %v), want (%q, %v)", tc.category, tc.key, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFallbackName(t *testing.T) {
	if got := FallbackName("CARDIO", "JUMPING_JACK"); got != "CARDIO JUMPING_JACK" {
		t.Errorf("unexpected fallback name: %q", got)
	}
}
