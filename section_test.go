package mcmsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleDefaults resembles a shipped axr_options.ltx.
func sampleDefaults() []string {
	return []string{
		"[character_creation]\n",
		"        new_game_azazel_mode             =\n",
		"        new_game_campfire_mode           =\n",
		"        new_game_difficulty              = normal\n",
		" \n",
		"[global_keybinds]\n",
		"        debug_demo_record                = DIK_NUMPAD0\n",
		" \n",
		"[mcm]\n",
		"        21_game/card_game_21_minimum_rate = 500\n",
		"        21_game/value_card_21_max_rate   = 1500\n",
		"        3d_scopes/chromatism             = true\n",
		"        3d_scopes/nvg_blur               = false\n",
		"        3d_scopes/parallax_shadow        = true\n",
		"        EA_settings/ea_debug             = false\n",
		"        EA_settings/enable_animations    = true\n",
		"        SMR/smr_amain/smr_enabled        = true\n",
		" \n",
		"[modded_exes]\n",
		"        some_exe_setting                 = value\n",
	}
}

// sampleSaved is sampleDefaults with a few changes made by a user.
func sampleSaved() []string {
	return []string{
		"[character_creation]\n",
		"        new_game_azazel_mode             =\n",
		" \n",
		"[mcm]\n",
		"        21_game/card_game_21_minimum_rate = 600\n",
		"        21_game/value_card_21_max_rate   = 1600\n",
		"        3d_scopes/chromatism             = true\n",
		"        3d_scopes/nvg_blur               = false\n",
		"        3d_scopes/parallax_shadow        = false\n",
		"        EA_settings/ea_debug             = false\n",
		"        EA_settings/enable_animations    = true\n",
		"        SMR/smr_amain/smr_enabled        = false\n",
		" \n",
		"[modded_exes]\n",
		"        some_exe_setting                 = value\n",
	}
}

func TestHeader(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[mcm]\n", Header("mcm"))
	assert.Equal(t, "[modded_exes]\n", Header("modded_exes"))
}

func TestLocate(t *testing.T) {
	t.Parallel()

	lines := sampleDefaults()

	start, end, err := Locate(lines, "[mcm]\n")
	require.NoError(t, err)
	assert.Equal(t, 9, start)
	assert.Equal(t, 17, end)
	assert.Len(t, lines[start:end], 8)
	assert.Equal(t, "        21_game/card_game_21_minimum_rate = 500\n", lines[start])
	assert.Equal(t, "        SMR/smr_amain/smr_enabled        = true\n", lines[end-1])

	start, end, err = Locate(lines, "[global_keybinds]\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"        debug_demo_record                = DIK_NUMPAD0\n"}, lines[start:end])
}

func TestLocateNotFound(t *testing.T) {
	t.Parallel()

	_, _, err := Locate(sampleDefaults(), "[nonexistent]\n")
	require.ErrorIs(t, err, ErrSectionNotFound)
	assert.Contains(t, err.Error(), "[nonexistent]")

	_, _, err = Locate(nil, "[mcm]\n")
	require.ErrorIs(t, err, ErrSectionNotFound)
}

func TestLocateRequiresExactHeader(t *testing.T) {
	t.Parallel()

	for _, lines := range [][]string{
		{"[mcm]", "        a = 1\n"},
		{" [mcm]\n", "        a = 1\n"},
		{"[MCM]\n", "        a = 1\n"},
		{"[mcm] \n", "        a = 1\n"},
	} {
		_, _, err := Locate(lines, "[mcm]\n")
		assert.ErrorIs(t, err, ErrSectionNotFound, "%q", lines)
	}
}

func TestLocateAtEOF(t *testing.T) {
	t.Parallel()

	lines := sampleDefaults()[:17]

	start, end, err := Locate(lines, "[mcm]\n")
	require.NoError(t, err)
	assert.Equal(t, 9, start)
	assert.Equal(t, len(lines), end)

	// a header on the last line has an empty body
	start, end, err = Locate([]string{"[a]\n", "x = 1\n", "[mcm]\n"}, "[mcm]\n")
	require.NoError(t, err)
	assert.Equal(t, 3, start)
	assert.Equal(t, 3, end)
}

func TestLocateTerminators(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name string
		term string
	}{
		{"newline", "\n"},
		{"space newline", " \n"},
		{"tab newline", "\t\n"},
		{"crlf", "\r\n"},
		{"section", "[next]\n"},
		{"indented looking section", "[ next ]\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			lines := []string{"[mcm]\n", "        a = 1\n", tc.term, "        b = 2\n"}
			start, end, err := Locate(lines, "[mcm]\n")
			require.NoError(t, err)
			assert.Equal(t, 1, start)
			assert.Equal(t, 2, end)
		})
	}
}

func TestLocateFirstHeaderWins(t *testing.T) {
	t.Parallel()

	lines := []string{
		"[mcm]\n",
		"        a = 1\n",
		"\n",
		"[mcm]\n",
		"        b = 2\n",
	}

	start, end, err := Locate(lines, "[mcm]\n")
	require.NoError(t, err)
	assert.Equal(t, 1, start)
	assert.Equal(t, 2, end)
}

func TestParseLine(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in    string
		name  string
		value string
		ok    bool
	}{
		{"        a = 1\n", "a", "1", true},
		{"a=1", "a", "1", true},
		{"        new_game_azazel_mode             =\n", "new_game_azazel_mode", "", true},
		{"        url = http://x/?a=b\n", "url", "http://x/?a=b", true},
		{"        3d_scopes/chromatism = true\n", "3d_scopes/chromatism", "true", true},
		{"\t key \t=\t value with spaces \t\r\n", "key", "value with spaces", true},
		{" = orphan\n", "", "orphan", true},
		{"        no separator here\n", "", "", false},
		{"[mcm]\n", "", "", false},
		{"\n", "", "", false},
		{"", "", "", false},
	} {
		name, value, ok := ParseLine(tc.in)
		assert.Equal(t, tc.ok, ok, "%q", tc.in)
		assert.Equal(t, tc.name, name, "%q", tc.in)
		assert.Equal(t, tc.value, value, "%q", tc.in)
	}
}

func TestParseSection(t *testing.T) {
	t.Parallel()

	entries := ParseSection([]string{
		"        b = 2\n",
		"        a = 1\n",
		"        garbage\n",
		"         = no name\n",
		"        b = 3\n",
		"        c =\n",
	})

	assert.Equal(t, []string{"b", "a", "c"}, entries.Keys())
	v, _ := entries.Get("b")
	assert.Equal(t, "3", v)
	v, _ = entries.Get("c")
	assert.Equal(t, "", v)
	_, found := entries.Get("")
	assert.False(t, found)
}

func TestSectionNames(t *testing.T) {
	t.Parallel()

	names := sectionNames([]string{
		"        a = 1\n",
		"        garbage\n",
		"         = no name\n",
		"        b =\n",
	})

	assert.Equal(t, map[string]bool{"a": true, "b": true}, names)
}
