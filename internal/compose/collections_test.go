package compose_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upnext/internal/compose"
	"upnext/pkg/models"
)

func TestAddDeduplicates(t *testing.T) {
	cases := []struct {
		name string
		col  compose.Collection
	}{
		{"authors", compose.CollectionAuthors},
		{"alternate titles", compose.CollectionAlternateTitles},
		{"tags", compose.CollectionTags},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			openWizard(t, e, models.TypeBook)

			require.NoError(t, e.ctrl.Add(tc.col, "Brandon Sanderson"))
			require.NoError(t, e.ctrl.Add(tc.col, "Brandon Sanderson"))
			require.NoError(t, e.ctrl.Add(tc.col, "  Brandon Sanderson  "))
			require.NoError(t, e.ctrl.Add(tc.col, ""))
			require.NoError(t, e.ctrl.Add(tc.col, "   "))

			draft := e.ctrl.Draft()
			var got []string
			switch tc.col {
			case compose.CollectionAuthors:
				got = draft.Authors
			case compose.CollectionAlternateTitles:
				got = draft.AlternateTitles
			case compose.CollectionTags:
				got = draft.Tags
			}
			assert.Equal(t, []string{"Brandon Sanderson"}, got)
		})
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeManga)

	for _, a := range []string{"Oda", "Kubo", "Kishimoto"} {
		require.NoError(t, e.ctrl.Add(compose.CollectionAuthors, a))
	}
	require.NoError(t, e.ctrl.Remove(compose.CollectionAuthors, "Kubo"))
	require.NoError(t, e.ctrl.Remove(compose.CollectionAuthors, "not there"))

	assert.Equal(t, []string{"Oda", "Kishimoto"}, e.ctrl.Draft().Authors)
}

func TestAbbreviationsAutoUppercase(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeAnime)

	require.NoError(t, e.ctrl.Add(compose.CollectionAbbreviations, "aot"))
	assert.Equal(t, []string{"AOT"}, e.ctrl.Draft().Abbreviations)
}

func TestNoAbbreviationsForcesEmpty(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeAnime)
	require.NoError(t, e.ctrl.Add(compose.CollectionAbbreviations, "AOT"))

	require.NoError(t, e.ctrl.SetNoAbbreviations(true))
	assert.Empty(t, e.ctrl.Draft().Abbreviations)

	// adds while disabled are ignored
	require.NoError(t, e.ctrl.Add(compose.CollectionAbbreviations, "SNK"))
	assert.Empty(t, e.ctrl.Draft().Abbreviations)
}

func TestReenableRegeneratesAbbreviations(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeAnime)
	require.NoError(t, e.ctrl.SetText(compose.TextTitle, "Attack on Titan"))
	require.NoError(t, e.ctrl.Add(compose.CollectionAlternateTitles, "Shingeki no Kyojin"))
	require.NoError(t, e.ctrl.SetNoAbbreviations(true))

	require.NoError(t, e.ctrl.SetNoAbbreviations(false))
	assert.Equal(t, []string{"AOT", "SNK"}, e.ctrl.Draft().Abbreviations)
}

func TestSwapTitle(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeAnime)
	require.NoError(t, e.ctrl.SetText(compose.TextTitle, "Attack on Titan"))
	require.NoError(t, e.ctrl.Add(compose.CollectionAlternateTitles, "Shingeki no Kyojin"))

	require.NoError(t, e.ctrl.SwapTitle("Shingeki no Kyojin"))

	draft := e.ctrl.Draft()
	assert.Equal(t, "Shingeki no Kyojin", draft.Title)
	assert.Equal(t, []string{"Attack on Titan"}, draft.AlternateTitles)

	// swapping an unknown value is a no-op
	require.NoError(t, e.ctrl.SwapTitle("nope"))
	assert.Equal(t, "Shingeki no Kyojin", e.ctrl.Draft().Title)
}

func TestNewTagIsRegistered(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeAnime)

	require.NoError(t, e.ctrl.Add(compose.CollectionTags, "mecha"))

	// registration is fire-and-forget, so poll for it
	assert.Eventually(t, func() bool {
		got := e.tags.registered()
		return len(got) == 1 && got[0] == "mecha"
	}, time.Second, 5*time.Millisecond)

	// re-adding the same tag registers nothing new
	require.NoError(t, e.ctrl.Add(compose.CollectionTags, "mecha"))
	assert.Equal(t, []string{"mecha"}, e.ctrl.Draft().Tags)
}

func TestTagRegistrationFailureDoesNotBlock(t *testing.T) {
	e := newEnv(t)
	e.tags.err = errSaveFailed
	openWizard(t, e, models.TypeAnime)

	require.NoError(t, e.ctrl.Add(compose.CollectionTags, "isekai"))
	assert.Equal(t, []string{"isekai"}, e.ctrl.Draft().Tags, "tag stays usable for the session")
}
