package compose_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upnext/internal/compose"
	"upnext/pkg/models"
)

func TestAddChildDefaults(t *testing.T) {
	cases := []struct {
		typ       models.MediaType
		wantTitle string
	}{
		{models.TypeAnime, "Season 1"},
		{models.TypeSeries, "Season 1"},
		{models.TypeBook, "Volume 1"},
	}

	for _, tc := range cases {
		t.Run(string(tc.typ), func(t *testing.T) {
			e := newEnv(t)
			openWizard(t, e, tc.typ)

			child, err := e.ctrl.AddChild()
			require.NoError(t, err)

			assert.NotEmpty(t, child.ID)
			assert.Equal(t, tc.wantTitle, child.Title)
			assert.False(t, child.HasDetails)
			if tc.typ.Episodic() {
				require.NotNil(t, child.Episodes)
				require.NotNil(t, child.DurationMin)
				assert.Equal(t, 12, *child.Episodes)
				assert.Equal(t, 20, *child.DurationMin)
			} else {
				assert.Nil(t, child.Chapters, "chapters stay unset until typed")
				require.NotNil(t, child.AvgWords)
				assert.Equal(t, 2000, *child.AvgWords)
			}
		})
	}
}

func TestChildIDsAreUnique(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeAnime)

	first, err := e.ctrl.AddChild()
	require.NoError(t, err)
	second, err := e.ctrl.AddChild()
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Season 2", second.Title)
}

func TestRemoveChildKeepsTitles(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeAnime)
	for i := 0; i < 3; i++ {
		_, err := e.ctrl.AddChild()
		require.NoError(t, err)
	}

	require.NoError(t, e.ctrl.RemoveChild(0))

	draft := e.ctrl.Draft()
	require.Len(t, draft.Children, 2)
	// materialized titles are never renumbered
	assert.Equal(t, "Season 2", draft.Children[0].Title)
	assert.Equal(t, "Season 3", draft.Children[1].Title)
	assert.Equal(t, 2, draft.Totals.VolumeCount)

	assert.Error(t, e.ctrl.RemoveChild(5))
	assert.Error(t, e.ctrl.RemoveChild(-1))
}

func TestChildRatingToggle(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeAnime)
	_, err := e.ctrl.AddChild()
	require.NoError(t, err)

	require.NoError(t, e.ctrl.SetChildRating(0, 3))
	assert.Equal(t, 3, e.ctrl.Draft().Children[0].Rating)

	// same value again clears the rating
	require.NoError(t, e.ctrl.SetChildRating(0, 3))
	assert.Equal(t, 0, e.ctrl.Draft().Children[0].Rating)

	require.NoError(t, e.ctrl.SetChildRating(0, 4))
	require.NoError(t, e.ctrl.SetChildRating(0, 2))
	assert.Equal(t, 2, e.ctrl.Draft().Children[0].Rating)

	assert.Error(t, e.ctrl.SetChildRating(0, 5))
}

func TestToggleDetailsSeedsOnce(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeBook)
	index := addDetailedChild(t, e, map[compose.NumericField]int{
		compose.FieldChapters: 30,
	})

	require.NoError(t, e.ctrl.ToggleChildDetails(index, false))
	require.NoError(t, e.ctrl.ToggleChildDetails(index, true))

	child := e.ctrl.Draft().Children[index]
	require.NotNil(t, child.Chapters)
	assert.Equal(t, 30, *child.Chapters, "re-enabling keeps typed values")
}
