package compose_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"upnext/internal/compose"
	"upnext/pkg/models"
)

func advanceTo(t *testing.T, e *env, target compose.StepID) {
	t.Helper()
	for e.ctrl.CurrentStep() != target {
		before := e.ctrl.CurrentStep()
		require.NoError(t, e.ctrl.NextStep(context.Background()))
		if e.ctrl.CurrentStep() == before {
			t.Fatalf("stuck on step %s while advancing to %s", before, target)
		}
	}
}

func TestWizardStartsAtMediaType(t *testing.T) {
	e := newEnv(t)
	e.ctrl.Open(nil)
	assert.Equal(t, compose.StepMediaType, e.ctrl.CurrentStep())

	// no media type chosen: forward navigation is gated
	err := e.ctrl.NextStep(context.Background())
	var vErr *compose.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, compose.StepMediaType, vErr.Step)
	assert.Equal(t, compose.StepMediaType, e.ctrl.CurrentStep())
}

func TestNextSkipsHiddenSteps(t *testing.T) {
	e := newEnv(t, compose.FieldCover, compose.FieldDescription)
	openWizard(t, e, models.TypeAnime)
	require.Equal(t, compose.StepStatus, e.ctrl.CurrentStep())

	// cover is disabled, so status advances straight to basic info
	require.NoError(t, e.ctrl.NextStep(context.Background()))
	assert.Equal(t, compose.StepBasicInfo, e.ctrl.CurrentStep())

	require.NoError(t, e.ctrl.SetText(compose.TextTitle, "Frieren"))
	require.NoError(t, e.ctrl.NextStep(context.Background()))
	assert.Equal(t, compose.StepLinks, e.ctrl.CurrentStep(), "description step skipped")
}

func TestChildrenStepSurvivesTechnicalStatsOff(t *testing.T) {
	for _, typ := range []models.MediaType{models.TypeAnime, models.TypeSeries, models.TypeMovie, models.TypeManga} {
		t.Run(string(typ), func(t *testing.T) {
			e := newEnv(t, compose.FieldTechnicalStats)
			openWizard(t, e, typ)
			assert.True(t, e.ctrl.Includable(compose.StepChildren),
				"seasons/volumes step is never removed by technical_stats")
		})
	}
}

func TestPrevNeverValidates(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeAnime)
	advanceTo(t, e, compose.StepBasicInfo)

	// title empty: forward is blocked but backward always works
	err := e.ctrl.NextStep(context.Background())
	var vErr *compose.ValidationError
	require.ErrorAs(t, err, &vErr)

	require.NoError(t, e.ctrl.PrevStep(context.Background()))
	assert.Equal(t, compose.StepCover, e.ctrl.CurrentStep())
}

func TestJumpBackAllowedJumpAheadGated(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeAnime)
	require.NoError(t, e.ctrl.SetText(compose.TextTitle, "Frieren"))
	advanceTo(t, e, compose.StepDescription)

	ctx := context.Background()

	// back to any visited step
	require.NoError(t, e.ctrl.JumpToStep(ctx, compose.StepStatus))
	assert.Equal(t, compose.StepStatus, e.ctrl.CurrentStep())

	// forward within reached territory
	require.NoError(t, e.ctrl.JumpToStep(ctx, compose.StepDescription))

	// one step past the gate passes current validation
	require.NoError(t, e.ctrl.JumpToStep(ctx, compose.StepLinks))
	assert.Equal(t, compose.StepLinks, e.ctrl.CurrentStep())

	// far beyond the gate is locked
	err := e.ctrl.JumpToStep(ctx, compose.StepPrivacy)
	assert.ErrorIs(t, err, compose.ErrStepLocked)
}

func TestNextStopsAtLastStep(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeMovie)
	require.NoError(t, e.ctrl.SetText(compose.TextTitle, "Blade Runner"))

	advanceTo(t, e, compose.StepPrivacy)
	require.NoError(t, e.ctrl.NextStep(context.Background()))
	assert.Equal(t, compose.StepPrivacy, e.ctrl.CurrentStep(), "advancing past the end is a no-op")
}

func TestCropSaveAwaitedOnLeavingCover(t *testing.T) {
	e := newEnv(t)
	openWizard(t, e, models.TypeAnime)
	advanceTo(t, e, compose.StepCover)

	crop := &fakeCrop{err: errSaveFailed}
	e.ctrl.SetCropSaver(crop)

	// failed crop save aborts navigation in both directions
	require.Error(t, e.ctrl.NextStep(context.Background()))
	assert.Equal(t, compose.StepCover, e.ctrl.CurrentStep())
	require.Error(t, e.ctrl.PrevStep(context.Background()))
	assert.Equal(t, compose.StepCover, e.ctrl.CurrentStep())
	assert.Equal(t, 2, crop.calls)

	crop.err = nil
	require.NoError(t, e.ctrl.NextStep(context.Background()))
	assert.Equal(t, compose.StepBasicInfo, e.ctrl.CurrentStep())

	// the editor detaches after a successful save
	require.NoError(t, e.ctrl.PrevStep(context.Background()))
	require.NoError(t, e.ctrl.NextStep(context.Background()))
	assert.Equal(t, 3, crop.calls)
}

func TestEditModeShowsAllIncludableSteps(t *testing.T) {
	e := newEnv(t, compose.FieldNotes)
	item := &models.MediaItem{
		ID: "abc", Title: "Dune", Type: models.TypeBook, Status: models.StatusCompleted,
	}
	e.ctrl.Open(item)

	require.Equal(t, compose.ModeEdit, e.ctrl.Mode())
	steps := e.ctrl.IncludableSteps()
	assert.Len(t, steps, 10, "all steps except disabled notes")
	for _, s := range steps {
		assert.NotEqual(t, compose.StepNotes, s)
	}

	// jumps are unrestricted section highlighting
	require.NoError(t, e.ctrl.JumpToStep(context.Background(), compose.StepPrivacy))
	assert.Equal(t, compose.StepPrivacy, e.ctrl.CurrentStep())
	assert.ErrorIs(t,
		e.ctrl.JumpToStep(context.Background(), compose.StepNotes),
		compose.ErrStepNotIncludable)
}

func TestMediaTypeSwitchResetsWizardOnly(t *testing.T) {
	t.Run("wizard", func(t *testing.T) {
		e := newEnv(t)
		openWizard(t, e, models.TypeAnime)
		require.NoError(t, e.ctrl.SetText(compose.TextTitle, "Monster"))
		require.NoError(t, e.ctrl.Add(compose.CollectionAuthors, "Urasawa"))
		require.NoError(t, e.ctrl.AddExternalLink("wiki", "https://example.org"))
		_, err := e.ctrl.AddChild()
		require.NoError(t, err)

		require.NoError(t, e.ctrl.SetMediaType(models.TypeManga))

		draft := e.ctrl.Draft()
		assert.Equal(t, models.TypeManga, draft.Type)
		assert.Equal(t, "Monster", draft.Title, "title survives the restart")
		assert.Empty(t, draft.Authors)
		assert.Empty(t, draft.Children)
		assert.Empty(t, draft.ExternalLinks)
		assert.Equal(t, compose.StepStatus, e.ctrl.CurrentStep())
	})

	t.Run("edit", func(t *testing.T) {
		e := newEnv(t)
		item := &models.MediaItem{
			ID: "abc", Title: "Monster", Type: models.TypeAnime, Status: models.StatusCompleted,
			Authors:       []string{"Urasawa"},
			ExternalLinks: []models.ExternalLink{{Label: "wiki", URL: "https://example.org"}},
			Children:      []models.ChildRecord{{ID: "c1", Title: "Season 1"}},
		}
		e.ctrl.Open(item)

		require.NoError(t, e.ctrl.SetMediaType(models.TypeSeries))

		draft := e.ctrl.Draft()
		assert.Equal(t, models.TypeSeries, draft.Type)
		assert.Equal(t, []string{"Urasawa"}, draft.Authors)
		assert.Len(t, draft.Children, 1)
		assert.Len(t, draft.ExternalLinks, 1)
	})
}
