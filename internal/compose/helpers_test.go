package compose_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"upnext/internal/compose"
	"upnext/pkg/models"
)

type fakeSettings struct {
	disabled map[string]bool
}

func (f *fakeSettings) DisabledFields() map[string]bool {
	if f.disabled == nil {
		return map[string]bool{}
	}
	return f.disabled
}

type fakeSaver struct {
	saved  []models.MediaItem
	err    error
	nextID string
}

func (f *fakeSaver) Save(_ context.Context, snapshot models.MediaItem) (models.MediaItem, error) {
	if f.err != nil {
		return models.MediaItem{}, f.err
	}
	if snapshot.ID == "" {
		snapshot.ID = f.nextID
	}
	f.saved = append(f.saved, snapshot)
	return snapshot, nil
}

type fakeTags struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (f *fakeTags) RegisterIfAbsent(_ context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, name)
	return f.err
}

func (f *fakeTags) registered() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}

type fakeCrop struct {
	err   error
	calls int
}

func (f *fakeCrop) SaveCrop(context.Context) error {
	f.calls++
	return f.err
}

var errSaveFailed = errors.New("save failed")

type env struct {
	ctrl     *compose.Controller
	saver    *fakeSaver
	tags     *fakeTags
	settings *fakeSettings
}

func newEnv(t *testing.T, disabled ...compose.FieldKey) *env {
	t.Helper()

	settings := &fakeSettings{disabled: map[string]bool{}}
	for _, key := range disabled {
		settings.disabled[string(key)] = true
	}
	saver := &fakeSaver{nextID: "generated-id"}
	tags := &fakeTags{}

	return &env{
		ctrl:     compose.NewController(compose.NewVisibility(settings), saver, tags, nil, nil),
		saver:    saver,
		tags:     tags,
		settings: settings,
	}
}

// openWizard starts a new-entry session and selects the media type,
// which lands the wizard on the status step.
func openWizard(t *testing.T, e *env, typ models.MediaType) {
	t.Helper()
	e.ctrl.Open(nil)
	if err := e.ctrl.SetMediaType(typ); err != nil {
		t.Fatalf("SetMediaType failed: %v", err)
	}
}

// addDetailedChild appends a child, enables its details and fills the
// given numbers.
func addDetailedChild(t *testing.T, e *env, fields map[compose.NumericField]int) int {
	t.Helper()
	if _, err := e.ctrl.AddChild(); err != nil {
		t.Fatalf("AddChild failed: %v", err)
	}
	index := len(e.ctrl.Draft().Children) - 1
	if err := e.ctrl.ToggleChildDetails(index, true); err != nil {
		t.Fatalf("ToggleChildDetails failed: %v", err)
	}
	for field, value := range fields {
		if err := e.ctrl.SetChildNumber(index, field, value); err != nil {
			t.Fatalf("SetChildNumber(%s) failed: %v", field, err)
		}
	}
	return index
}
