package compose

import (
	"context"

	"upnext/pkg/models"
)

// Saver persists a finished draft snapshot. Create vs. update is
// selected by the presence of the item id.
type Saver interface {
	Save(ctx context.Context, snapshot models.MediaItem) (models.MediaItem, error)
}

// TagRegistry records tags the library has never seen before. Calls are
// fire-and-forget from the engine's point of view: a registration
// failure never blocks adding the tag to the draft.
type TagRegistry interface {
	RegisterIfAbsent(ctx context.Context, name string) error
}

// CropSaver is the embedded cover crop editor. While one is attached,
// navigating away from the cover step must wait for SaveCrop and stay
// put if it fails.
type CropSaver interface {
	SaveCrop(ctx context.Context) error
}

// Notifier surfaces short human-readable messages (toasts) to the user.
type Notifier interface {
	Notify(level, message string)
}

// nopNotifier keeps the controller usable without a presentation layer.
type nopNotifier struct{}

func (nopNotifier) Notify(string, string) {}
