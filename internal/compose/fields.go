package compose

// FieldKey identifies a logical field group that can be switched off in
// the app settings. Keys are typed so a misspelled key fails to compile
// instead of silently hiding the wrong field.
type FieldKey string

const (
	FieldAuthors         FieldKey = "authors"
	FieldAlternateTitles FieldKey = "alternate_titles"
	FieldAbbreviations   FieldKey = "abbreviations"
	FieldTags            FieldKey = "tags"
	FieldUniverse        FieldKey = "universe"
	FieldSeriesNumber    FieldKey = "series_number"
	FieldCover           FieldKey = "cover"
	FieldDescription     FieldKey = "description"
	FieldExternalLinks   FieldKey = "external_links"
	FieldProgress        FieldKey = "progress"
	FieldReview          FieldKey = "review"
	FieldNotes           FieldKey = "notes"
	FieldTechnicalStats  FieldKey = "technical_stats"
	FieldPrivacy         FieldKey = "privacy"
)

// SettingsSource is the read-only view of the app settings the policy
// needs: the set of disabled field keys.
type SettingsSource interface {
	DisabledFields() map[string]bool
}

// Visibility resolves, per field group, whether it is enabled. Unknown
// keys are visible (fail-open), so a stale settings file can never hide
// a field the app later introduced.
//
// Hiding is strictly a presentation concern: data already present in a
// draft is preserved even while its field is hidden.
type Visibility struct {
	src SettingsSource
}

func NewVisibility(src SettingsSource) *Visibility {
	return &Visibility{src: src}
}

func (v *Visibility) Visible(key FieldKey) bool {
	if v == nil || v.src == nil {
		return true
	}
	return !v.src.DisabledFields()[string(key)]
}
