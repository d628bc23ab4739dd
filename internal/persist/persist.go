// Package persist loads and saves the schedule as a JSON document.
// The field names and nesting are a compatibility contract with
// existing state files; do not rename them.
package persist

import (
	"github.com/tmcnab/schoolbell/internal/schedule"
)

// Document mirrors the persisted JSON shape.
type Document struct {
	PresetCount  int         `json:"presetCount"`
	ActivePreset int         `json:"activePreset"` // index, or -1 for none
	BellDuration int         `json:"bellDuration"` // milliseconds
	LastResetDay int         `json:"lastResetDay,omitempty"`
	Presets      []PresetDoc `json:"presets"`
}

// PresetDoc is one persisted preset.
type PresetDoc struct {
	Name      string    `json:"name"`
	BellCount int       `json:"bellCount"`
	Bells     []BellDoc `json:"bells"`
}

// BellDoc is one persisted bell. Triggered round-trips verbatim so a
// restart on the same day does not re-ring bells.
type BellDoc struct {
	Hour      int  `json:"hour"`
	Minute    int  `json:"minute"`
	Triggered bool `json:"triggered"`
}

// Gateway abstracts schedule storage.
type Gateway interface {
	// Load returns the stored document. ok=false means absent or
	// corrupt; the caller starts from an empty schedule.
	Load() (Document, bool)

	// Save writes the document durably. Failure is non-fatal: the
	// in-memory schedule stays authoritative and the next mutation
	// retries.
	Save(Document) error
}

// FromSnapshot builds the document for the given store contents,
// filling in the derived count fields.
func FromSnapshot(snap schedule.Snapshot) Document {
	doc := Document{
		PresetCount:  len(snap.Presets),
		ActivePreset: snap.Active,
		BellDuration: snap.DurationMs,
		LastResetDay: snap.LastResetDay,
		Presets:      make([]PresetDoc, len(snap.Presets)),
	}
	for i, p := range snap.Presets {
		pd := PresetDoc{
			Name:      p.Name,
			BellCount: len(p.Bells),
			Bells:     make([]BellDoc, len(p.Bells)),
		}
		for j, b := range p.Bells {
			pd.Bells[j] = BellDoc{Hour: b.Hour, Minute: b.Minute, Triggered: b.Triggered}
		}
		doc.Presets[i] = pd
	}
	return doc
}

// ToSnapshot converts a loaded document, reporting ok=false when it
// violates the schedule bounds. A document that fails here is treated
// the same as a corrupt file: the caller starts empty.
func ToSnapshot(doc Document) (schedule.Snapshot, bool) {
	if len(doc.Presets) > schedule.MaxPresets {
		return schedule.Snapshot{}, false
	}
	if doc.ActivePreset != schedule.NoActive &&
		(doc.ActivePreset < 0 || doc.ActivePreset >= len(doc.Presets)) {
		return schedule.Snapshot{}, false
	}
	if doc.BellDuration < schedule.MinBellDurationMs || doc.BellDuration > schedule.MaxBellDurationMs {
		return schedule.Snapshot{}, false
	}
	snap := schedule.Snapshot{
		Presets:      make([]schedule.Preset, len(doc.Presets)),
		Active:       doc.ActivePreset,
		DurationMs:   doc.BellDuration,
		LastResetDay: doc.LastResetDay,
	}
	for i, pd := range doc.Presets {
		if len(pd.Bells) > schedule.MaxBells {
			return schedule.Snapshot{}, false
		}
		p := schedule.Preset{Name: pd.Name, Bells: make([]schedule.Bell, len(pd.Bells))}
		for j, bd := range pd.Bells {
			if bd.Hour < 0 || bd.Hour > 23 || bd.Minute < 0 || bd.Minute > 59 {
				return schedule.Snapshot{}, false
			}
			p.Bells[j] = schedule.Bell{Hour: bd.Hour, Minute: bd.Minute, Triggered: bd.Triggered}
		}
		snap.Presets[i] = p
	}
	return snap, true
}
