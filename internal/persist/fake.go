package persist

// FakeGateway is an in-memory gateway that records saves for test
// assertions.
type FakeGateway struct {
	// Doc is returned by Load when Present is true.
	Doc     Document
	Present bool

	// SaveError, if set, will be returned by Save.
	SaveError error

	// Saves counts successful Save calls; LastSaved holds the most
	// recent document.
	Saves     int
	LastSaved Document
}

// NewFakeGateway creates an empty FakeGateway (Load reports absent).
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{Doc: Document{ActivePreset: -1}}
}

// Load returns the configured document.
func (f *FakeGateway) Load() (Document, bool) {
	return f.Doc, f.Present
}

// Save records the document.
func (f *FakeGateway) Save(doc Document) error {
	if f.SaveError != nil {
		return f.SaveError
	}
	f.Saves++
	f.LastSaved = doc
	f.Doc = doc
	f.Present = true
	return nil
}
