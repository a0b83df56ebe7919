// Package settings defines the user preference aggregate shared by the
// shell and the content view, and the patch type used to mutate it.
package settings

const (
	// DefaultZoom is the content zoom factor applied on first run.
	DefaultZoom = 0.8

	// DefaultFlipInterval is the auto page-flip period in seconds.
	DefaultFlipInterval = 15

	// MaxZoom bounds the accepted zoom range (0, MaxZoom].
	MaxZoom = 4.0
)

// AutoFlip holds the auto page-flip timer preferences.
type AutoFlip struct {
	Active    bool `json:"active"`
	Interval  int  `json:"interval"`
	KeepAwake bool `json:"keepAwake"`
}

// Settings is the full preference aggregate. One instance lives for the
// process lifetime and is mutated only through the store. The json tags are
// the wire names used both in the durable record and over the view bridge.
type Settings struct {
	ReaderWide    bool     `json:"readerWide"`
	HideToolbar   bool     `json:"hideToolbar"`
	Zoom          float64  `json:"zoom"`
	LastPage      bool     `json:"lastPage"`
	AutoUpdate    bool     `json:"autoUpdate"`
	LastReaderURL string   `json:"lastReaderUrl,omitempty"`
	AutoFlip      AutoFlip `json:"autoFlip"`
}

// Default returns the first-run settings.
func Default() Settings {
	return Settings{
		ReaderWide:  false,
		HideToolbar: false,
		Zoom:        DefaultZoom,
		LastPage:    true,
		AutoUpdate:  true,
		AutoFlip: AutoFlip{
			Active:    false,
			Interval:  DefaultFlipInterval,
			KeepAwake: true,
		},
	}
}

// Equal reports whether two snapshots are observationally identical.
func (s Settings) Equal(o Settings) bool {
	return s == o
}
