package settings

import "fmt"

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	ReaderWide    *bool          `json:"readerWide,omitempty"`
	HideToolbar   *bool          `json:"hideToolbar,omitempty"`
	Zoom          *float64       `json:"zoom,omitempty"`
	LastPage      *bool          `json:"lastPage,omitempty"`
	AutoUpdate    *bool          `json:"autoUpdate,omitempty"`
	LastReaderURL *string        `json:"lastReaderUrl,omitempty"`
	AutoFlip      *AutoFlipPatch `json:"autoFlip,omitempty"`
}

// AutoFlipPatch is a partial update of the autoFlip object.
type AutoFlipPatch struct {
	Active    *bool `json:"active,omitempty"`
	Interval  *int  `json:"interval,omitempty"`
	KeepAwake *bool `json:"keepAwake,omitempty"`
}

// IsZero reports whether the patch mutates nothing.
func (p Patch) IsZero() bool {
	return p.ReaderWide == nil && p.HideToolbar == nil && p.Zoom == nil &&
		p.LastPage == nil && p.AutoUpdate == nil && p.LastReaderURL == nil &&
		p.AutoFlip == nil
}

// Rejection records a patch field that failed validation. The rest of the
// patch still applies.
type Rejection struct {
	Field  string
	Reason string
}

func (r Rejection) Error() string {
	return fmt.Sprintf("settings: %s %s", r.Field, r.Reason)
}

// Apply returns a copy of s with the valid fields of p applied. Invalid
// fields are reported as rejections and keep their prior value.
func Apply(s Settings, p Patch) (Settings, []Rejection) {
	var rejected []Rejection

	if p.ReaderWide != nil {
		s.ReaderWide = *p.ReaderWide
	}
	if p.HideToolbar != nil {
		s.HideToolbar = *p.HideToolbar
	}
	if p.Zoom != nil {
		if *p.Zoom > 0 && *p.Zoom <= MaxZoom {
			s.Zoom = *p.Zoom
		} else {
			rejected = append(rejected, Rejection{
				Field:  "zoom",
				Reason: fmt.Sprintf("must be in (0, %g], got %g", MaxZoom, *p.Zoom),
			})
		}
	}
	if p.LastPage != nil {
		s.LastPage = *p.LastPage
	}
	if p.AutoUpdate != nil {
		s.AutoUpdate = *p.AutoUpdate
	}
	if p.LastReaderURL != nil {
		s.LastReaderURL = *p.LastReaderURL
	}
	if p.AutoFlip != nil {
		if p.AutoFlip.Active != nil {
			s.AutoFlip.Active = *p.AutoFlip.Active
		}
		if p.AutoFlip.Interval != nil {
			if *p.AutoFlip.Interval > 0 {
				s.AutoFlip.Interval = *p.AutoFlip.Interval
			} else {
				rejected = append(rejected, Rejection{
					Field:  "autoFlip.interval",
					Reason: fmt.Sprintf("must be a positive number of seconds, got %d", *p.AutoFlip.Interval),
				})
			}
		}
		if p.AutoFlip.KeepAwake != nil {
			s.AutoFlip.KeepAwake = *p.AutoFlip.KeepAwake
		}
	}

	return s, rejected
}

// Bool, Float, Int, and String are small helpers for building patches.
func Bool(v bool) *bool { return &v }

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }

func String(v string) *string { return &v }
