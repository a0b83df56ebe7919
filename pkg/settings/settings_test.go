package settings

import "testing"

func TestDefaults(t *testing.T) {
	s := Default()

	if s.ReaderWide {
		t.Fatal("readerWide should default to false")
	}
	if s.HideToolbar {
		t.Fatal("hideToolbar should default to false")
	}
	if s.Zoom != 0.8 {
		t.Fatalf("zoom should default to 0.8, got %g", s.Zoom)
	}
	if !s.LastPage {
		t.Fatal("lastPage should default to true")
	}
	if !s.AutoUpdate {
		t.Fatal("autoUpdate should default to true")
	}
	if s.LastReaderURL != "" {
		t.Fatalf("lastReaderUrl should default to absent, got %q", s.LastReaderURL)
	}
	if s.AutoFlip.Active {
		t.Fatal("autoFlip.active should default to false")
	}
	if s.AutoFlip.Interval != 15 {
		t.Fatalf("autoFlip.interval should default to 15, got %d", s.AutoFlip.Interval)
	}
	if !s.AutoFlip.KeepAwake {
		t.Fatal("autoFlip.keepAwake should default to true")
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		patch    Patch
		want     func(Settings) Settings
		rejected []string
	}{{
		name:  "empty patch changes nothing",
		patch: Patch{},
		want:  func(s Settings) Settings { return s },
	}, {
		name:  "toggle wide",
		patch: Patch{ReaderWide: Bool(true)},
		want: func(s Settings) Settings {
			s.ReaderWide = true
			return s
		},
	}, {
		name:  "record reader url",
		patch: Patch{LastReaderURL: String("https://x/y")},
		want: func(s Settings) Settings {
			s.LastReaderURL = "https://x/y"
			return s
		},
	}, {
		name:  "valid zoom",
		patch: Patch{Zoom: Float(1.5)},
		want: func(s Settings) Settings {
			s.Zoom = 1.5
			return s
		},
	}, {
		name:     "zoom of zero rejected",
		patch:    Patch{Zoom: Float(0)},
		want:     func(s Settings) Settings { return s },
		rejected: []string{"zoom"},
	}, {
		name:     "zoom beyond max rejected",
		patch:    Patch{Zoom: Float(4.5)},
		want:     func(s Settings) Settings { return s },
		rejected: []string{"zoom"},
	}, {
		name:  "flip interval",
		patch: Patch{AutoFlip: &AutoFlipPatch{Interval: Int(30)}},
		want: func(s Settings) Settings {
			s.AutoFlip.Interval = 30
			return s
		},
	}, {
		name:     "negative interval rejected",
		patch:    Patch{AutoFlip: &AutoFlipPatch{Interval: Int(-5)}},
		want:     func(s Settings) Settings { return s },
		rejected: []string{"autoFlip.interval"},
	}, {
		name:     "zero interval rejected",
		patch:    Patch{AutoFlip: &AutoFlipPatch{Interval: Int(0)}},
		want:     func(s Settings) Settings { return s },
		rejected: []string{"autoFlip.interval"},
	}, {
		name: "valid fields survive an invalid sibling",
		patch: Patch{
			ReaderWide: Bool(true),
			AutoFlip:   &AutoFlipPatch{Active: Bool(true), Interval: Int(-1)},
		},
		want: func(s Settings) Settings {
			s.ReaderWide = true
			s.AutoFlip.Active = true
			return s
		},
		rejected: []string{"autoFlip.interval"},
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, rejected := Apply(Default(), tc.patch)

			if want := tc.want(Default()); got != want {
				t.Fatalf("applied settings mismatch:\n got %+v\nwant %+v", got, want)
			}

			if len(rejected) != len(tc.rejected) {
				t.Fatalf("expected %d rejections, got %v", len(tc.rejected), rejected)
			}
			for i, field := range tc.rejected {
				if rejected[i].Field != field {
					t.Fatalf("expected rejection of %q, got %q", field, rejected[i].Field)
				}
			}
		})
	}
}

func TestRejectionError(t *testing.T) {
	r := Rejection{Field: "zoom", Reason: "must be in (0, 4], got 9"}
	if r.Error() == "" {
		t.Fatal("rejection should render as an error")
	}
}

func TestPatchIsZero(t *testing.T) {
	if !(Patch{}).IsZero() {
		t.Fatal("empty patch should be zero")
	}
	if (Patch{ReaderWide: Bool(false)}).IsZero() {
		t.Fatal("patch with a field should not be zero")
	}
	if (Patch{AutoFlip: &AutoFlipPatch{}}).IsZero() {
		t.Fatal("patch with an autoFlip object should not be zero")
	}
}
