// Package reanim reads Reanim animation files and derives clip timing from
// their animation definition tracks.
//
// A Reanim file is a flat list of tracks sharing one frame timeline. Tracks
// whose names start with "anim_" define named clips: the frames where the
// track is visible (f=0) form the clip's window. The remaining tracks are
// sprite parts.
package reanim

// DefaultFPS is used when a file does not declare its frame rate.
const DefaultFPS = 12

// AnimTrackPrefix marks animation definition tracks.
const AnimTrackPrefix = "anim_"

// ReanimXML is the root structure of a Reanim file.
type ReanimXML struct {
	// FPS is the frame rate of the timeline
	FPS int `xml:"fps"`

	// Tracks holds animation definition tracks and part tracks in file order
	Tracks []Track `xml:"track"`
}

// Track is a named sequence of frames.
type Track struct {
	Name   string  `xml:"name"`
	Frames []Frame `xml:"t"`
}

// Frame is one keyframe. Nil fields inherit the value of the previous frame.
type Frame struct {
	// FrameNum controls visibility: -1 hides, 0 shows, nil inherits
	FrameNum *int `xml:"f,omitempty"`

	X *float64 `xml:"x,omitempty"`
	Y *float64 `xml:"y,omitempty"`

	// ImagePath is the sprite reference, e.g. "IMAGE_REANIM_PANEL_BODY"
	ImagePath string `xml:"i,omitempty"`
}

// FrameRate returns FPS, falling back to DefaultFPS.
func (r *ReanimXML) FrameRate() float64 {
	if r == nil || r.FPS <= 0 {
		return DefaultFPS
	}
	return float64(r.FPS)
}

// Track returns the first track named name.
func (r *ReanimXML) Track(name string) (*Track, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.Tracks {
		if r.Tracks[i].Name == name {
			return &r.Tracks[i], true
		}
	}
	return nil, false
}

// AnimNames returns the names of every animation definition track.
func (r *ReanimXML) AnimNames() []string {
	if r == nil {
		return nil
	}
	var names []string
	for _, t := range r.Tracks {
		if len(t.Name) > len(AnimTrackPrefix) && t.Name[:len(AnimTrackPrefix)] == AnimTrackPrefix {
			names = append(names, t.Name)
		}
	}
	return names
}

// TimelineLength returns the frame count of the longest track.
func (r *ReanimXML) TimelineLength() int {
	n := 0
	if r == nil {
		return n
	}
	for _, t := range r.Tracks {
		if len(t.Frames) > n {
			n = len(t.Frames)
		}
	}
	return n
}
