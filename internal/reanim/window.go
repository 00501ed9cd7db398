package reanim

import (
	"fmt"
	"math"
)

// Visibles expands the FrameNum values of animName over the whole timeline,
// applying inheritance. 0 means visible, -1 hidden.
func (r *ReanimXML) Visibles(animName string) ([]int, error) {
	track, ok := r.Track(animName)
	if !ok {
		return nil, fmt.Errorf("reanim has no animation track '%s'", animName)
	}

	total := r.TimelineLength()
	visibles := make([]int, total)
	current := 0
	for i := 0; i < total; i++ {
		if i < len(track.Frames) && track.Frames[i].FrameNum != nil {
			current = *track.Frames[i].FrameNum
		}
		visibles[i] = current
	}
	return visibles, nil
}

// AnimWindow returns the first visible physical frame of animName and the
// number of visible frames.
func (r *ReanimXML) AnimWindow(animName string) (start, count int, err error) {
	visibles, err := r.Visibles(animName)
	if err != nil {
		return 0, 0, err
	}
	start = -1
	for i, v := range visibles {
		if v >= 0 {
			if start < 0 {
				start = i
			}
			count++
		}
	}
	if count == 0 {
		return 0, 0, fmt.Errorf("animation track '%s' has no visible frames", animName)
	}
	return start, count, nil
}

// ClipLength returns the playback length of animName in seconds.
func (r *ReanimXML) ClipLength(animName string) (float64, error) {
	_, count, err := r.AnimWindow(animName)
	if err != nil {
		return 0, err
	}
	return float64(count) / r.FrameRate(), nil
}

// FrameAt maps a clip time to the physical timeline frame of animName.
// Times past either end clamp to the first or last visible frame.
func (r *ReanimXML) FrameAt(animName string, t float64) (int, error) {
	visibles, err := r.Visibles(animName)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, v := range visibles {
		if v >= 0 {
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("animation track '%s' has no visible frames", animName)
	}

	logical := int(math.Floor(t * r.FrameRate()))
	if logical < 0 {
		logical = 0
	}
	if logical >= count {
		logical = count - 1
	}
	return MapLogicalToPhysical(logical, visibles), nil
}

// MapLogicalToPhysical maps the n-th visible frame to its timeline index.
// Out-of-range values map to the last visible frame.
func MapLogicalToPhysical(logicalFrameNum int, visibles []int) int {
	if len(visibles) == 0 {
		return logicalFrameNum
	}

	logicalIndex := 0
	lastVisible := -1
	for i, v := range visibles {
		if v >= 0 {
			lastVisible = i
			if logicalIndex == logicalFrameNum {
				return i
			}
			logicalIndex++
		}
	}
	if lastVisible >= 0 {
		return lastVisible
	}
	return 0
}
