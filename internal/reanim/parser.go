package reanim

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"os"
)

// ParseReanimFile parses a Reanim file from the OS filesystem.
//
// Example:
//
//	r, err := ParseReanimFile("assets/reanim/Panel.reanim")
//	if err != nil {
//	    return err
//	}
//	length, err := r.ClipLength("anim_open")
func ParseReanimFile(path string) (*ReanimXML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reanim file '%s': %w", path, err)
	}
	return ParseReanim(data, path)
}

// ParseReanimFS parses a Reanim file from fsys.
func ParseReanimFS(fsys fs.FS, path string) (*ReanimXML, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read reanim file '%s': %w", path, err)
	}
	return ParseReanim(data, path)
}

// ParseReanim parses Reanim content. Reanim files have no root element, so
// the content is wrapped in <reanim> before decoding. source is only used in
// error messages.
func ParseReanim(data []byte, source string) (*ReanimXML, error) {
	wrapped := make([]byte, 0, len(data)+len("<reanim></reanim>"))
	wrapped = append(wrapped, "<reanim>"...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, "</reanim>"...)

	var r ReanimXML
	if err := xml.Unmarshal(wrapped, &r); err != nil {
		return nil, fmt.Errorf("failed to parse XML from '%s': %w", source, err)
	}
	return &r, nil
}
