package model

import (
	"encoding/json"
	"fmt"
	"path"
	"time"
)

// EntryKind tags a ContentEntry.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDirectory
)

func (k EntryKind) String() string {
	if k == KindDirectory {
		return "dir"
	}
	return "file"
}

// ContentEntry is one line of a repository's file listing.
//
// Older repositories list their content as plain name strings; newer ones
// use {name, path, type, lastModified} records. The variant is decided here,
// once, so templates and handlers switch on Kind instead of probing shapes.
type ContentEntry struct {
	Kind         EntryKind
	Name         string
	Path         string
	LastModified *time.Time
}

type contentRecord struct {
	Name         string     `json:"name"`
	Path         string     `json:"path"`
	Type         string     `json:"type,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

func (e *ContentEntry) UnmarshalJSON(data []byte) error {
	if name, ok := bareID(data); ok {
		*e = ContentEntry{Kind: KindFile, Name: name, Path: name}
		return nil
	}
	var rec contentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("model: decoding content entry: %w", err)
	}
	entry := ContentEntry{
		Kind:         KindFile,
		Name:         rec.Name,
		Path:         rec.Path,
		LastModified: rec.LastModified,
	}
	if rec.Type == KindDirectory.String() {
		entry.Kind = KindDirectory
	}
	if entry.Name == "" && entry.Path != "" {
		entry.Name = path.Base(entry.Path)
	}
	if entry.Path == "" {
		entry.Path = entry.Name
	}
	*e = entry
	return nil
}

func (e ContentEntry) IsDir() bool {
	return e.Kind == KindDirectory
}
