package importer

import "encoding/json"

// Batch is the payload the panel hands back over the bridge: a list of
// catalog items to bring into the editor's media pool. Items stay raw so a
// single malformed item fails alone instead of sinking the whole batch.
type Batch struct {
	Items []json.RawMessage `json:"items"`
}

// Clip is one catalog item. Pointer fields distinguish a missing key from
// a zero value; required fields are checked in validate. The markers key is
// required even when the list is empty; a nil slice marks it as absent.
type Clip struct {
	Type    string   `json:"type"`
	Name    *string  `json:"name"`
	ID      *int64   `json:"ID"`
	Notes   *string  `json:"notes"`
	Media   *Media   `json:"media"`
	Markers []Marker `json:"markers"`
}

// Media locates the clip's essence on local storage.
type Media struct {
	FilePath *string `json:"filePath"`
}

// Marker is a timeline annotation on a clip. Out is optional; a marker
// without an out point gets a one-frame duration.
type Marker struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	In          *FramePoint `json:"in"`
	Out         *FramePoint `json:"out"`
}

// FramePoint is a position expressed in frames.
type FramePoint struct {
	Frame *int `json:"frm"`
}

// PoolItem is one item that has been imported into the host's media pool.
type PoolItem interface {
	SetName(name string) error
	SetDescription(description string) error
	SetComment(comment string) error
	SetKeywords(keywords []string) error

	// AddMarker places a marker at frame (relative to the item start)
	// with the given duration in frames.
	AddMarker(frame int, colour, name, comment string, duration int) error

	// StartFrame is the item's first frame; marker positions are offset
	// against it.
	StartFrame() (int, error)
}

// MediaPool is the host's media pool API.
type MediaPool interface {
	// ImportMedia imports the files at the given paths and returns one
	// pool item per imported file.
	ImportMedia(paths []string) ([]PoolItem, error)

	// DeleteItems removes previously imported items, used to roll back a
	// clip whose metadata could not be applied.
	DeleteItems(items []PoolItem) error
}
