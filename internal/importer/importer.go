// Package importer brings catalog clips handed back by the panel into the
// editor's media pool, applying names, notes, and markers, and reporting
// per-item failures as one aggregate user message.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// DefaultMarkerColour is applied to every imported marker.
const DefaultMarkerColour = "Blue"

// acceptedClipTypes are the catalog item types that can live in a media pool.
var acceptedClipTypes = map[string]bool{
	"clip":  true,
	"still": true,
	"audio": true,
}

// Per-item failure classes. Each maps to one line of the aggregate message;
// the distinction is lost on the user beyond that line.
var (
	ErrInvalidItem     = errors.New("item JSON missing required fields")
	ErrMediaMissing    = errors.New("item media not found on local storage")
	ErrPoolRefused     = errors.New("media pool refused the import")
	ErrUnsupportedItem = errors.New("unsupported item type")
)

// Fixed aggregate messages, one per failure class, in reporting order.
var failureMessages = []struct {
	err     error
	message string
}{
	{ErrPoolRefused, "Some items could not be added to the media pool, no reason given by the host API."},
	{ErrInvalidItem, "Some items' JSON was invalid, leading to incomplete media import or metadata."},
	{ErrMediaMissing, "Some items could not be found in the filesystem."},
	{ErrUnsupportedItem, "Some items were not supported clip types. These features are not implemented."},
}

// Report summarises one import batch for the user.
type Report struct {
	Imported int    `json:"imported"`
	Failed   int    `json:"failed"`
	Message  string `json:"message"`
}

// Importer drives batch imports against a host media pool.
type Importer struct {
	pool         MediaPool
	markerColour string
	logger       *slog.Logger
}

// New creates an Importer for the given pool.
func New(pool MediaPool, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		pool:         pool,
		markerColour: DefaultMarkerColour,
		logger:       logger,
	}
}

// ImportJSON decodes a batch payload and imports its items one by one.
// A malformed payload aborts with an invalid-JSON message; a malformed or
// failing item only adds its failure class to the aggregate message.
func (i *Importer) ImportJSON(raw []byte) Report {
	var batch Batch
	if err := json.Unmarshal(raw, &batch); err != nil || batch.Items == nil {
		i.logger.Error("invalid import payload", "error", err)
		return Report{Message: "Invalid JSON Provided."}
	}

	var failures []error
	imported := 0

	for idx, item := range batch.Items {
		if err := i.importItem(item); err != nil {
			i.logger.Error("item import failed", "index", idx, "error", err)
			failures = append(failures, err)
			continue
		}
		imported++
	}

	return Report{
		Imported: imported,
		Failed:   len(failures),
		Message:  aggregateMessage(failures),
	}
}

// importItem imports a single clip and applies its metadata. If metadata
// application fails after the media has entered the pool, the item is
// removed again so a half-annotated clip never survives.
func (i *Importer) importItem(raw json.RawMessage) error {
	var clip Clip
	if err := json.Unmarshal(raw, &clip); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}

	if err := validate(&clip); err != nil {
		return err
	}

	path := *clip.Media.FilePath
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrMediaMissing, path)
	}

	items, err := i.pool.ImportMedia([]string{path})
	if err != nil || len(items) == 0 {
		return fmt.Errorf("%w: %s", ErrPoolRefused, path)
	}
	item := items[0]

	if err := i.applyMetadata(&clip, item); err != nil {
		if delErr := i.pool.DeleteItems([]PoolItem{item}); delErr != nil {
			i.logger.Error("rollback of half-imported item failed", "path", path, "error", delErr)
		}
		return err
	}

	return nil
}

// validate checks the fields importItem and applyMetadata rely on.
func validate(clip *Clip) error {
	if !acceptedClipTypes[clip.Type] {
		if clip.Type == "" {
			return fmt.Errorf("%w: missing type", ErrInvalidItem)
		}
		return fmt.Errorf("%w: %s", ErrUnsupportedItem, clip.Type)
	}
	if clip.Name == nil || clip.ID == nil {
		return fmt.Errorf("%w: missing name or ID", ErrInvalidItem)
	}
	if clip.Media == nil || clip.Media.FilePath == nil || *clip.Media.FilePath == "" {
		return fmt.Errorf("%w: missing media file path", ErrInvalidItem)
	}
	if clip.Markers == nil {
		return fmt.Errorf("%w: missing markers list", ErrInvalidItem)
	}
	for _, m := range clip.Markers {
		if m.Name == nil || m.Description == nil || m.In == nil || m.In.Frame == nil {
			return fmt.Errorf("%w: marker missing required fields", ErrInvalidItem)
		}
		if m.Out != nil && m.Out.Frame == nil {
			return fmt.Errorf("%w: marker out point malformed", ErrInvalidItem)
		}
	}
	return nil
}

func (i *Importer) applyMetadata(clip *Clip, item PoolItem) error {
	start, err := item.StartFrame()
	if err != nil {
		return fmt.Errorf("%w: reading start frame: %v", ErrPoolRefused, err)
	}

	for _, m := range clip.Markers {
		in := *m.In.Frame

		// No out point means a one-frame marker.
		duration := 1
		if m.Out != nil {
			duration = *m.Out.Frame - in
		}

		if err := item.AddMarker(in-start, i.markerColour, *m.Name, *m.Description, duration); err != nil {
			return fmt.Errorf("%w: adding marker: %v", ErrPoolRefused, err)
		}
	}

	if err := item.SetName(*clip.Name); err != nil {
		return fmt.Errorf("%w: setting name: %v", ErrPoolRefused, err)
	}
	if err := item.SetDescription(fmt.Sprintf("CatDV Asset ID: %d", *clip.ID)); err != nil {
		return fmt.Errorf("%w: setting description: %v", ErrPoolRefused, err)
	}
	if clip.Notes != nil {
		if err := item.SetComment(*clip.Notes); err != nil {
			return fmt.Errorf("%w: setting comment: %v", ErrPoolRefused, err)
		}
	}
	if err := item.SetKeywords([]string{}); err != nil {
		return fmt.Errorf("%w: setting keywords: %v", ErrPoolRefused, err)
	}

	return nil
}

// aggregateMessage folds per-item failures into the user-facing summary.
func aggregateMessage(failures []error) string {
	if len(failures) == 0 {
		return "Successfully added item(s) to media pool."
	}

	var lines []string
	for _, class := range failureMessages {
		for _, failure := range failures {
			if errors.Is(failure, class.err) {
				lines = append(lines, class.message)
				break
			}
		}
	}

	msg := "Some items may have been imported successfully, however:"
	for _, line := range lines {
		msg += "\n" + line
	}
	return msg
}
