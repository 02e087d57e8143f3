package station

import "fmt"

// MissingMediaError reports a catalogued file that no longer exists on disk.
// The scheduler invalidates the channel's catalog entry and skips the item;
// playback continues with the next selection.
type MissingMediaError struct {
	Channel string
	Path    string
}

func (e *MissingMediaError) Error() string {
	return fmt.Sprintf("channel %s: catalogued file vanished: %s", e.Channel, e.Path)
}
