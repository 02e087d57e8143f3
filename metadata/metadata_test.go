package metadata

import (
	"fmt"
	"testing"

	"github.com/CinkadeusBG/LCARSTV/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSidecarPath(t *testing.T) {
	Convey("SidecarPath", t, func() {
		So(SidecarPath("/media/show/S01E01.mkv"), ShouldEqual, "/media/show/S01E01.json")
		So(SidecarPath("/media/show/episode"), ShouldEqual, "/media/show/episode.json")
		So(SidecarPath("/media/show.v2/episode.mp4"), ShouldEqual, "/media/show.v2/episode.json")
	})
}

func TestLoad(t *testing.T) {
	Convey("Load", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		media := "/media/show/S01E01.mkv"

		Convey("A missing sidecar should mean zero breaks, not an error", func() {
			breaks, err := Load(media)
			So(err, ShouldBeNil)
			So(breaks, ShouldBeEmpty)
		})

		Convey("A valid sidecar should yield its normalized windows", func() {
			write(media, `{"version":1,"breaks":[{"start":300,"end":330},{"start":10,"end":20}]}`)

			breaks, err := Load(media)
			So(err, ShouldBeNil)
			So(breaks, ShouldResemble, []Break{{Start: 10, End: 20}, {Start: 300, End: 330}})
		})

		Convey("Malformed JSON should surface a ParseError", func() {
			write(media, `{"version":1,"breaks":[`)

			_, err := Load(media)
			So(err, ShouldHaveSameTypeAs, &ParseError{})
		})

		Convey("An unsupported version should surface a ParseError", func() {
			write(media, `{"version":2,"breaks":[]}`)

			_, err := Load(media)
			So(err, ShouldHaveSameTypeAs, &ParseError{})
		})

		Convey("A window with end <= start should surface a ParseError", func() {
			write(media, `{"version":1,"breaks":[{"start":30,"end":30}]}`)

			_, err := Load(media)
			So(err, ShouldHaveSameTypeAs, &ParseError{})
		})
	})
}

func TestNormalize(t *testing.T) {
	Convey("Normalize", t, func() {
		Convey("Should sort windows ascending by start", func() {
			got := Normalize([]Break{{Start: 100, End: 110}, {Start: 5, End: 10}})
			So(got, ShouldResemble, []Break{{Start: 5, End: 10}, {Start: 100, End: 110}})
		})

		Convey("Should merge overlapping windows", func() {
			got := Normalize([]Break{{Start: 10, End: 25}, {Start: 20, End: 40}, {Start: 50, End: 60}})
			So(got, ShouldResemble, []Break{{Start: 10, End: 40}, {Start: 50, End: 60}})
		})

		Convey("Should keep a contained window folded into its parent", func() {
			got := Normalize([]Break{{Start: 10, End: 100}, {Start: 20, End: 30}})
			So(got, ShouldResemble, []Break{{Start: 10, End: 100}})
		})
	})
}

func TestNearWindow(t *testing.T) {
	Convey("NearWindow", t, func() {
		breaks := []Break{{Start: 10, End: 20}}

		Convey("A position within lookahead of the start should be near", func() {
			_, near := NearWindow(breaks, 0, 30, nil)
			So(near, ShouldBeTrue)
		})

		Convey("A position inside the window should be near", func() {
			b, near := NearWindow(breaks, 12, 30, nil)
			So(near, ShouldBeTrue)
			So(b, ShouldResemble, Break{Start: 10, End: 20})
		})

		Convey("A position past the window should not be near", func() {
			_, near := NearWindow(breaks, 45, 30, nil)
			So(near, ShouldBeFalse)
		})

		Convey("Handled windows should be skipped", func() {
			_, near := NearWindow(breaks, 0, 30, []float64{10})
			So(near, ShouldBeFalse)
		})

		Convey("The first unhandled window should win", func() {
			many := []Break{{Start: 10, End: 20}, {Start: 100, End: 120}}
			b, near := NearWindow(many, 90, 30, []float64{10})
			So(near, ShouldBeTrue)
			So(b.Start, ShouldEqual, 100)
		})
	})
}

func TestCache(t *testing.T) {
	Convey("Cache", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		cache := NewCache()

		Convey("Should read each sidecar once and serve repeats from memory", func() {
			media := "/media/show/S01E01.mkv"
			write(media, `{"version":1,"breaks":[{"start":10,"end":20}]}`)

			first := cache.Breaks(media)
			So(first, ShouldResemble, []Break{{Start: 10, End: 20}})

			// A sidecar change after the first read is invisible to the cache.
			write(media, `{"version":1,"breaks":[{"start":99,"end":100}]}`)
			So(cache.Breaks(media), ShouldResemble, first)
		})

		Convey("Should treat path separator and case variants as one item", func() {
			media := "/media/show/S01E01.mkv"
			write(media, `{"version":1,"breaks":[{"start":10,"end":20}]}`)

			So(cache.Breaks(media), ShouldHaveLength, 1)
			So(cache.Breaks("/MEDIA/Show/s01e01.MKV"), ShouldHaveLength, 1)
			So(cache.Len(), ShouldEqual, 1)
		})

		Convey("Should cache a malformed sidecar as zero breaks", func() {
			media := "/media/show/broken.mkv"
			write(media, `not json`)

			So(cache.Breaks(media), ShouldBeEmpty)
			So(cache.Breaks(media), ShouldBeEmpty)
			So(cache.Len(), ShouldEqual, 1)
		})

		Convey("Should stay bounded by evicting the oldest half in bulk", func() {
			for i := 0; i < maxCacheEntries+1; i++ {
				cache.Breaks(fmt.Sprintf("/media/pool/item-%03d.mkv", i))
			}

			So(cache.Len(), ShouldBeLessThanOrEqualTo, maxCacheEntries)
			// The oldest half is gone, the newest entries survive.
			So(cache.Len(), ShouldEqual, maxCacheEntries/2+1)
		})
	})
}

func write(media, sidecar string) {
	err := filesystem.API().WriteFile(SidecarPath(media), []byte(sidecar), 0644)
	So(err, ShouldBeNil)
}
