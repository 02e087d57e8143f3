package catalog

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/CinkadeusBG/LCARSTV/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

var extensions = []string{".mp4", ".mkv"}

func TestGetOrScan(t *testing.T) {
	Convey("GetOrScan", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		store := &Store{Dir: "/cache/catalogs"}
		So(filesystem.API().MkdirAll(store.Dir, 0755), ShouldBeNil)

		root := "/media/show"
		for i := 0; i < 10; i++ {
			touch(fmt.Sprintf("%s/S01E%02d.mkv", root, i+1))
		}
		touch(root + "/cover.jpg")

		Convey("A first scan should persist file_count=10 and the sorted list", func() {
			files, err := store.GetOrScan("show", []string{root}, extensions)
			So(err, ShouldBeNil)
			So(files, ShouldHaveLength, 10)
			So(files[0], ShouldEqual, "/media/show/S01E01.mkv")

			raw, err := filesystem.API().ReadFile("/cache/catalogs/show.json")
			So(err, ShouldBeNil)

			var entry Entry
			So(json.Unmarshal(raw, &entry), ShouldBeNil)
			So(entry.Version, ShouldEqual, 1)
			So(entry.FileCount, ShouldEqual, 10)
			So(entry.Files, ShouldResemble, files)
		})

		Convey("An unchanged count should serve the persisted list without rescanning", func() {
			_, err := store.GetOrScan("show", []string{root}, extensions)
			So(err, ShouldBeNil)

			// Doctor the persisted list; only a count change invalidates it.
			raw := []byte(`{"version":1,"file_count":10,"scanned_at":"2026-01-01T00:00:00Z","files":["/sentinel.mkv"]}`)
			So(filesystem.API().WriteFile("/cache/catalogs/show.json", raw, 0644), ShouldBeNil)

			files, err := store.GetOrScan("show", []string{root}, extensions)
			So(err, ShouldBeNil)
			So(files, ShouldResemble, []string{"/sentinel.mkv"})
		})

		Convey("Adding a file should change the count and trigger a full rescan", func() {
			_, err := store.GetOrScan("show", []string{root}, extensions)
			So(err, ShouldBeNil)

			touch(root + "/S01E11.mkv")

			files, err := store.GetOrScan("show", []string{root}, extensions)
			So(err, ShouldBeNil)
			So(files, ShouldHaveLength, 11)
			So(files, ShouldContain, "/media/show/S01E11.mkv")
		})

		Convey("A deleted cache file should mean a fresh scan, not an error", func() {
			_, err := store.GetOrScan("show", []string{root}, extensions)
			So(err, ShouldBeNil)

			So(filesystem.API().Remove("/cache/catalogs/show.json"), ShouldBeNil)

			files, err := store.GetOrScan("show", []string{root}, extensions)
			So(err, ShouldBeNil)
			So(files, ShouldHaveLength, 10)
		})

		Convey("A corrupt cache file should degrade to a direct scan", func() {
			So(filesystem.API().WriteFile("/cache/catalogs/show.json", []byte("garbage"), 0644), ShouldBeNil)

			files, err := store.GetOrScan("show", []string{root}, extensions)
			So(err, ShouldBeNil)
			So(files, ShouldHaveLength, 10)
		})

		Convey("A missing scan root should yield an empty catalog", func() {
			files, err := store.GetOrScan("ghost", []string{"/media/nowhere"}, extensions)
			So(err, ShouldBeNil)
			So(files, ShouldBeEmpty)
		})
	})
}

func TestInvalidate(t *testing.T) {
	Convey("Invalidate", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		store := &Store{Dir: "/cache/catalogs"}
		So(filesystem.API().MkdirAll(store.Dir, 0755), ShouldBeNil)

		root := "/media/show"
		touch(root + "/S01E01.mkv")

		_, err := store.GetOrScan("show", []string{root}, extensions)
		So(err, ShouldBeNil)

		Convey("Should drop the persisted entry", func() {
			store.Invalidate("show")

			exists, err := filesystem.API().Exists("/cache/catalogs/show.json")
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})

		Convey("Should be a no-op for an unknown key", func() {
			So(func() { store.Invalidate("unknown") }, ShouldNotPanic)
		})
	})
}

func touch(path string) {
	So(filesystem.API().WriteFile(path, []byte("x"), 0644), ShouldBeNil)
}
