package util

import (
	"regexp"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFileStem(t *testing.T) {
	Convey("FileStem", t, func() {
		So(FileStem("/media/sitcom/S01E01 - Pilot.mkv"), ShouldEqual, "S01E01 - Pilot")
		So(FileStem("plain"), ShouldEqual, "plain")
	})
}

func TestNormPath(t *testing.T) {
	Convey("NormPath", t, func() {
		Convey("Should unify slash style and case", func() {
			So(NormPath(`Z:\Media\Show\S01E01.mkv`), ShouldEqual, "z:/media/show/s01e01.mkv")
			So(NormPath("/media/Show/S01E01.mkv"), ShouldEqual, "/media/show/s01e01.mkv")
		})
	})
}

func TestReGroups(t *testing.T) {
	Convey("ReGroups", t, func() {
		pattern := regexp.MustCompile(`(?i)s(?P<season>\d+)e(?P<episode>\d+)`)

		Convey("Should extract named groups", func() {
			groups := ReGroups(pattern, "Show.S03E22.1080p.mkv")
			So(groups["season"], ShouldEqual, "03")
			So(groups["episode"], ShouldEqual, "22")
		})

		Convey("Should return an empty map on no match", func() {
			groups := ReGroups(pattern, "random.mkv")
			So(groups, ShouldBeEmpty)
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "file", "files"), ShouldEqual, "1 file")
		So(Quantify(3, "file", "files"), ShouldEqual, "3 files")
	})
}
