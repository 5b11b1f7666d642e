package region

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
)

const DefaultZoneinfoDir = "/usr/share/zoneinfo"

// StaticSource is a fixed identifier list.
type StaticSource []string

func (s StaticSource) Identifiers() ([]string, error) {
	return append([]string(nil), s...), nil
}

// Builtin is used when the host has no zoneinfo tree.
var Builtin = StaticSource{
	"Africa/Cairo", "Africa/Johannesburg", "Africa/Lagos", "Africa/Nairobi",
	"America/Anchorage", "America/Argentina/Buenos_Aires", "America/Bogota",
	"America/Chicago", "America/Denver", "America/Halifax", "America/Los_Angeles",
	"America/Mexico_City", "America/New_York", "America/Phoenix", "America/Sao_Paulo",
	"America/Toronto", "America/Vancouver",
	"Asia/Bangkok", "Asia/Dubai", "Asia/Hong_Kong", "Asia/Jakarta", "Asia/Kolkata",
	"Asia/Manila", "Asia/Seoul", "Asia/Shanghai", "Asia/Singapore", "Asia/Taipei",
	"Asia/Tokyo",
	"Atlantic/Reykjavik",
	"Australia/Adelaide", "Australia/Brisbane", "Australia/Melbourne", "Australia/Perth",
	"Australia/Sydney",
	"Europe/Amsterdam", "Europe/Athens", "Europe/Berlin", "Europe/Dublin",
	"Europe/Istanbul", "Europe/Lisbon", "Europe/London", "Europe/Madrid",
	"Europe/Moscow", "Europe/Paris", "Europe/Rome", "Europe/Stockholm",
	"Europe/Warsaw", "Europe/Zurich",
	"Pacific/Auckland", "Pacific/Honolulu",
}

// tzifMagic starts every compiled zone file.
var tzifMagic = []byte("TZif")

// ZoneinfoSource walks a compiled zoneinfo tree and returns the path of every
// zone file, such as "Europe/London".
type ZoneinfoSource struct {
	FS fs.FS
}

func NewZoneinfoSource(dir string) ZoneinfoSource {
	return ZoneinfoSource{FS: os.DirFS(dir)}
}

// Duplicate trees shipped next to the real zones.
var skipDirs = map[string]bool{"posix": true, "right": true}

func (z ZoneinfoSource) Identifiers() ([]string, error) {
	var ids []string
	err := fs.WalkDir(z.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && skipDirs[p] {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		base := path.Base(p)
		// zone.tab, tzdata.zi, leapseconds and friends
		if strings.Contains(base, ".") || base[0] < 'A' || base[0] > 'Z' {
			return nil
		}
		if !isTZif(z.FS, p) {
			return nil
		}
		ids = append(ids, p)
		return nil
	})
	return ids, err
}

func isTZif(fsys fs.FS, p string) bool {
	f, err := fsys.Open(p)
	if err != nil {
		return false
	}
	defer f.Close()
	head := make([]byte, len(tzifMagic))
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return bytes.Equal(head, tzifMagic)
}
