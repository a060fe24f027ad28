// Package testutil builds synthetic containers and textures for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/flate"
)

// FileSpec describes one entry of a synthetic container.
type FileSpec struct {
	Path   string
	Data   []byte
	Stored bool // default is deflate
}

// BuildArchive writes a minimal container byte-for-byte: local headers,
// central directory, end-of-central-directory record. Building it by hand
// (rather than with archive/zip) keeps fixtures independent from the code
// under test and pins exact layouts for edge cases.
func BuildArchive(t testing.TB, files []FileSpec) []byte {
	t.Helper()

	var out bytes.Buffer
	type central struct {
		spec   FileSpec
		crc    uint32
		csize  uint32
		offset uint32
	}
	records := make([]central, 0, len(files))

	for _, f := range files {
		data := f.Data
		method := uint16(8)
		if f.Stored {
			method = 0
		} else {
			var cb bytes.Buffer
			fw, err := flate.NewWriter(&cb, flate.BestSpeed)
			if err != nil {
				t.Fatalf("flate writer: %v", err)
			}
			if _, err := fw.Write(f.Data); err != nil {
				t.Fatalf("compress %s: %v", f.Path, err)
			}
			if err := fw.Close(); err != nil {
				t.Fatalf("compress %s: %v", f.Path, err)
			}
			data = cb.Bytes()
		}

		rec := central{
			spec:   f,
			crc:    crc32.ChecksumIEEE(f.Data),
			csize:  uint32(len(data)),
			offset: uint32(out.Len()),
		}
		records = append(records, rec)

		writeLE(&out, uint32(0x04034b50))
		writeLE(&out, uint16(20)) // version needed
		writeLE(&out, uint16(0))  // flags
		writeLE(&out, method)
		writeLE(&out, uint32(0)) // mod time/date
		writeLE(&out, rec.crc)
		writeLE(&out, rec.csize)
		writeLE(&out, uint32(len(f.Data)))
		writeLE(&out, uint16(len(f.Path)))
		writeLE(&out, uint16(0)) // extra len
		out.WriteString(f.Path)
		out.Write(data)
	}

	dirOffset := uint32(out.Len())
	for _, rec := range records {
		method := uint16(8)
		if rec.spec.Stored {
			method = 0
		}
		writeLE(&out, uint32(0x02014b50))
		writeLE(&out, uint16(20)) // version made by
		writeLE(&out, uint16(20)) // version needed
		writeLE(&out, uint16(0))  // flags
		writeLE(&out, method)
		writeLE(&out, uint32(0)) // mod time/date
		writeLE(&out, rec.crc)
		writeLE(&out, rec.csize)
		writeLE(&out, uint32(len(rec.spec.Data)))
		writeLE(&out, uint16(len(rec.spec.Path)))
		writeLE(&out, uint16(0)) // extra len
		writeLE(&out, uint16(0)) // comment len
		writeLE(&out, uint16(0)) // disk number
		writeLE(&out, uint16(0)) // internal attrs
		writeLE(&out, uint32(0)) // external attrs
		writeLE(&out, rec.offset)
		out.WriteString(rec.spec.Path)
	}
	dirSize := uint32(out.Len()) - dirOffset

	writeLE(&out, uint32(0x06054b50))
	writeLE(&out, uint16(0)) // disk number
	writeLE(&out, uint16(0)) // directory disk
	writeLE(&out, uint16(len(records)))
	writeLE(&out, uint16(len(records)))
	writeLE(&out, dirSize)
	writeLE(&out, dirOffset)
	writeLE(&out, uint16(0)) // comment len

	return out.Bytes()
}

func writeLE(buf *bytes.Buffer, v any) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}

// SolidPNG encodes a w×h image filled with c.
func SolidPNG(t testing.TB, w, h int, c color.NRGBA) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// WriteSolidPNG writes a solid-color PNG to path, creating parent
// directories as needed.
func WriteSolidPNG(t testing.TB, path string, w, h int, c color.NRGBA) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, SolidPNG(t, w, h, c), 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}
}
