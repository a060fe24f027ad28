// Package jar reads ZIP containers the way mod packages actually use them:
// central-directory scan plus per-entry stored or raw-deflate extraction.
//
// The parser is deliberately self-contained. It reads the trailing
// end-of-central-directory record, walks the central directory at documented
// little-endian offsets, and re-reads each local header on extraction
// (local name/extra lengths may differ from the central copy). Split
// archives, encryption, and every compression method other than stored and
// deflate are out of scope.
package jar

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/flate"
)

// Method identifies the compression method of an entry.
type Method uint16

const (
	// MethodStored marks an uncompressed entry.
	MethodStored Method = 0

	// MethodDeflate marks a raw-deflate compressed entry.
	MethodDeflate Method = 8
)

// Record signatures and sizes from the container format.
const (
	eocdSignature    = 0x06054b50
	centralSignature = 0x02014b50
	localSignature   = 0x04034b50

	eocdSize          = 22
	centralHeaderSize = 46
	localHeaderSize   = 30

	// maxCommentScan bounds the backward scan for the directory record.
	// The record may be preceded by a comment of at most 64KB.
	maxCommentScan = 64 << 10
)

// Sentinel errors.
var (
	// ErrMissingDirectory is returned when no end-of-central-directory
	// signature is found in the trailing scan window.
	ErrMissingDirectory = errors.New("jar: end of central directory not found")

	// ErrCorrupt is returned when an entry's offsets fall outside the
	// buffer or a header signature does not match.
	ErrCorrupt = errors.New("jar: corrupt entry")

	// ErrDecompression is returned when inflating a deflate entry fails.
	ErrDecompression = errors.New("jar: decompression failed")

	// ErrMethod is returned for compression methods other than stored
	// and deflate.
	ErrMethod = errors.New("jar: unsupported compression method")
)

// Entry describes one file in the container as recorded in the central
// directory. Entries are immutable and only valid against the buffer they
// were parsed from.
type Entry struct {
	Path             string
	Method           Method
	CompressedSize   uint32
	UncompressedSize uint32
	HeaderOffset     uint32
}

// Archive provides read access to a parsed container. The archive never
// mutates the underlying buffer.
type Archive struct {
	buf     []byte
	entries []Entry
}

// Open reads and parses the container file at path.
func Open(path string) (*Archive, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Parse scans buf's central directory and returns an Archive over it.
// The buffer is retained; callers must not modify it while the archive
// is in use.
func Parse(buf []byte) (*Archive, error) {
	eocd, err := locateDirectory(buf)
	if err != nil {
		return nil, err
	}

	dirOffset := binary.LittleEndian.Uint32(buf[eocd+16:])
	if int64(dirOffset) >= int64(len(buf)) {
		return nil, fmt.Errorf("%w: directory offset %d beyond buffer", ErrCorrupt, dirOffset)
	}

	entries, err := listEntries(buf, int(dirOffset))
	if err != nil {
		return nil, err
	}
	return &Archive{buf: buf, entries: entries}, nil
}

// locateDirectory scans backward from the end of buf for the
// end-of-central-directory signature, within the last 64KB plus the fixed
// record size. It returns the first match found from the tail, which handles
// the ubiquitous no-comment case; a comment that itself contains the
// signature bytes can mis-locate the record. That is an accepted limitation.
func locateDirectory(buf []byte) (int, error) {
	if len(buf) < eocdSize {
		return 0, ErrMissingDirectory
	}
	floor := len(buf) - eocdSize - maxCommentScan
	if floor < 0 {
		floor = 0
	}
	for i := len(buf) - eocdSize; i >= floor; i-- {
		if binary.LittleEndian.Uint32(buf[i:]) == eocdSignature {
			return i, nil
		}
	}
	return 0, ErrMissingDirectory
}

// listEntries walks central-directory records starting at offset, advancing
// by the fixed header size plus the variable name/extra/comment lengths,
// until a record's signature no longer matches.
func listEntries(buf []byte, offset int) ([]Entry, error) {
	var entries []Entry
	pos := offset
	for pos+centralHeaderSize <= len(buf) {
		if binary.LittleEndian.Uint32(buf[pos:]) != centralSignature {
			break
		}
		nameLen := int(binary.LittleEndian.Uint16(buf[pos+28:]))
		extraLen := int(binary.LittleEndian.Uint16(buf[pos+30:]))
		commentLen := int(binary.LittleEndian.Uint16(buf[pos+32:]))

		nameEnd := pos + centralHeaderSize + nameLen
		if nameEnd > len(buf) {
			return nil, fmt.Errorf("%w: truncated central record at %d", ErrCorrupt, pos)
		}

		entries = append(entries, Entry{
			Path:             string(buf[pos+centralHeaderSize : nameEnd]),
			Method:           Method(binary.LittleEndian.Uint16(buf[pos+10:])),
			CompressedSize:   binary.LittleEndian.Uint32(buf[pos+20:]),
			UncompressedSize: binary.LittleEndian.Uint32(buf[pos+24:]),
			HeaderOffset:     binary.LittleEndian.Uint32(buf[pos+42:]),
		})
		pos = nameEnd + extraLen + commentLen
	}
	return entries, nil
}

// Entries returns the archive's entries in central-directory order.
// The returned slice is shared; callers must not modify it.
func (a *Archive) Entries() []Entry {
	return a.entries
}

// Len returns the number of entries in the archive.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Extract returns the decompressed content of entry.
//
// The local header immediately preceding the data is re-read because its
// name and extra-field lengths are allowed to differ from the central
// directory copy. Stored entries are returned as a copy of the raw bytes;
// deflate entries are raw-inflated.
func (a *Archive) Extract(e Entry) ([]byte, error) {
	off := int(e.HeaderOffset)
	if off < 0 || off+localHeaderSize > len(a.buf) {
		return nil, fmt.Errorf("%w: %s: local header offset %d out of range", ErrCorrupt, e.Path, off)
	}
	if binary.LittleEndian.Uint32(a.buf[off:]) != localSignature {
		return nil, fmt.Errorf("%w: %s: bad local header signature", ErrCorrupt, e.Path)
	}
	nameLen := int(binary.LittleEndian.Uint16(a.buf[off+26:]))
	extraLen := int(binary.LittleEndian.Uint16(a.buf[off+28:]))

	dataOff := off + localHeaderSize + nameLen + extraLen
	dataEnd := dataOff + int(e.CompressedSize)
	if dataOff > len(a.buf) || dataEnd > len(a.buf) {
		return nil, fmt.Errorf("%w: %s: data extends beyond buffer", ErrCorrupt, e.Path)
	}
	raw := a.buf[dataOff:dataEnd]

	switch e.Method {
	case MethodStored:
		return bytes.Clone(raw), nil
	case MethodDeflate:
		fr := flate.NewReader(bytes.NewReader(raw))
		defer fr.Close()
		content, err := io.ReadAll(fr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrDecompression, e.Path, err)
		}
		return content, nil
	default:
		return nil, fmt.Errorf("%w: %s: method %d", ErrMethod, e.Path, e.Method)
	}
}
