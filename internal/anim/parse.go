package anim

import (
	"encoding/binary"
	"fmt"
)

const drawRecordSize = 15

// File is a parsed S4 animation file: independently addressable streams
// sharing one draw-record table (spec §4.6 "a table of 16-bit offsets...
// and an array of 15-byte draw-call records").
type File struct {
	Streams []*Stream
	Draws   []DrawRecord
}

// Parse decodes raw S4 bytes: a 16-bit little-endian stream count, a
// table of 16-bit little-endian offsets, and the per-stream bytecode.
// Each stream's code runs from its offset to the next higher offset, or
// to the end of raw for the last one. Draw records are not decoded here:
// the returned File has no Draws until ParseDraws is called.
func Parse(raw []byte) (*File, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("anim: file too short for stream count")
	}
	count := int(binary.LittleEndian.Uint16(raw[0:2]))
	offTableEnd := 2 + count*2
	if offTableEnd > len(raw) {
		return nil, fmt.Errorf("anim: offset table overruns file (count=%d)", count)
	}
	offsets := make([]uint16, count)
	for i := 0; i < count; i++ {
		offsets[i] = binary.LittleEndian.Uint16(raw[2+i*2 : 4+i*2])
	}

	streams := make([]*Stream, count)
	for i, off := range offsets {
		start := int(off)
		if start > len(raw) {
			return nil, fmt.Errorf("anim: stream %d offset %d out of range", i, off)
		}
		end := len(raw)
		for _, other := range offsets {
			if int(other) > start && int(other) < end {
				end = int(other)
			}
		}
		streams[i] = NewStream(raw[start:end], nil)
	}

	return &File{Streams: streams}, nil
}

// ParseDraws decodes a trailing run of 15-byte draw records and attaches
// them to every stream in f, mirroring the shared table the format
// describes.
func (f *File) ParseDraws(raw []byte) error {
	if len(raw)%drawRecordSize != 0 {
		return fmt.Errorf("anim: draw table length %d not a multiple of %d", len(raw), drawRecordSize)
	}
	n := len(raw) / drawRecordSize
	draws := make([]DrawRecord, n)
	for i := 0; i < n; i++ {
		rec := raw[i*drawRecordSize : (i+1)*drawRecordSize]
		draws[i] = DrawRecord{
			Kind:       DrawKind(rec[0]),
			SrcSurface: rec[1],
			DstSurface: rec[2],
			X:          int16(binary.LittleEndian.Uint16(rec[3:5])),
			Y:          int16(binary.LittleEndian.Uint16(rec[5:7])),
			W:          int16(binary.LittleEndian.Uint16(rec[7:9])),
			H:          int16(binary.LittleEndian.Uint16(rec[9:11])),
			Color:      binary.LittleEndian.Uint32(rec[11:15]),
		}
	}
	f.Draws = draws
	for _, s := range f.Streams {
		s.Draws = draws
	}
	return nil
}
