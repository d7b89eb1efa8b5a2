package meshdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"voxelmesh/internal/graphics/vertexlayout"
	"voxelmesh/internal/meshing"
)

// Magic starts every chunk frame.
const Magic = "VXMB"

const Version uint32 = 1

// FrameHeader precedes the compressed buffers of one chunk. All fields are
// little-endian.
type FrameHeader struct {
	Magic               [4]byte
	Version             uint32
	X, Y, Z, Dimension  int32
	SolidVertices       uint32
	SolidIndices        uint32
	TranslucentVertices uint32
	TranslucentIndices  uint32
	CompressedSize      uint32
	UncompressedSize    uint32
}

// WriteFrame writes one chunk as a header followed by the zstd-compressed
// solid then translucent buffers, each laid out as vertex records followed
// by indices.
func WriteFrame(w io.Writer, res *meshing.Result) error {
	raw := vertexlayout.AppendMesh(nil, &res.Solid)
	raw = vertexlayout.AppendMesh(raw, &res.Translucent)

	var compressed bytes.Buffer
	enc, err := zstd.NewWriter(&compressed)
	if err != nil {
		return err
	}
	if _, err = enc.Write(raw); err != nil {
		enc.Close()
		return fmt.Errorf("compress chunk %v: %w", res.Position, err)
	}
	if err = enc.Close(); err != nil {
		return fmt.Errorf("compress chunk %v: %w", res.Position, err)
	}

	h := FrameHeader{
		Version:             Version,
		X:                   res.Position.X,
		Y:                   res.Position.Y,
		Z:                   res.Position.Z,
		Dimension:           res.Position.Dimension,
		SolidVertices:       uint32(len(res.Solid.Vertices)),
		SolidIndices:        uint32(len(res.Solid.Indices)),
		TranslucentVertices: uint32(len(res.Translucent.Vertices)),
		TranslucentIndices:  uint32(len(res.Translucent.Indices)),
		CompressedSize:      uint32(compressed.Len()),
		UncompressedSize:    uint32(len(raw)),
	}
	copy(h.Magic[:], Magic)
	if err = binary.Write(w, binary.LittleEndian, &h); err != nil {
		return err
	}
	_, err = compressed.WriteTo(w)
	return err
}

// ReadFrame reads one frame written by WriteFrame and returns its header and
// decompressed buffers. io.EOF is returned at a clean end of stream.
func ReadFrame(r io.Reader) (FrameHeader, []byte, error) {
	var h FrameHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, nil, err
	}
	if string(h.Magic[:]) != Magic {
		return h, nil, fmt.Errorf("bad frame magic %q", h.Magic[:])
	}
	if h.Version != Version {
		return h, nil, fmt.Errorf("unsupported frame version %d", h.Version)
	}

	body := make([]byte, h.CompressedSize)
	if _, err := io.ReadFull(r, body); err != nil {
		return h, nil, fmt.Errorf("read frame body: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return h, nil, err
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(body, make([]byte, 0, h.UncompressedSize))
	if err != nil {
		return h, nil, fmt.Errorf("decompress frame: %w", err)
	}
	if uint32(len(raw)) != h.UncompressedSize {
		return h, nil, fmt.Errorf("frame size %d, header says %d", len(raw), h.UncompressedSize)
	}
	return h, raw, nil
}
