package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/x448/float16"

	"github.com/Faultbox/terrain-painter/pkg/grid"
)

// Map dump errors.
var (
	ErrInvalidMapHeader = errors.New("invalid map dump header")
	ErrMapKindMismatch  = errors.New("map dump kind mismatch")
	ErrTruncatedMapData = errors.New("truncated map dump data")
)

// MapKind identifies the element type stored in a map dump.
type MapKind string

// Map dump kinds.
const (
	KindHeight         MapKind = "height"    // float32 per element
	KindMaterialIndex  MapKind = "matindex"  // byte per element
	KindMaterialWeight MapKind = "matweight" // half float per element
)

// ElementSize returns the raw byte width of one element.
func (k MapKind) ElementSize() int {
	switch k {
	case KindHeight:
		return 4
	case KindMaterialIndex:
		return 1
	case KindMaterialWeight:
		return 2
	default:
		return 0
	}
}

// Extension returns the file extension used for the kind.
func (k MapKind) Extension() string {
	return "." + string(k)
}

// A map dump is a header line "<kind> <lengthX> <lengthY>" followed by the
// row-major element bytes, little-endian, hex encoded on one line.

func writeDump(w io.Writer, kind MapKind, lengthX, lengthY int, raw []byte) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s %d %d\n", kind, lengthX, lengthY); err != nil {
		return err
	}
	enc := hex.NewEncoder(bw)
	if _, err := enc.Write(raw); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}

func readDump(data []byte, kind MapKind) (lengthX, lengthY int, raw []byte, err error) {
	header, body, found := bytes.Cut(data, []byte("\n"))
	if !found {
		return 0, 0, nil, fmt.Errorf("%w: missing header line", ErrInvalidMapHeader)
	}

	fields := strings.Fields(string(header))
	if len(fields) != 3 {
		return 0, 0, nil, fmt.Errorf("%w: %q", ErrInvalidMapHeader, header)
	}
	if MapKind(fields[0]) != kind {
		return 0, 0, nil, fmt.Errorf("%w: got %s, want %s", ErrMapKindMismatch, fields[0], kind)
	}
	lengthX, errX := strconv.Atoi(fields[1])
	lengthY, errY := strconv.Atoi(fields[2])
	if errX != nil || errY != nil || lengthX < 0 || lengthY < 0 {
		return 0, 0, nil, fmt.Errorf("%w: bad dimensions %q", ErrInvalidMapHeader, header)
	}

	raw, err = hex.DecodeString(string(bytes.TrimSpace(body)))
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decoding %s dump: %w", kind, err)
	}
	want := lengthX * lengthY * kind.ElementSize()
	if len(raw) < want {
		return 0, 0, nil, fmt.Errorf("%w: %d of %d bytes", ErrTruncatedMapData, len(raw), want)
	}
	return lengthX, lengthY, raw[:want], nil
}

// EncodeHeightmap writes a float32 heightmap dump.
func EncodeHeightmap(w io.Writer, g *grid.Grid[float32]) error {
	raw := make([]byte, g.Len()*4)
	for i, v := range g.Data() {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(v))
	}
	return writeDump(w, KindHeight, g.LengthX(), g.LengthY(), raw)
}

// DecodeHeightmap parses a float32 heightmap dump.
func DecodeHeightmap(data []byte) (*grid.Grid[float32], error) {
	lx, ly, raw, err := readDump(data, KindHeight)
	if err != nil {
		return nil, err
	}
	g := grid.New[float32](lx, ly)
	for i := range g.Len() {
		g.SetIndex(i, math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:])))
	}
	return g, nil
}

// EncodeMaterialIndexMap writes a byte material index dump.
func EncodeMaterialIndexMap(w io.Writer, g *grid.Grid[uint8]) error {
	return writeDump(w, KindMaterialIndex, g.LengthX(), g.LengthY(), g.Data())
}

// DecodeMaterialIndexMap parses a byte material index dump.
func DecodeMaterialIndexMap(data []byte) (*grid.Grid[uint8], error) {
	lx, ly, raw, err := readDump(data, KindMaterialIndex)
	if err != nil {
		return nil, err
	}
	return grid.FromSlice(lx, ly, raw)
}

// EncodeMaterialWeightMap writes a half-precision weight dump.
func EncodeMaterialWeightMap(w io.Writer, g *grid.Grid[float16.Float16]) error {
	raw := make([]byte, g.Len()*2)
	for i, v := range g.Data() {
		binary.LittleEndian.PutUint16(raw[i*2:], v.Bits())
	}
	return writeDump(w, KindMaterialWeight, g.LengthX(), g.LengthY(), raw)
}

// DecodeMaterialWeightMap parses a half-precision weight dump.
func DecodeMaterialWeightMap(data []byte) (*grid.Grid[float16.Float16], error) {
	lx, ly, raw, err := readDump(data, KindMaterialWeight)
	if err != nil {
		return nil, err
	}
	g := grid.New[float16.Float16](lx, ly)
	for i := range g.Len() {
		g.SetIndex(i, float16.Frombits(binary.LittleEndian.Uint16(raw[i*2:])))
	}
	return g, nil
}

// SaveHeightmapFile writes a heightmap dump to path.
func SaveHeightmapFile(path string, g *grid.Grid[float32]) error {
	return saveFile(path, func(w io.Writer) error { return EncodeHeightmap(w, g) })
}

// ParseHeightmapFile reads a heightmap dump from disk.
func ParseHeightmapFile(path string) (*grid.Grid[float32], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading heightmap file: %w", err)
	}
	return DecodeHeightmap(data)
}

// SaveMaterialIndexFile writes a material index dump to path.
func SaveMaterialIndexFile(path string, g *grid.Grid[uint8]) error {
	return saveFile(path, func(w io.Writer) error { return EncodeMaterialIndexMap(w, g) })
}

// ParseMaterialIndexFile reads a material index dump from disk.
func ParseMaterialIndexFile(path string) (*grid.Grid[uint8], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading material index file: %w", err)
	}
	return DecodeMaterialIndexMap(data)
}

// SaveMaterialWeightFile writes a material weight dump to path.
func SaveMaterialWeightFile(path string, g *grid.Grid[float16.Float16]) error {
	return saveFile(path, func(w io.Writer) error { return EncodeMaterialWeightMap(w, g) })
}

// ParseMaterialWeightFile reads a material weight dump from disk.
func ParseMaterialWeightFile(path string) (*grid.Grid[float16.Float16], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading material weight file: %w", err)
	}
	return DecodeMaterialWeightMap(data)
}

func saveFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
