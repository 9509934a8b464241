package loaders

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// ErrInvalidPLY is returned for malformed or unsupported PLY input
var ErrInvalidPLY = errors.New("invalid PLY data")

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string // Usually "1.0"
	Elements []PLYElement
}

// PLYElement is an element declaration and the properties of each row
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
	DataType string // For list properties, the type of the data
}

// PLYData contains the geometry loaded from a PLY file
type PLYData struct {
	Vertices []core.Point
	Faces    []int // Triangle indices (3 per triangle)

	// Polygons with more than three vertices that were fan-triangulated
	Triangulated int
}

// VertexCount returns the number of vertex positions
func (d *PLYData) VertexCount() int { return len(d.Vertices) }

// TriangleCount returns the number of triangles in Faces
func (d *PLYData) TriangleCount() int { return len(d.Faces) / 3 }

// LoadPLY loads a PLY file and returns its vertices and triangle faces
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY parses PLY data from r. ASCII and both binary byte orders are
// supported; faces with more than three vertices are fan-triangulated.
func ReadPLY(r io.Reader) (*PLYData, error) {
	br := bufio.NewReaderSize(r, 1024*1024)

	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var src valueReader
	switch header.Format {
	case "ascii":
		src = &asciiReader{r: br}
	case "binary_little_endian":
		src = &binaryReader{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		src = &binaryReader{r: br, order: binary.BigEndian}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidPLY, header.Format)
	}

	data := &PLYData{}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			err = readVertices(src, element, data)
		case "face":
			err = readFaces(src, element, data)
		default:
			err = skipElement(src, element)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s data: %w", element.Name, err)
		}
	}

	for _, idx := range data.Faces {
		if idx < 0 || idx >= len(data.Vertices) {
			return nil, fmt.Errorf("%w: face index %d out of range (%d vertices)", ErrInvalidPLY, idx, len(data.Vertices))
		}
	}

	return data, nil
}

// parsePLYHeader parses the PLY header, leaving r positioned at the body
func parsePLYHeader(r *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	var current *PLYElement
	first := true

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: header not terminated: %v", ErrInvalidPLY, err)
		}
		line = strings.TrimSpace(line)

		if first {
			if line != "ply" {
				return nil, fmt.Errorf("%w: missing ply magic", ErrInvalidPLY)
			}
			first = false
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: invalid format line %q", ErrInvalidPLY, line)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
			// Ignore comments
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("%w: invalid element line %q", ErrInvalidPLY, line)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("%w: invalid element count: %s", ErrInvalidPLY, parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
			current = &header.Elements[len(header.Elements)-1]
		case "property":
			if current == nil {
				return nil, fmt.Errorf("%w: property before any element", ErrInvalidPLY)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			current.Properties = append(current.Properties, prop)
		default:
			return nil, fmt.Errorf("%w: unknown header keyword %q", ErrInvalidPLY, parts[0])
		}
	}

	return header, nil
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) < 2 {
		return PLYProperty{}, fmt.Errorf("%w: invalid property definition", ErrInvalidPLY)
	}

	if parts[0] == "list" {
		if len(parts) < 4 {
			return PLYProperty{}, fmt.Errorf("%w: invalid list property definition", ErrInvalidPLY)
		}
		return PLYProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}
	return PLYProperty{Type: parts[0], Name: parts[1]}, nil
}

func readVertices(src valueReader, element PLYElement, data *PLYData) error {
	data.Vertices = make([]core.Point, 0, element.Count)
	for i := 0; i < element.Count; i++ {
		var xyz [3]float64
		for _, prop := range element.Properties {
			if prop.IsList {
				if err := skipList(src, prop); err != nil {
					return err
				}
				continue
			}
			value, err := src.read(prop.Type)
			if err != nil {
				return fmt.Errorf("vertex %d property %s: %w", i, prop.Name, err)
			}
			switch prop.Name {
			case "x":
				xyz[0] = value
			case "y":
				xyz[1] = value
			case "z":
				xyz[2] = value
			}
		}
		data.Vertices = append(data.Vertices, core.NewPoint(xyz[0], xyz[1], xyz[2]))
	}
	return nil
}

func readFaces(src valueReader, element PLYElement, data *PLYData) error {
	data.Faces = make([]int, 0, element.Count*3)
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				if err := skipProperty(src, prop); err != nil {
					return fmt.Errorf("face %d property %s: %w", i, prop.Name, err)
				}
				continue
			}

			count, err := src.read(prop.ListType)
			if err != nil {
				return fmt.Errorf("face %d vertex count: %w", i, err)
			}
			if count < 3 {
				return fmt.Errorf("%w: face %d has %d vertices", ErrInvalidPLY, i, int(count))
			}
			indices := make([]int, int(count))
			for j := range indices {
				value, err := src.read(prop.DataType)
				if err != nil {
					return fmt.Errorf("face %d index %d: %w", i, j, err)
				}
				indices[j] = int(value)
			}

			// Fan triangulation around the first vertex
			for j := 1; j+1 < len(indices); j++ {
				data.Faces = append(data.Faces, indices[0], indices[j], indices[j+1])
			}
			if len(indices) > 3 {
				data.Triangulated++
			}
		}
	}
	return nil
}

func skipElement(src valueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			if err := skipProperty(src, prop); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipProperty(src valueReader, prop PLYProperty) error {
	if prop.IsList {
		return skipList(src, prop)
	}
	_, err := src.read(prop.Type)
	return err
}

func skipList(src valueReader, prop PLYProperty) error {
	count, err := src.read(prop.ListType)
	if err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if _, err := src.read(prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

// valueReader reads one scalar of a PLY data type as float64
type valueReader interface {
	read(dataType string) (float64, error)
}

type asciiReader struct {
	r      *bufio.Reader
	tokens []string
}

func (a *asciiReader) read(dataType string) (float64, error) {
	if getTypeSize(dataType) == 0 {
		return 0, fmt.Errorf("%w: unsupported data type: %s", ErrInvalidPLY, dataType)
	}
	for len(a.tokens) == 0 {
		line, err := a.r.ReadString('\n')
		if line == "" && err != nil {
			return 0, fmt.Errorf("%w: unexpected end of data", ErrInvalidPLY)
		}
		a.tokens = strings.Fields(line)
	}
	token := a.tokens[0]
	a.tokens = a.tokens[1:]

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid number %q", ErrInvalidPLY, token)
	}
	return value, nil
}

type binaryReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryReader) read(dataType string) (float64, error) {
	size := getTypeSize(dataType)
	if size == 0 {
		return 0, fmt.Errorf("%w: unsupported data type: %s", ErrInvalidPLY, dataType)
	}
	buf := b.buf[:size]
	if _, err := io.ReadFull(b.r, buf); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPLY, err)
	}

	switch dataType {
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(buf))), nil
	case "double", "float64":
		return math.Float64frombits(b.order.Uint64(buf)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(buf)), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(buf)), nil
	case "char", "int8":
		return float64(int8(buf[0])), nil
	default: // uchar, uint8
		return float64(buf[0]), nil
	}
}

// getTypeSize returns the size in bytes of a PLY data type, or 0 if unknown
func getTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 0
	}
}
