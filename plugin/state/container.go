package state

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"

	"github.com/Masterminds/semver/v3"
)

const (
	// Magic opens every container.
	Magic = "FXRK"
	// FormatVersion is the version Marshal writes.
	FormatVersion = "1.0.0"
	// SupportedVersions is the constraint Unmarshal accepts.
	SupportedVersions = "^1"
	// OrderKey is the blob key of the encoded processing order.
	OrderKey = "dspOrder"

	maxKeyLen = math.MaxUint16
)

var (
	// ErrUnsupportedVersion is returned for a well-formed container written
	// by an incompatible format version.
	ErrUnsupportedVersion = errors.New("state: unsupported version")
	// ErrKeyTooLong is returned by Marshal for a name or key that does not
	// fit its length prefix.
	ErrKeyTooLong = errors.New("state: key too long")

	supported = semver.MustParse(FormatVersion)
	accepted  = mustConstraint(SupportedVersions)
)

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}

	return constraint
}

// Container is the combined persisted state.
type Container struct {
	Version string
	Params  map[string]float64
	Blobs   map[string][]byte
}

// NewContainer returns an empty container at FormatVersion.
func NewContainer() *Container {
	return &Container{
		Version: supported.String(),
		Params:  make(map[string]float64),
		Blobs:   make(map[string][]byte),
	}
}

// SetBlob stores a copy of data under key.
func (c *Container) SetBlob(key string, data []byte) {
	if c.Blobs == nil {
		c.Blobs = make(map[string][]byte)
	}

	c.Blobs[key] = bytes.Clone(data)
}

// Blob returns the data stored under key.
func (c *Container) Blob(key string) ([]byte, bool) {
	b, ok := c.Blobs[key]
	return b, ok
}

// Marshal encodes the container. Entries are written in key order, so equal
// containers encode to equal bytes.
func (c *Container) Marshal() ([]byte, error) {
	version := c.Version
	if version == "" {
		version = supported.String()
	}

	var buf bytes.Buffer

	buf.WriteString(Magic)

	err := writeString(&buf, version)
	if err != nil {
		return nil, err
	}

	buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(c.Params))))

	for _, name := range slices.Sorted(maps.Keys(c.Params)) {
		err = writeString(&buf, name)
		if err != nil {
			return nil, err
		}

		buf.Write(binary.LittleEndian.AppendUint64(nil, math.Float64bits(c.Params[name])))
	}

	buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(c.Blobs))))

	for _, key := range slices.Sorted(maps.Keys(c.Blobs)) {
		err = writeString(&buf, key)
		if err != nil {
			return nil, err
		}

		data := c.Blobs[key]
		buf.Write(binary.LittleEndian.AppendUint32(nil, uint32(len(data))))
		buf.Write(data)
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes a container. Malformed data returns an error wrapping
// ErrCorruptState; a version outside SupportedVersions returns
// ErrUnsupportedVersion.
func Unmarshal(data []byte) (*Container, error) {
	r := bytes.NewReader(data)

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil || string(magic) != Magic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptState)
	}

	version, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("%w: version: %w", ErrCorruptState, err)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("%w: version %q: %w", ErrCorruptState, version, err)
	}

	if !accepted.Check(v) {
		return nil, fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedVersion, v, SupportedVersions)
	}

	c := &Container{Version: v.String()}

	c.Params, err = readParams(r)
	if err != nil {
		return nil, err
	}

	c.Blobs, err = readBlobs(r)
	if err != nil {
		return nil, err
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptState, r.Len())
	}

	return c, nil
}

func readParams(r *bytes.Reader) (map[string]float64, error) {
	var count uint32

	err := binary.Read(r, binary.LittleEndian, &count)
	if err != nil {
		return nil, fmt.Errorf("%w: parameter count: %w", ErrCorruptState, err)
	}

	// Every entry needs at least a length prefix and a value.
	if int64(count)*10 > int64(r.Len()) {
		return nil, fmt.Errorf("%w: %d parameters in %d bytes", ErrCorruptState, count, r.Len())
	}

	params := make(map[string]float64, count)

	for range count {
		name, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter name: %w", ErrCorruptState, err)
		}

		var bits uint64

		err = binary.Read(r, binary.LittleEndian, &bits)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q: %w", ErrCorruptState, name, err)
		}

		params[name] = math.Float64frombits(bits)
	}

	return params, nil
}

func readBlobs(r *bytes.Reader) (map[string][]byte, error) {
	var count uint32

	err := binary.Read(r, binary.LittleEndian, &count)
	if err != nil {
		return nil, fmt.Errorf("%w: blob count: %w", ErrCorruptState, err)
	}

	if int64(count)*6 > int64(r.Len()) {
		return nil, fmt.Errorf("%w: %d blobs in %d bytes", ErrCorruptState, count, r.Len())
	}

	blobs := make(map[string][]byte, count)

	for range count {
		key, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("%w: blob key: %w", ErrCorruptState, err)
		}

		var n uint32

		err = binary.Read(r, binary.LittleEndian, &n)
		if err != nil {
			return nil, fmt.Errorf("%w: blob %q: %w", ErrCorruptState, key, err)
		}

		if int64(n) > int64(r.Len()) {
			return nil, fmt.Errorf("%w: blob %q claims %d bytes", ErrCorruptState, key, n)
		}

		data := make([]byte, n)
		_, _ = io.ReadFull(r, data)
		blobs[key] = data
	}

	return blobs, nil
}

func writeString(buf *bytes.Buffer, s string) error {
	if len(s) > maxKeyLen {
		return fmt.Errorf("%w: %d bytes", ErrKeyTooLong, len(s))
	}

	buf.Write(binary.LittleEndian.AppendUint16(nil, uint16(len(s))))
	buf.WriteString(s)

	return nil
}

func readString(r *bytes.Reader) (string, error) {
	var n uint16

	err := binary.Read(r, binary.LittleEndian, &n)
	if err != nil {
		return "", err
	}

	if int(n) > r.Len() {
		return "", io.ErrUnexpectedEOF
	}

	b := make([]byte, n)
	_, _ = io.ReadFull(r, b)

	return string(b), nil
}
