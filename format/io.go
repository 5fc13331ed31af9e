package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/oriumgames/clipschem/format/internal/sponge"
)

// ErrUnsupportedFormat is returned for format identifiers without a codec.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Codec reads and writes one container version. Containers are uncompressed.
type Codec interface {
	Read(io.Reader, Options) (Clipboard, error)
	Write(io.Writer, Clipboard, Options) error
}

// FormatReader reads a clipboard from an uncompressed container.
type FormatReader func(io.Reader, Options) (Clipboard, error)

// FormatWriter writes a clipboard as an uncompressed container.
type FormatWriter func(io.Writer, Clipboard, Options) error

// codec pairs a reader and a writer into a Codec.
type codec struct {
	read  FormatReader
	write FormatWriter
}

func (c codec) Read(r io.Reader, opts Options) (Clipboard, error) { return c.read(r, opts) }

func (c codec) Write(w io.Writer, cb Clipboard, opts Options) error { return c.write(w, cb, opts) }

const (
	SpongeV1 = "sponge_v1"
	SpongeV2 = "sponge_v2"
	SpongeV3 = "sponge_v3"
)

var codecs = map[string]Codec{
	SpongeV1: codec{read: sponge.ReadV1, write: sponge.WriteV1},
	SpongeV2: codec{read: sponge.ReadV2, write: sponge.WriteV2},
	SpongeV3: codec{read: sponge.ReadV3, write: sponge.WriteV3},
}

// CodecFor returns the codec registered for a format identifier.
func CodecFor(formatID string) (Codec, error) {
	c, ok := codecs[formatID]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, formatID)
	}
	return c, nil
}

// Read reads data from r, detects the container version, and returns the
// decoded clipboard.
func Read(r io.Reader, opts Options) (Clipboard, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}

	formatID, err := Detect(data)
	if err != nil {
		return nil, fmt.Errorf("detect format: %w", err)
	}
	return ReadFormat(bytes.NewReader(data), formatID, opts)
}

// ReadFormat parses data from r using a specific format identifier.
func ReadFormat(r io.Reader, formatID string, opts Options) (Clipboard, error) {
	impl, err := CodecFor(formatID)
	if err != nil {
		return nil, err
	}

	c, err := impl.Read(r, opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", formatID, err)
	}
	return c, nil
}

// Write writes the clipboard as the newest container version.
func Write(w io.Writer, c Clipboard, opts Options) error {
	return WriteFormat(w, SpongeV3, c, opts)
}

// WriteFormat writes the clipboard using the specified format identifier.
func WriteFormat(w io.Writer, formatID string, c Clipboard, opts Options) error {
	impl, err := CodecFor(formatID)
	if err != nil {
		return err
	}
	if err := impl.Write(w, c, opts); err != nil {
		return fmt.Errorf("write %s: %w", formatID, err)
	}
	return nil
}

// Formats returns a sorted list of supported format identifiers.
func Formats() []string {
	ids := make([]string, 0, len(codecs))
	for id := range codecs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
