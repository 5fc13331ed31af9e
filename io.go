package clipschem

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/oriumgames/clipschem/format"
)

// Read reads a schematic stream with auto-format detection. Gzip framed and
// raw NBT streams are both accepted.
func Read(r io.Reader, opts format.Options) (format.Clipboard, error) {
	nr, closer, err := decompress(r)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return format.Read(nr, opts)
}

// ReadFile reads a schematic from a file path.
func ReadFile(path string, opts format.Options) (format.Clipboard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, opts)
}

// ReadFormat reads a schematic stream with a specific format.
func ReadFormat(r io.Reader, formatID string, opts format.Options) (format.Clipboard, error) {
	nr, closer, err := decompress(r)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return format.ReadFormat(nr, formatID, opts)
}

// Write writes the clipboard gzip framed in the newest format.
func Write(w io.Writer, c format.Clipboard, opts format.Options) error {
	return WriteFormat(w, format.SpongeV3, c, opts)
}

// WriteFile writes the clipboard to a file in the newest format.
func WriteFile(path string, c format.Clipboard, opts format.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, c, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteFormat writes the clipboard gzip framed in the specified format.
func WriteFormat(w io.Writer, formatID string, c format.Clipboard, opts format.Options) error {
	gz := gzip.NewWriter(w)
	if err := format.WriteFormat(gz, formatID, c, opts); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close gzip: %w", err)
	}
	return nil
}

// Detect returns the format identifier of a schematic stream.
func Detect(r io.Reader) (string, error) {
	nr, closer, err := decompress(r)
	if err != nil {
		return "", err
	}
	defer closer.Close()
	data, err := io.ReadAll(nr)
	if err != nil {
		return "", fmt.Errorf("read data: %w", err)
	}
	return format.Detect(data)
}

// Formats returns a list of supported format identifiers.
func Formats() []string {
	return format.Formats()
}

// decompress unwraps gzip framing when the stream starts with the gzip magic.
func decompress(r io.Reader) (io.Reader, io.Closer, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if len(magic) < 2 || magic[0] != 0x1F || magic[1] != 0x8B {
		return br, io.NopCloser(nil), nil
	}
	gz, err := gzip.NewReader(br)
	if err != nil {
		return nil, nil, fmt.Errorf("gzip decompress: %w", err)
	}
	return gz, gz, nil
}
