package scripts

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// DefaultMaxSize bounds decoded script size
const DefaultMaxSize = 16 << 20

var (
	ErrNotText  = errors.New("script is not a text file")
	ErrTooLarge = errors.New("script exceeds maximum size")
)

// Source is a loaded script
type Source struct {
	Name    string // path as given
	Code    string // UTF-8 source
	Charset string // detected source charset
	MIME    string // detected media type
}

// Loader reads scripts from disk
type Loader struct {
	maxSize int64
}

// NewLoader creates a loader; maxSize <= 0 selects DefaultMaxSize
func NewLoader(maxSize int64) *Loader {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Loader{maxSize: maxSize}
}

// Load reads, decompresses and decodes the script at path
func (l *Loader) Load(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var r io.Reader = file
	switch {
	case strings.HasSuffix(path, ".gz"):
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("%s: gzip: %w", path, err)
		}
		defer gzReader.Close()
		r = gzReader
	case strings.HasSuffix(path, ".zst"):
		zstdReader, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("%s: zstd: %w", path, err)
		}
		defer zstdReader.Close()
		r = zstdReader
	}

	data, err := io.ReadAll(io.LimitReader(r, l.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if int64(len(data)) > l.maxSize {
		return nil, fmt.Errorf("%s: %w (%d bytes)", path, ErrTooLarge, l.maxSize)
	}

	src, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	src.Name = path
	return src, nil
}

// Decode converts raw script bytes into a Source
func Decode(data []byte) (*Source, error) {
	mtype := mimetype.Detect(data)
	if !isText(mtype) {
		return nil, fmt.Errorf("%w: %s", ErrNotText, mtype.String())
	}

	cs := DetectCharset(data)
	code := data
	if cs != "utf-8" && cs != "ascii" && cs != "us-ascii" {
		utf8Reader, err := charset.NewReader(bytes.NewReader(data), "text/javascript; charset="+cs)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", cs, err)
		}
		if code, err = io.ReadAll(utf8Reader); err != nil {
			return nil, fmt.Errorf("decode %s: %w", cs, err)
		}
	}

	text := strings.TrimPrefix(string(code), "\ufeff")
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\ufffd")
	}
	if strings.HasPrefix(text, "#!") {
		text = "//" + text
	}

	return &Source{Code: text, Charset: cs, MIME: mtype.String()}, nil
}

// DetectCharset returns the lower-case charset name of data, utf-8 when
// detection fails
func DetectCharset(data []byte) string {
	if len(data) == 0 || utf8.Valid(data) && !bytes.HasPrefix(data, []byte{0xfe, 0xff}) && !bytes.HasPrefix(data, []byte{0xff, 0xfe}) {
		return "utf-8"
	}
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
