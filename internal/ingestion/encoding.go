package ingestion

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/guttosm/pcfpulse/internal/domain/models"
)

var (
	// ErrInvalidByteSequence marks content that is not valid in the attempted encoding.
	ErrInvalidByteSequence = errors.New("invalid byte sequence")
	// ErrDecodeFailure means every candidate encoding rejected the bytes.
	ErrDecodeFailure = errors.New("no candidate encoding could decode document")
	// ErrNoUsableData means at least one encoding decoded the bytes but no
	// recognized header was found under any of them.
	ErrNoUsableData = errors.New("no usable data in document")
)

// DefaultEncodings is the vendor-region priority list: the Japanese Windows
// code page first, UTF-8 as fallback, then plain Shift_JIS. Both "cp932" and
// "shift_jis" resolve to japanese.ShiftJIS (which already covers the Windows
// extensions), so the third entry never succeeds where the first failed; it
// is kept so configured lists read the same as the vendors' documentation.
var DefaultEncodings = []string{"cp932", "utf-8", "shift_jis"}

// aliases resolves the labels vendors and operators actually use. Anything
// else goes through the WHATWG index.
var aliases = map[string]encoding.Encoding{
	"cp932":       japanese.ShiftJIS,
	"ms932":       japanese.ShiftJIS,
	"windows-31j": japanese.ShiftJIS,
	"shift_jis":   japanese.ShiftJIS,
	"shift-jis":   japanese.ShiftJIS,
	"sjis":        japanese.ShiftJIS,
	"euc-jp":      japanese.EUCJP,
	"eucjp":       japanese.EUCJP,
	"iso-2022-jp": japanese.ISO2022JP,
	"utf-8":       unicode.UTF8,
	"utf8":        unicode.UTF8,
	"utf-8-sig":   unicode.UTF8,
}

// LookupEncoding returns the decoder for an encoding label.
func LookupEncoding(name string) (encoding.Encoding, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	if enc, ok := aliases[label]; ok {
		return enc, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", name, err)
	}
	return enc, nil
}

// Decode converts content to UTF-8 text under the named encoding. Any byte
// sequence the encoding cannot represent fails with ErrInvalidByteSequence
// instead of being replaced.
func Decode(content []byte, name string) (string, error) {
	enc, err := LookupEncoding(name)
	if err != nil {
		return "", err
	}
	if enc == unicode.UTF8 {
		if !utf8.Valid(content) {
			return "", fmt.Errorf("%s: %w", name, ErrInvalidByteSequence)
		}
		return string(content), nil
	}

	out, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", name, ErrInvalidByteSequence, err)
	}
	// x/text decoders substitute U+FFFD for bytes they cannot map.
	if strings.ContainsRune(string(out), utf8.RuneError) {
		return "", fmt.Errorf("%s: %w", name, ErrInvalidByteSequence)
	}
	return string(out), nil
}

// Outcome classifies one decode-and-parse attempt.
type Outcome int

const (
	OutcomeDecodeError Outcome = iota
	OutcomeEmpty
	OutcomeUsable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDecodeError:
		return "decode_error"
	case OutcomeEmpty:
		return "empty"
	case OutcomeUsable:
		return "usable"
	}
	return "unknown"
}

// Attempt records what happened under one candidate encoding.
type Attempt struct {
	Encoding string
	Outcome  Outcome
	Err      error
}

// DecodeError reports a document no candidate encoding could make usable.
type DecodeError struct {
	Filename string
	Attempts []Attempt
}

func (e *DecodeError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Encoding+"="+a.Outcome.String())
	}
	return fmt.Sprintf("%s: %v (%s)", e.Filename, e.cause(), strings.Join(parts, ", "))
}

// Is matches ErrNoUsableData when some encoding decoded the bytes, and
// ErrDecodeFailure when none did.
func (e *DecodeError) Is(target error) bool {
	return target == e.cause()
}

func (e *DecodeError) cause() error {
	for _, a := range e.Attempts {
		if a.Outcome == OutcomeEmpty {
			return ErrNoUsableData
		}
	}
	return ErrDecodeFailure
}

// Resolution is the accepted decoding of a document.
type Resolution struct {
	Encoding  string
	Delimiter rune
	Lines     []string
	Result    models.ParseResult
	Attempts  []Attempt
}

// Resolver tries a fixed, ordered list of encodings on each document and
// keeps the first one that decodes cleanly and yields a located header.
type Resolver struct {
	encodings []string
	log       zerolog.Logger
}

// NewResolver builds a Resolver. An empty list falls back to DefaultEncodings.
func NewResolver(encodings []string, log zerolog.Logger) *Resolver {
	if len(encodings) == 0 {
		encodings = DefaultEncodings
	}
	return &Resolver{encodings: encodings, log: log}
}

// Encodings returns the priority list in use.
func (r *Resolver) Encodings() []string {
	return append([]string(nil), r.encodings...)
}

// Resolve decodes and extracts doc.
//
// Behavior:
//   - Candidates are tried strictly in order; content is never sniffed for its charset.
//   - A decode error moves on to the next candidate.
//   - A clean decode with no located header also moves on.
//   - The first clean decode with at least one header wins.
//
// Returns a *DecodeError when no candidate is usable.
func (r *Resolver) Resolve(doc models.RawDocument) (Resolution, error) {
	log := r.log.With().Str("file", doc.Filename).Logger()
	attempts := make([]Attempt, 0, len(r.encodings))

	for _, name := range r.encodings {
		text, err := Decode(doc.Content, name)
		if err != nil {
			log.Debug().Str("encoding", name).Err(err).Msg("decode rejected")
			attempts = append(attempts, Attempt{Encoding: name, Outcome: OutcomeDecodeError, Err: err})
			continue
		}

		lines := SplitLines(text)
		delim := DetectDelimiter(lines)
		res := Extract(text, delim, log.With().Str("encoding", name).Logger())
		if !res.Found() {
			log.Debug().Str("encoding", name).Msg("decoded without recognized header")
			attempts = append(attempts, Attempt{Encoding: name, Outcome: OutcomeEmpty})
			continue
		}

		attempts = append(attempts, Attempt{Encoding: name, Outcome: OutcomeUsable})
		return Resolution{
			Encoding:  name,
			Delimiter: delim,
			Lines:     lines,
			Result:    res,
			Attempts:  attempts,
		}, nil
	}

	return Resolution{Attempts: attempts}, &DecodeError{Filename: doc.Filename, Attempts: attempts}
}
