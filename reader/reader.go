// SPDX-License-Identifier: MIT

// Package reader parses a square matrix description from a text stream:
// one positive dimension n followed by n*n values, whitespace separated.
//
// Recovery rules (interactive use):
//   - A token that does not parse as the requested kind is reported with
//     MsgIncorrectInput on the diagnostics writer, the rest of its line is
//     discarded and reading resumes on the next line.
//   - A dimension ≤ 0 is reported with MsgSizeNotPositive followed by
//     MsgIncorrectInput and re-read the same way.
//   - Input that is empty (only whitespace) fails with ErrEmptyInput.
//   - Running out of tokens before n*n values fails with ErrUnexpectedEOF.
package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvdet/matrix"
)

var (
	// ErrEmptyInput is returned when the stream holds no tokens at all.
	ErrEmptyInput = errors.New("reader: empty input")

	// ErrUnexpectedEOF is returned when the stream ends before all values were read.
	ErrUnexpectedEOF = errors.New("reader: EOF reached")

	// ErrDimensionTooLarge is returned when n exceeds the configured maximum.
	ErrDimensionTooLarge = errors.New("reader: dimension too large")
)

// Diagnostics written for recoverable input problems.
const (
	MsgIncorrectInput  = "Incorrect input"
	MsgSizeNotPositive = "size must be > 0"
)

const (
	// DefaultMaxDimension bounds n so a typo cannot request a huge allocation.
	DefaultMaxDimension = 4096

	// maxLineBytes bounds a single input line (a 4096² matrix on one line fits).
	maxLineBytes = 1 << 30
	// initialLineBytes is the scanner's starting buffer.
	initialLineBytes = 64 * 1024
)

// Input is a parsed square matrix description.
type Input[T matrix.Number] struct {
	Dimension int
	Values    []T // row-major, len == Dimension*Dimension
}

// Matrix builds the Dimension×Dimension matrix described by in.
func (in Input[T]) Matrix(opts ...matrix.Option) (*matrix.Dense[T], error) {
	return matrix.New(in.Dimension, in.Dimension, in.Values, opts...)
}

// Option configures a Reader.
type Option func(*Reader)

// WithDiagnostics sets where recovery messages go (default io.Discard).
func WithDiagnostics(w io.Writer) Option {
	return func(r *Reader) { r.diag = w }
}

// WithMaxDimension bounds the accepted dimension. n ≤ 0 keeps the default.
func WithMaxDimension(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxDim = n
		}
	}
}

// Reader is a line-aware tokenizer over an io.Reader.
// Not safe for concurrent use.
type Reader struct {
	sc     *bufio.Scanner
	fields []string // pending tokens of the current line
	diag   io.Writer
	maxDim int
	seen   bool // at least one token was produced
}

// New wraps src.
func New(src io.Reader, opts ...Option) *Reader {
	sc := bufio.NewScanner(src)
	sc.Buffer(make([]byte, 0, initialLineBytes), maxLineBytes)
	r := &Reader{sc: sc, diag: io.Discard, maxDim: DefaultMaxDimension}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// next returns the next token, crossing line boundaries. io.EOF at the end.
func (r *Reader) next() (string, error) {
	for len(r.fields) == 0 {
		if !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
		r.fields = strings.Fields(r.sc.Text())
	}
	tok := r.fields[0]
	r.fields = r.fields[1:]
	r.seen = true

	return tok, nil
}

// reject reports msg and drops the remainder of the current line.
func (r *Reader) reject(msg string) {
	fmt.Fprintln(r.diag, msg)
	r.fields = nil
}

// eof maps io.EOF to the package sentinels.
func (r *Reader) eof(err error) error {
	if !errors.Is(err, io.EOF) {
		return err
	}
	if !r.seen {
		return ErrEmptyInput
	}

	return ErrUnexpectedEOF
}

// Dimension reads the leading positive integer n, recovering from bad tokens
// and non-positive values.
func (r *Reader) Dimension() (int, error) {
	for {
		tok, err := r.next()
		if err != nil {
			return 0, r.eof(err)
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			r.reject(MsgIncorrectInput)
			continue
		}
		if n <= 0 {
			fmt.Fprintln(r.diag, MsgSizeNotPositive)
			r.reject(MsgIncorrectInput)
			continue
		}
		if n > r.maxDim {
			return 0, fmt.Errorf("reader.Dimension(%d > %d): %w", n, r.maxDim, ErrDimensionTooLarge)
		}

		return n, nil
	}
}

// Value reads one element of kind T, recovering from bad tokens.
func Value[T matrix.Number](r *Reader) (T, error) {
	for {
		tok, err := r.next()
		if err != nil {
			var zero T
			return zero, r.eof(err)
		}
		v, err := parse[T](tok)
		if err != nil {
			r.reject(MsgIncorrectInput)
			continue
		}

		return v, nil
	}
}

// ReadSquare reads n followed by n*n values of kind T.
//
// Errors:
//   - ErrEmptyInput, ErrUnexpectedEOF, ErrDimensionTooLarge, or the scanner's I/O error.
func ReadSquare[T matrix.Number](r *Reader) (Input[T], error) {
	n, err := r.Dimension()
	if err != nil {
		return Input[T]{}, err
	}
	vals := make([]T, n*n)
	for i := range vals {
		if vals[i], err = Value[T](r); err != nil {
			return Input[T]{}, fmt.Errorf("reader.ReadSquare(n=%d, value %d): %w", n, i, err)
		}
	}

	return Input[T]{Dimension: n, Values: vals}, nil
}

// parse converts tok to T: base-10 integers for integer kinds, decimal or
// exponent floats otherwise. Out-of-range integers are rejected.
func parse[T matrix.Number](tok string) (T, error) {
	var zero T
	if matrix.IsIntegral[T]() {
		x, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return zero, err
		}
		v := T(x)
		if int64(v) != x {
			return zero, strconv.ErrRange
		}

		return v, nil
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return zero, err
	}

	return T(f), nil
}
