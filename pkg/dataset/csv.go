// Package dataset reads feature matrices for scoring.
//
// Dense CSV input is read in fixed-size row chunks so large files can be
// scored without holding every row in memory. LIBSVM input is read into a
// compressed sparse row matrix.
package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/linscore/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DefaultChunkSize は1チャンクあたりの既定行数
const DefaultChunkSize = 4096

// CSVOptions controls how a CSV stream is interpreted.
type CSVOptions struct {
	// Header skips the first record.
	Header bool
	// LabelColumn is the index of the target column, or -1 when the file
	// holds features only.
	LabelColumn int
	// ChunkSize is the number of rows per chunk (DefaultChunkSize when <= 0).
	ChunkSize int
	// Comma is the field delimiter (',' when zero).
	Comma rune
}

// DefaultCSVOptions returns options for a header-less, label-less CSV.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{LabelColumn: -1, ChunkSize: DefaultChunkSize}
}

// Chunk is a block of consecutive rows.
type Chunk struct {
	// StartRow は入力全体での先頭行番号（0始まり、ヘッダを除く）
	StartRow int
	X        *mat.Dense
	// Labels は LabelColumn の生の文字列。LabelColumn < 0 の場合は nil
	Labels []string
}

// CSVReader yields Chunks from a CSV stream.
type CSVReader struct {
	r        *csv.Reader
	opts     CSVOptions
	nCols    int
	row      int
	line     int
	started  bool
	finished bool
}

// NewCSVReader wraps r. Every record must have the same number of fields.
func NewCSVReader(r io.Reader, opts CSVOptions) *CSVReader {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	cr := csv.NewReader(bufio.NewReader(r))
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	return &CSVReader{r: cr, opts: opts}
}

// NFeatures returns the feature count, known after the first chunk.
func (c *CSVReader) NFeatures() int {
	if c.nCols == 0 {
		return 0
	}
	if c.opts.LabelColumn >= 0 {
		return c.nCols - 1
	}
	return c.nCols
}

// Next returns the next chunk, or io.EOF when the input is exhausted.
func (c *CSVReader) Next() (*Chunk, error) {
	if c.finished {
		return nil, io.EOF
	}
	if !c.started {
		c.started = true
		if c.opts.Header {
			c.line++
			if _, err := c.r.Read(); err != nil {
				if err == io.EOF {
					c.finished = true
					return nil, io.EOF
				}
				return nil, errors.Wrap(err, "read csv header")
			}
		}
	}

	var (
		data   []float64
		labels []string
		rows   int
	)
	for rows < c.opts.ChunkSize {
		rec, err := c.r.Read()
		if err == io.EOF {
			c.finished = true
			break
		}
		c.line++
		if err != nil {
			return nil, errors.Wrapf(err, "read csv line %d", c.line)
		}
		if c.nCols == 0 {
			c.nCols = len(rec)
			if c.opts.LabelColumn >= c.nCols {
				return nil, errors.NewValidationError("label_column", "out of range of csv columns", c.opts.LabelColumn)
			}
			if c.NFeatures() == 0 {
				return nil, errors.NewValidationError("csv", "no feature columns", c.nCols)
			}
		}
		for j, field := range rec {
			if j == c.opts.LabelColumn {
				labels = append(labels, strings.TrimSpace(field))
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.NewValueError("dataset.CSVReader",
					"line "+strconv.Itoa(c.line)+", column "+strconv.Itoa(j)+": "+err.Error())
			}
			data = append(data, v)
		}
		rows++
	}

	if rows == 0 {
		return nil, io.EOF
	}
	chunk := &Chunk{
		StartRow: c.row,
		X:        mat.NewDense(rows, c.NFeatures(), data),
		Labels:   labels,
	}
	c.row += rows
	return chunk, nil
}

// ForEachChunk calls fn for every chunk in r, in order.
func ForEachChunk(r io.Reader, opts CSVOptions, fn func(*Chunk) error) error {
	cr := NewCSVReader(r, opts)
	for {
		chunk, err := cr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(chunk); err != nil {
			return err
		}
	}
}

// ReadCSV reads the whole stream into one matrix.
func ReadCSV(r io.Reader, opts CSVOptions) (*mat.Dense, []string, error) {
	var (
		data   []float64
		labels []string
		rows   int
		cols   int
	)
	err := ForEachChunk(r, opts, func(ch *Chunk) error {
		n, c := ch.X.Dims()
		cols = c
		for i := 0; i < n; i++ {
			data = append(data, ch.X.RawRowView(i)...)
		}
		labels = append(labels, ch.Labels...)
		rows += n
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if rows == 0 {
		return nil, nil, errors.NewModelError("dataset.ReadCSV", "empty data", errors.ErrEmptyData)
	}
	return mat.NewDense(rows, cols, data), labels, nil
}
