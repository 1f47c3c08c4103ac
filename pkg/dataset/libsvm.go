package dataset

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/linscore/pkg/errors"
	"github.com/james-bowman/sparse"
)

// ReadLIBSVM parses "label idx:val idx:val ..." lines into a CSR matrix.
// Feature indices are 1-based. nFeatures fixes the column count; when it is
// 0 the largest index seen is used. Blank lines and '#' comments are skipped.
func ReadLIBSVM(r io.Reader, nFeatures int) (*sparse.CSR, []string, error) {
	var (
		indptr  = []int{0}
		indices []int
		data    []float64
		labels  []string
		maxIdx  int
		line    int
	)

	type entry struct {
		j int
		v float64
	}
	var row []entry

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		labels = append(labels, fields[0])

		row = row[:0]
		for _, f := range fields[1:] {
			idxStr, valStr, ok := strings.Cut(f, ":")
			if !ok {
				return nil, nil, errors.NewValueError("dataset.ReadLIBSVM", "line "+strconv.Itoa(line)+": malformed pair "+strconv.Quote(f))
			}
			idx, err := strconv.Atoi(idxStr)
			if err != nil || idx < 1 {
				return nil, nil, errors.NewValueError("dataset.ReadLIBSVM", "line "+strconv.Itoa(line)+": feature index must be a positive integer, got "+strconv.Quote(idxStr))
			}
			v, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				return nil, nil, errors.NewValueError("dataset.ReadLIBSVM", "line "+strconv.Itoa(line)+": "+err.Error())
			}
			if nFeatures > 0 && idx > nFeatures {
				return nil, nil, errors.NewDimensionError("dataset.ReadLIBSVM", nFeatures, idx, 1)
			}
			if idx > maxIdx {
				maxIdx = idx
			}
			row = append(row, entry{j: idx - 1, v: v})
		}

		sort.Slice(row, func(a, b int) bool { return row[a].j < row[b].j })
		for k, e := range row {
			if k > 0 && row[k-1].j == e.j {
				return nil, nil, errors.NewValueError("dataset.ReadLIBSVM", "line "+strconv.Itoa(line)+": duplicate feature index "+strconv.Itoa(e.j+1))
			}
			if e.v == 0 {
				continue
			}
			indices = append(indices, e.j)
			data = append(data, e.v)
		}
		indptr = append(indptr, len(indices))
	}
	if err := sc.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "read libsvm")
	}
	if len(labels) == 0 {
		return nil, nil, errors.NewModelError("dataset.ReadLIBSVM", "empty data", errors.ErrEmptyData)
	}

	cols := nFeatures
	if cols == 0 {
		cols = maxIdx
	}
	if cols == 0 {
		return nil, nil, errors.NewValueError("dataset.ReadLIBSVM", "no feature columns")
	}
	return sparse.NewCSR(len(labels), cols, indptr, indices, data), labels, nil
}
