/*package catalog reads and writes whitespace-separated text tables: the
redshift lists, distance tables, and halo catalogues lenscone consumes and
the per-plane catalogues it produces. '#' starts a comment.*/
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CommentString returns a header line naming each column of a table. The
// ith name is an int column if i < len(intNames) and a float column
// otherwise; order gives the order they appear in and sizes gives the
// number of adjacent columns each name covers.
func CommentString(
	intNames, floatNames []string, order, sizes []int,
) string {

	names := append(append([]string{}, intNames...), floatNames...)

	tokens := []string{"# Column contents:"}
	n := 0
	for _, idx := range order {
		if idx >= len(names) {
			panic("Column ordering out of range.")
		}

		if sizes[idx] == 1 {
			tokens = append(tokens, fmt.Sprintf("%s(%d)", names[idx], n))
		} else {
			tokens = append(tokens, fmt.Sprintf("%s(%d-%d)", names[idx],
				n, n+sizes[idx]-1))
		}
		n += sizes[idx]
	}

	return strings.Join(tokens, " ")
}

// FormatCols formats int and float columns into aligned lines. order
// indexes into the int columns followed by the float columns.
func FormatCols(intCols [][]int, floatCols [][]float64, order []int) []string {
	height := -1
	for i := range intCols {
		if height == -1 {
			height = len(intCols[i])
		} else if height != len(intCols[i]) {
			panic("Columns of unequal height.")
		}
	}
	for i := range floatCols {
		if height == -1 {
			height = len(floatCols[i])
		} else if height != len(floatCols[i]) {
			panic("Columns of unequal height.")
		}
	}
	if height <= 0 {
		return []string{}
	}

	orderedCols := [][]string{}
	for _, idx := range order {
		if idx >= len(intCols)+len(floatCols) {
			panic("Column ordering out of range.")
		}

		if idx < len(intCols) {
			orderedCols = append(orderedCols, formatIntCol(intCols[idx]))
		} else {
			idx -= len(intCols)
			orderedCols = append(orderedCols, formatFloatCol(floatCols[idx]))
		}
	}

	lines := make([]string, height)
	tokens := make([]string, len(orderedCols))
	for i := 0; i < height; i++ {
		for j := range orderedCols {
			tokens[j] = orderedCols[j][i]
		}
		lines[i] = strings.Join(tokens, " ")
	}

	return lines
}

// Write writes a commented header followed by the formatted lines.
func Write(w io.Writer, header string, lines []string) error {
	if header != "" {
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
	}
	for i := range lines {
		if _, err := fmt.Fprintln(w, lines[i]); err != nil {
			return err
		}
	}
	return nil
}

func formatIntCol(col []int) []string {
	return padCol(col, func(x int) string { return strconv.Itoa(x) })
}

func formatFloatCol(col []float64) []string {
	return padCol(col, func(x float64) string {
		return strconv.FormatFloat(x, 'g', 8, 64)
	})
}

func padCol[T any](col []T, format func(T) string) []string {
	out := make([]string, len(col))
	width := 0
	for i := range col {
		out[i] = format(col[i])
		if len(out[i]) > width {
			width = len(out[i])
		}
	}
	for i := range out {
		out[i] = fmt.Sprintf("%*s", width, out[i])
	}
	return out
}

// Parse parses the specified columns in a byte block. Columns may be
// separated by any run of spaces or tabs.
func Parse(data []byte, icolIdxs, fcolIdxs []int) (
	[][]int, [][]float64, error,
) {
	lines := split(data, '\n')
	lines = uncomment(lines, '#')
	lines = trim(lines)
	return parse(lines, icolIdxs, fcolIdxs)
}

// ReadFile parses the specified columns of a text file.
func ReadFile(fname string, icolIdxs, fcolIdxs []int) (
	[][]int, [][]float64, error,
) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, nil, err
	}
	icols, fcols, err := Parse(data, icolIdxs, fcolIdxs)
	if err != nil {
		return nil, nil, fmt.Errorf("Could not read %s: %w", fname, err)
	}
	return icols, fcols, nil
}

// split splits a byte slice at each separator without copying.
func split(data []byte, sep byte) [][]byte {
	return bytes.Split(data, []byte{sep})
}

// uncomment removes file comments in the form of "data # comment".
func uncomment(lines [][]byte, comm byte) [][]byte {
	for i, line := range lines {
		if commentStart := bytes.IndexByte(line, comm); commentStart != -1 {
			lines[i] = line[:commentStart]
		}
	}
	return lines
}

// trim removes blank lines.
func trim(lines [][]byte) [][]byte {
	j := 0
	for i := range lines {
		if len(bytes.TrimSpace(lines[i])) > 0 {
			lines[j] = lines[i]
			j++
		}
	}
	return lines[:j]
}

func parse(lines [][]byte, icolIdxs, fcolIdxs []int) (
	[][]int, [][]float64, error,
) {
	icols := make([][]int, len(icolIdxs))
	fcols := make([][]float64, len(fcolIdxs))

	for i := range icols {
		icols[i] = make([]int, len(lines))
	}
	for i := range fcols {
		fcols[i] = make([]float64, len(lines))
	}

	if len(lines) == 0 {
		return icols, fcols, nil
	}
	width := len(bytes.Fields(lines[0]))
	for _, idx := range append(append([]int{}, icolIdxs...), fcolIdxs...) {
		if idx < 0 || idx >= width {
			return nil, nil, fmt.Errorf("Column %d was requested, but the "+
				"table only has %d columns.", idx, width)
		}
	}

	var err error
	for i, line := range lines {
		words := bytes.Fields(line)
		if len(words) != width {
			return nil, nil, fmt.Errorf(
				"Data (not file) line %d has %d columns, not %d.",
				i+1, len(words), width,
			)
		}

		for j, idx := range icolIdxs {
			icols[j][i], err = strconv.Atoi(string(words[idx]))
			if err != nil {
				return nil, nil, fmt.Errorf("Data (not file) line %d, "+
					"column %d: '%s' is not an integer.", i+1, idx, words[idx])
			}
		}
		for j, idx := range fcolIdxs {
			fcols[j][i], err = strconv.ParseFloat(string(words[idx]), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("Data (not file) line %d, "+
					"column %d: '%s' is not a number.", i+1, idx, words[idx])
			}
		}
	}

	return icols, fcols, nil
}
