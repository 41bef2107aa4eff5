package readfiles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrEarlyEOF = errors.New("early end of file")
	ErrFormat   = errors.New("badly formed mesh file")
	ErrUnknown  = errors.New("unknown mesh file type")
)

// lineReader hands out trimmed lines and keeps the line number for error messages
type lineReader struct {
	sc     *bufio.Scanner
	lineNo int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &lineReader{sc: sc}
}

func (lr *lineReader) getLine() (line string, err error) {
	if !lr.sc.Scan() {
		if err = lr.sc.Err(); err == nil {
			err = fmt.Errorf("%w after line %d", ErrEarlyEOF, lr.lineNo)
		}
		return
	}
	lr.lineNo++
	line = strings.TrimSpace(lr.sc.Text())
	return
}

// getLineNoComments skips blank lines and lines starting with the comment character
func (lr *lineReader) getLineNoComments(comment string) (line string, err error) {
	for {
		if line, err = lr.getLine(); err != nil {
			return
		}
		if line != "" && !strings.HasPrefix(line, comment) {
			return
		}
	}
}

func (lr *lineReader) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrFormat, lr.lineNo, fmt.Sprintf(format, args...))
}

// ints parses every field of line as an integer
func (lr *lineReader) ints(line string) (vals []int, err error) {
	fields := strings.Fields(line)
	vals = make([]int, len(fields))
	for i, f := range fields {
		if vals[i], err = strconv.Atoi(f); err != nil {
			return nil, lr.errorf("integer expected, have [%s]", f)
		}
	}
	return
}

// floats parses the first n fields of line as floating point numbers
func (lr *lineReader) floats(line string, n int) (vals []float64, err error) {
	fields := strings.Fields(line)
	if len(fields) < n {
		return nil, lr.errorf("%d values expected, have [%s]", n, line)
	}
	vals = make([]float64, n)
	for i := 0; i < n; i++ {
		if vals[i], err = strconv.ParseFloat(fields[i], 64); err != nil {
			return nil, lr.errorf("number expected, have [%s]", fields[i])
		}
	}
	return
}
