package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one text to translate.
type Entry struct {
	Line int // first line of the block, 1-based
	Text string
}

// ReadBatchFile reads texts from a file. See Parse for the format.
func ReadBatchFile(filename string) ([]Entry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return entries, nil
}

// Parse splits r into entries. Blocks of consecutive non-blank lines form
// one entry, so a paragraph spanning several lines is translated as a
// whole. Lines starting with '#' are comments. Trailing whitespace and
// carriage returns are stripped; leading indentation inside a block is kept.
func Parse(r io.Reader) ([]Entry, error) {
	var (
		entries []Entry
		block   []string
		start   int
	)

	flush := func() {
		if len(block) > 0 {
			entries = append(entries, Entry{Line: start, Text: strings.Join(block, "\n")})
			block = nil
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r\u3000")

		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if len(block) == 0 {
			start = lineNo
			line = strings.TrimLeft(line, " \t\ufeff")
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return entries, nil
}
