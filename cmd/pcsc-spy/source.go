package main

import (
	"bufio"
	"io"
	"strings"
)

// fileSource adapts a fifo or recorded trace file to the blocking
// line-read boundary the demultiplexer expects.
type fileSource struct {
	r *bufio.Reader
}

func newFileSource(r io.Reader) *fileSource {
	return &fileSource{r: bufio.NewReader(r)}
}

func (s *fileSource) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil {
		if err == io.EOF && line != "" {
			return line, nil
		}
		return "", err
	}
	return line, nil
}
