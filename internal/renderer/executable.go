package renderer

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"
)

// maxPeek bounds how much of the input file is read to classify it
const maxPeek = 512

var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

// LooksExecutable reports whether a file should keep its executable bit on
// the target. head is the beginning of the file, name its file name.
func LooksExecutable(head []byte, name string) bool {
	if bytes.HasPrefix(head, elfMagic) {
		return true
	}
	if bytes.HasPrefix(head, []byte("#!")) {
		return true
	}
	return strings.HasSuffix(name, ".sh")
}

// PeekHeader returns the first line of path, at most maxPeek bytes.
// Unreadable files yield nil.
func PeekHeader(path string) []byte {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	line, err := bufio.NewReaderSize(io.LimitReader(f, maxPeek), maxPeek).ReadSlice('\n')
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil
	}
	return append([]byte(nil), line...)
}

// AppendChmod appends a chmod of outputFile to command
func AppendChmod(command, outputFile string) string {
	return command + "; chmod +x " + outputFile
}
