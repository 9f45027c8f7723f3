package keywords

import (
	"bufio"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// Encode writes one keyword per line, each terminated by a newline, in the
// given order.
func Encode(w io.Writer, keywords []string) error {
	bw := bufio.NewWriter(w)
	for _, k := range keywords {
		if _, err := bw.WriteString(k); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads keywords line by line. Lines that are blank after trimming are
// skipped; other lines are kept as written, minus the line terminator. Decode
// never fails: a read error ends decoding and whatever was read so far is
// returned.
func Decode(r io.Reader) []string {
	keywords, _ := decode(r)
	return keywords
}

// decode is Decode that also reports a read error other than io.EOF.
func decode(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var keywords []string
	first := true
	for {
		line, err := br.ReadString('\n')
		if first {
			line = strings.TrimPrefix(line, utf8BOM)
			first = false
		}
		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if strings.TrimSpace(line) != "" {
			keywords = append(keywords, line)
		}
		if err == io.EOF {
			return keywords, nil
		}
		if err != nil {
			return keywords, err
		}
	}
}
