package dest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrDeclined is returned when the user refuses to overwrite a file.
var ErrDeclined = errors.New("overwrite declined")

// Confirm asks on out whether name may be overwritten and reads the answer
// from in. Each attempt reads one character and discards the rest of its
// line, so an empty answer also discards the line after it. Anything other
// than Y/y or N/n re-prompts. End of input is taken as N.
//
// It returns nil to proceed and ErrDeclined otherwise. A read error other
// than io.EOF is returned as is.
func Confirm(in io.Reader, out io.Writer, name string) error {
	r := bufio.NewReader(in)

	fmt.Fprintf(out, "File [%s] exists in current directory. Overwrite? (Y/N): ", name)
	for {
		c, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out)
				return ErrDeclined
			}
			return err
		}

		// When c is the newline itself this drains the next line.
		if _, err := r.ReadString('\n'); err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		switch c {
		case 'Y', 'y':
			return nil
		case 'N', 'n':
			return ErrDeclined
		}
		fmt.Fprint(out, "Please enter Y or N: ")
	}
}
