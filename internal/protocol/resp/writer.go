package resp

import (
	"bufio"
	"bytes"
	"strconv"
)

// Encode returns the RESP2 wire form of r.
func Encode(r Reply) []byte {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	_ = WriteReply(w, r)
	_ = w.Flush()
	return buf.Bytes()
}

// WriteReply writes r in RESP2 wire form. Verbatim replies are sent as bulk strings.
func WriteReply(w *bufio.Writer, r Reply) error {
	switch r.Kind {
	case KindStatus:
		return WriteSimpleString(w, r.Str)
	case KindError:
		return WriteError(w, r.Str)
	case KindInteger:
		return WriteInteger(w, r.Int)
	case KindBulk, KindVerbatim:
		return WriteBulkString(w, r.Str)
	case KindNil:
		return WriteNullBulk(w)
	case KindArray:
		if err := WriteArrayHeader(w, len(r.Items)); err != nil {
			return err
		}
		for _, item := range r.Items {
			if err := WriteReply(w, item); err != nil {
				return err
			}
		}
		return nil
	default:
		return WriteNullBulk(w)
	}
}

func WriteSimpleString(w *bufio.Writer, s string) error {
	_, err := w.WriteString("+" + s + "\r\n")
	return err
}

func WriteError(w *bufio.Writer, s string) error {
	_, err := w.WriteString("-" + s + "\r\n")
	return err
}

func WriteInteger(w *bufio.Writer, n int64) error {
	_, err := w.WriteString(":" + strconv.FormatInt(n, 10) + "\r\n")
	return err
}

func WriteNullBulk(w *bufio.Writer) error {
	_, err := w.WriteString("$-1\r\n")
	return err
}

func WriteBulk(w *bufio.Writer, b []byte) error {
	if b == nil {
		return WriteNullBulk(w)
	}
	if _, err := w.WriteString("$" + strconv.Itoa(len(b)) + "\r\n"); err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err := w.WriteString("\r\n")
	return err
}

func WriteBulkString(w *bufio.Writer, s string) error {
	return WriteBulk(w, []byte(s))
}

func WriteArrayHeader(w *bufio.Writer, n int) error {
	_, err := w.WriteString("*" + strconv.Itoa(n) + "\r\n")
	return err
}
