package serial

import (
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decoder turns a stream of byte chunks into valid UTF-8. A rune split across
// two reads is held back until its tail arrives.
type decoder struct {
	t       transform.Transformer
	pending []byte
}

func newDecoder() decoder {
	return decoder{t: unicode.UTF8.NewDecoder()}
}

func (d *decoder) decode(p []byte) string {
	src := p
	if len(d.pending) > 0 {
		src = append(d.pending, p...)
		d.pending = nil
	}

	// Each invalid byte expands to a 3-byte U+FFFD at most.
	dst := make([]byte, 3*len(src))
	nDst, nSrc, _ := d.t.Transform(dst, src, false)
	if nSrc < len(src) {
		d.pending = append([]byte(nil), src[nSrc:]...)
	}
	return string(dst[:nDst])
}
