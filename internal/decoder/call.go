package decoder

import (
	"fmt"

	"github.com/LudovicRousseau/PCSC-devel/internal/scard"
	"github.com/LudovicRousseau/PCSC-devel/internal/traceline"
)

// ignoredLength marks a buffer or multi-string argument the caller passed
// as NULL; no payload follows the length line.
const ignoredLength uint32 = 0xFFFFFFFF

const (
	in  = 'i'
	out = 'o'
)

// call accumulates the decoded fields of one logical call. Each typed read
// consumes exactly one further payload from the session channel (buffers
// and multi-strings consume their declared count).
type call struct {
	d      *Decoder
	name   string
	hdr    traceline.Record
	fields []Field
	// post runs after the exit record, with the success flag; SCardControl
	// uses it for feature learning and the secondary payload decodes.
	post func(success bool)
}

func (c *call) field(dir byte, label, raw, text string) {
	c.fields = append(c.fields, Field{Label: label, Raw: raw, Text: text})
	c.d.emitf(" %c %s: %s", dir, label, text)
}

// handle reads a context, card or pointer value. Diffable mode suppresses
// it since the value changes on every run.
func (c *call) handle(dir byte, label string) error {
	raw, err := c.d.payload()
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	text := raw
	if c.d.opts.Diffable {
		text = "0x??"
	}
	c.field(dir, label, raw, text)
	return nil
}

// value reads a plain numeric field, rendered as hex with the decimal
// alongside, and returns the parsed value.
func (c *call) value(dir byte, label string) (uint32, error) {
	raw, err := c.d.payload()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	v, err := traceline.ParseValue(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	c.field(dir, label, raw, scard.Value(v))
	return v, nil
}

// symbol reads a numeric field rendered through a lookup table.
func (c *call) symbol(dir byte, label string, table map[uint32]string) (uint32, error) {
	raw, err := c.d.payload()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	v, err := traceline.ParseValue(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	c.field(dir, label, raw, scard.Symbol(table, v))
	return v, nil
}

// bitmask reads a numeric field rendered as the comma-joined names of its
// set members.
func (c *call) bitmask(dir byte, label string, members []scard.Bit, zeroName string) (uint32, error) {
	raw, err := c.d.payload()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	v, err := traceline.ParseValue(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	c.field(dir, label, raw, scard.Bitmask(members, v, zeroName))
	return v, nil
}

// str reads a free-form string field (reader names, group names).
func (c *call) str(dir byte, label string) error {
	raw, err := c.d.payload()
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	c.field(dir, label, raw, raw)
	return nil
}

// buffer reads a declared byte count line, then the hex dump line holding
// exactly that many bytes. A zero or ignored count means a NULL buffer and
// consumes nothing further. A dump shorter than the declared count is
// fatal to the session.
func (c *call) buffer(dir byte, label string) ([]byte, error) {
	raw, err := c.d.payload()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	n, err := traceline.ParseValue(raw)
	if err != nil {
		return nil, fmt.Errorf("%s length: %w", label, err)
	}
	if n == 0 || n == ignoredLength {
		c.field(dir, label, raw, "(null)")
		return nil, nil
	}
	dump, err := c.d.payload()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	buf, err := traceline.ParseHex(dump)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	if uint32(len(buf)) < n {
		return nil, fmt.Errorf("%s: buffer holds %d bytes, %d declared", label, len(buf), n)
	}
	buf = buf[:n]
	c.field(dir, label, dump, fmt.Sprintf("% X (%d bytes)", buf, n))
	return buf, nil
}

// multiString reads a declared byte count, then one payload per component
// string until the count is consumed. Each string contributes its length
// plus a NUL; the count includes the final empty-string terminator.
// Overshooting the declared count is fatal to the session.
func (c *call) multiString(dir byte, label string) error {
	raw, err := c.d.payload()
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	n, err := traceline.ParseValue(raw)
	if err != nil {
		return fmt.Errorf("%s length: %w", label, err)
	}
	if n == 0 || n == ignoredLength {
		c.field(dir, label, raw, "(null)")
		return nil
	}
	c.field(dir, label, raw, fmt.Sprintf("%d bytes", n))
	want := int(n) - 1
	consumed := 0
	for i := 0; consumed < want; i++ {
		s, err := c.d.payload()
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", label, i, err)
		}
		consumed += len(s) + 1
		if consumed > want {
			return fmt.Errorf("%s[%d]: read past the declared %d bytes", label, i, n)
		}
		c.field(dir, fmt.Sprintf("%s[%d]", label, i), s, s)
	}
	return nil
}
