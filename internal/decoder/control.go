package decoder

import (
	"encoding/binary"

	"github.com/rs/zerolog/log"

	"github.com/LudovicRousseau/PCSC-devel/internal/scard"
	"github.com/LudovicRousseau/PCSC-devel/internal/traceline"
)

// decodeControl handles SCardControl and its SCardControl132 alias. On a
// successful return the response (or request) payload gets a secondary
// decode: feature enumeration teaches this session new control codes, and
// the learned PIN-related codes have fixed layouts worth expanding.
func decodeControl(c *call) error {
	if err := c.handle(in, "hCard"); err != nil {
		return err
	}
	code, err := c.controlCode()
	if err != nil {
		return err
	}
	send, err := c.buffer(in, "bSendBuffer")
	if err != nil {
		return err
	}
	recv, err := c.buffer(out, "bRecvBuffer")
	if err != nil {
		return err
	}
	c.post = func(success bool) {
		if !success {
			return
		}
		c.d.controlCompleted(code, send, recv)
	}
	return nil
}

// controlCode reads dwControlCode, resolving it first through the
// well-known table and then through this session's learned codes.
func (c *call) controlCode() (uint32, error) {
	raw, err := c.d.payload()
	if err != nil {
		return 0, err
	}
	v, err := traceline.ParseValue(raw)
	if err != nil {
		return 0, err
	}
	name, ok := scard.ControlCodes[v]
	if !ok {
		name, ok = c.d.learned[v]
	}
	if !ok {
		name = scard.Unknown
	}
	c.field(in, "dwControlCode", raw, name+" ("+scard.Hex(v)+")")
	return v, nil
}

func (d *Decoder) controlCompleted(code uint32, send, recv []byte) {
	if code == scard.CMIOCTLGetFeatureRequest {
		d.learnFeatures(recv)
		return
	}
	switch d.learned[code] {
	case "FEATURE_GET_TLV_PROPERTIES":
		d.decodeTLVProperties(recv)
	case "FEATURE_IFD_PIN_PROPERTIES":
		d.decodePinProperties(recv)
	case "FEATURE_VERIFY_PIN_DIRECT":
		d.decodeVerifyPinDirect(send)
	}
}

// learnFeatures parses a feature enumeration response: (tag, length,
// big-endian 32-bit control code) triples. Each recognized tag registers
// the discovered control code in this session's table so later
// SCardControl calls render it symbolically. Malformed triples are
// reported and the rest of the buffer skipped; the call itself stands.
func (d *Decoder) learnFeatures(buf []byte) {
	i := 0
	for i+2 <= len(buf) {
		tag := uint32(buf[i])
		length := int(buf[i+1])
		i += 2
		if length != 4 || i+length > len(buf) {
			log.Warn().Str("thread", d.threadID).Int("offset", i-2).Msg("malformed feature TLV, skipping rest of buffer")
			return
		}
		value := binary.BigEndian.Uint32(buf[i : i+4])
		i += 4
		name, ok := scard.FeatureTags[tag]
		if !ok {
			log.Warn().Str("thread", d.threadID).Uint32("tag", tag).Msg("unknown feature tag")
			continue
		}
		d.learned[value] = name
		d.emitf("   %s: %s", name, scard.Hex(value))
	}
	if i != len(buf) {
		log.Warn().Str("thread", d.threadID).Int("offset", i).Msg("malformed feature TLV, trailing bytes ignored")
	}
}

// decodeTLVProperties expands a GET_TLV_PROPERTIES response: (tag, length,
// little-endian integer value) triples. A short buffer is reported, not
// fatal.
func (d *Decoder) decodeTLVProperties(buf []byte) {
	for i := 0; i+2 <= len(buf); {
		tag := uint32(buf[i])
		length := int(buf[i+1])
		i += 2
		if i+length > len(buf) {
			log.Warn().Str("thread", d.threadID).Int("offset", i-2).Msg("TLV properties buffer too short")
			return
		}
		name, ok := scard.TLVProperties[tag]
		if !ok {
			name = scard.Unknown
		}
		switch length {
		case 1:
			d.emitf("   %s: %d", name, buf[i])
		case 2:
			d.emitf("   %s: %d", name, binary.LittleEndian.Uint16(buf[i:i+2]))
		case 4:
			d.emitf("   %s: %d", name, binary.LittleEndian.Uint32(buf[i:i+4]))
		default:
			d.emitf("   %s: % X", name, buf[i:i+length])
		}
		i += length
	}
}

// decodePinProperties expands a PIN_PROPERTIES structure.
func (d *Decoder) decodePinProperties(buf []byte) {
	if len(buf) < 4 {
		log.Warn().Str("thread", d.threadID).Int("len", len(buf)).Msg("PIN properties buffer too short")
		return
	}
	d.emitf("   wLcdLayout: 0x%04X", binary.LittleEndian.Uint16(buf[0:2]))
	d.emitf("   bEntryValidationCondition: %d", buf[2])
	d.emitf("   bTimeOut2: %d", buf[3])
}

// decodeVerifyPinDirect expands the PIN_VERIFY structure sent with a
// verify-PIN-direct control.
func (d *Decoder) decodeVerifyPinDirect(buf []byte) {
	if len(buf) < 19 {
		log.Warn().Str("thread", d.threadID).Int("len", len(buf)).Msg("PIN_VERIFY buffer too short")
		return
	}
	d.emitf("   bTimerOut: %d", buf[0])
	d.emitf("   bTimerOut2: %d", buf[1])
	d.emitf("   bmFormatString: 0x%02X", buf[2])
	d.emitf("   bmPINBlockString: 0x%02X", buf[3])
	d.emitf("   bmPINLengthFormat: 0x%02X", buf[4])
	d.emitf("   wPINMaxExtraDigit: 0x%04X", binary.LittleEndian.Uint16(buf[5:7]))
	d.emitf("   bEntryValidationCondition: 0x%02X", buf[7])
	d.emitf("   bNumberMessage: %d", buf[8])
	d.emitf("   wLangId: 0x%04X", binary.LittleEndian.Uint16(buf[9:11]))
	d.emitf("   bMsgIndex: %d", buf[11])
	d.emitf("   bTeoPrologue: % X", buf[12:15])
	dataLen := binary.LittleEndian.Uint32(buf[15:19])
	d.emitf("   ulDataLength: %d", dataLen)
	if int(dataLen) <= len(buf)-19 {
		d.emitf("   abData: % X", buf[19:19+int(dataLen)])
	}
}
