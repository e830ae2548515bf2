package decoder

import "github.com/LudovicRousseau/PCSC-devel/internal/scard"

type callFunc func(*call) error

// calls is the closed dispatch registry, built once. SCardControl132 is the
// pcsc-lite 1.3.2 ABI name for the same entry point and shares a decoder.
var calls = map[string]callFunc{
	"SCardEstablishContext": decodeEstablishContext,
	"SCardReleaseContext":   decodeReleaseContext,
	"SCardIsValidContext":   decodeIsValidContext,
	"SCardListReaders":      decodeListReaders,
	"SCardListReaderGroups": decodeListReaderGroups,
	"SCardGetStatusChange":  decodeGetStatusChange,
	"SCardFreeMemory":       decodeFreeMemory,
	"SCardConnect":          decodeConnect,
	"SCardReconnect":        decodeReconnect,
	"SCardDisconnect":       decodeDisconnect,
	"SCardBeginTransaction": decodeBeginTransaction,
	"SCardEndTransaction":   decodeEndTransaction,
	"SCardCancel":           decodeCancel,
	"SCardTransmit":         decodeTransmit,
	"SCardControl":          decodeControl,
	"SCardControl132":       decodeControl,
	"SCardGetAttrib":        decodeGetAttrib,
	"SCardSetAttrib":        decodeSetAttrib,
	"SCardStatus":           decodeStatus,
}

func decodeEstablishContext(c *call) error {
	if _, err := c.symbol(in, "dwScope", scard.Scopes); err != nil {
		return err
	}
	return c.handle(out, "hContext")
}

func decodeReleaseContext(c *call) error {
	return c.handle(in, "hContext")
}

func decodeIsValidContext(c *call) error {
	return c.handle(in, "hContext")
}

func decodeListReaders(c *call) error {
	if err := c.handle(in, "hContext"); err != nil {
		return err
	}
	if err := c.str(in, "mszGroups"); err != nil {
		return err
	}
	return c.multiString(out, "mszReaders")
}

func decodeListReaderGroups(c *call) error {
	if err := c.handle(in, "hContext"); err != nil {
		return err
	}
	return c.multiString(out, "mszGroups")
}

func decodeGetStatusChange(c *call) error {
	if err := c.handle(in, "hContext"); err != nil {
		return err
	}
	if _, err := c.value(in, "dwTimeout"); err != nil {
		return err
	}
	n, err := c.value(in, "cReaders")
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		if err := c.str(in, "szReader"); err != nil {
			return err
		}
		if _, err := c.bitmask(in, "dwCurrentState", scard.ReaderStates, scard.ReaderStateZero); err != nil {
			return err
		}
		if _, err := c.bitmask(out, "dwEventState", scard.ReaderStates, scard.ReaderStateZero); err != nil {
			return err
		}
		if _, err := c.buffer(out, "rgbAtr"); err != nil {
			return err
		}
	}
	return nil
}

func decodeFreeMemory(c *call) error {
	if err := c.handle(in, "hContext"); err != nil {
		return err
	}
	return c.handle(in, "pvMem")
}

func decodeConnect(c *call) error {
	if err := c.handle(in, "hContext"); err != nil {
		return err
	}
	if err := c.str(in, "szReader"); err != nil {
		return err
	}
	if _, err := c.symbol(in, "dwShareMode", scard.ShareModes); err != nil {
		return err
	}
	if _, err := c.bitmask(in, "dwPreferredProtocols", scard.Protocols, ""); err != nil {
		return err
	}
	if err := c.handle(out, "hCard"); err != nil {
		return err
	}
	_, err := c.bitmask(out, "dwActiveProtocol", scard.Protocols, "")
	return err
}

func decodeReconnect(c *call) error {
	if err := c.handle(in, "hCard"); err != nil {
		return err
	}
	if _, err := c.symbol(in, "dwShareMode", scard.ShareModes); err != nil {
		return err
	}
	if _, err := c.bitmask(in, "dwPreferredProtocols", scard.Protocols, ""); err != nil {
		return err
	}
	if _, err := c.symbol(in, "dwInitialization", scard.Dispositions); err != nil {
		return err
	}
	_, err := c.bitmask(out, "dwActiveProtocol", scard.Protocols, "")
	return err
}

func decodeDisconnect(c *call) error {
	if err := c.handle(in, "hCard"); err != nil {
		return err
	}
	_, err := c.symbol(in, "dwDisposition", scard.Dispositions)
	return err
}

func decodeBeginTransaction(c *call) error {
	return c.handle(in, "hCard")
}

func decodeEndTransaction(c *call) error {
	if err := c.handle(in, "hCard"); err != nil {
		return err
	}
	_, err := c.symbol(in, "dwDisposition", scard.Dispositions)
	return err
}

func decodeCancel(c *call) error {
	return c.handle(in, "hContext")
}

func decodeTransmit(c *call) error {
	if err := c.handle(in, "hCard"); err != nil {
		return err
	}
	if _, err := c.buffer(in, "bSendBuffer"); err != nil {
		return err
	}
	_, err := c.buffer(out, "bRecvBuffer")
	return err
}

func decodeGetAttrib(c *call) error {
	if err := c.handle(in, "hCard"); err != nil {
		return err
	}
	if _, err := c.symbol(in, "dwAttrId", scard.Attributes); err != nil {
		return err
	}
	_, err := c.buffer(out, "bAttr")
	return err
}

func decodeSetAttrib(c *call) error {
	if err := c.handle(in, "hCard"); err != nil {
		return err
	}
	if _, err := c.symbol(in, "dwAttrId", scard.Attributes); err != nil {
		return err
	}
	_, err := c.buffer(in, "bAttr")
	return err
}

func decodeStatus(c *call) error {
	if err := c.handle(in, "hCard"); err != nil {
		return err
	}
	if err := c.str(out, "szReaderName"); err != nil {
		return err
	}
	if _, err := c.bitmask(out, "dwState", scard.CardStates, ""); err != nil {
		return err
	}
	if _, err := c.bitmask(out, "dwProtocol", scard.Protocols, ""); err != nil {
		return err
	}
	_, err := c.buffer(out, "bAtr")
	return err
}
