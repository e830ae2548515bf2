package scard

// Unknown is returned by every lookup when the numeric value has no
// symbolic name in the protocol tables.
const Unknown = "UNKNOWN"

// Scopes maps SCardEstablishContext dwScope values.
var Scopes = map[uint32]string{
	0x0000: "SCARD_SCOPE_USER",
	0x0001: "SCARD_SCOPE_TERMINAL",
	0x0002: "SCARD_SCOPE_SYSTEM",
}

// ShareModes maps SCardConnect dwShareMode values.
var ShareModes = map[uint32]string{
	0x0001: "SCARD_SHARE_EXCLUSIVE",
	0x0002: "SCARD_SHARE_SHARED",
	0x0003: "SCARD_SHARE_DIRECT",
}

// Dispositions maps dwDisposition values passed to SCardDisconnect,
// SCardReconnect and SCardEndTransaction.
var Dispositions = map[uint32]string{
	0x0000: "SCARD_LEAVE_CARD",
	0x0001: "SCARD_RESET_CARD",
	0x0002: "SCARD_UNPOWER_CARD",
	0x0003: "SCARD_EJECT_CARD",
}

// Bit is one member of a protocol bitmask, in display order.
type Bit struct {
	Mask uint32
	Name string
}

// Protocols are the dwPreferredProtocols / dwActiveProtocol bitmask members.
var Protocols = []Bit{
	{0x0001, "SCARD_PROTOCOL_T0"},
	{0x0002, "SCARD_PROTOCOL_T1"},
	{0x0004, "SCARD_PROTOCOL_RAW"},
	{0x0008, "SCARD_PROTOCOL_T15"},
}

// ReaderStates are the dwCurrentState / dwEventState bitmask members used by
// SCardGetStatusChange. The zero value has its own name, SCARD_STATE_UNAWARE.
var ReaderStates = []Bit{
	{0x0001, "SCARD_STATE_IGNORE"},
	{0x0002, "SCARD_STATE_CHANGED"},
	{0x0004, "SCARD_STATE_UNKNOWN"},
	{0x0008, "SCARD_STATE_UNAVAILABLE"},
	{0x0010, "SCARD_STATE_EMPTY"},
	{0x0020, "SCARD_STATE_PRESENT"},
	{0x0040, "SCARD_STATE_ATRMATCH"},
	{0x0080, "SCARD_STATE_EXCLUSIVE"},
	{0x0100, "SCARD_STATE_INUSE"},
	{0x0200, "SCARD_STATE_MUTE"},
	{0x0400, "SCARD_STATE_UNPOWERED"},
}

// ReaderStateZero names the empty SCardGetStatusChange state bitmask.
const ReaderStateZero = "SCARD_STATE_UNAWARE"

// CardStates are the dwState bitmask members reported by SCardStatus.
var CardStates = []Bit{
	{0x0001, "SCARD_UNKNOWN"},
	{0x0002, "SCARD_ABSENT"},
	{0x0004, "SCARD_PRESENT"},
	{0x0008, "SCARD_SWALLOWED"},
	{0x0010, "SCARD_POWERED"},
	{0x0020, "SCARD_NEGOTIABLE"},
	{0x0040, "SCARD_SPECIFIC"},
}

// Attributes maps the SCardGetAttrib/SCardSetAttrib dwAttrId values defined
// by pcsc-lite. The table covers the identifiers readers actually expose;
// anything else renders as UNKNOWN.
var Attributes = map[uint32]string{
	0x00010100: "SCARD_ATTR_VENDOR_NAME",
	0x00010101: "SCARD_ATTR_VENDOR_IFD_TYPE",
	0x00010102: "SCARD_ATTR_VENDOR_IFD_VERSION",
	0x00010103: "SCARD_ATTR_VENDOR_IFD_SERIAL_NO",
	0x00020110: "SCARD_ATTR_CHANNEL_ID",
	0x00030120: "SCARD_ATTR_ASYNC_PROTOCOL_TYPES",
	0x00030121: "SCARD_ATTR_DEFAULT_CLK",
	0x00030122: "SCARD_ATTR_MAX_CLK",
	0x00030123: "SCARD_ATTR_DEFAULT_DATA_RATE",
	0x00030124: "SCARD_ATTR_MAX_DATA_RATE",
	0x00030125: "SCARD_ATTR_MAX_IFSD",
	0x00040131: "SCARD_ATTR_POWER_MGMT_SUPPORT",
	0x00060150: "SCARD_ATTR_CHARACTERISTICS",
	0x00080201: "SCARD_ATTR_CURRENT_PROTOCOL_TYPE",
	0x00080202: "SCARD_ATTR_CURRENT_CLK",
	0x00080203: "SCARD_ATTR_CURRENT_F",
	0x00080204: "SCARD_ATTR_CURRENT_D",
	0x00080207: "SCARD_ATTR_CURRENT_IFSC",
	0x00080208: "SCARD_ATTR_CURRENT_IFSD",
	0x00090300: "SCARD_ATTR_ICC_PRESENCE",
	0x00090301: "SCARD_ATTR_ICC_INTERFACE_STATUS",
	0x00090303: "SCARD_ATTR_ATR_STRING",
	0x7FFF0001: "SCARD_ATTR_DEVICE_UNIT",
	0x7FFF0002: "SCARD_ATTR_DEVICE_IN_USE",
	0x7FFF0003: "SCARD_ATTR_DEVICE_FRIENDLY_NAME",
	0x7FFF0004: "SCARD_ATTR_DEVICE_SYSTEM_NAME",
}

// ReturnCodes is the exhaustive LONG return value table from pcsclite.h.
var ReturnCodes = map[uint32]string{
	0x00000000: "SCARD_S_SUCCESS",
	0x80100001: "SCARD_F_INTERNAL_ERROR",
	0x80100002: "SCARD_E_CANCELLED",
	0x80100003: "SCARD_E_INVALID_HANDLE",
	0x80100004: "SCARD_E_INVALID_PARAMETER",
	0x80100005: "SCARD_E_INVALID_TARGET",
	0x80100006: "SCARD_E_NO_MEMORY",
	0x80100007: "SCARD_F_WAITED_TOO_LONG",
	0x80100008: "SCARD_E_INSUFFICIENT_BUFFER",
	0x80100009: "SCARD_E_UNKNOWN_READER",
	0x8010000A: "SCARD_E_TIMEOUT",
	0x8010000B: "SCARD_E_SHARING_VIOLATION",
	0x8010000C: "SCARD_E_NO_SMARTCARD",
	0x8010000D: "SCARD_E_UNKNOWN_CARD",
	0x8010000E: "SCARD_E_CANT_DISPOSE",
	0x8010000F: "SCARD_E_PROTO_MISMATCH",
	0x80100010: "SCARD_E_NOT_READY",
	0x80100011: "SCARD_E_INVALID_VALUE",
	0x80100012: "SCARD_E_SYSTEM_CANCELLED",
	0x80100013: "SCARD_F_COMM_ERROR",
	0x80100014: "SCARD_F_UNKNOWN_ERROR",
	0x80100015: "SCARD_E_INVALID_ATR",
	0x80100016: "SCARD_E_NOT_TRANSACTED",
	0x80100017: "SCARD_E_READER_UNAVAILABLE",
	0x80100018: "SCARD_P_SHUTDOWN",
	0x80100019: "SCARD_E_PCI_TOO_SMALL",
	0x8010001A: "SCARD_E_READER_UNSUPPORTED",
	0x8010001B: "SCARD_E_DUPLICATE_READER",
	0x8010001C: "SCARD_E_CARD_UNSUPPORTED",
	0x8010001D: "SCARD_E_NO_SERVICE",
	0x8010001E: "SCARD_E_SERVICE_STOPPED",
	0x8010001F: "SCARD_E_UNEXPECTED",
	0x80100020: "SCARD_E_ICC_INSTALLATION",
	0x80100021: "SCARD_E_ICC_CREATEORDER",
	0x80100022: "SCARD_E_UNSUPPORTED_FEATURE",
	0x80100023: "SCARD_E_DIR_NOT_FOUND",
	0x80100024: "SCARD_E_FILE_NOT_FOUND",
	0x80100025: "SCARD_E_NO_DIR",
	0x80100026: "SCARD_E_NO_FILE",
	0x80100027: "SCARD_E_NO_ACCESS",
	0x80100028: "SCARD_E_WRITE_TOO_MANY",
	0x80100029: "SCARD_E_BAD_SEEK",
	0x8010002A: "SCARD_E_INVALID_CHV",
	0x8010002B: "SCARD_E_UNKNOWN_RES_MNG",
	0x8010002C: "SCARD_E_NO_SUCH_CERTIFICATE",
	0x8010002D: "SCARD_E_CERTIFICATE_UNAVAILABLE",
	0x8010002E: "SCARD_E_NO_READERS_AVAILABLE",
	0x8010002F: "SCARD_E_COMM_DATA_LOST",
	0x80100030: "SCARD_E_NO_KEY_CONTAINER",
	0x80100031: "SCARD_E_SERVER_TOO_BUSY",
	0x80100065: "SCARD_W_UNSUPPORTED_CARD",
	0x80100066: "SCARD_W_UNRESPONSIVE_CARD",
	0x80100067: "SCARD_W_UNPOWERED_CARD",
	0x80100068: "SCARD_W_RESET_CARD",
	0x80100069: "SCARD_W_REMOVED_CARD",
	0x8010006A: "SCARD_W_SECURITY_VIOLATION",
	0x8010006B: "SCARD_W_WRONG_CHV",
	0x8010006C: "SCARD_W_CHV_BLOCKED",
	0x8010006D: "SCARD_W_EOF",
	0x8010006E: "SCARD_W_CANCELLED_BY_USER",
	0x8010006F: "SCARD_W_CARD_NOT_AUTHENTICATED",
}

// ReturnSuccess is the SCARD_S_SUCCESS value.
const ReturnSuccess uint32 = 0x00000000

// CMIOCTLGetFeatureRequest is SCARD_CTL_CODE(3400), the feature enumeration
// control code from PC/SC v2 part 10. A successful SCardControl with this
// code returns the TLV list that teaches the decoder the reader's other
// control codes.
const CMIOCTLGetFeatureRequest uint32 = 0x42000D48

// ControlCodes are the control codes known before any feature enumeration.
var ControlCodes = map[uint32]string{
	CMIOCTLGetFeatureRequest: "CM_IOCTL_GET_FEATURE_REQUEST",
}

// FeatureTags maps PC/SC v2 part 10 feature tags to names. The value carried
// by each TLV triple is the reader-specific control code implementing the
// feature.
var FeatureTags = map[uint32]string{
	0x01: "FEATURE_VERIFY_PIN_START",
	0x02: "FEATURE_VERIFY_PIN_FINISH",
	0x03: "FEATURE_MODIFY_PIN_START",
	0x04: "FEATURE_MODIFY_PIN_FINISH",
	0x05: "FEATURE_GET_KEY_PRESSED",
	0x06: "FEATURE_VERIFY_PIN_DIRECT",
	0x07: "FEATURE_MODIFY_PIN_DIRECT",
	0x08: "FEATURE_MCT_READER_DIRECT",
	0x09: "FEATURE_MCT_UNIVERSAL",
	0x0A: "FEATURE_IFD_PIN_PROPERTIES",
	0x0B: "FEATURE_ABORT",
	0x0C: "FEATURE_SET_SPE_MESSAGE",
	0x0D: "FEATURE_VERIFY_PIN_DIRECT_APP_ID",
	0x0E: "FEATURE_MODIFY_PIN_DIRECT_APP_ID",
	0x0F: "FEATURE_WRITE_DISPLAY",
	0x10: "FEATURE_GET_KEY",
	0x11: "FEATURE_IFD_DISPLAY_PROPERTIES",
	0x12: "FEATURE_GET_TLV_PROPERTIES",
	0x13: "FEATURE_CCID_ESC_COMMAND",
}

// TLVProperties maps the GET_TLV_PROPERTIES response tags.
var TLVProperties = map[uint32]string{
	0x01: "wLcdLayout",
	0x02: "bEntryValidationCondition",
	0x03: "bTimeOut2",
	0x04: "wLcdMaxCharacters",
	0x05: "wLcdMaxLines",
	0x06: "bMinPINSize",
	0x07: "bMaxPINSize",
	0x08: "sFirmwareID",
	0x09: "bPPDUSupport",
	0x0A: "dwMaxAPDUDataSize",
	0x0B: "wIdVendor",
	0x0C: "wIdProduct",
}
