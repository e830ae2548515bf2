package decoder

import (
	"strings"
	"testing"
)

func TestControlFeatureLearning(t *testing.T) {
	out, recs, err := runSession(t, Options{},
		// Feature enumeration: tag 0x06 (VERIFY_PIN_DIRECT), length 4,
		// control code 0x00002710 big-endian.
		">|1|0|SCardControl",
		"0xcafe",
		"0x42000D48",
		"0x0",
		"0x6",
		"06 04 00 00 27 10",
		"<|1|100|0x0",
		// The learned code now renders symbolically.
		">|1|200|SCardControl",
		"0xcafe",
		"0x2710",
		"0x0",
		"0x0",
		"<|1|300|0x0",
	)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "FEATURE_VERIFY_PIN_DIRECT: 0x00002710") {
		t.Fatalf("missing learned feature line:\n%s", out)
	}
	if !strings.Contains(out, "dwControlCode: FEATURE_VERIFY_PIN_DIRECT (0x00002710)") {
		t.Fatalf("learned control code did not render symbolically:\n%s", out)
	}
	if len(recs) != 2 {
		t.Fatalf("expected two records, got %d", len(recs))
	}
}

func TestControlLearningSessionScoped(t *testing.T) {
	// A fresh session must not know codes learned elsewhere.
	out, _, err := runSession(t, Options{},
		">|1|0|SCardControl",
		"0xcafe",
		"0x2710",
		"0x0",
		"0x0",
		"<|1|100|0x0",
	)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "dwControlCode: UNKNOWN (0x00002710)") {
		t.Fatalf("unlearned control code should render UNKNOWN:\n%s", out)
	}
}

func TestControlNoLearningOnFailure(t *testing.T) {
	out, _, err := runSession(t, Options{},
		">|1|0|SCardControl",
		"0xcafe",
		"0x42000D48",
		"0x0",
		"0x6",
		"06 04 00 00 27 10",
		"<|1|100|0x80100016",
		">|1|200|SCardControl",
		"0xcafe",
		"0x2710",
		"0x0",
		"0x0",
		"<|1|300|0x0",
	)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "dwControlCode: UNKNOWN (0x00002710)") {
		t.Fatalf("a failed enumeration must not teach control codes:\n%s", out)
	}
}

func TestControl132Alias(t *testing.T) {
	_, recs, err := runSession(t, Options{},
		">|1|0|SCardControl132",
		"0xcafe",
		"0x42000D48",
		"0x0",
		"0x6",
		"0A 04 00 00 30 39",
		"<|1|100|0x0",
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Function != "SCardControl132" {
		t.Fatalf("records: got %+v", recs)
	}
}

func TestControlMalformedFeatureBufferNonFatal(t *testing.T) {
	_, recs, err := runSession(t, Options{},
		">|1|0|SCardControl",
		"0xcafe",
		"0x42000D48",
		"0x0",
		"0x3",
		"06 04 00",
		"<|1|100|0x0",
		">|1|200|SCardBeginTransaction",
		"0xcafe",
		"<|1|300|0x0",
	)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("a short feature buffer must not kill the session, got %d records", len(recs))
	}
}

func TestControlFeatureTrailingByteNonFatal(t *testing.T) {
	// A trailing fragment after the last complete triple is reported but
	// must not lose the codes already learned or kill the session.
	out, recs, err := runSession(t, Options{},
		">|1|0|SCardControl",
		"0xcafe",
		"0x42000D48",
		"0x0",
		"0x7",
		"06 04 00 00 27 10 0A",
		"<|1|100|0x0",
		">|1|200|SCardControl",
		"0xcafe",
		"0x2710",
		"0x0",
		"0x0",
		"<|1|300|0x0",
	)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "dwControlCode: FEATURE_VERIFY_PIN_DIRECT (0x00002710)") {
		t.Fatalf("complete triples before the fragment must still teach codes:\n%s", out)
	}
	if len(recs) != 2 {
		t.Fatalf("expected two records, got %d", len(recs))
	}
}

func TestControlTLVProperties(t *testing.T) {
	out, _, err := runSession(t, Options{},
		// Learn GET_TLV_PROPERTIES (tag 0x12) as control code 0x1000.
		">|1|0|SCardControl",
		"0xcafe",
		"0x42000D48",
		"0x0",
		"0x6",
		"12 04 00 00 10 00",
		"<|1|100|0x0",
		// Query it: wIdVendor (tag 0x0B, 2 bytes LE) = 0x08E6.
		">|1|200|SCardControl",
		"0xcafe",
		"0x1000",
		"0x0",
		"0x4",
		"0B 02 E6 08",
		"<|1|300|0x0",
	)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "dwControlCode: FEATURE_GET_TLV_PROPERTIES (0x00001000)") {
		t.Fatalf("missing learned TLV properties code:\n%s", out)
	}
	if !strings.Contains(out, "wIdVendor: 2278") {
		t.Fatalf("missing decoded TLV property:\n%s", out)
	}
}

func TestControlVerifyPinDirect(t *testing.T) {
	out, _, err := runSession(t, Options{},
		">|1|0|SCardControl",
		"0xcafe",
		"0x42000D48",
		"0x0",
		"0x6",
		"06 04 00 00 27 10",
		"<|1|100|0x0",
		// PIN_VERIFY structure: timeouts 15/5, format 0x82, block 0x04,
		// length format 0x00, max extra digit 0x0408, validation 0x02,
		// messages 1, lang 0x0409, index 0, TEO prologue, 5 data bytes.
		">|1|200|SCardControl",
		"0xcafe",
		"0x2710",
		"0x18",
		"0F 05 82 04 00 08 04 02 01 09 04 00 00 00 00 05 00 00 00 20 00 00 08 00",
		"0x0",
		"<|1|300|0x0",
	)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "bTimerOut: 15") {
		t.Fatalf("missing PIN_VERIFY decode:\n%s", out)
	}
	if !strings.Contains(out, "wLangId: 0x0409") {
		t.Fatalf("missing language id:\n%s", out)
	}
	if !strings.Contains(out, "ulDataLength: 5") {
		t.Fatalf("missing data length:\n%s", out)
	}
}
