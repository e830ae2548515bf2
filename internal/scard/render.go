package scard

import (
	"fmt"
	"strings"
)

// Hex renders a protocol value the way the C spy logs it.
func Hex(v uint32) string {
	return fmt.Sprintf("0x%08X", v)
}

// Symbol renders a value with its symbolic name from the given table,
// e.g. "SCARD_SCOPE_SYSTEM (0x00000002)". Misses render as UNKNOWN.
func Symbol(table map[uint32]string, v uint32) string {
	name, ok := table[v]
	if !ok {
		name = Unknown
	}
	return fmt.Sprintf("%s (%s)", name, Hex(v))
}

// Bitmask renders a value as the comma-joined names of its set members,
// e.g. "SCARD_PROTOCOL_T0,SCARD_PROTOCOL_T1 (0x00000003)". zeroName names
// the empty mask when non-empty; a value with no recognized member renders
// as UNKNOWN.
func Bitmask(members []Bit, v uint32, zeroName string) string {
	if v == 0 && zeroName != "" {
		return fmt.Sprintf("%s (%s)", zeroName, Hex(v))
	}
	var names []string
	for _, m := range members {
		if v&m.Mask != 0 {
			names = append(names, m.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("%s (%s)", Unknown, Hex(v))
	}
	return fmt.Sprintf("%s (%s)", strings.Join(names, ","), Hex(v))
}

// Value renders a plain numeric field in hex with the decimal alongside.
func Value(v uint32) string {
	return fmt.Sprintf("%s (%d)", Hex(v), v)
}
