package vkframe

import (
	"unsafe"
)

var end = "\x00"
var endChar byte = '\x00'

// ToBytes takes an unsafe.Pointer and a length in bytes and returns a byte
// slice over the same memory.
func ToBytes(ptr unsafe.Pointer, lenInBytes int) []byte {
	return unsafe.Slice((*byte)(ptr), lenInBytes)
}

// safeString null terminates s for the C side.
func safeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

func safeStrings(list []string) []string {
	ret := make([]string, len(list))
	for i := range list {
		ret[i] = safeString(list[i])
	}
	return ret
}
