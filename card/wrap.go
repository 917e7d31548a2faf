package card

import (
	"strings"
	"unicode"
)

// AddressPlaceholder is rendered when a record carries no address.
const AddressPlaceholder = "Address not provided"

// WrapAddress splits a free-text address into two display lines of at most
// lineWidth runes each, preferring to break at the rightmost whitespace at or
// before the width limit. When no whitespace exists in range the address is
// hard-split at lineWidth. Text longer than two lines is not wrapped further;
// truncation is the renderer's concern.
func WrapAddress(address string, lineWidth int) (string, string) {
	address = strings.TrimSpace(address)
	if address == "" {
		return AddressPlaceholder, ""
	}

	runes := []rune(address)
	if len(runes) <= lineWidth {
		return address, ""
	}

	split := -1
	for i := lineWidth; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			split = i
			break
		}
	}
	if split == -1 {
		split = lineWidth
	}

	line1 := strings.TrimSpace(string(runes[:split]))
	line2 := strings.TrimSpace(string(runes[split:]))
	return line1, line2
}
