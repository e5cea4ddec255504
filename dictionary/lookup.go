package dictionary

import (
	"github.com/tidwall/gjson"

	"github.com/minios-linux/litgen/termkey"
)

// Slot describes what a raw dictionary currently holds at a ref.
type Slot int

const (
	// SlotEmpty: the object group does not exist.
	SlotEmpty Slot = iota
	// SlotNewTerm: the group exists but has no such term.
	SlotNewTerm
	// SlotTerm: the term exists.
	SlotTerm
	// SlotConflict: the object key holds something other than a mapping.
	SlotConflict
)

// Lookup inspects raw JSON without decoding the whole document. value is
// the string form of the term when slot is SlotTerm.
func Lookup(data []byte, ref termkey.Ref) (value string, slot Slot) {
	group := gjson.GetBytes(data, ref.Object)
	if !group.Exists() {
		return "", SlotEmpty
	}
	if !group.IsObject() {
		return "", SlotConflict
	}
	term := group.Get(ref.Term)
	if !term.Exists() {
		return "", SlotNewTerm
	}
	return term.String(), SlotTerm
}
