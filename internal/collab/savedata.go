package collab

import "github.com/ai5run/ai5/internal/memory"

// Savedata is the collaborator reading and writing save files, each of
// which is a byte-for-byte prefix of the VM's memory image (spec §4.8
// "The save file is the memory image prefix").
type Savedata interface {
	// Read loads slot's file into buf, truncating or zero-extending to
	// len(buf).
	Read(slot string, buf []byte) error

	// Write persists buf as slot's file.
	Write(slot string, buf []byte) error

	// Exists reports whether slot has a save file.
	Exists(slot string) bool
}

// CopySaveToSave copies one save slot's bytes onto another, used by
// titles that offer a "duplicate this save" menu action (spec §4.8
// "Specialised helpers:... copy one save to another").
func CopySaveToSave(sd Savedata, srcSlot, dstSlot string, size int) error {
	buf := make([]byte, size)
	if err := sd.Read(srcSlot, buf); err != nil {
		return err
	}
	return sd.Write(dstSlot, buf)
}

// StashMESName reads just the MES-name field out of slot's save file
// without loading the whole image, used to label a save-select menu
// entry (spec §4.8 "stash/restore the MES name").
func StashMESName(sd Savedata, slot string, layout memory.Layout) (string, error) {
	buf := make([]byte, int(layout.MESNameOff+layout.MESNameLen))
	if err := sd.Read(slot, buf); err != nil {
		return "", err
	}
	img := memory.New(layout)
	copy(img.Raw(), buf)
	return img.GetCString(layout.MESNameOff, layout.MESNameLen)
}

// RestoreMESName writes just the MES-name field into slot's existing
// save file, leaving the rest of the image untouched. It is the inverse
// of StashMESName, used after a save is renamed without fully
// reloading it.
func RestoreMESName(sd Savedata, slot, name string, layout memory.Layout) error {
	buf := make([]byte, int(layout.TotalSize))
	if err := sd.Read(slot, buf); err != nil {
		return err
	}
	img := memory.New(layout)
	copy(img.Raw(), buf)
	if err := img.SetCString(layout.MESNameOff, name, layout.MESNameLen); err != nil {
		return err
	}
	return sd.Write(slot, img.Raw())
}

// UnionMergeVar4 merges src's var4 slots into dst in place: each dst
// slot becomes the bitwise OR of itself and the corresponding src slot
// (spec §4.8 "Specialised helpers: union-merge var4 ranges"), used by
// titles that accumulate a "have seen this event in any save" flag set
// across saves.
func UnionMergeVar4(dst, src *memory.Image, count uint32) error {
	for i := uint32(0); i < count; i++ {
		dv, err := dst.GetVar4(i)
		if err != nil {
			return err
		}
		sv, err := src.GetVar4(i)
		if err != nil {
			return err
		}
		if err := dst.SetVar4(i, dv|sv); err != nil {
			return err
		}
	}
	return nil
}
