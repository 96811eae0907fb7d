package ancient

// FourCC packs a 4-character ASCII tag into the big-endian uint32 form
// used by header detectors, e.g. FourCC("ziRC").
func FourCC(tag string) uint32 {
	_ = tag[3]
	return uint32(tag[0])<<24 | uint32(tag[1])<<16 | uint32(tag[2])<<8 | uint32(tag[3])
}
