package domain

// Units that have been merged into another unit. An empty target means the
// task system picks the unit from its own routing rules.
var enhetsnrRemap = map[string]string{
	"4708": "4707",
	"4709": "4710",
	"4717": "4716",
	"4720": "4719",
	"1190": "",
}

// RemapEnhetsnr returns the current code for a deprecated unit, or the input
// unchanged. The second result reports whether a remap happened.
func RemapEnhetsnr(enhetsnr string) (string, bool) {
	remapped, ok := enhetsnrRemap[enhetsnr]
	if !ok {
		return enhetsnr, false
	}
	return remapped, true
}
