// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package runzip

// cp437High maps bytes 0x80-0xFF to their CP-437 code points. Bytes below
// 0x80 coincide with ASCII, which is the overwhelming common case for
// archive names and needs no table lookup.
var cp437High = [128]rune{
	'Ç', 'ü', 'é', 'â', 'ä', 'à', 'å', 'ç',
	'ê', 'ë', 'è', 'ï', 'î', 'ì', 'Ä', 'Å',
	'É', 'æ', 'Æ', 'ô', 'ö', 'ò', 'û', 'ù',
	'ÿ', 'Ö', 'Ü', '¢', '£', '¥', '₧', 'ƒ',
	'á', 'í', 'ó', 'ú', 'ñ', 'Ñ', 'ª', 'º',
	'¿', '⌐', '¬', '½', '¼', '¡', '«', '»',
	'░', '▒', '▓', '│', '┤', '╡', '╢', '╖',
	'╕', '╣', '║', '╗', '╝', '╜', '╛', '┐',
	'└', '┴', '┬', '├', '─', '┼', '╞', '╟',
	'╚', '╔', '╩', '╦', '╠', '═', '╬', '╧',
	'╨', '╤', '╥', '╙', '╘', '╒', '╓', '╫',
	'╪', '┘', '┌', '█', '▄', '▌', '▐', '▀',
	'α', 'ß', 'Γ', 'π', 'Σ', 'σ', 'µ', 'τ',
	'Φ', 'Θ', 'Ω', 'δ', '∞', 'φ', 'ε', '∩',
	'≡', '±', '≥', '≤', '⌠', '⌡', '÷', '≈',
	'°', '∙', '·', '√', 'ⁿ', '²', '■', ' ',
}

// decodeCP437 decodes a legacy (non-UTF-8) ZIP entry name, per spec.md §3's
// rule that names without general-purpose bit 11 set use CP-437.
func decodeCP437(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		if b < 0x80 {
			runes[i] = rune(b)
		} else {
			runes[i] = cp437High[b-0x80]
		}
	}

	return string(runes)
}
