// Package numeral converts Chinese numeral tokens (一, 十二, 一百零五, …) to
// integers for chapter, section, and article numbering.
package numeral

// baseDigits maps the base digit characters 零 through 九 to their values.
var baseDigits = map[rune]int{
	'零': 0, '一': 1, '二': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// unitValues maps the positional unit characters to their multipliers.
// 万 is treated as an ordinary multiplier, not the start of a new magnitude
// group; statute numbering stays in the low thousands, where both readings
// agree.
var unitValues = map[rune]int{
	'十': 10, '百': 100, '千': 1000, '万': 10000,
}

// Convert parses a Chinese numeral token and returns its integer value.
//
// The scan is a single left-to-right pass: a base digit sets the pending
// digit, a unit multiplies the pending digit (defaulting to 1 when none is
// pending, so 十二 is 12 and 百 is 100) and adds it to the running total,
// and 零 is a positional placeholder contributing nothing. Unrecognized
// characters are skipped. An empty or fully unrecognized token converts
// to 0 rather than reporting an error; callers treat 0 as "no number".
//
//	Convert("十")    == 10
//	Convert("二十")  == 20
//	Convert("一百零五") == 105
func Convert(token string) int {
	total := 0
	pending := 0

	for index, char := range token {
		if digit, ok := baseDigits[char]; ok {
			if digit == 0 {
				// 零 is a placeholder between positions.
				continue
			}
			pending = digit
			continue
		}

		if unit, ok := unitValues[char]; ok {
			// A leading 十 means exactly ten: 十二 is 12, not 112.
			if char == '十' && index == 0 {
				pending = 1
			}
			if pending == 0 {
				pending = 1
			}
			total += pending * unit
			pending = 0
			continue
		}

		// Unknown character: skip it.
	}

	total += pending
	if total < 0 {
		return 0
	}
	return total
}
