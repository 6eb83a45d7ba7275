package codes

import "strings"

const (
	datePrefix  = `[-/.]?\b`
	dateSuffix  = `\b[-/.]?`
	daySuffix   = `(st|nd|rd|th)?\b[-/.]?`
	clockPrefix = `:?\b`
	hourSuffix  = `\b:?`
	clockSuffix = `(am|pm)?\b:?`
	weekPrefix  = `\b(cw|wk)?`
	weekSuffix  = `(cw|wk)?\b`
	word        = `\b`
)

var (
	weekdayAbbr = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}
	weekdayFull = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	monthAbbr   = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}
	monthFull   = []string{"january", "february", "march", "april", "may", "june", "july", "august",
		"september", "october", "november", "december"}

	timezones = []string{
		"acdt", "acst", "act", "acwst", "adt", "aedt", "aest", "aft", "akdt", "akst", "almt", "amst", "amt",
		"anat", "aqtt", "art", "ast", "awst", "azost", "azot", "azt", "bnt", "biot", "bit", "bot", "brst",
		"brt", "bst", "btt", "cat", "cct", "cdt", "cest", "cet", "chadt", "chast", "chot", "chost", "chst",
		"chut", "cist", "ckt", "clst", "clt", "cost", "cot", "cst", "cvt", "cwst", "cxt", "davt", "ddut",
		"dft", "easst", "east", "eat", "ect", "edt", "eest", "eet", "egst", "egt", "est", "fet", "fjt",
		"fkst", "fkt", "fnt", "galt", "gamt", "get", "gft", "gilt", "git", "gmt", "gst", "gyt", "hdt",
		"haec", "hst", "hkt", "hmt", "hovst", "hovt", "ict", "idlw", "idt", "iot", "irdt", "irkt", "irst",
		"ist", "jst", "kalt", "kgt", "kost", "krat", "kst", "lhst", "lint", "magt", "mart", "mawt", "mdt",
		"met", "mest", "mht", "mist", "mit", "mmt", "msk", "mst", "mut", "mvt", "myt", "nct", "ndt", "nft",
		"novt", "npt", "nst", "nt", "nut", "nzdt", "nzst", "omst", "orat", "pdt", "pet", "pett", "pgt",
		"phot", "pht", "phst", "pkt", "pmdt", "pmst", "pont", "pst", "pwt", "pyst", "pyt", "ret", "rott",
		"sakt", "samt", "sast", "sbt", "sct", "sdt", "sgt", "slst", "sret", "srt", "sst", "syot", "taht",
		"tha", "tft", "tjt", "tkt", "tlt", "tmt", "trt", "tot", "tst", "tvt", "ulast", "ulat", "utc",
		"uyst", "uyt", "uzt", "vet", "vlat", "volt", "vost", "vut", "wakt", "wast", "wat", "west", "wet",
		"wib", "wit", "wita", "wgst", "wgt", "wst", "yakt", "yekt",
	}
)

// defaultCodes lists the supported codes. Order is significant: it is the
// secondary tie-break when two codes match a segment equally well.
var defaultCodes = []Code{
	{Code: "%a", Description: "Weekday as locale's abbreviated name.", Example: "Sun",
		Type: WeekdayName, Prefix: word, Suffix: word, Regex: strings.Join(weekdayAbbr, "|")},
	{Code: "%A", Description: "Weekday as locale's full name.", Example: "Sunday",
		Type: WeekdayName, Prefix: word, Suffix: word, Regex: strings.Join(weekdayFull, "|")},
	{Code: "%b", Description: "Month as locale's abbreviated name.", Example: "Sep",
		Type: MonthName, Prefix: word, Suffix: word, Regex: strings.Join(monthAbbr, "|")},
	{Code: "%B", Description: "Month as locale's full name.", Example: "September",
		Type: MonthName, Prefix: word, Suffix: word, Regex: strings.Join(monthFull, "|")},
	{Code: "%m", Description: "Month as a zero-padded decimal number.", Example: "09",
		Type: MonthNum, Prefix: datePrefix, Suffix: dateSuffix, Regex: `0[1-9]|1[0-2]`},
	{Code: "%-m", Description: "Month as a decimal number. (Platform specific)", Example: "9",
		Type: MonthNum, Prefix: datePrefix, Suffix: dateSuffix, Regex: `[1-9]|1[0-2]`},
	{Code: "%Y", Description: "Year with century as a decimal number.", Example: "2013",
		Type: Year, Prefix: datePrefix, Suffix: dateSuffix, Regex: `\d{4}`},
	{Code: "%d", Description: "Day of the month as a zero-padded decimal number.", Example: "08",
		Type: MonthdayNum, Prefix: datePrefix, Suffix: daySuffix, Regex: `0[1-9]|[1-2][0-9]|3[0-1]`},
	{Code: "%-d", Description: "Day of the month as a decimal number. (Platform specific)", Example: "8",
		Type: MonthdayNum, Prefix: datePrefix, Suffix: daySuffix, Regex: `[1-9]|[1-2][0-9]|3[0-1]`},
	{Code: "%H", Description: "Hour (24-hour clock) as a zero-padded decimal number.", Example: "07",
		Type: Hours, Prefix: clockPrefix, Suffix: hourSuffix, Regex: `0[0-9]|1[0-9]|2[0-3]`},
	{Code: "%-H", Description: "Hour (24-hour clock) as a decimal number. (Platform specific)", Example: "7",
		Type: Hours, Prefix: clockPrefix, Suffix: hourSuffix, Regex: `[0-9]|1[0-9]|2[0-3]`},
	{Code: "%I", Description: "Hour (12-hour clock) as a zero-padded decimal number.", Example: "07",
		Type: Hours, Prefix: clockPrefix, Suffix: clockSuffix, Regex: `0[1-9]|1[0-2]`},
	{Code: "%-I", Description: "Hour (12-hour clock) as a decimal number. (Platform specific)", Example: "7",
		Type: Hours, Prefix: clockPrefix, Suffix: clockSuffix, Regex: `[1-9]|1[0-2]`},
	{Code: "%p", Description: "Locale's equivalent of either AM or PM.", Example: "AM",
		Type: AmPm, Prefix: word, Suffix: word, Regex: `am|pm`},
	{Code: "%M", Description: "Minute as a zero-padded decimal number.", Example: "06",
		Type: Minutes, Prefix: clockPrefix, Suffix: clockSuffix, Regex: `0[0-9]|[1-5][0-9]`},
	{Code: "%-M", Description: "Minute as a decimal number. (Platform specific)", Example: "6",
		Type: Minutes, Prefix: clockPrefix, Suffix: clockSuffix, Regex: `[0-9]|[1-5][0-9]`},
	{Code: "%S", Description: "Second as a zero-padded decimal number.", Example: "05",
		Type: Seconds, Prefix: clockPrefix, Suffix: clockSuffix, Regex: `0[0-9]|[1-5][0-9]`},
	{Code: "%-S", Description: "Second as a decimal number. (Platform specific)", Example: "5",
		Type: Seconds, Prefix: clockPrefix, Suffix: clockSuffix, Regex: `[0-9]|[1-5][0-9]`},
	{Code: "%f", Description: "Microsecond as a decimal number, zero-padded to 6 digits.", Example: "000000",
		Type: Microseconds, Prefix: `[.:]?\b`, Suffix: word, Regex: `\d{6}`},
	{Code: "%Z", Description: "Time zone name (empty string if the object is naive).", Example: "UTC",
		Type: Timezone, Prefix: word, Suffix: word, Regex: strings.Join(timezones, "|")},
	{Code: "%j", Description: "Day of the year as a zero-padded decimal number.", Example: "251",
		Type: Yearday, Prefix: word, Suffix: word, Regex: `00[1-9]|0[1-9]\d|[1-2]\d\d|3[0-5]\d|36[0-6]`},
	{Code: "%-j", Description: "Day of the year as a decimal number. (Platform specific)", Example: "251",
		Type: Yearday, Prefix: word, Suffix: word, Regex: `[1-9]|[1-9]\d|[1-2]\d\d|3[0-5]\d|36[0-6]`},
	{Code: "%U", Description: "Week number of the year (Sunday as the first day of the week) as a zero-padded decimal number.",
		Example: "36", Type: WeekNum, Prefix: weekPrefix, Suffix: weekSuffix, Regex: `0\d|[1-4]\d|5[0-3]`},
	{Code: "%-U", Description: "Week number of the year (Sunday as the first day of the week) as a decimal number. (Platform specific)",
		Example: "36", Type: WeekNum, Prefix: weekPrefix, Suffix: weekSuffix, Regex: `\d|[1-4]\d|5[0-3]`},
	{Code: "%W", Description: "Week number of the year (Monday as the first day of the week) as a zero-padded decimal number.",
		Example: "35", Type: WeekNum, Prefix: weekPrefix, Suffix: weekSuffix, Regex: `0\d|[1-4]\d|5[0-3]`},
	{Code: "%-W", Description: "Week number of the year (Monday as the first day of the week) as a decimal number. (Platform specific)",
		Example: "35", Type: WeekNum, Prefix: weekPrefix, Suffix: weekSuffix, Regex: `\d|[1-4]\d|5[0-3]`},
	{Code: "%w", Description: "Weekday as a decimal number, where 0 is Sunday and 6 is Saturday.", Example: "0",
		Type: WeekdayNum, Prefix: word, Suffix: word, Regex: `[0-6]`},
	{Code: "%y", Description: "Year without century as a zero-padded decimal number.", Example: "13",
		Type: Year, Prefix: datePrefix, Suffix: dateSuffix, Regex: `\d\d`},
	{Code: "%%", Description: "A literal '%' character.", Example: "%",
		Type: Literal, Prefix: word, Suffix: word, Regex: `%`},
}

var defaultIgnorable = []string{"cw", "wk", "day", "week", "time"}

var dateSeparators = []string{"-", ".", "/", ","}

// numericDates expands the three numeric field orders over every separator:
// Y-m-d, d-m-Y and m-d-Y.
func numericDates(year, day string) []string {
	var out []string
	orders := [][3]string{{year, "%m", day}, {day, "%m", year}, {"%m", day, year}}
	for _, o := range orders {
		for _, sep := range dateSeparators {
			out = append(out, o[0]+sep+o[1]+sep+o[2])
		}
	}
	return out
}

// namedDates expands the named-month layouts for one month code.
func namedDates(month string) []string {
	out := []string{
		month + " %d, %Y", month + " %-d, %Y", month + " %d %Y", month + " %-d %Y",
		"%d " + month + " %Y", "%-d " + month + " %Y",
	}
	for _, year := range []string{"%Y", "%y"} {
		for _, day := range []string{"%d", "%-d"} {
			orders := [][3]string{{month, day, year}, {day, month, year}, {year, month, day}}
			for _, o := range orders {
				for _, sep := range dateSeparators {
					out = append(out, o[0]+sep+o[1]+sep+o[2])
				}
			}
		}
	}
	return out
}

func defaultDateFormats() []string {
	var out []string
	for _, year := range []string{"%Y", "%y"} {
		for _, day := range []string{"%d", "%-d"} {
			out = append(out, numericDates(year, day)...)
		}
	}
	out = append(out, namedDates("%B")...)
	return append(out, namedDates("%b")...)
}

// defaultTimeFormats orders layouts most specific first so that a shorter
// layout never claims the prefix of a longer one.
func defaultTimeFormats() []string {
	var out []string
	clockSeps := []string{":", "."}
	hours12 := []string{"%I", "%-I"}
	hours24 := []string{"%H", "%-H"}
	minutes := []string{"%M", "%-M"}

	for _, h := range hours24 {
		out = append(out, h+":%M:%S.%f")
	}
	for _, gap := range []string{" ", ""} {
		for _, h := range hours12 {
			for _, m := range minutes {
				for _, sep := range clockSeps {
					out = append(out, h+sep+m+sep+"%S"+gap+"%p")
				}
			}
		}
	}
	for _, h := range hours24 {
		for _, m := range minutes {
			for _, sep := range clockSeps {
				out = append(out, h+sep+m+sep+"%S")
			}
		}
	}
	for _, gap := range []string{" ", ""} {
		for _, h := range hours12 {
			for _, m := range minutes {
				for _, sep := range clockSeps {
					out = append(out, h+sep+m+gap+"%p")
				}
			}
		}
	}
	for _, h := range hours24 {
		for _, m := range minutes {
			for _, sep := range clockSeps {
				out = append(out, h+sep+m)
			}
		}
	}
	return append(out, "%I%p", "%-I%p", "%I %p", "%-I %p")
}

var defaultTable = NewTable(defaultCodes, defaultDateFormats(), defaultTimeFormats(), defaultIgnorable)

// Default returns the built-in code table. It is shared and immutable.
func Default() *Table {
	return defaultTable
}
