package recognizer

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"strfhint/internal/codes"
)

var decodeCases = []struct {
	text string
	want string
}{
	{"7:20 PM", "%-I:%M %p"},
	{"2023-11-21, 7:20 PM", "%Y-%m-%d, %-I:%M %p"},
	{"2022-04-12, sunday, 14:30", "%Y-%m-%d, %A, %H:%M"},
	{"March 11th 2023 9:30 PM", "%B %dth %Y %-I:%M %p"},
	{"WK30, 2023", "WK%U, %Y"},
	{"(22:13), today is tuesday, 18 Mar 2021", "(%H:%M), today is %A, %d %b %Y"},
	{"19:19:19.100000", "%H:%M:%S.%f"},
	{"Day: Sunday, 2022-Nov-30, 9:30 PM", "Day: %A, %Y-%b-%d, %-I:%M %p"},
	{"day: Tue 2023-NOV-06 time: 17:20:50", "day: %a %Y-%b-%d time: %H:%M:%S"},
	{"07:20pm CW20", "%I:%M%p CW%U"},
	{"mar 2021", "%b %Y"},
	{"12:00:00 AM UTC", "%I:%M:%S %p %Z"},
	{"11:20 PM", "%I:%M %p"},
	{"at 9pm sharp, 20pm", "at %-I%p sharp, %Mpm"},
	{"07h20pm", "%mh%d%p"},
	{"no timestamp here", "no timestamp here"},
	{"", ""},
}

func TestDecode(t *testing.T) {
	engine := New(codes.Default())

	for _, tt := range decodeCases {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Decode(tt.text))
		})
	}
}

func TestDecodeResult(t *testing.T) {
	engine := New(codes.Default())

	tests := []struct {
		text  string
		mask  string
		types []codes.FieldType
	}{
		{
			text:  "7:20 PM",
			mask:  "111111111",
			types: []codes.FieldType{codes.Hours, codes.Minutes, codes.AmPm},
		},
		{
			text: "2023-11-21, 7:20 PM",
			mask: "1111111100111111111",
			types: []codes.FieldType{
				codes.Year, codes.MonthNum, codes.MonthdayNum,
				codes.Hours, codes.Minutes, codes.AmPm,
			},
		},
		{
			text: "2022-04-12, sunday, 14:30",
			mask: "11111111" + "00" + "11" + "00" + "11111",
			types: []codes.FieldType{
				codes.Year, codes.MonthNum, codes.MonthdayNum,
				codes.Hours, codes.Minutes, codes.WeekdayName,
			},
		},
		{
			text:  "WK30, 2023",
			mask:  "00110011",
			types: []codes.FieldType{codes.WeekNum, codes.Year},
		},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := engine.DecodeResult(tt.text)
			assert.Equal(t, tt.mask, res.Mask)
			assert.Equal(t, tt.types, res.Types)
			assert.Len(t, res.Mask, len(res.Format))
		})
	}
}

func TestDecodeResultBindings(t *testing.T) {
	res := New(codes.Default()).DecodeResult("WK30, 2023")

	want := []Binding{
		{Code: "%U", Types: []codes.FieldType{codes.WeekNum}, Source: "30", Phase: PhaseSingle},
		{Code: "%Y", Types: []codes.FieldType{codes.Year}, Source: "2023", Phase: PhaseSingle},
	}
	if diff := cmp.Diff(want, res.Bindings); diff != "" {
		t.Errorf("bindings mismatch (-want +got):\n%s", diff)
	}

	res = New(codes.Default()).DecodeResult("2023-11-21, 7:20 PM")
	require.Len(t, res.Bindings, 2)
	assert.Equal(t, Binding{
		Code:   "%Y-%m-%d",
		Types:  []codes.FieldType{codes.Year, codes.MonthNum, codes.MonthdayNum},
		Source: "2023-11-21",
		Phase:  PhaseCommon,
	}, res.Bindings[0])
	assert.Equal(t, "%-I:%M %p", res.Bindings[1].Code)
	assert.Equal(t, "7:20 PM", res.Bindings[1].Source)
}

func TestDecodeEmpty(t *testing.T) {
	res := New(codes.Default()).DecodeResult("")
	assert.Equal(t, "", res.Format)
	assert.Equal(t, "", res.Mask)
	assert.Empty(t, res.Types)
	assert.Empty(t, res.Bindings)
}

func TestMatchPatterns(t *testing.T) {
	engine := New(codes.Default())

	tests := []struct {
		text   string
		format string
		mask   string
	}{
		{"7:20 PM", "%-I:%M %p", "111111111"},
		{"2023-11-21, 7:20 PM", "%Y-%m-%d, %-I:%M %p", "1111111100111111111"},
		{
			"day: Tue 2023-NOV-06 time: 17:20:50",
			"day: Tue %Y-%b-%d time: %H:%M:%S",
			strings.Repeat("0", len("day: Tue ")) + "11111111" +
				strings.Repeat("0", len(" time: ")) + "11111111",
		},
		{"nothing to see", "nothing to see", "00000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			s := newSession(tt.text)
			engine.matchPatterns(s)
			assert.Equal(t, tt.format, s.text)
			assert.Equal(t, tt.mask, s.maskString())
		})
	}
}

func TestRecognizeSingleCodes(t *testing.T) {
	engine := New(codes.Default())

	t.Run("clock and week after a bound date", func(t *testing.T) {
		s := newSession("%Y-%m 07:20pm CW20")
		for i := 0; i < len("%Y-%m"); i++ {
			s.mask[i] = true
		}
		s.bind(Binding{Code: "%Y-%m", Types: []codes.FieldType{codes.Year, codes.MonthNum}, Phase: PhaseCommon})

		engine.recognizeSingleCodes(s)

		assert.Equal(t, "%Y-%m %H:%M%p CW%U", s.text)
		assert.Equal(t, "111110110111100011", s.maskString())
		assert.Equal(t, []codes.FieldType{
			codes.Year, codes.MonthNum, codes.Hours, codes.Minutes, codes.AmPm, codes.WeekNum,
		}, s.types)
	})

	t.Run("names before a bound date", func(t *testing.T) {
		prefix := "251 day of the year: Jan, Sun, "
		s := newSession(prefix + "%Y-%m-%d")
		for i := len(prefix); i < len(s.text); i++ {
			s.mask[i] = true
		}
		s.bind(Binding{
			Code:  "%Y-%m-%d",
			Types: []codes.FieldType{codes.Year, codes.MonthNum, codes.MonthdayNum},
			Phase: PhaseCommon,
		})

		engine.recognizeSingleCodes(s)

		assert.Equal(t, "%j day of the year: %b, %a, %Y-%m-%d", s.text)
		assert.Len(t, s.mask, len(s.text))
	})
}

func TestPickCandidate(t *testing.T) {
	a := &compiledCode{code: "a"}
	b := &compiledCode{code: "b"}
	c := &compiledCode{code: "c"}
	d := &compiledCode{code: "d"}

	_, ok := pickCandidate(nil)
	assert.False(t, ok)

	got, ok := pickCandidate([]candidate{{a, 2}, {b, 2}, {c, 2}})
	require.True(t, ok)
	assert.Equal(t, "a", got.code.code, "equal lengths keep table order")

	got, ok = pickCandidate([]candidate{{a, 2}, {b, 4}, {c, 4}, {d, 1}})
	require.True(t, ok)
	assert.Equal(t, "b", got.code.code, "longest wins, first among equals")
}

func findCode(t *testing.T, e *Engine, code string) *compiledCode {
	t.Helper()
	for i := range e.codes {
		if e.codes[i].code == code {
			return &e.codes[i]
		}
	}
	t.Fatalf("code %s not compiled", code)
	return nil
}

func TestCodeGroup(t *testing.T) {
	engine := New(codes.Default())

	tests := []struct {
		code  string
		group int
	}{
		{"%a", 1},
		{"%d", 1},
		{"%S", 1},
		{"%p", 1},
		{"%U", 2},
		{"%-W", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.group, findCode(t, engine, tt.code).group, tt.code)
	}

	assert.Equal(t, 0, codeGroup(`x(y)`, "z"))
	assert.Equal(t, 0, codeGroup(`(a(b)`, "b"))
}

func TestMatchAround(t *testing.T) {
	engine := New(codes.Default())

	seconds := findCode(t, engine, "%S")
	assert.Equal(t, []int{0, 4}, seconds.matchAround("20pm", 0, 2))
	assert.Nil(t, seconds.matchAround("20pm", 2, 4), "the digits belong to the previous segment")

	week := findCode(t, engine, "%U")
	assert.Equal(t, []int{0, 4}, week.matchAround("cw20", 2, 4))
	assert.Nil(t, week.matchAround("cw20", 0, 2))

	// The first match misses the segment; a later one hits it.
	month := findCode(t, engine, "%b")
	assert.Equal(t, []int{4, 7}, month.matchAround("jan-feb", 4, 7))
}

func TestCustomTable(t *testing.T) {
	t.Run("longest match wins", func(t *testing.T) {
		table := codes.NewTable([]codes.Code{
			{Code: "%a", Type: codes.WeekdayName, Regex: "ab"},
			{Code: "%b", Type: codes.MonthName, Regex: "abc"},
		}, nil, nil, nil)
		assert.Equal(t, "%b", New(table).Decode("abc"))
	})

	t.Run("ties keep table order and types are bound once", func(t *testing.T) {
		table := codes.NewTable([]codes.Code{
			{Code: "%a", Type: codes.WeekdayName, Regex: "ab"},
			{Code: "%b", Type: codes.MonthName, Regex: "ab"},
		}, nil, nil, nil)
		assert.Equal(t, "%a-%b-ab", New(table).Decode("ab-ab-ab"))
	})

	t.Run("empty table passes text through", func(t *testing.T) {
		res := New(codes.NewTable(nil, nil, nil, nil)).DecodeResult("2023-11-21")
		assert.Equal(t, "2023-11-21", res.Format)
		assert.Equal(t, "0000000000", res.Mask)
	})
}

func TestWithIgnorable(t *testing.T) {
	assert.Equal(t, "%b %Y", New(codes.Default()).Decode("mar 2021"))
	assert.Equal(t, "mar %Y", New(codes.Default(), WithIgnorable("Mar")).Decode("mar 2021"))
}

func TestNewSkipsBrokenPatterns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	table := codes.NewTable([]codes.Code{
		{Code: "%a", Type: codes.WeekdayName, Regex: "("},
		{Code: "%Y", Type: codes.Year, Regex: `\d{4}`},
	}, []string{"%a %Y"}, nil, nil)

	engine := New(table, WithLogger(zap.New(core)))

	assert.Equal(t, 1, logs.FilterMessage("skipping common format").Len())
	assert.Equal(t, 1, logs.FilterMessage("skipping field code").Len())
	assert.Equal(t, "mon %Y", engine.Decode("mon 2021"))
}

func TestDebugTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	engine := New(codes.Default(), WithLogger(zap.New(core)))

	engine.Decode("2022-04-12, sunday, 14:30")

	assert.Equal(t, 2, logs.FilterMessage("matched common format").Len())
	single := logs.FilterMessage("matched field code").All()
	require.Len(t, single, 1)
	assert.Equal(t, "%A", single[0].ContextMap()["code"])
}

func TestConcurrentDecode(t *testing.T) {
	engine := New(codes.Default())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, tt := range decodeCases {
				assert.Equal(t, tt.want, engine.Decode(tt.text))
			}
		}()
	}
	wg.Wait()
}

// Feature: timestamp decoding, Property 1: no field type is bound twice and
// the mask always covers the output byte for byte.
func TestDecodeProperties(t *testing.T) {
	engine := New(codes.Default())

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	genText := gen.SliceOf(gen.OneConstOf(
		"2023", "11", "07", "30", "5", "-", "/", ".", ":", ",", " ",
		"pm", "AM", "Mar", "sunday", "Tue", "wk", "cw", "utc", "th", "x",
	)).Map(func(parts []string) string { return strings.Join(parts, "") })

	properties.Property("field types are unique", prop.ForAll(
		func(text string) bool {
			seen := make(map[codes.FieldType]bool)
			for _, ft := range engine.DecodeResult(text).Types {
				if seen[ft] {
					return false
				}
				seen[ft] = true
			}
			return true
		},
		genText,
	))

	properties.Property("mask length matches output length", prop.ForAll(
		func(text string) bool {
			res := engine.DecodeResult(text)
			return len(res.Mask) == len(res.Format)
		},
		genText,
	))

	properties.Property("decoding is deterministic", prop.ForAll(
		func(text string) bool {
			return engine.Decode(text) == engine.Decode(text)
		},
		genText,
	))

	properties.Property("an empty table is the identity", prop.ForAll(
		func(text string) bool {
			return New(codes.NewTable(nil, nil, nil, nil)).Decode(text) == text
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "common", PhaseCommon.String())
	assert.Equal(t, "single", PhaseSingle.String())
	assert.Equal(t, "unknown", Phase(0).String())
}
