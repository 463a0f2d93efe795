package shell

import (
	"bytes"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/ajanata/tinygo-drivers/ds1302"
	"github.com/ajanata/tinygo-drivers/ds1302/ds1302sim"
)

func newShell(c *qt.C) (*Shell, *ds1302sim.Chip, *bytes.Buffer) {
	chip := ds1302sim.New()
	dev := ds1302.New(chip, chip.Pin(), chip.Timer())
	c.Assert(dev.Configure(ds1302.Config{}), qt.IsNil)
	var out bytes.Buffer
	return New(dev, &out), chip, &out
}

var execTests = []struct {
	testName string
	lines    []string
	expect   string
}{{
	testName: "set-and-read-time",
	lines:    []string{`set "2024-12-31 23:59:58"`, "time"},
	expect:   "2024-12-31 23:59:58 day 3\n",
}, {
	testName: "twelve-hour",
	lines:    []string{`set 2024-06-01T13:05:00Z`, "mode 12", "time", "mode"},
	expect:   "2024-06-01 01:05:00 pm day 7\n12h\n",
}, {
	testName: "put-get",
	lines:    []string{"put hours 11pm", "get hours", "put year 2031", "get year", "put minutes 7", "get minutes"},
	expect:   "23\n2031\n7\n",
}, {
	testName: "ram",
	lines:    []string{"ram write 30 0x42", "ram read 30", "ram fill 1 2 3", "ram read 2"},
	expect:   "0x42\nwrote 3 bytes\n0x03\n",
}, {
	testName: "trickle",
	lines:    []string{"trickle", "trickle 2 8", "trickle", "trickle off", "trickle"},
	expect:   "off\non diodes=2 resistor=8k\noff\n",
}, {
	testName: "write-protect",
	lines:    []string{"wp on", "wp", "wp off", "wp", "halted"},
	expect:   "on\noff\nfalse\n",
}}

func TestExec(t *testing.T) {
	c := qt.New(t)
	for _, test := range execTests {
		c.Run(test.testName, func(c *qt.C) {
			sh, _, out := newShell(c)
			for _, line := range test.lines {
				c.Assert(sh.Exec(line), qt.IsNil, qt.Commentf("line %q", line))
			}
			c.Assert(out.String(), qt.Equals, test.expect)
		})
	}
}

var execErrorTests = []struct {
	line        string
	expectError string
}{
	{"frobnicate", `unknown command "frobnicate", try help`},
	{"get", `usage: get seconds\|minutes\|hours\|date\|month\|day\|year`},
	{"put hours 13pm", `hour 13 out of range`},
	{"ram write 31 1", `ds1302: invalid parameter`},
	{"trickle 3 8", `usage: .*`},
	{`set "unterminated`, `.*`},
	{"set", `usage: set <RFC3339> \| set "YYYY-MM-DD hh:mm:ss"`},
}

func TestExecErrors(t *testing.T) {
	c := qt.New(t)
	sh, chip, _ := newShell(c)
	chip.Reset()
	for _, test := range execErrorTests {
		c.Assert(sh.Exec(test.line), qt.ErrorMatches, test.expectError, qt.Commentf("line %q", test.line))
	}
	// ram index is rejected before the bus is touched
	c.Assert(chip.Transfers, qt.Equals, 0)
}

func TestRun(t *testing.T) {
	c := qt.New(t)
	sh, _, out := newShell(c)
	sh.Prompt = "$ "
	err := sh.Run(strings.NewReader("put date 9\nget date\nbogus\n"))
	c.Assert(err, qt.IsNil)
	c.Assert(out.String(), qt.Equals, "$ $ 9\n$ error: unknown command \"bogus\", try help\n$ ")
}

func TestParseHours(t *testing.T) {
	c := qt.New(t)
	h, err := ParseHours("3PM")
	c.Assert(err, qt.IsNil)
	c.Assert(h, qt.Equals, ds1302.Hour12PM(3))
	h, err = ParseHours("0")
	c.Assert(err, qt.IsNil)
	c.Assert(h, qt.Equals, ds1302.Hour24(0))
	_, err = ParseHours("24")
	c.Assert(err, qt.ErrorMatches, "hour 24 out of range")
	_, err = ParseHours("0am")
	c.Assert(err, qt.ErrorMatches, "hour 0 out of range")
}
