// Package shell is a small line-oriented console for poking at a DS1302, meant to run over a serial port. Lines are
// split shell-style, so quoted arguments work:
//
//	set "2024-12-31 23:59:59"
//	put hours 11pm
//	ram write 3 0x42
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/ajanata/tinygo-drivers/ds1302"
)

const timeLayout = "2006-01-02 15:04:05"

var ErrUsage = errors.New("usage")

type Shell struct {
	dev *ds1302.Device
	out io.Writer
	// Prompt is written before each line read by Run.
	Prompt string
}

func New(dev *ds1302.Device, out io.Writer) *Shell {
	return &Shell{dev: dev, out: out, Prompt: "> "}
}

type command struct {
	usage string
	run   func(s *Shell, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":    {"help", (*Shell).help},
		"time":    {"time", (*Shell).now},
		"set":     {`set <RFC3339> | set "YYYY-MM-DD hh:mm:ss"`, (*Shell).set},
		"get":     {"get seconds|minutes|hours|date|month|day|year", (*Shell).get},
		"put":     {"put <field> <value>", (*Shell).put},
		"mode":    {"mode [12|24]", (*Shell).mode},
		"halted":  {"halted", (*Shell).halted},
		"wp":      {"wp [on|off]", (*Shell).wp},
		"trickle": {"trickle [off | <diodes 1|2> <kohm 2|4|8>]", (*Shell).trickle},
		"ram":     {"ram read <i> | ram write <i> <v> | ram dump | ram fill <v>...", (*Shell).ram},
	}
}

// Run reads commands from r until EOF. Command errors are printed and do not stop the loop.
func (s *Shell) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for {
		fmt.Fprint(s.out, s.Prompt)
		if !sc.Scan() {
			return sc.Err()
		}
		if err := s.Exec(sc.Text()); err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
}

// Exec runs a single command line.
func (s *Shell) Exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", args[0])
	}
	err = cmd.run(s, args[1:])
	if errors.Is(err, ErrUsage) {
		return fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}
	return err
}

func (s *Shell) help(args []string) error {
	names := []string{"time", "set", "get", "put", "mode", "halted", "wp", "trickle", "ram", "help"}
	for _, name := range names {
		fmt.Fprintln(s.out, commands[name].usage)
	}
	return nil
}

func (s *Shell) now(args []string) error {
	clock, cal, err := s.dev.ClockCalendar()
	if err != nil {
		return err
	}
	suffix := ""
	switch clock.Hours.Period {
	case ds1302.AM:
		suffix = " am"
	case ds1302.PM:
		suffix = " pm"
	}
	fmt.Fprintf(s.out, "%04d-%02d-%02d %02d:%02d:%02d%s day %d\n",
		cal.Year, cal.Month, cal.Date, clock.Hours.Hour, clock.Minutes, clock.Seconds, suffix, cal.Day)
	return nil
}

func (s *Shell) set(args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	t, err := time.Parse(timeLayout, args[0])
	if err != nil {
		t, err = time.Parse(time.RFC3339, args[0])
		if err != nil {
			return err
		}
		t = t.UTC()
	}
	return s.dev.Set(t)
}

func (s *Shell) get(args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	var (
		v   interface{}
		err error
	)
	switch args[0] {
	case "seconds":
		v, err = s.dev.Seconds()
	case "minutes":
		v, err = s.dev.Minutes()
	case "hours":
		v, err = s.dev.Hours()
	case "date":
		v, err = s.dev.Date()
	case "month":
		v, err = s.dev.Month()
	case "day":
		v, err = s.dev.Day()
	case "year":
		v, err = s.dev.Year()
	default:
		return ErrUsage
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, v)
	return nil
}

func (s *Shell) put(args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	if args[0] == "hours" {
		h, err := ParseHours(args[1])
		if err != nil {
			return err
		}
		return s.dev.SetHours(h)
	}
	if args[0] == "year" {
		y, err := strconv.ParseUint(args[1], 10, 16)
		if err != nil {
			return err
		}
		return s.dev.SetYear(uint16(y))
	}
	v, err := strconv.ParseUint(args[1], 10, 8)
	if err != nil {
		return err
	}
	switch args[0] {
	case "seconds":
		return s.dev.SetSeconds(uint8(v))
	case "minutes":
		return s.dev.SetMinutes(uint8(v))
	case "date":
		return s.dev.SetDate(uint8(v))
	case "month":
		return s.dev.SetMonth(uint8(v))
	case "day":
		return s.dev.SetDay(uint8(v))
	}
	return ErrUsage
}

// ParseHours parses "15" as a 24-hour value and "3pm" or "11am" as 12-hour values.
func ParseHours(s string) (ds1302.Hours, error) {
	s = strings.ToLower(s)
	period := ds1302.H24
	switch {
	case strings.HasSuffix(s, "am"):
		period = ds1302.AM
	case strings.HasSuffix(s, "pm"):
		period = ds1302.PM
	}
	if period != ds1302.H24 {
		s = s[:len(s)-2]
	}
	h, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return ds1302.Hours{}, err
	}
	if period == ds1302.H24 && h > 23 || period != ds1302.H24 && (h < 1 || h > 12) {
		return ds1302.Hours{}, fmt.Errorf("hour %d out of range", h)
	}
	return ds1302.Hours{Hour: uint8(h), Period: period}, nil
}

func (s *Shell) mode(args []string) error {
	switch {
	case len(args) == 0:
		fmt.Fprintln(s.out, s.dev.HourMode())
		return nil
	case len(args) > 1:
		return ErrUsage
	case args[0] == "12":
		return s.dev.SetHourMode(ds1302.Mode12)
	case args[0] == "24":
		return s.dev.SetHourMode(ds1302.Mode24)
	}
	return ErrUsage
}

func (s *Shell) halted(args []string) error {
	h, err := s.dev.Halted()
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, h)
	return nil
}

func (s *Shell) wp(args []string) error {
	if len(args) == 0 {
		on, err := s.dev.WriteProtected()
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, onOff(on))
		return nil
	}
	switch args[0] {
	case "on":
		return s.dev.SetWriteProtect(true)
	case "off":
		return s.dev.SetWriteProtect(false)
	}
	return ErrUsage
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

var (
	diodes    = map[string]ds1302.Diode{"1": ds1302.OneDiode, "2": ds1302.TwoDiodes}
	resistors = map[string]ds1302.Resistor{"2": ds1302.R2K, "4": ds1302.R4K, "8": ds1302.R8K}
)

func (s *Shell) trickle(args []string) error {
	switch len(args) {
	case 0:
		tc, err := s.dev.TrickleCharge()
		if err != nil {
			return err
		}
		if !tc.Enabled {
			fmt.Fprintln(s.out, "off")
			return nil
		}
		fmt.Fprintf(s.out, "on diodes=%d resistor=%dk\n", tc.Diode, 2<<(tc.Resistor-1))
		return nil
	case 1:
		if args[0] != "off" {
			return ErrUsage
		}
		return s.dev.DisableTrickleCharge()
	case 2:
		d, ok := diodes[args[0]]
		r, ok2 := resistors[args[1]]
		if !ok || !ok2 {
			return ErrUsage
		}
		return s.dev.EnableTrickleCharge(d, r)
	}
	return ErrUsage
}

func (s *Shell) ram(args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	switch args[0] {
	case "read":
		if len(args) != 2 {
			return ErrUsage
		}
		i, err := parseByte(args[1])
		if err != nil {
			return err
		}
		v, err := s.dev.ReadRAM(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%#02x\n", v)
		return nil
	case "write":
		if len(args) != 3 {
			return ErrUsage
		}
		i, err := parseByte(args[1])
		if err != nil {
			return err
		}
		v, err := parseByte(args[2])
		if err != nil {
			return err
		}
		return s.dev.WriteRAM(i, v)
	case "dump":
		var buf [ds1302.RAMSize]byte
		n, err := s.dev.ReadRAMBurst(buf[:])
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "% x\n", buf[:n])
		return nil
	case "fill":
		buf := make([]byte, 0, len(args)-1)
		for _, a := range args[1:] {
			v, err := parseByte(a)
			if err != nil {
				return err
			}
			buf = append(buf, v)
		}
		n, err := s.dev.WriteRAMBurst(buf)
		if err != nil {
			return err
		}
		fmt.Fprintf(s.out, "wrote %d bytes\n", n)
		return nil
	}
	return ErrUsage
}

// parseByte accepts decimal, 0x hex and 0b binary.
func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	return uint8(v), err
}
