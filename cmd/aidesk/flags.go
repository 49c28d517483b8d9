package main

import (
	"strconv"
)

// stringFlag remembers whether it was set so unset flags do not override
// the file and environment layers.
type stringFlag struct {
	set bool
	v   string
}

func (f *stringFlag) String() string { return f.v }

func (f *stringFlag) Set(s string) error {
	f.v, f.set = s, true
	return nil
}

type intFlag struct {
	set bool
	v   int
}

func (f *intFlag) String() string { return strconv.Itoa(f.v) }

func (f *intFlag) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	f.v, f.set = n, true
	return nil
}

type floatFlag struct {
	set bool
	v   float64
}

func (f *floatFlag) String() string { return strconv.FormatFloat(f.v, 'f', -1, 64) }

func (f *floatFlag) Set(s string) error {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.v, f.set = n, true
	return nil
}

type boolFlag struct {
	set bool
	v   bool
}

func (f *boolFlag) String() string { return strconv.FormatBool(f.v) }

func (f *boolFlag) Set(s string) error {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	f.v, f.set = b, true
	return nil
}

func (f *boolFlag) IsBoolFlag() bool { return true }
