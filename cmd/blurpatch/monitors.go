package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

// monitorsCmd lists the monitors -display can select.
type monitorsCmd struct {
	out io.Writer
	*root
	fs *flag.FlagSet
}

func (m *monitorsCmd) FlagSet() *flag.FlagSet {
	return m.fs
}

func parseMonitorsCmd(args []string, r *root) (*monitorsCmd, error) {
	fs := flag.NewFlagSet("monitors", flag.ExitOnError)
	m := &monitorsCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(m)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *monitorsCmd) Run() error {
	monitors, err := listMonitorsFn()
	if err != nil {
		return fmt.Errorf("list monitors: %w", err)
	}
	for _, mon := range monitors {
		fmt.Fprintln(m.out, mon.String())
	}
	return nil
}
