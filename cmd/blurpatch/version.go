package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

type versionCmd struct {
	*root
}

func (v *versionCmd) FlagSet() *flag.FlagSet { return nil }

func (v *versionCmd) Run() error {
	return v.print(os.Stdout)
}

func (v *versionCmd) print(w io.Writer) error {
	fmt.Fprintf(w, "%s version %s", v.program, version)
	if commit != "" {
		fmt.Fprintf(w, " (%s", commit)
		if date != "" {
			fmt.Fprintf(w, ", %s", date)
		}
		fmt.Fprint(w, ")")
	}
	fmt.Fprintln(w)
	return nil
}
