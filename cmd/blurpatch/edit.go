package main

import (
	"flag"
	"fmt"

	"github.com/example/blurpatch/internal/app"
)

// editCmd opens an image in the editor.
type editCmd struct {
	file          string
	output        string
	kernel        string
	fromClipboard bool
	regions       regionList
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.file, "file", "", "image file to redact")
	fs.StringVar(&e.output, "output", "", "file written on save (default: a timestamped file in save_dir)")
	fs.StringVar(&e.kernel, "kernel", "", "blur kernel: box, gaussian or imaging")
	fs.BoolVar(&e.fromClipboard, "from-clipboard", false, "load the image from the clipboard")
	fs.Var(&e.regions, "region", "add a region l,t,r,b[@deg] (repeatable)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if e.file == "" && fs.NArg() > 0 {
		e.file = fs.Arg(0)
	}
	if e.file == "" && !e.fromClipboard {
		return nil, &UsageError{of: e}
	}
	if e.file != "" && e.fromClipboard {
		return nil, fmt.Errorf("-from-clipboard cannot be used with -file")
	}
	return e, nil
}

func (e *editCmd) Run() error {
	img, err := loadImage(e.file, e.fromClipboard)
	if err != nil {
		return err
	}
	opts, err := e.editorOptions(e.kernel)
	if err != nil {
		return err
	}
	opts = append(opts, app.WithOutput(e.output), app.WithRegions(e.regions...))
	runEditorFn(app.New(img, opts...))
	return nil
}
