package notify

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/blurpatch/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func recorder(n *Notifier) *[]sent {
	var out []sent
	n.send = func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		out = append(out, s)
		return nil
	}
	return &out
}

func TestDisabledEventsAreSilent(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Capture("screen", nil)
	n.Save("out.png")
	n.Copy("")
	if len(*got) != 0 {
		t.Fatalf("expected no notifications, got %v", *got)
	}

	var nilNotifier *Notifier
	nilNotifier.Enable(EventCopy, true)
	nilNotifier.Copy("x")
}

func TestCopyDefaultsDetail(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Enable(EventCopy, true)
	n.Copy("  ")
	if len(*got) != 1 {
		t.Fatalf("expected one notification, got %d", len(*got))
	}
	if s := (*got)[0]; s.title != platform.AppName || s.body != "Copied image to clipboard" {
		t.Fatalf("unexpected notification %+v", s)
	}
}

func TestSaveUsesAbsolutePathAndIcon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Enable(EventSave, true)
	n.Save(path)
	if len(*got) != 1 {
		t.Fatalf("expected one notification")
	}
	if s := (*got)[0]; s.body != "Saved "+path || s.opts.IconPath != path {
		t.Fatalf("unexpected notification %+v", s)
	}
}

func TestCapturePreviewIsTemporary(t *testing.T) {
	n := New(DefaultPreferences())
	got := recorder(n)
	n.Enable(EventCapture, true)
	n.Capture("display 0", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if len(*got) != 1 {
		t.Fatalf("expected one notification")
	}
	s := (*got)[0]
	if !s.iconExisted {
		t.Fatalf("preview should exist while sending")
	}
	if _, err := os.Stat(s.opts.IconPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("preview should be removed afterwards, stat err %v", err)
	}
}

func TestLoadPreferencesFromEnv(t *testing.T) {
	t.Setenv("BLURPATCH_NOTIFY_TITLE", "Redactor")
	t.Setenv("BLURPATCH_NOTIFY_SAVE_TEXT", "Wrote %s")
	prefs := LoadPreferences()
	if prefs.Title != "Redactor" {
		t.Fatalf("title = %q", prefs.Title)
	}
	if prefs.Templates[EventSave] != "Wrote %s" {
		t.Fatalf("save template = %q", prefs.Templates[EventSave])
	}
	if prefs.Templates[EventCopy] != DefaultPreferences().Templates[EventCopy] {
		t.Fatalf("copy template should keep its default")
	}
}

func TestSendFailureIsNotFatal(t *testing.T) {
	n := New(DefaultPreferences())
	n.send = func(string, string, platform.Options) error { return errors.New("no bus") }
	n.Enable(EventCopy, true)
	n.Copy("image")
}
