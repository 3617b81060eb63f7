package app

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

const radiusStep = 2

func (e *Editor) register(name string, keys KeyboardShortcuts, fn func()) {
	e.actions[name] = fn
	if keys == nil {
		return
	}
	for _, sc := range keys.KeyboardShortcuts() {
		e.keyboardAction[sc] = name
	}
}

func (e *Editor) registerActions() {
	e.actions = map[string]func(){}
	e.keyboardAction = map[KeyShortcut]string{}

	e.register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		path, err := e.Save()
		if err != nil {
			e.log.Error("save failed", "err", err)
			e.say("save failed")
			return
		}
		e.say("saved " + path)
	})
	e.register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		if err := e.Copy(); err != nil {
			e.log.Error("copy failed", "err", err)
			e.say("copy failed")
			return
		}
		e.say("image copied to clipboard")
	})
	e.register("copy-region", shortcutList{{Rune: 'c', Modifiers: key.ModControl | key.ModShift}}, func() {
		if err := e.CopyRegion(); err != nil {
			e.log.Warn("copy region failed", "err", err)
			e.say("copy region failed")
			return
		}
		e.say("region copied to clipboard")
	})
	e.register("duplicate", shortcutList{{Rune: 'd', Modifiers: key.ModControl}}, func() {
		e.ctrl.Duplicate()
	})
	e.register("delete", shortcutList{
		{Code: key.CodeDeleteForward},
		{Code: key.CodeDeleteBackspace},
	}, func() {
		e.ctrl.DeleteSelected()
	})
	e.register("cancel", shortcutList{{Code: key.CodeEscape}}, func() {
		e.pressed = false
		e.ctrl.Cancel()
	})
	e.register("radius-up", shortcutList{{Rune: '+'}, {Rune: '='}}, func() {
		e.comp.SetRadius(e.comp.Radius() + radiusStep)
		e.sayf("blur radius %g", e.comp.Radius())
	})
	e.register("radius-down", shortcutList{{Rune: '-'}}, func() {
		e.comp.SetRadius(e.comp.Radius() - radiusStep)
		e.sayf("blur radius %g", e.comp.Radius())
	})
	e.register("toggle-blur", shortcutList{{Rune: 'b'}}, func() {
		e.comp.SetEnabled(!e.comp.Enabled())
		e.say(onOff("blur", e.comp.Enabled()))
	})
	e.register("toggle-noise", shortcutList{{Rune: 'n'}}, func() {
		e.comp.SetNoise(!e.comp.Noise())
		e.say(onOff("noise", e.comp.Noise()))
	})
	e.register("quit", shortcutList{{Rune: 'q', Modifiers: key.ModControl}}, func() {
		e.quit = true
	})
}

// handleKey runs the action bound to ev. It reports whether one ran.
func (e *Editor) handleKey(ev key.Event) bool {
	if ev.Direction == key.DirRelease {
		return false
	}
	for _, ks := range lookupKeys(ev) {
		if name, ok := e.keyboardAction[ks]; ok {
			e.log.Debug("key action", "action", name)
			e.actions[name]()
			return true
		}
	}
	return false
}

// lookupKeys returns the shortcuts ev may be bound to, most specific
// first. Printable keys are bound by rune alone, so a shifted '+' matches
// {Rune: '+'} and Ctrl+S matches {Rune: 's', Modifiers: ModControl} even
// when the driver reports a control character.
func lookupKeys(ev key.Event) []KeyShortcut {
	r := ev.Rune
	if !unicode.IsPrint(r) {
		r = 0
	}
	if r == 0 && ev.Code >= key.CodeA && ev.Code <= key.CodeZ {
		r = 'a' + rune(ev.Code-key.CodeA)
	}
	r = unicode.ToLower(r)
	keys := []KeyShortcut{{Rune: r, Code: ev.Code, Modifiers: ev.Modifiers}}
	if r == 0 {
		return keys
	}
	return append(keys,
		KeyShortcut{Rune: r, Modifiers: ev.Modifiers},
		KeyShortcut{Rune: r, Modifiers: ev.Modifiers &^ key.ModShift},
	)
}

func onOff(what string, on bool) string {
	if on {
		return what + " on"
	}
	return what + " off"
}
