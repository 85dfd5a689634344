package tui

import (
	"reflect"
	"testing"

	"github.com/dshills/blockpad/pkg/keymap"
)

func TestParseKeyInput(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []keymap.KeyEvent
	}{
		{"letter", []byte("a"), []keymap.KeyEvent{{Key: "a"}}},
		{"uppercase sets shift", []byte("A"), []keymap.KeyEvent{{Key: "A", Shift: true}}},
		{"slash", []byte("/"), []keymap.KeyEvent{{Key: keymap.KeySlash}}},
		{"enter", []byte{13}, []keymap.KeyEvent{{Key: keymap.KeyEnter}}},
		{"ctrl-j is shift-enter", []byte{10}, []keymap.KeyEvent{{Key: keymap.KeyEnter, Shift: true}}},
		{"alt-enter is shift-enter", []byte{27, 13}, []keymap.KeyEvent{{Key: keymap.KeyEnter, Shift: true}}},
		{"backspace", []byte{127}, []keymap.KeyEvent{{Key: keymap.KeyBackspace}}},
		{"ctrl-h backspace", []byte{8}, []keymap.KeyEvent{{Key: keymap.KeyBackspace}}},
		{"tab", []byte{9}, []keymap.KeyEvent{{Key: keymap.KeyTab}}},
		{"escape", []byte{27}, []keymap.KeyEvent{{Key: keymap.KeyEscape}}},
		{"ctrl-s", []byte{19}, []keymap.KeyEvent{{Key: "s", Ctrl: true}}},
		{"arrow up", []byte{27, '[', 'A'}, []keymap.KeyEvent{{Key: keymap.KeyArrowUp}}},
		{"arrow down", []byte{27, '[', 'B'}, []keymap.KeyEvent{{Key: keymap.KeyArrowDown}}},
		{"arrow right", []byte{27, '[', 'C'}, []keymap.KeyEvent{{Key: keymap.KeyArrowRight}}},
		{"arrow left", []byte{27, '[', 'D'}, []keymap.KeyEvent{{Key: keymap.KeyArrowLeft}}},
		{"shift arrow left", []byte("\x1b[1;2D"), []keymap.KeyEvent{{Key: keymap.KeyArrowLeft, Shift: true}}},
		{"ctrl arrow is plain arrow", []byte("\x1b[1;5C"), []keymap.KeyEvent{{Key: keymap.KeyArrowRight}}},
		{"multibyte rune", []byte("é"), []keymap.KeyEvent{{Key: "é"}}},
		{"paste", []byte("hi!"), []keymap.KeyEvent{{Key: "h"}, {Key: "i"}, {Key: "!"}}},
		{"arrow then text", []byte("\x1b[Bx"), []keymap.KeyEvent{{Key: keymap.KeyArrowDown}, {Key: "x"}}},
		{"delete keeps following text", []byte("\x1b[3~ab"), []keymap.KeyEvent{{Key: keymap.KeyDelete}, {Key: "a"}, {Key: "b"}}},
		{"unknown csi dropped", []byte("\x1b[5~x"), []keymap.KeyEvent{{Key: "x"}}},
		{"unknown csi with params dropped", []byte("\x1b[15;2~y"), []keymap.KeyEvent{{Key: "y"}}},
		{"home", []byte("\x1b[H"), []keymap.KeyEvent{{Key: keymap.KeyHome}}},
		{"end tilde form", []byte("\x1b[4~"), []keymap.KeyEvent{{Key: keymap.KeyEnd}}},
		{"shift end", []byte("\x1b[1;2F"), []keymap.KeyEvent{{Key: keymap.KeyEnd, Shift: true}}},
		{"ss3 arrow", []byte("\x1bOA"), []keymap.KeyEvent{{Key: keymap.KeyArrowUp}}},
		{"truncated csi", []byte("\x1b["), nil},
		{"nul ignored", []byte{0}, nil},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseKeyInput(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseKeyInput(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
