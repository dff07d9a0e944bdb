package buffer

import (
	"errors"
	"testing"
)

func TestRegisters(t *testing.T) {
	d := New()

	if got, err := d.Register('a'); err != nil || got != "" {
		t.Errorf("empty register = %q, %v", got, err)
	}

	d.RegisterSet('a', "mid")
	d.RegisterAppend('a', "dle")
	d.RegisterPrepend('a', ">> ")
	if got, _ := d.Register('a'); got != ">> middle" {
		t.Errorf("got %q, want %q", got, ">> middle")
	}

	d.RegisterSet('z', "other")
	d.RegisterClear('a')
	if got, _ := d.Register('a'); got != "" {
		t.Errorf("cleared register = %q", got)
	}
	if got, _ := d.Register('z'); got != "other" {
		t.Errorf("register z = %q, want %q", got, "other")
	}
}

func TestRegisterInvalidLetter(t *testing.T) {
	d := New()
	for _, letter := range []byte{'A', '0', '{', '`'} {
		if _, err := d.Register(letter); !errors.Is(err, ErrInvalidLetter) {
			t.Errorf("Register(%q) = %v, want ErrInvalidLetter", letter, err)
		}
		if err := d.RegisterSet(letter, "x"); !errors.Is(err, ErrInvalidLetter) {
			t.Errorf("RegisterSet(%q) = %v, want ErrInvalidLetter", letter, err)
		}
		if err := d.RegisterAppend(letter, "x"); !errors.Is(err, ErrInvalidLetter) {
			t.Errorf("RegisterAppend(%q) = %v, want ErrInvalidLetter", letter, err)
		}
	}
}

func TestRegisterIsolatedFromText(t *testing.T) {
	d := NewFromString("hello")
	s, _ := d.Substr(d.FirstLine(), 0, d.FirstLine(), 5)
	d.RegisterSet('y', s)
	d.Delete(0, 5)
	if got, _ := d.Register('y'); got != "hello" {
		t.Errorf("register changed with the text: %q", got)
	}
}
