package token

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"
)

func FuzzDecode(f *testing.F) {
	valid, err := Mint([]byte("fuzz-key"), User{ID: "u-1", Name: "Fuzz"}, time.Now().Add(time.Hour))
	if err != nil {
		f.Fatal(err)
	}
	compact, err := MintCompact(User{ID: "u-2"}, time.Now().Add(time.Hour))
	if err != nil {
		f.Fatal(err)
	}

	f.Add(valid)
	f.Add(compact)
	f.Add("")
	f.Add("not.a.jwt")
	f.Add("a.b.c.d")
	f.Add(base64.StdEncoding.EncodeToString([]byte(`{"user":{"id":"x"},"exp":1}`)))
	f.Add("eyJhbGciOiJIUzI1NiJ9.!!!.sig")

	f.Fuzz(func(t *testing.T, raw string) {
		p, err := Decode(raw)
		if err != nil {
			if !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("unexpected error type: %v", err)
			}
			if p != nil {
				t.Fatal("non-nil payload alongside error")
			}
			return
		}
		if p == nil {
			t.Fatal("nil payload without error")
		}
		if p.User == (User{}) && p.Exp == 0 {
			t.Fatal("decoded payload carries no claims")
		}
	})
}
