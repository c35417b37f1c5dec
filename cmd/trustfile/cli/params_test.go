// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestBindFlags_TypesAndDefaults(t *testing.T) {
	type params struct {
		Server    string        `flag:"server,s" desc:"server URL" default:"http://127.0.0.1:8080"`
		Tree      bool          `flag:"tree" desc:"render the tree" default:"true"`
		PieceSize int           `flag:"piece-size" desc:"piece length" default:"1024"`
		Timeout   time.Duration `flag:"timeout" desc:"request timeout" default:"30s"`
		Files     []string      `flag:"file" desc:"input files" default:"a,b"`
		Untagged  string
	}
	var p params
	flagSet := FlagsFromParams("test", &p)

	if p.Server != "http://127.0.0.1:8080" || !p.Tree || p.PieceSize != 1024 || p.Timeout != 30*time.Second {
		t.Errorf("defaults not applied: %+v", p)
	}
	if len(p.Files) != 2 || p.Files[1] != "b" {
		t.Errorf("slice default = %v", p.Files)
	}
	if flagSet.Lookup("untagged") != nil {
		t.Error("untagged field was bound")
	}

	if err := flagSet.Parse([]string{"-s", "http://x", "--piece-size", "8", "--tree=false", "--timeout", "1m", "--file", "c"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Server != "http://x" || p.Tree || p.PieceSize != 8 || p.Timeout != time.Minute {
		t.Errorf("parsed values not stored: %+v", p)
	}
	if len(p.Files) != 1 || p.Files[0] != "c" {
		t.Errorf("--file = %v, want [c]", p.Files)
	}
}

type envBinder struct {
	Value string
}

func (b *envBinder) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&b.Value, "bound", "from-binder", "bound by AddFlags")
}

func TestBindFlags_FlagBinder(t *testing.T) {
	type params struct {
		envBinder
		Named envBinder
	}
	// The unexported embedded binder is recursed into (it has no tags);
	// the exported named field uses AddFlags.
	var p params
	flagSet := FlagsFromParams("test", &p)
	if flagSet.Lookup("bound") == nil {
		t.Fatal("FlagBinder.AddFlags not called")
	}
	if p.Named.Value != "from-binder" {
		t.Errorf("Named.Value = %q", p.Named.Value)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	if err := BindFlags(struct{}{}, flagSet); err == nil {
		t.Error("non-pointer accepted")
	}
	value := 3
	if err := BindFlags(&value, flagSet); err == nil {
		t.Error("pointer to non-struct accepted")
	}
	type badDefault struct {
		Size int `flag:"size" default:"large"`
	}
	if err := BindFlags(&badDefault{}, flagSet); err == nil {
		t.Error("unparseable default accepted")
	}
	type unsupported struct {
		Ratio float32 `flag:"ratio"`
	}
	if err := BindFlags(&unsupported{}, flagSet); err == nil {
		t.Error("unsupported type accepted")
	}
}

func TestFlagsFromParams_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FlagsFromParams did not panic on invalid params")
		}
	}()
	FlagsFromParams("test", "not a struct")
}
