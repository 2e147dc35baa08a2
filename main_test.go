package main

import (
	"flag"
	"testing"
	"time"

	"uitranscriber/config"
)

func TestFlagOverridesOnlySetFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.String("output", "transcribed.py", "")
	fs.Bool("escape", false, "")
	fs.Duration("longpress", time.Second, "")
	fs.Bool("version", false, "")
	if err := fs.Parse([]string{"-escape", "-longpress", "200ms", "-version"}); err != nil {
		t.Fatal(err)
	}

	got := flagOverrides(fs)
	if len(got) != 2 {
		t.Fatalf("got %v, want two overrides", got)
	}
	if got["escape_text"] != true {
		t.Errorf("escape_text = %v", got["escape_text"])
	}
	if got["long_press"] != 200*time.Millisecond {
		t.Errorf("long_press = %v", got["long_press"])
	}
	if _, ok := got["output"]; ok {
		t.Error("unset flag leaked into overrides")
	}
}

func TestFlagKeysAreConfigKeys(t *testing.T) {
	known := make(map[string]bool)
	for _, k := range config.Keys() {
		known[k] = true
	}
	for name, key := range flagKeys {
		if !known[key] {
			t.Errorf("flag -%s maps to unknown config key %q", name, key)
		}
	}
}

func TestWantTUI(t *testing.T) {
	cases := []struct {
		mode          string
		stdin, stdout bool
		want          bool
	}{
		{config.TUIOn, false, false, true},
		{config.TUIOff, true, true, false},
		{config.TUIAuto, true, true, true},
		{config.TUIAuto, true, false, false},
		{config.TUIAuto, false, true, false},
	}
	for _, c := range cases {
		if got := wantTUI(c.mode, c.stdin, c.stdout); got != c.want {
			t.Errorf("wantTUI(%q, %v, %v) = %v, want %v", c.mode, c.stdin, c.stdout, got, c.want)
		}
	}
}

func TestLogPathArg(t *testing.T) {
	cases := map[string][]string{
		"":       {"-headless"},
		"/a":     {"-logpath", "/a"},
		"/b":     {"--logpath=/b", "-record"},
		"./logs": {"-record", "-logpath=./logs"},
	}
	for want, args := range cases {
		if got := logPathArg(args); got != want {
			t.Errorf("logPathArg(%q) = %q, want %q", args, got, want)
		}
	}
}
