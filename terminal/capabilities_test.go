package terminal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		want   string
		colors ColorDepth
		utf8   bool
		cjk    bool
	}{
		{
			name:   "forced plain",
			env:    map[string]string{"TREEVIZ_TERMINAL_MODE": "plain", "COLORTERM": "truecolor"},
			want:   "plain",
			colors: ColorNone,
			utf8:   true,
		},
		{
			name:   "forced color",
			env:    map[string]string{"TREEVIZ_TERMINAL_MODE": "color", "TERM": "dumb"},
			want:   "color",
			colors: ColorTrue,
			utf8:   true,
		},
		{
			name:   "xterm 256",
			env:    map[string]string{"TERM": "xterm-256color", "LANG": "en_US.UTF-8"},
			want:   "xterm-256color",
			colors: Color256,
			utf8:   true,
		},
		{
			name:   "truecolor override",
			env:    map[string]string{"TERM": "xterm", "COLORTERM": "24bit"},
			want:   "xterm",
			colors: ColorTrue,
		},
		{
			name:   "dumb",
			env:    map[string]string{"TERM": "dumb"},
			want:   "dumb",
			colors: ColorNone,
		},
		{
			name:   "iterm",
			env:    map[string]string{"TERM_PROGRAM": "iTerm.app", "LC_ALL": "en_GB.utf8"},
			want:   "iterm2",
			colors: ColorTrue,
			utf8:   true,
		},
		{
			name:   "tmux",
			env:    map[string]string{"TERM": "screen", "TMUX": "/tmp/tmux-1000/default,1,0"},
			want:   "tmux",
			colors: Color256,
		},
		{
			name:   "no color wins",
			env:    map[string]string{"WT_SESSION": "1", "NO_COLOR": "1"},
			want:   "windows-terminal",
			colors: ColorNone,
		},
		{
			name:   "japanese locale",
			env:    map[string]string{"TERM": "xterm-256color", "LANG": "ja_JP.UTF-8"},
			want:   "xterm-256color",
			colors: Color256,
			utf8:   true,
			cjk:    true,
		},
		{
			name: "LC_ALL takes precedence",
			env:  map[string]string{"LC_ALL": "C", "LANG": "zh_CN.UTF-8"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := Detect(envOf(tt.env))
			require.Equal(t, tt.want, caps.Name)
			require.Equal(t, tt.colors, caps.Colors)
			require.Equal(t, tt.utf8, caps.UTF8)
			require.Equal(t, tt.cjk, caps.CJK)
		})
	}
}

func TestCapabilitiesColor(t *testing.T) {
	require.False(t, Capabilities{}.Color())
	require.True(t, Capabilities{Colors: Color8}.Color())
	require.False(t, Capabilities{Colors: Color256}.TrueColor())
	require.True(t, Capabilities{Colors: ColorTrue}.TrueColor())
}
