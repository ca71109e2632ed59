package terminal

import (
	"os"
	"strings"
)

// ColorDepth is the number of colors a terminal can show.
type ColorDepth int

const (
	ColorNone ColorDepth = 0
	Color8    ColorDepth = 8
	Color256  ColorDepth = 256
	ColorTrue ColorDepth = 1 << 24
)

// Capabilities represents the features supported by the current terminal.
type Capabilities struct {
	Name   string
	Colors ColorDepth
	UTF8   bool
	CJK    bool // East Asian ambiguous-width runes are double width
}

// Color reports whether any color output is possible.
func (c Capabilities) Color() bool {
	return c.Colors > ColorNone
}

// TrueColor reports whether 24-bit colors are available.
func (c Capabilities) TrueColor() bool {
	return c.Colors >= ColorTrue
}

// DetectCapabilities detects the current terminal's capabilities.
func DetectCapabilities() Capabilities {
	return Detect(os.Getenv)
}

// Detect derives capabilities from environment lookups.
// TREEVIZ_TERMINAL_MODE=plain|color forces a mode.
func Detect(getenv func(string) string) Capabilities {
	switch getenv("TREEVIZ_TERMINAL_MODE") {
	case "plain":
		return Capabilities{Name: "plain", UTF8: true}
	case "color":
		return Capabilities{Name: "color", Colors: ColorTrue, UTF8: true}
	}

	caps := Capabilities{Name: "unknown"}
	if !detectSpecificTerminal(getenv, &caps) {
		term := getenv("TERM")
		caps.Name = term

		if term != "" && !strings.Contains(term, "dumb") {
			switch {
			case strings.Contains(term, "256color"):
				caps.Colors = Color256
			case strings.Contains(term, "color"):
				caps.Colors = Color8
			}
			if strings.HasPrefix(term, "xterm") || strings.HasPrefix(term, "screen") {
				if caps.Colors == ColorNone {
					caps.Colors = Color256
				}
			}
		}

		if ct := getenv("COLORTERM"); ct == "truecolor" || ct == "24bit" {
			caps.Colors = ColorTrue
		}
	}

	// https://no-color.org/
	if getenv("NO_COLOR") != "" {
		caps.Colors = ColorNone
	}

	caps.UTF8 = detectUTF8Locale(getenv)
	caps.CJK = detectCJKEnvironment(getenv)
	return caps
}

// detectSpecificTerminal checks for specific terminal emulators.
func detectSpecificTerminal(getenv func(string) string, caps *Capabilities) bool {
	if getenv("WT_SESSION") != "" {
		caps.Name, caps.Colors = "windows-terminal", ColorTrue
		return true
	}

	switch getenv("TERM_PROGRAM") {
	case "iTerm.app":
		caps.Name, caps.Colors = "iterm2", ColorTrue
		return true
	case "Apple_Terminal":
		caps.Name, caps.Colors = "terminal.app", Color256
		return true
	case "WezTerm":
		caps.Name, caps.Colors = "wezterm", ColorTrue
		return true
	}

	term := getenv("TERM")
	switch {
	case getenv("VTE_VERSION") != "":
		caps.Name, caps.Colors = "vte-based", ColorTrue
	case getenv("KONSOLE_VERSION") != "":
		caps.Name, caps.Colors = "konsole", ColorTrue
	case term == "alacritty":
		caps.Name, caps.Colors = "alacritty", ColorTrue
	case strings.HasPrefix(term, "xterm-kitty"):
		caps.Name, caps.Colors = "kitty", ColorTrue
	case getenv("TMUX") != "":
		caps.Name, caps.Colors = "tmux", Color256
	case strings.HasPrefix(term, "rxvt-unicode"):
		caps.Name, caps.Colors = "rxvt-unicode", Color256
	default:
		return false
	}
	return true
}

// detectUTF8Locale checks if the locale supports UTF-8.
func detectUTF8Locale(getenv func(string) string) bool {
	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		value := strings.ToUpper(getenv(env))
		if value == "" {
			continue
		}
		return strings.Contains(value, "UTF-8") || strings.Contains(value, "UTF8")
	}
	return false
}

// detectCJKEnvironment checks for a Chinese, Japanese or Korean locale.
func detectCJKEnvironment(getenv func(string) string) bool {
	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		value := getenv(env)
		if value == "" {
			continue
		}
		prefix := strings.SplitN(value, "_", 2)[0]
		return prefix == "ja" || prefix == "ko" || prefix == "zh"
	}
	return getenv("RUNEWIDTH_EASTASIAN") == "1"
}
