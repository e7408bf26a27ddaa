// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: One icon per admin feature area plus status and action glyphs

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts     bool
	nerdFontDetected sync.Once
)

// detectNerdFonts checks if Nerd Fonts should be used
func detectNerdFonts() bool {
	if env := os.Getenv("XPG_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")

	// Terminals that usually ship with a patched font
	nerdFontTerminals := []string{
		"iTerm.app",
		"alacritty",
		"WezTerm",
		"kitty",
		"ghostty",
	}

	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}

	return os.Getenv("NERD_FONTS") == "1"
}

// HasNerdFonts returns true if Nerd Fonts are available
func HasNerdFonts() bool {
	nerdFontDetected.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon has a Nerd Font glyph and a plain Unicode fallback
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Feature areas
	Content      = Icon{"\U000f0219", "▤"} // nf-md-file_document
	Stage        = Icon{"\U000f0327", "▸"} // nf-md-map_marker_path
	NFC          = Icon{"\U000f0395", "⌁"} // nf-md-nfc
	Notification = Icon{"\U000f009a", "✉"} // nf-md-bell
	Store        = Icon{"\U000f04b1", "⌂"} // nf-md-store
	Reward       = Icon{"\U000f0826", "♦"} // nf-md-gift
	User         = Icon{"\U000f0004", "☺"} // nf-md-account
	Dashboard    = Icon{"\U000f056e", "▦"} // nf-md-view_dashboard
	Points       = Icon{"\U000f04ce", "★"} // nf-md-star

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-fa-check_circle
	Warning  = Icon{"", "⚠"} // nf-fa-warning
	Critical = Icon{"", "✗"} // nf-fa-times_circle
	Info     = Icon{"", "ℹ"} // nf-fa-info_circle
	Lock     = Icon{"", "⚿"} // nf-fa-lock

	// Actions
	Refresh = Icon{"\U000f0450", "↻"} // nf-md-refresh
	Add     = Icon{"\U000f0415", "+"} // nf-md-plus
	Delete  = Icon{"\U000f01b4", "-"} // nf-md-delete
	Wizard  = Icon{"\U000f0068", "✦"} // nf-md-auto_fix
	Back    = Icon{"\U000f004d", "←"} // nf-md-arrow_left
	Logout  = Icon{"\U000f0343", "⏻"} // nf-md-logout
	Quit    = Icon{"\U000f05fc", "×"} // nf-md-exit_to_app

	// Application
	App = Icon{"\U000f0352", "◈"} // nf-md-map_search
)
