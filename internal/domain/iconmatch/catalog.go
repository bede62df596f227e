package iconmatch

import (
	"strings"
)

// DefaultIconBaseURL serves the simple-icons SVG set.
const DefaultIconBaseURL = "https://cdn.jsdelivr.net/gh/simple-icons/simple-icons@develop/icons/"

// Identity is a well-known program with a remotely hosted icon.
type Identity struct {
	Name      string
	Publisher string
	Slug      string
	Aliases   []string
}

// URL returns the icon location of the identity under base.
func (id Identity) URL(base string) string {
	if base == "" {
		base = DefaultIconBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + id.Slug + ".svg"
}

// Catalog is an ordered table of identities. Order matters: the first
// matching entry of each matching stage wins.
type Catalog struct {
	entries []Identity
	// publisher word -> index of the identity used when only the publisher matches
	publishers map[string]int
}

// NewCatalog builds a catalog. publisherFallbacks maps a lower-case publisher
// word ("hp") to the name of the identity to use for it.
func NewCatalog(entries []Identity, publisherFallbacks map[string]string) *Catalog {
	c := &Catalog{
		entries:    entries,
		publishers: make(map[string]int, len(publisherFallbacks)),
	}
	for word, name := range publisherFallbacks {
		for i, e := range entries {
			if e.Name == name {
				c.publishers[strings.ToLower(word)] = i
				break
			}
		}
	}
	return c
}

// Len returns the number of identities.
func (c *Catalog) Len() int { return len(c.entries) }

// Lookup maps a program to an identity. Stages, in order:
//  1. name equals an identity name or alias
//  2. name and an alias contain one another, or a word of the name longer
//     than two characters does
//  3. a word of the publisher is a registered publisher fallback
func (c *Catalog) Lookup(name, publisher string) (Identity, bool) {
	if Fold(name) == "" {
		return Identity{}, false
	}

	for _, e := range c.entries {
		if Equal(e.Name, name) {
			return e, true
		}
		for _, a := range e.Aliases {
			if Equal(a, name) {
				return e, true
			}
		}
	}

	folded := Fold(name)
	for _, e := range c.entries {
		for _, a := range e.Aliases {
			fa := Fold(a)
			if strings.Contains(folded, fa) || strings.Contains(fa, folded) {
				return e, true
			}
			if WordContains(name, a, 2) {
				return e, true
			}
		}
	}

	// whole publisher words only; stricter than substring matching
	for _, w := range Words(publisher) {
		if i, ok := c.publishers[w]; ok {
			return c.entries[i], true
		}
	}
	return Identity{}, false
}

// DefaultCatalog returns the built-in table of common Windows programs.
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultIdentities, map[string]string{
		"hp":        "HP Connection Optimizer",
		"microsoft": "Microsoft Office",
	})
}

var defaultIdentities = []Identity{
	{"Microsoft Office", "Microsoft Corporation", "microsoftoffice", []string{"office", "word", "excel", "powerpoint", "outlook", "access", "publisher", "visio"}},
	{"Microsoft Visual Studio", "Microsoft Corporation", "visualstudio", []string{"visual studio", "vs", "microsoft visual studio"}},
	{"Microsoft Edge", "Microsoft Corporation", "microsoftedge", []string{"edge", "microsoft edge", "msedge"}},
	{"Microsoft Teams", "Microsoft Corporation", "microsoftteams", []string{"teams", "microsoft teams"}},
	{"OneDrive", "Microsoft Corporation", "onedrive", []string{"onedrive", "microsoft onedrive"}},
	{"Skype", "Microsoft Corporation", "skype", []string{"skype"}},

	{"Google Chrome", "Google LLC", "googlechrome", []string{"chrome", "google chrome"}},
	{"Google Drive", "Google LLC", "googledrive", []string{"google drive", "drive"}},
	{"Google Earth", "Google LLC", "googleearth", []string{"google earth", "earth"}},

	{"Adobe Acrobat", "Adobe Inc.", "adobeacrobatreader", []string{"acrobat", "adobe acrobat", "pdf", "adobe reader"}},
	{"Adobe Photoshop", "Adobe Inc.", "adobephotoshop", []string{"photoshop", "adobe photoshop", "ps"}},
	{"Adobe Illustrator", "Adobe Inc.", "adobeillustrator", []string{"illustrator", "adobe illustrator", "ai"}},
	{"Adobe Premiere Pro", "Adobe Inc.", "adobepremierepro", []string{"premiere", "adobe premiere", "premiere pro"}},

	{"Visual Studio Code", "Microsoft Corporation", "visualstudiocode", []string{"vscode", "visual studio code", "code"}},
	{"Git", "The Git Development Community", "git", []string{"git"}},
	{"GitHub Desktop", "GitHub Inc.", "github", []string{"github desktop", "github"}},
	{"Node.js", "Node.js Foundation", "nodedotjs", []string{"node", "nodejs", "node.js"}},
	{"Python", "Python Software Foundation", "python", []string{"python"}},
	{"Docker", "Docker Inc.", "docker", []string{"docker"}},

	{"Mozilla Firefox", "Mozilla Corporation", "firefox", []string{"firefox", "mozilla firefox"}},
	{"Brave", "Brave Software Inc", "brave", []string{"brave"}},
	{"Opera", "Opera Software", "opera", []string{"opera"}},
	{"Vivaldi", "Vivaldi Technologies", "vivaldi", []string{"vivaldi"}},

	{"VLC Media Player", "VideoLAN", "vlcmediaplayer", []string{"vlc", "vlc media player"}},
	{"Spotify", "Spotify AB", "spotify", []string{"spotify"}},
	{"Winamp", "Nullsoft", "winamp", []string{"winamp"}},

	{"Discord", "Discord Inc.", "discord", []string{"discord"}},
	{"Slack", "Slack Technologies", "slack", []string{"slack"}},
	{"Zoom", "Zoom Video Communications", "zoom", []string{"zoom"}},
	{"WhatsApp", "WhatsApp Inc.", "whatsapp", []string{"whatsapp"}},

	{"Steam", "Valve Corporation", "steam", []string{"steam"}},
	{"Epic Games", "Epic Games Inc.", "epicgames", []string{"epic games", "epic launcher"}},
	{"Origin", "Electronic Arts", "origin", []string{"origin", "ea origin"}},

	{"7-Zip", "Igor Pavlov", "7zip", []string{"7-zip", "7zip"}},
	{"WinRAR", "RARLAB", "winrar", []string{"winrar", "rar"}},
	{"Notepad++", "Notepad++ Team", "notepadplusplus", []string{"notepad++", "notepad plus plus"}},
	{"PuTTY", "Simon Tatham", "putty", []string{"putty"}},

	{"Windows Defender", "Microsoft Corporation", "microsoft", []string{"windows defender", "defender", "microsoft defender"}},
	{"Malwarebytes", "Malwarebytes Inc.", "malwarebytes", []string{"malwarebytes"}},

	{"HP Connection Optimizer", "HP Inc.", "hp", []string{"hp connection optimizer", "hp optimizer", "connection optimizer"}},
	{"HP Documentation", "HP Inc.", "hp", []string{"hp documentation", "hp docs", "documentation"}},
	{"HP Notifications", "HP", "hp", []string{"hp notifications", "hp notify", "notifications"}},
	{"HP Security Update Service", "HP Inc.", "hp", []string{"hp security", "hp security update", "security update service"}},
	{"HP Sure Recover", "HP Inc.", "hp", []string{"hp sure recover", "sure recover", "recover"}},
	{"HP Wolf Security", "HP Inc.", "hp", []string{"hp wolf security", "wolf security", "wolf"}},
	{"HP Wolf Security - Console", "HP Inc.", "hp", []string{"hp wolf security console", "wolf security console", "wolf console"}},
	{"HP Sure Run Module", "HP Inc.", "hp", []string{"hp sure run", "sure run module", "sure run"}},
	{"HP System Default Settings", "HP Inc.", "hp", []string{"hp system default", "system default settings", "default settings"}},

	{"Application Verifier x64 External Package", "Microsoft Corporation", "microsoft", []string{"application verifier", "verifier", "microsoft verifier"}},
	{"DiagnosticsHub_CollectionService", "Microsoft Corporation", "microsoft", []string{"diagnostics hub", "collection service", "diagnostics"}},
}
