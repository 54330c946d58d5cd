package category

// appRoles maps normalized process identities to human-readable role
// descriptions for reporting.
var appRoles = map[string]string{
	// Development
	"code":            "Text Editor & IDE (Visual Studio Code)",
	"code - insiders": "Text Editor & IDE (VS Code Insiders)",
	"idea64":          "Java/Kotlin IDE (IntelliJ IDEA)",
	"idea":            "Java/Kotlin IDE (IntelliJ IDEA)",
	"pycharm64":       "Python IDE (PyCharm)",
	"pycharm":         "Python IDE (PyCharm)",
	"webstorm64":      "JavaScript IDE (WebStorm)",
	"goland":          "Go IDE (GoLand)",
	"goland64":        "Go IDE (GoLand)",
	"devenv":          "IDE (Visual Studio)",
	"sublime_text":    "Text Editor (Sublime Text)",
	"notepad++":       "Text Editor (Notepad++)",
	"vim":             "Terminal Text Editor (Vim)",
	"nvim":            "Terminal Text Editor (Neovim)",
	"emacs":           "Text Editor (Emacs)",
	"windowsterminal": "Terminal Emulator (Windows Terminal)",
	"wt":              "Terminal Emulator (Windows Terminal)",
	"gnome-terminal":  "Terminal Emulator (GNOME Terminal)",
	"konsole":         "Terminal Emulator (Konsole)",
	"alacritty":       "Terminal Emulator (Alacritty)",
	"kitty":           "Terminal Emulator (kitty)",
	"powershell":      "Command Shell (PowerShell)",
	"pwsh":            "Command Shell (PowerShell Core)",
	"cmd":             "Command Shell (Command Prompt)",
	"bash":            "Command Shell (Bash)",
	"zsh":             "Command Shell (Zsh)",
	"tmux":            "Terminal Multiplexer (tmux)",
	"mintty":          "Terminal Emulator (Git Bash)",
	"postman":         "API Testing Tool (Postman)",
	"insomnia":        "API Testing Tool (Insomnia)",
	"docker desktop":  "Container Platform (Docker)",
	"gitkraken":       "Git GUI Client (GitKraken)",
	"gitextensions":   "Git GUI Client (Git Extensions)",

	// Browsers
	"chrome":         "Web Browser (Google Chrome)",
	"google-chrome":  "Web Browser (Google Chrome)",
	"chromium":       "Web Browser (Chromium)",
	"msedge":         "Web Browser (Microsoft Edge)",
	"microsoft-edge": "Web Browser (Microsoft Edge)",
	"firefox":        "Web Browser (Mozilla Firefox)",
	"brave":          "Web Browser (Brave)",
	"brave-browser":  "Web Browser (Brave)",
	"opera":          "Web Browser (Opera)",
	"vivaldi":        "Web Browser (Vivaldi)",
	"arc":            "Web Browser (Arc)",

	// Communication
	"slack":            "Team Messaging (Slack)",
	"discord":          "Chat & Voice (Discord)",
	"teams":            "Team Collaboration (Microsoft Teams)",
	"zoom":             "Video Conferencing (Zoom)",
	"skype":            "Voice & Video Calls (Skype)",
	"telegram":         "Messaging App (Telegram)",
	"telegram-desktop": "Messaging App (Telegram)",
	"thunderbird":      "Email Client (Thunderbird)",
	"outlook":          "Email & Calendar (Outlook)",

	// Productivity
	"winword":  "Word Processor (Microsoft Word)",
	"excel":    "Spreadsheet (Microsoft Excel)",
	"powerpnt": "Presentations (Microsoft PowerPoint)",
	"onenote":  "Note-Taking (OneNote)",
	"notion":   "Workspace & Notes (Notion)",
	"obsidian": "Knowledge Base (Obsidian)",
	"figma":    "UI/UX Design (Figma)",
	"acrobat":  "PDF Editor (Adobe Acrobat)",
	"soffice":  "Office Suite (LibreOffice)",

	// Media
	"spotify": "Music Streaming (Spotify)",
	"vlc":     "Media Player (VLC)",
	"mpv":     "Media Player (mpv)",

	// System
	"explorer":       "File Manager (Windows Explorer)",
	"nautilus":       "File Manager (GNOME Files)",
	"dolphin":        "File Manager (Dolphin)",
	"taskmgr":        "System Monitor (Task Manager)",
	"gnome-shell":    "Desktop Shell (GNOME)",
	"plasmashell":    "Desktop Shell (KDE Plasma)",
	"dwm":            "Desktop Window Manager",
	"svchost":        "Windows Service Host",
	"systemsettings": "System Settings",
}

// Role returns a human-readable description of an application's role,
// falling back to a category-level description, then "Application" for any
// unrecognized non-empty name, and "Unknown Process" for an empty one.
func Role(app string) string {
	proc := Normalize(app)
	if proc == "" {
		return "Unknown Process"
	}
	if role, ok := appRoles[proc]; ok {
		return role
	}
	if _, ok := devProcs[proc]; ok {
		return "Development Tool"
	}
	if _, ok := browserProcs[proc]; ok {
		return "Web Browser"
	}
	if _, ok := communicationProcs[proc]; ok {
		return "Communication App"
	}
	if _, ok := productivityProcs[proc]; ok {
		return "Productivity App"
	}
	if _, ok := distractionProcs[proc]; ok {
		return "Entertainment / Media"
	}
	return "Application"
}
