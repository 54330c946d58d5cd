package category

import "regexp"

// Built-in process rule sets, keyed by normalized process identity (see
// Normalize). Each set carries both the Windows and the Unix names of the
// same programs.

var devProcs = stringSet(
	"code", "code - insiders", "codium",
	"idea64", "idea", "pycharm64", "pycharm", "webstorm64", "webstorm",
	"rider64", "rider", "goland64", "goland", "clion64", "clion", "datagrip64",
	"devenv", "sublime_text", "notepad++",
	"vim", "nvim", "gvim", "emacs",
	"mintty", "windowsterminal", "wt", "conhost", "cmd",
	"powershell", "pwsh", "bash", "zsh", "fish", "tmux",
	"gnome-terminal", "konsole", "xterm", "alacritty", "kitty", "foot", "tilix",
	"gitextensions", "gitkraken", "postman", "insomnia",
	"docker desktop", "wsl", "python", "pythonw", "python3",
)

var browserProcs = stringSet(
	"chrome", "google-chrome", "chromium",
	"msedge", "microsoft-edge",
	"firefox", "firefox-esr",
	"brave", "brave-browser",
	"opera", "vivaldi", "arc",
)

var communicationProcs = stringSet(
	"slack", "discord", "teams", "ms-teams", "zoom", "skype",
	"thunderbird", "outlook",
	"telegram", "telegram-desktop", "signal", "signal-desktop", "element",
)

var productivityProcs = stringSet(
	"winword", "excel", "powerpnt", "onenote",
	"notion", "obsidian", "typora", "figma",
	"acrobat", "acrord32",
	"soffice", "soffice.bin",
)

var distractionProcs = stringSet(
	"spotify", "vlc", "mpv", "wmplayer", "netflix",
	"steam", "epicgameslauncher", "battle.net", "lutris", "heroic",
	"tiktok", "whatsapp",
)

func stringSet(items ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}

// Title pattern groups, scanned in cascade order. All case-insensitive.

var researchTitles = compileAll(
	`stack\s*overflow`,
	`github\.com`,
	`gitlab\.com`,
	`documentation`,
	`\bdocs\b`,
	`developer\.mozilla`,
	`mdn web docs`,
	`learn\.microsoft`,
	`w3schools`,
	`geeksforgeeks`,
	`tutorialspoint`,
	`medium\.com`,
	`dev\.to`,
	`man\s+page`,
	`pypi\.org`,
	`npmjs\.com`,
	`crates\.io`,
	`pkg\.go\.dev`,
	`wikipedia\.org`,
	`arxiv\.org`,
)

var distractionTitles = compileAll(
	`youtube`,
	`netflix`,
	`twitch\.tv`,
	`disney\+`,
	`prime\s*video`,
	`\breddit\b`,
	`twitter|x\.com`,
	`facebook`,
	`instagram`,
	`tiktok`,
	`snapchat`,
	`pinterest`,
	`9gag`,
	`imgur`,
	`buzzfeed`,
)

var communicationTitles = compileAll(
	`gmail`,
	`outlook\.live`,
	`mail\.yahoo`,
	`whatsapp`,
	`messenger`,
	`slack`,
	`discord`,
	`microsoft\s+teams`,
)

var productivityTitles = compileAll(
	`google\s+docs`,
	`google\s+sheets`,
	`google\s+slides`,
	`notion\.so`,
	`trello`,
	`asana`,
	`jira`,
	`confluence`,
	`linear\.app`,
	`figma\.com`,
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

func matchAny(patterns []*regexp.Regexp, title string) bool {
	for _, p := range patterns {
		if p.MatchString(title) {
			return true
		}
	}
	return false
}
