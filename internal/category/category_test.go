package category

import "testing"

func TestCategorizeByProcess(t *testing.T) {
	e := NewEngine(Rules{})

	tests := []struct {
		app  string
		want Category
	}{
		{"code.exe", Development},
		{"pycharm64.exe", Development},
		{"idea64.exe", Development},
		{"devenv.exe", Development},
		{"sublime_text.exe", Development},
		{"notepad++.exe", Development},
		{"wt.exe", Development},
		{"powershell.exe", Development},
		{"cmd.exe", Development},
		{"postman.exe", Development},
		{"nvim", Development},
		{"alacritty", Development},
		{"slack.exe", Communication},
		{"discord.exe", Communication},
		{"teams.exe", Communication},
		{"zoom.exe", Communication},
		{"telegram.exe", Communication},
		{"outlook.exe", Communication},
		{"winword.exe", Productivity},
		{"excel.exe", Productivity},
		{"notion.exe", Productivity},
		{"obsidian.exe", Productivity},
		{"figma.exe", Productivity},
		{"spotify.exe", Distraction},
		{"vlc.exe", Distraction},
		{"steam", Distraction},
	}

	for _, tt := range tests {
		t.Run(tt.app, func(t *testing.T) {
			got := e.Categorize(tt.app, "Some window title")
			if got != tt.want {
				t.Errorf("Categorize(%q) = %v, want %v", tt.app, got, tt.want)
			}
		})
	}
}

func TestCategorizeBrowserTitles(t *testing.T) {
	e := NewEngine(Rules{})

	tests := []struct {
		name  string
		app   string
		title string
		want  Category
	}{
		{"stackoverflow", "chrome.exe", "python list comprehension - Stack Overflow - Google Chrome", Research},
		{"github", "msedge.exe", "myrepo - github.com - Edge", Research},
		{"documentation", "chrome.exe", "React Documentation - Getting Started", Research},
		{"youtube", "chrome.exe", "Funny Cat Videos - YouTube - Google Chrome", Distraction},
		{"reddit", "firefox", "r/gaming - Reddit", Distraction},
		{"gmail", "chrome.exe", "Inbox - Gmail", Communication},
		{"google docs wins over docs pattern", "chrome.exe", "Project Plan - Google Docs", Productivity},
		{"jira", "chromium", "PROJ-142 Board - Jira", Productivity},
		{"generic page", "chrome.exe", "My Random Website", Browsing},
		{"empty title", "chrome.exe", "", Browsing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Categorize(tt.app, tt.title)
			if got != tt.want {
				t.Errorf("Categorize(%q, %q) = %v, want %v", tt.app, tt.title, got, tt.want)
			}
		})
	}
}

func TestCategorizeUnknownProcess(t *testing.T) {
	e := NewEngine(Rules{})

	// Unknown process with no matching title patterns falls back to Other.
	if got := e.Categorize("randomapp.exe", "Some window"); got != Other {
		t.Errorf("Categorize(randomapp.exe) = %v, want %v", got, Other)
	}

	// The general title cascade still applies to unknown processes.
	if got := e.Categorize("someviewer", "Attention Is All You Need - arxiv.org"); got != Research {
		t.Errorf("title cascade for unknown process = %v, want %v", got, Research)
	}
	if got := e.Categorize("", ""); got != Other {
		t.Errorf("Categorize empty = %v, want %v", got, Other)
	}
}

func TestCategorizeCaseInsensitive(t *testing.T) {
	e := NewEngine(Rules{})
	if got := e.Categorize("Code.exe", "test.py"); got != Development {
		t.Errorf("Categorize(Code.exe) = %v, want %v", got, Development)
	}
}

func TestUserRulesOverrideBuiltins(t *testing.T) {
	e := NewEngine(Rules{
		ProductiveProcesses:  []string{"blender.exe", "unity.exe"},
		DistractionProcesses: []string{"notepad.exe"},
		ProductiveKeywords:   []string{"coursera", "graph visualization"},
		DistractionKeywords:  []string{"funny cat videos"},
	})

	tests := []struct {
		name  string
		app   string
		title string
		want  Category
	}{
		{"custom productive process", "blender.exe", "Blender Project", Productivity},
		{"custom distraction process", "notepad.exe", "Notes", Distraction},
		{"custom productive keyword beats youtube-free title", "chrome.exe", "Learning Python on Coursera - Chrome", Productivity},
		{"custom distraction keyword", "chrome.exe", "Funny Cat Videos - YouTube", Distraction},
		{"builtin still applies when no override matches", "chrome.exe", "Random Page - Chrome", Browsing},
		{"builtin dev process unaffected", "code.exe", "main.py - VS Code", Development},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Categorize(tt.app, tt.title)
			if got != tt.want {
				t.Errorf("Categorize(%q, %q) = %v, want %v", tt.app, tt.title, got, tt.want)
			}
		})
	}
}

func TestIsProductive(t *testing.T) {
	productive := []Category{Development, Research, Productivity}
	for _, c := range productive {
		if !IsProductive(c) {
			t.Errorf("IsProductive(%v) = false, want true", c)
		}
	}
	unproductive := []Category{Distraction, Browsing, Communication, Other}
	for _, c := range unproductive {
		if IsProductive(c) {
			t.Errorf("IsProductive(%v) = true, want false", c)
		}
	}
}

func TestRole(t *testing.T) {
	tests := []struct {
		app  string
		want string
	}{
		{"chrome.exe", "Web Browser (Google Chrome)"},
		{"Code.exe", "Text Editor & IDE (Visual Studio Code)"},
		{"goland", "Go IDE (GoLand)"},
		{"wsl.exe", "Development Tool"},
		{"firefox-esr", "Web Browser"},
		{"signal-desktop", "Communication App"},
		{"typora", "Productivity App"},
		{"lutris", "Entertainment / Media"},
		{"totally-unknown-binary", "Application"},
		{"", "Unknown Process"},
		{"   ", "Unknown Process"},
	}

	for _, tt := range tests {
		t.Run(tt.app, func(t *testing.T) {
			if got := Role(tt.app); got != tt.want {
				t.Errorf("Role(%q) = %q, want %q", tt.app, got, tt.want)
			}
		})
	}
}
