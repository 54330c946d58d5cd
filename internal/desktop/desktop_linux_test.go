package desktop

import (
	"testing"
	"time"
)

func TestParseProcStat(t *testing.T) {
	// Comm fields may contain spaces and parentheses.
	line := "1234 (tmux: server (1)) S 1 1234 1234 0 -1 4194304 500 0 0 0 120 80 0 0 20 0 7 0 12345 104857600 2048 18446744073709551615 1 1 0 0 0 0 0 0 0 0 0 0 17 3 0 0 0 0 0"

	st, ok := parseProcStat(line)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if st.Comm != "tmux: server (1)" {
		t.Errorf("comm = %q", st.Comm)
	}
	if st.State != 'S' {
		t.Errorf("state = %c", st.State)
	}
	if st.Jiffies != 200 {
		t.Errorf("jiffies = %d, want 200", st.Jiffies)
	}
	if st.Threads != 7 {
		t.Errorf("threads = %d, want 7", st.Threads)
	}
}

func TestParseProcStatMalformed(t *testing.T) {
	for _, input := range []string{"", "1234", "1234 (x) S", "garbage with no parens"} {
		if _, ok := parseProcStat(input); ok {
			t.Errorf("parseProcStat(%q) unexpectedly succeeded", input)
		}
	}
}

func TestParseVmRSS(t *testing.T) {
	status := "Name:\tcode\nState:\tS (sleeping)\nVmPeak:\t  900000 kB\nVmRSS:\t  524288 kB\nThreads:\t30\n"

	kb, ok := parseVmRSS(status)
	if !ok {
		t.Fatal("expected VmRSS")
	}
	if kb != 524288 {
		t.Errorf("rss = %d kB, want 524288", kb)
	}

	// Kernel threads have no VmRSS line.
	if _, ok := parseVmRSS("Name:\tkworker/0:1\nState:\tI (idle)\n"); ok {
		t.Error("expected no VmRSS for kernel thread")
	}
}

func TestParseTotalJiffies(t *testing.T) {
	data := "cpu  100 20 300 4000 50 6 7 0 0 0\ncpu0 50 10 150 2000 25 3 3 0 0 0\n"

	total, ok := parseTotalJiffies(data)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if total != 4483 {
		t.Errorf("total = %d, want 4483", total)
	}

	if _, ok := parseTotalJiffies("intr 12345\n"); ok {
		t.Error("expected failure on non-cpu first line")
	}
}

func TestParseMeminfo(t *testing.T) {
	data := "MemTotal:       16384000 kB\nMemFree:         2048000 kB\nMemAvailable:    8192000 kB\nBuffers:          512000 kB\n"

	total, avail, ok := parseMeminfo(data)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if total != 16384000 {
		t.Errorf("total = %d", total)
	}
	if avail != 8192000 {
		t.Errorf("available = %d", avail)
	}

	if _, _, ok := parseMeminfo("MemTotal: 123 kB\n"); ok {
		t.Error("expected failure without MemAvailable")
	}
}

func TestParseLoadavgAndUptime(t *testing.T) {
	l1, l5, l15 := parseLoadavg("0.52 1.04 2.08 2/1234 56789\n")
	if l1 != 0.52 || l5 != 1.04 || l15 != 2.08 {
		t.Errorf("load = %v %v %v", l1, l5, l15)
	}

	up := parseUptime("3600.50 14000.00\n")
	if up != 3600*time.Second+500*time.Millisecond {
		t.Errorf("uptime = %v", up)
	}
}

func TestParseActiveWindowID(t *testing.T) {
	id, ok := parseActiveWindowID("_NET_ACTIVE_WINDOW(WINDOW): window id # 0x3a00007\n")
	if !ok || id != "0x3a00007" {
		t.Errorf("id = %q ok = %v", id, ok)
	}

	// No focused window.
	if _, ok := parseActiveWindowID("_NET_ACTIVE_WINDOW(WINDOW): window id # 0x0\n"); ok {
		t.Error("expected failure for null window")
	}
}

func TestParseWindowProps(t *testing.T) {
	out := `WM_NAME(STRING) = "main.go - deskwatch - Visual Studio Code"
WM_CLASS(STRING) = "code", "Code"
_NET_WM_PID(CARDINAL) = 4242
`
	w := parseWindowProps(out)
	if w.Title != "main.go - deskwatch - Visual Studio Code" {
		t.Errorf("title = %q", w.Title)
	}
	if w.App != "Code" {
		t.Errorf("app = %q", w.App)
	}
	if w.PID != 4242 {
		t.Errorf("pid = %d", w.PID)
	}
}

func TestStatusName(t *testing.T) {
	cases := map[byte]string{
		'R': "running",
		'S': "sleeping",
		'D': "disk-sleep",
		'Z': "zombie",
		'T': "stopped",
		'I': "idle",
		'X': "unknown",
	}
	for state, want := range cases {
		if got := statusName(state); got != want {
			t.Errorf("statusName(%c) = %q, want %q", state, got, want)
		}
	}
}
