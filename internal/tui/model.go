// Package tui provides the Bubble Tea Morse practice interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuimorse/internal/config"
	"github.com/verte-zerg/tuimorse/internal/generator"
	"github.com/verte-zerg/tuimorse/internal/keyer"
	"github.com/verte-zerg/tuimorse/internal/logging"
	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/sched"
	"github.com/verte-zerg/tuimorse/internal/sidetone"
	statsPkg "github.com/verte-zerg/tuimorse/internal/stats"
	"github.com/verte-zerg/tuimorse/internal/store"
	"github.com/verte-zerg/tuimorse/internal/trainer"
	"github.com/verte-zerg/tuimorse/internal/wordlist"
)

const (
	tokenStatus   sched.Token = "tui.status"
	statusTimeout             = 2 * time.Second
	delayStep                 = 100 * time.Millisecond
	historyLines              = 3
)

// ConfigMsg carries a reloaded practice configuration into the program.
type ConfigMsg struct {
	Config model.Config
}

// Options wires the practice model to its collaborators.
type Options struct {
	Config    model.Config
	Store     *store.Store
	Generator *generator.Generator
	Logger    *slog.Logger
	Clock     sched.Clock
	RunID     string
	// Sound builds the tone player; nil plays nothing.
	Sound func(enabled bool) sidetone.Player
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	cfg    model.Config
	store  *store.Store
	gen    *generator.Generator
	log    *slog.Logger
	clock  sched.Clock
	runID  string
	sound  func(enabled bool) sidetone.Player
	player sidetone.Player

	timers  *teaTimers
	session *keyer.Session
	adapter *keyer.Adapter
	hold    *keyer.RepeatHold
	trainer *trainer.Trainer

	weakSet         map[rune]struct{}
	weakNoticeShown bool

	allWords int
	allSecs  float64
	allBest  float64

	width     int
	height    int
	showChart bool
	status    string
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	successStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Width(9)
	sequenceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs the practice model and assigns the first word.
func NewModel(opts Options) *Model {
	m := &Model{
		cfg:     opts.Config,
		store:   opts.Store,
		gen:     opts.Generator,
		log:     opts.Logger,
		clock:   opts.Clock,
		runID:   opts.RunID,
		sound:   opts.Sound,
		weakSet: map[rune]struct{}{},
	}
	if m.log == nil {
		m.log = logging.Discard()
	}
	if m.clock == nil {
		m.clock = sched.SystemClock{}
	}
	if m.sound == nil {
		m.sound = func(bool) sidetone.Player { return sidetone.Nop{} }
	}
	if m.gen == nil {
		m.gen = generator.New(nil)
	}
	m.player = m.sound(m.cfg.Sound)

	m.timers = newTeaTimers()
	m.session = keyer.New(m.timers, keyerConfig(m.cfg), m.submit)
	m.trainer = trainer.New(trainer.Options{
		Clock:      m.clock,
		Scheduler:  m.timers,
		Picker:     m.gen,
		OnAssign:   m.session.SetTarget,
		OnComplete: m.persist,
	})
	mode, err := keyer.ParseMode(m.cfg.Mode)
	if err != nil {
		mode = keyer.ModeKeyboardDual
	}
	m.adapter = keyer.NewAdapter(mode, m.session)
	m.hold = keyer.NewRepeatHold(m.timers, m.cfg.HoldGrace, m.handleEvent)

	m.loadFooterStats()
	m.refreshWeakSet()
	m.trainer.Start()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle("tuimorse"), m.timers.flush())
}

// Close stops any sounding tone and releases the player.
func (m *Model) Close() error {
	m.player.Stop()
	return m.player.Close()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case timerMsg:
		if m.timers.live(msg) {
			m.fire(msg.token)
		}
	case ConfigMsg:
		m.applyConfig(msg.Config)
		m.setStatus("Config reloaded")
	case tea.KeyMsg:
		if m.handleKey(msg) {
			m.player.Stop()
			return m, tea.Quit
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, m.timers.flush()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.showChart {
		return m.place(renderChart(m.width), m.renderFooter())
	}
	return m.place(m.renderPractice(), m.renderFooter())
}

func (m *Model) place(content, footer string) string {
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderPractice() string {
	contentWidth := max(int(float64(m.width)*0.70), 20)
	if m.width == 0 {
		contentWidth = 0
	}

	target := []rune(m.trainer.Target())
	decoded := []rune(strings.ToLower(m.session.Decoded()))
	word := renderStyledRunes(buildTargetRunes(target, decoded))
	switch m.trainer.Outcome() {
	case trainer.Correct:
		word += "  " + successStyle.Render("Correct!")
	case trainer.Incorrect:
		word += "  " + incorrectStyle.Render("Try again")
	}

	history := lastLines(wrapStyledRunes(buildHistoryRunes(m.trainer.Typed()), contentWidth-9), historyLines)

	sequence := m.session.Sequence()
	if m.session.Pressed() || m.hold.Holding() {
		sequence += "▮"
	}

	lines := []string{
		footerStyle.Render(m.adapter.Mode().Label()) + "  " + pendingStyle.Render(m.adapter.Mode().Hint()),
		"",
		labelStyle.Render("Word") + word,
		labelStyle.Render("Morse") + sequenceStyle.Render(sequence),
		labelStyle.Render("Decoded") + correctStyle.Render(m.session.Decoded()),
		"",
		labelStyle.Render("Typed") + history,
	}
	if m.status != "" {
		lines = append(lines, "", currentWordStyle.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	timing := m.trainer.Timing()
	kcfg := m.session.Config()
	segments := []string{}
	if timing.Count > 0 {
		segments = append(segments, fmt.Sprintf("Last %.2fs · Avg %.2fs · Best %.2fs", timing.Last, timing.Average, timing.Best))
	} else {
		segments = append(segments, "Last -- · Avg -- · Best --")
	}
	if m.allWords > 0 {
		segments = append(segments, fmt.Sprintf("All-time %d words · Avg %.2fs · Best %.2fs", m.allWords, m.allSecs/float64(m.allWords), m.allBest))
	}
	advance := "off"
	if kcfg.AutoAdvance {
		advance = fmt.Sprintf("%.1fs", kcfg.AdvanceDelay.Seconds())
	}
	submit := "off"
	if kcfg.AutoSubmit {
		submit = "on"
	}
	segments = append(segments, fmt.Sprintf("Advance %s · Submit %s", advance, submit))
	if m.cfg.FocusWeak && len(m.weakSet) > 0 {
		segments = append(segments, "Focus "+weakString(m.weakSet))
	}
	segments = append(segments, "? chart")
	return footerStyle.Render(strings.Join(segments, "  "))
}

// handleKey applies a key press and reports whether the program should quit.
func (m *Model) handleKey(msg tea.KeyMsg) bool {
	now := m.clock.Now()
	mode := m.adapter.Mode()
	key := msg.String()
	if msg.Type == tea.KeySpace {
		key = " "
	}
	switch key {
	case "ctrl+c":
		return true
	case "tab":
		m.setMode(mode.Next())
		m.setStatus("Mode: " + m.adapter.Mode().Label())
	case "ctrl+a":
		kcfg := m.session.Config()
		kcfg.AutoAdvance = !kcfg.AutoAdvance
		m.setKeyerConfig(kcfg)
		m.setStatus("Auto-advance " + onOff(kcfg.AutoAdvance))
	case "ctrl+s":
		kcfg := m.session.Config()
		kcfg.AutoSubmit = !kcfg.AutoSubmit
		m.setKeyerConfig(kcfg)
		m.setStatus("Auto-submit " + onOff(kcfg.AutoSubmit))
	case "[", "]":
		kcfg := m.session.Config()
		step := delayStep
		if key == "[" {
			step = -delayStep
		}
		kcfg.AdvanceDelay = clampDelay(kcfg.AdvanceDelay + step)
		m.setKeyerConfig(kcfg)
		m.setStatus(fmt.Sprintf("Advance delay %dms", kcfg.AdvanceDelay.Milliseconds()))
	case "ctrl+r":
		m.trainer.ResetStats()
		m.setStatus("Stats reset")
	case "ctrl+n":
		m.trainer.ResetTest()
		m.setStatus("New test")
	case "?":
		m.showChart = !m.showChart
	case "esc":
		if m.showChart {
			m.showChart = false
			return false
		}
		m.hold.Cancel()
		m.player.Stop()
		m.handleEvent(keyer.Event{Kind: keyer.KindClear, At: now})
	case "backspace":
		m.handleEvent(keyer.Event{Kind: keyer.KindBackspace, At: now})
	case "enter":
		m.handleEvent(keyer.Event{Kind: keyer.KindSubmit, At: now})
	case "/":
		m.handleEvent(keyer.Event{Kind: keyer.KindGap, At: now})
	case " ":
		if mode == keyer.ModeKeyboardSingle {
			m.hold.Key(now)
		} else if mode.Keyboard() {
			m.handleEvent(keyer.Event{Kind: keyer.KindGap, At: now})
		}
	case ".":
		if mode.Keyboard() {
			m.handleEvent(keyer.Event{Kind: keyer.KindDot, At: now})
		}
	case "-":
		if mode.Keyboard() {
			m.handleEvent(keyer.Event{Kind: keyer.KindDash, At: now})
		}
	}
	return false
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	mode := m.adapter.Mode()
	if mode.Keyboard() || tea.MouseEvent(msg).IsWheel() {
		return
	}
	now := m.clock.Now()
	switch msg.Action {
	case tea.MouseActionPress:
		switch {
		case mode.Single():
			m.handleEvent(keyer.Event{Kind: keyer.KindPress, At: now})
		case msg.Button == tea.MouseButtonLeft:
			m.handleEvent(keyer.Event{Kind: keyer.KindDot, At: now})
		case msg.Button == tea.MouseButtonRight:
			m.handleEvent(keyer.Event{Kind: keyer.KindDash, At: now})
		}
	case tea.MouseActionRelease:
		m.handleEvent(keyer.Event{Kind: keyer.KindRelease, At: now})
	}
}

// handleEvent routes a raw input event through the adapter and sounds the
// matching tone when the active mode accepted it.
func (m *Model) handleEvent(ev keyer.Event) {
	if !m.adapter.Handle(ev) {
		return
	}
	switch ev.Kind {
	case keyer.KindDot:
		m.player.Blip(sidetone.DotBlip)
	case keyer.KindDash:
		m.player.Blip(sidetone.DashBlip)
	case keyer.KindPress:
		m.player.Start()
	case keyer.KindRelease:
		m.player.Stop()
	}
}

func (m *Model) fire(token sched.Token) {
	switch token {
	case keyer.TokenAdvance, keyer.TokenSubmit:
		m.session.Fire(token)
	case keyer.TokenRelease:
		m.hold.Fire(token)
	case trainer.TokenOutcome:
		m.trainer.Fire(token)
	case tokenStatus:
		m.status = ""
	}
}

func (m *Model) submit(text string) {
	m.trainer.Submit(text)
}

func (m *Model) setMode(mode keyer.Mode) {
	m.hold.Cancel()
	m.player.Stop()
	m.adapter.SetMode(mode)
}

func (m *Model) setKeyerConfig(kcfg keyer.Config) {
	m.session.SetConfig(kcfg)
	m.cfg.AutoAdvance = kcfg.AutoAdvance
	m.cfg.AutoSubmit = kcfg.AutoSubmit
	m.cfg.AdvanceDelay = kcfg.AdvanceDelay
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.timers.Schedule(tokenStatus, statusTimeout)
}

// applyConfig adopts a reloaded configuration.
func (m *Model) applyConfig(cfg model.Config) {
	prev := m.cfg
	m.cfg = cfg
	if cfg.Mode != prev.Mode {
		if mode, err := keyer.ParseMode(cfg.Mode); err == nil {
			m.setMode(mode)
		}
	}
	m.session.SetConfig(keyerConfig(cfg))
	if cfg.HoldGrace != prev.HoldGrace {
		m.hold.Cancel()
		m.hold = keyer.NewRepeatHold(m.timers, cfg.HoldGrace, m.handleEvent)
	}
	if cfg.Sound != prev.Sound {
		m.player.Stop()
		if err := m.player.Close(); err != nil {
			m.log.Warn("failed to close sound player", "err", err)
		}
		m.player = m.sound(cfg.Sound)
	}
	if cfg.WordsFile != prev.WordsFile {
		m.reloadWords()
	}
	m.refreshWeakSet()
	m.log.Info("config reloaded", "mode", cfg.Mode, "auto_advance", cfg.AutoAdvance, "delay", cfg.AdvanceDelay, "auto_submit", cfg.AutoSubmit)
}

// reloadWords swaps the generator's words for the configured list. The
// current list stays when the new one cannot be loaded.
func (m *Model) reloadWords() {
	path := config.WordsPath(m.cfg.WordsFile)
	words, err := wordlist.Resolve(path)
	if err != nil {
		m.log.Warn("keeping current words", "words_file", path, "err", err)
		return
	}
	m.gen.SetWords(words)
	m.log.Info("words reloaded", "words_file", path, "words", len(words))
}

// persist stores a completed word. Failures are logged and never interrupt
// practice.
func (m *Model) persist(result model.WordResult, chars []model.CharStats) {
	result.RunID = m.runID
	result.Mode = string(m.adapter.Mode())
	secs := float64(result.ElapsedMs) / 1000.0
	if m.allWords == 0 || secs < m.allBest {
		m.allBest = secs
	}
	m.allWords++
	m.allSecs += secs
	m.log.Debug("word completed", "word", result.Word, "elapsed_ms", result.ElapsedMs, "attempts", result.Attempts)

	if m.store == nil {
		return
	}
	if _, err := m.store.InsertWord(context.Background(), result, chars); err != nil {
		m.log.Error("failed to save word", "word", result.Word, "err", err)
	}
	if m.cfg.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	words, err := m.store.ListWords(context.Background(), model.StatsConfig{})
	if err != nil {
		m.log.Error("failed to load word stats", "err", err)
		return
	}
	summary := statsPkg.Summarize(words)
	m.allWords = summary.Words
	m.allSecs = summary.Average * float64(summary.Words)
	m.allBest = summary.Best
}

func (m *Model) refreshWeakSet() {
	if !m.cfg.FocusWeak || m.store == nil {
		m.weakSet = map[rune]struct{}{}
		m.gen.SetWeak(nil, 0)
		return
	}
	aggs, err := m.store.GetWeakChars(context.Background(), m.cfg.WeakWindow)
	if err != nil {
		m.log.Error("failed to load weak chars", "err", err)
		return
	}
	m.weakSet = statsPkg.SelectWeakChars(aggs, m.cfg.WeakTop)
	if len(m.weakSet) == 0 && !m.weakNoticeShown {
		m.log.Info("no weak characters recorded yet; picking words uniformly")
		m.weakNoticeShown = true
	}
	m.gen.SetWeak(m.weakSet, m.cfg.WeakFactor)
}

func keyerConfig(cfg model.Config) keyer.Config {
	return keyer.Config{
		AutoAdvance:  cfg.AutoAdvance,
		AdvanceDelay: cfg.AdvanceDelay,
		AutoSubmit:   cfg.AutoSubmit,
	}
}

func clampDelay(d time.Duration) time.Duration {
	return max(keyer.MinAdvanceDelay, min(d, keyer.MaxAdvanceDelay))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func weakString(set map[rune]struct{}) string {
	runes := make([]string, 0, len(set))
	for r := range set {
		runes = append(runes, string(r))
	}
	sort.Strings(runes)
	return strings.Join(runes, " ")
}
