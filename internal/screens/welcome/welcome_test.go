package welcome

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/zibao/internal/router"
	"github.com/abhisek/zibao/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "map" }
func (s *stubScreen) Title() string                          { return "map" }

func newWelcome() (*WelcomeScreen, *int) {
	calls := 0
	return New(func() screen.Screen {
		calls++
		return &stubScreen{}
	}), &calls
}

func ticks(w *WelcomeScreen, n int) {
	for i := 0; i < n; i++ {
		w.Update(tickMsg(time.Now()))
	}
}

func TestPhases(t *testing.T) {
	w, _ := newWelcome()
	assert.Contains(t, w.View(80, 24), "▓▓▓▓▓ ◆")
	assert.NotContains(t, w.View(80, 24), "一起来收集汉字宝藏")

	ticks(w, 4)
	assert.Contains(t, w.View(80, 24), "字  宝  书")

	ticks(w, 6)
	assert.Contains(t, w.View(80, 24), "一起来收集汉字宝藏")
	assert.NotContains(t, w.View(80, 24), "按任意键开始")

	ticks(w, 5)
	assert.Contains(t, w.View(80, 24), "按任意键开始")
}

func TestKeyIgnoredUntilDone(t *testing.T) {
	w, calls := newWelcome()
	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Zero(t, *calls)
}

func TestTransitionsOnce(t *testing.T) {
	w, calls := newWelcome()
	ticks(w, 15)

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &stubScreen{}, msg.Screen)

	_, cmd = w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, *calls)

	_, cmd = w.Update(tickMsg(time.Now()))
	assert.Nil(t, cmd, "ticking stops after handover")
}

func TestBannerCompact(t *testing.T) {
	assert.Contains(t, RenderBanner(30), "Z I B A O")
	assert.Contains(t, RenderBanner(80), "███████╗██╗")
}
