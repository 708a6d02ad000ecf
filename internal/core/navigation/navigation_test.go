package navigation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autonav/internal/core/model"
)

type fakeDisabler struct {
	reasons []string
}

func (disabler *fakeDisabler) Disable(reason string) {
	disabler.reasons = append(disabler.reasons, reason)
}

type steppedTime struct {
	now time.Time
}

func (clock *steppedTime) Now() time.Time { return clock.now }

func (clock *steppedTime) Add(delta time.Duration) { clock.now = clock.now.Add(delta) }

func newDetector(t *testing.T, start string) (*LoopDetector, *fakeDisabler, *steppedTime) {
	t.Helper()
	clock := &steppedTime{now: time.Date(2026, 1, 23, 8, 0, 0, 0, time.UTC)}
	disabler := &fakeDisabler{}
	return NewLoopDetector(DefaultDetectorConfig(), start, clock.Now, disabler, nil), disabler, clock
}

func TestMemoryHostPushAndBack(t *testing.T) {
	host := NewMemoryHost("/a", nil)
	changes := 0
	unsubscribe := host.Subscribe(func() { changes++ })

	host.Push("/b")
	host.Push("/c")
	host.Back()
	assert.Equal(t, "/b", host.CurrentPath())

	host.Push("/d")
	history, index := host.History()
	assert.Equal(t, []string{"/a", "/b", "/d"}, history)
	assert.Equal(t, 2, index)
	assert.Equal(t, 4, changes)

	unsubscribe()
	host.Back()
	assert.Equal(t, 4, changes)
}

func TestMemoryHostBackAtRootIsSilent(t *testing.T) {
	host := NewMemoryHost("/a", nil)
	changes := 0
	host.Subscribe(func() { changes++ })
	assert.False(t, host.Back())
	assert.Equal(t, "/a", host.CurrentPath())
	assert.Zero(t, changes)

	host.Push("/b")
	assert.True(t, host.Back())
	assert.Equal(t, 2, changes)
}

func TestMemoryHostRedirectNotifiesBothLocations(t *testing.T) {
	host := NewMemoryHost("/kiosk", nil)
	host.Push("/card")
	host.SetRedirect("/kiosk", "/card")

	var seen []string
	host.Subscribe(func() { seen = append(seen, host.CurrentPath()) })
	host.Back()

	assert.Equal(t, []string{"/kiosk", "/card"}, seen)
	assert.Equal(t, "/card", host.CurrentPath())
}

func TestMemoryHostRedirectCycleIsBounded(t *testing.T) {
	host := NewMemoryHost("/start", nil)
	host.SetRedirect("/x", "/y")
	host.SetRedirect("/y", "/x")
	changes := 0
	host.Subscribe(func() { changes++ })

	host.Push("/x")
	assert.Equal(t, maxRedirectHops+1, changes)

	host.SetRedirect("/x", "")
	host.SetRedirect("/y", "")
	host.Push("/x")
	assert.Equal(t, "/x", host.CurrentPath())
}

func TestLoopDetectorKeepsThreeDistinct(t *testing.T) {
	detector, _, _ := newDetector(t, "/a")
	assert.Equal(t, ObserveIgnored, detector.Observe("/a"))
	assert.Equal(t, ObserveIgnored, detector.Observe(""))
	for _, path := range []string{"/b", "/c", "/d", "/e"} {
		assert.Equal(t, ObserveChanged, detector.Observe(path))
	}
	assert.Equal(t, []string{"/c", "/d", "/e"}, detector.Recent())
	assert.Equal(t, "/e", detector.Current())
}

func TestLoopDetectorBounceWithinWindow(t *testing.T) {
	detector, disabler, clock := newDetector(t, "/card")

	detector.Record(KindBack)
	clock.Add(time.Second)
	assert.Equal(t, ObserveArrived, detector.Observe("/home"))
	record, ok := detector.Pending()
	require.True(t, ok)
	assert.True(t, record.Landed)

	clock.Add(time.Second)
	assert.Equal(t, ObserveBounce, detector.Observe("/card"))

	require.Len(t, disabler.reasons, 1)
	assert.Equal(t, "back loop detected (/card ↔ /home)", disabler.reasons[0])
	_, pending := detector.Pending()
	assert.False(t, pending)
}

func TestLoopDetectorBackToPreviousPageIsNotABounce(t *testing.T) {
	detector, disabler, _ := newDetector(t, "/home")
	detector.Observe("/card")

	detector.Record(KindBack)
	assert.Equal(t, ObserveArrived, detector.Observe("/home"))
	assert.Empty(t, disabler.reasons)

	assert.Equal(t, ObserveChanged, detector.Observe("/other"))
	assert.Empty(t, disabler.reasons)
}

func TestLoopDetectorArrivalAfterWindowIsAChange(t *testing.T) {
	detector, _, clock := newDetector(t, "/card")
	detector.Record(KindPath)
	clock.Add(DefaultLoopWindow + time.Second)

	assert.Equal(t, ObserveChanged, detector.Observe("/home"))
	_, pending := detector.Pending()
	assert.False(t, pending)
}

func TestLoopDetectorDiscard(t *testing.T) {
	detector, _, _ := newDetector(t, "/card")
	detector.Record(KindBack)
	detector.Discard()

	_, pending := detector.Pending()
	assert.False(t, pending)
	assert.Equal(t, ObserveChanged, detector.Observe("/home"), "a later manual change is not an arrival")
}

func TestLoopDetectorBounceAtWindowEdgeCounts(t *testing.T) {
	detector, disabler, clock := newDetector(t, "/card")
	detector.Record(KindBack)
	detector.Observe("/home")
	clock.Add(DefaultLoopWindow)
	assert.Equal(t, ObserveBounce, detector.Observe("/card"))
	assert.Len(t, disabler.reasons, 1)
}

func TestLoopDetectorBounceAfterWindowIgnored(t *testing.T) {
	detector, disabler, clock := newDetector(t, "/card")
	detector.Record(KindBack)
	detector.Observe("/home")
	clock.Add(DefaultLoopWindow + time.Millisecond)

	assert.Equal(t, ObserveChanged, detector.Observe("/card"))
	assert.Empty(t, disabler.reasons)
	_, pending := detector.Pending()
	assert.False(t, pending, "expired record is discarded")
}

func TestLoopDetectorIgnoresPathNavigationBounce(t *testing.T) {
	detector, disabler, _ := newDetector(t, "/card")
	detector.Record(KindPath)
	detector.Observe("/home")
	detector.Observe("/card")
	assert.Empty(t, disabler.reasons)
}

func TestLoopDetectorWithoutSelfNavigation(t *testing.T) {
	detector, disabler, _ := newDetector(t, "/a")
	detector.Observe("/b")
	detector.Observe("/a")
	assert.Empty(t, disabler.reasons)
}

func TestLoopDetectorHistorySizeClamped(t *testing.T) {
	detector := NewLoopDetector(DetectorConfig{HistorySize: 1}, "/a", nil, nil, nil)
	detector.Observe("/b")
	detector.Observe("/c")
	assert.Len(t, detector.Recent(), DefaultHistorySize)
}

func TestExecutorPathNavigates(t *testing.T) {
	host := NewMemoryHost("/b", nil)
	detector, _, _ := newDetector(t, "/b")
	executor := NewExecutor(host, detector, nil)

	config := model.DefaultConfig()
	config.NavigationPath = "  /a "
	decision := executor.Navigate(config)

	assert.False(t, decision.Stop)
	assert.Equal(t, "/a", decision.Target)
	assert.Equal(t, "/a", host.CurrentPath())
	record, ok := detector.Pending()
	require.True(t, ok)
	assert.Equal(t, KindPath, record.Kind)
}

func TestExecutorPathStops(t *testing.T) {
	host := NewMemoryHost("/a", nil)
	executor := NewExecutor(host, nil, nil)
	config := model.DefaultConfig()

	config.NavigationPath = "   "
	assert.Equal(t, Decision{Stop: true, Reason: ReasonEmptyPath, Kind: KindPath}, executor.Navigate(config))

	config.NavigationPath = "/a"
	decision := executor.Navigate(config)
	assert.True(t, decision.Stop)
	assert.Equal(t, ReasonSamePath, decision.Reason)

	history, _ := host.History()
	assert.Equal(t, []string{"/a"}, history, "no push on stop")
}

func TestExecutorBackRecordsBeforeNavigating(t *testing.T) {
	host := NewMemoryHost("/a", nil)
	host.Push("/b")
	detector, _, _ := newDetector(t, "/b")
	executor := NewExecutor(host, detector, nil)

	recordedFirst := false
	host.Subscribe(func() {
		_, recordedFirst = detector.Pending()
	})

	config := model.DefaultConfig()
	config.NavigationMode = model.ModeBack
	decision := executor.Navigate(config)

	assert.False(t, decision.Stop)
	assert.Equal(t, "/a", host.CurrentPath())
	assert.True(t, recordedFirst)
}

func TestExecutorBackAtRootLeavesNoRecord(t *testing.T) {
	host := NewMemoryHost("/a", nil)
	detector, _, _ := newDetector(t, "/a")
	executor := NewExecutor(host, detector, nil)

	config := model.DefaultConfig()
	config.NavigationMode = model.ModeBack
	decision := executor.Navigate(config)

	assert.False(t, decision.Stop)
	assert.Equal(t, "/a", host.CurrentPath())
	_, pending := detector.Pending()
	assert.False(t, pending)
	assert.Equal(t, ObserveChanged, detector.Observe("/b"))
}

func TestExecutorModeNone(t *testing.T) {
	executor := NewExecutor(NewMemoryHost("/", nil), nil, nil)
	config := model.DefaultConfig()
	config.NavigationMode = model.ModeNone
	decision := executor.Navigate(config)
	assert.True(t, decision.Stop)
	assert.Equal(t, ReasonModeNone, decision.Reason)
}
