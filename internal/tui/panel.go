package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/syncpanel/internal/domain"
	"github.com/mmcdole/syncpanel/internal/tui/dialog"
	"github.com/mmcdole/syncpanel/internal/tui/styles"
)

// HistoryRefreshWindow is how long an authentication stays valid before
// enabling the history collection asks for it again
const HistoryRefreshWindow = 5 * time.Minute

// Services are the collaborators of the panel
type Services struct {
	Bridge   domain.SyncBridge
	Settings domain.Settings
	L10n     domain.Localizer
	Identity domain.Identity
	Bus      *EventBus
	Logger   *slog.Logger
}

// Panel is the sync settings controller. It owns the two-screen view model and
// is only mutated from Update.
type Panel struct {
	bridge   domain.SyncBridge
	settings domain.Settings
	l10n     domain.Localizer
	identity domain.Identity
	bus      *EventBus
	logger   *slog.Logger

	// Controls: doc holds every element, elements only those of the active screen
	doc       map[ElementID]*Element
	elements  map[ElementID]*Element
	listeners map[ElementID]*Binding
	bindings  bindings
	hidden    map[Screen]bool

	collections map[string]bool
	screen      Screen
	state       domain.SyncState

	// generation is bumped by every sync notification; async work started
	// for an older generation is discarded
	generation int

	started        bool
	settingsLoaded bool

	dialog  dialog.Model
	spinner spinner.Model
	focus   int

	status      string
	statusIsErr bool
	width       int
}

// NewPanel creates the panel. Both screens start hidden until the first
// sync status arrives.
func NewPanel(svc Services) *Panel {
	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bus := svc.Bus
	if bus == nil {
		bus = NewEventBus(64)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	return &Panel{
		bridge:      svc.Bridge,
		settings:    svc.Settings,
		l10n:        svc.L10n,
		identity:    svc.Identity,
		bus:         bus,
		logger:      logger,
		doc:         newDocument(),
		elements:    make(map[ElementID]*Element),
		listeners:   make(map[ElementID]*Binding),
		bindings:    make(bindings),
		hidden:      map[Screen]bool{ScreenDisabled: true, ScreenEnabled: true},
		collections: make(map[string]bool),
		spinner:     sp,
	}
}

// Init registers the bridge listener, loads the settings observers and polls
// the current sync status
func (p *Panel) Init() tea.Cmd {
	if !p.started {
		p.started = true
		p.bridge.AddListener(p.bus.OnSyncChange)
	}
	return tea.Batch(
		WaitForEventCmd(p.bus),
		LoadSettingsCmd(p.settings, p.bus),
		p.Refresh(),
		p.spinner.Tick,
	)
}

// Refresh polls the bridge; the answer goes through HandleSyncChange like a
// pushed notification
func (p *Panel) Refresh() tea.Cmd {
	return RefreshCmd(p.bridge)
}

// Update handles all messages addressed to the panel
func (p *Panel) Update(msg tea.Msg) (*Panel, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		_, cmd := p.Update(msg.msg)
		return p, tea.Batch(cmd, WaitForEventCmd(p.bus))

	case tea.WindowSizeMsg:
		p.width = msg.Width
		return p, nil

	case tea.FocusMsg:
		// Terminal regained focus: the sync state may have moved while hidden
		p.logger.Debug("visibility change", "hidden", false)
		return p, p.Refresh()

	case tea.BlurMsg:
		p.logger.Debug("visibility change", "hidden", true)
		return p, nil

	case tea.KeyMsg:
		return p, p.handleKey(msg)

	case SyncChangeMsg:
		cmd, err := p.HandleSyncChange(msg.Info)
		if err != nil {
			p.logger.Error("sync notification rejected", "error", err)
			return p, nil
		}
		return p, cmd

	case SettingsLoadedMsg:
		p.settingsLoaded = true
		return p, nil

	case SettingChangedMsg:
		p.onSettingChanged(msg.Key, msg.Value)
		return p, nil

	case SyncErrorResolvedMsg:
		return p, p.showSyncError(msg)

	case SyncErrorAckMsg:
		if msg.Generation != p.generation {
			p.logger.Debug("stale sync error acknowledged", "generation", msg.Generation)
			return p, nil
		}
		p.showScreen(ScreenDisabled)
		return p, nil

	case IdentityLoginMsg:
		p.collections[domain.HistorySetting] = true
		p.settings.Set(map[string]any{domain.HistorySetting: true})
		return p, nil

	case IdentityErrorMsg:
		p.logger.Error("identity error", "error", msg.Err)
		return p, nil

	case ErrMsg:
		p.logger.Error("panel error", "error", msg.Err, "context", msg.Context)
		p.status = msg.Error()
		p.statusIsErr = true
		return p, ClearStatusCmd(5 * time.Second)

	case ClearStatusMsg:
		p.status = ""
		p.statusIsErr = false
		return p, nil

	case spinner.TickMsg:
		if p.state != domain.SyncSyncing && p.settingsLoaded {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}

	return p, nil
}

// HandleSyncChange is the state transition function. A notification without
// a state is a bridge contract violation and is rejected unrecorded.
func (p *Panel) HandleSyncChange(info domain.SyncInfo) (tea.Cmd, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	p.logger.Debug("sync change", "state", info.State, "user", info.User, "error", info.Error)

	prev := p.state
	p.state = info.State
	p.generation++

	var cmds []tea.Cmd
	switch info.State {
	case domain.SyncDisabled:
		p.showScreen(ScreenDisabled)

	case domain.SyncEnabled:
		// Bring the settings to the foreground only when sync was enabled by
		// the user, not when it was already enabled by a previous run.
		if prev == domain.SyncEnabling {
			cmds = append(cmds, func() tea.Msg { return ShowSettingsMsg{} })
		}
		p.showScreen(ScreenEnabled)
		p.showUser(info.User)
		p.showSyncNow()

	case domain.SyncSyncing:
		p.showScreen(ScreenEnabled)
		p.showSyncing()
		cmds = append(cmds, p.spinner.Tick)

	case domain.SyncErrored:
		// The sync is over: controls left disabled by syncing come back
		if prev == domain.SyncSyncing {
			p.showSyncNow()
		}
		if ignoredSyncErrors[info.Error] {
			p.logger.Debug("sync error ignored", "error", info.Error)
			break
		}
		cmds = append(cmds, ResolveSyncErrorCmd(p.l10n, info.Error, p.generation))
	}

	return tea.Batch(cmds...), nil
}

// showSyncError opens the alert for a resolved sync error unless a newer
// notification superseded it
func (p *Panel) showSyncError(msg SyncErrorResolvedMsg) tea.Cmd {
	if msg.Generation != p.generation {
		p.logger.Debug("stale sync error dropped", "error", msg.Code, "generation", msg.Generation)
		return nil
	}
	gen := msg.Generation
	p.dialog = dialog.NewAlert(dialog.SyncError, msg.Title, msg.Explanation,
		p.l10n.Format("dialog-ok", nil),
		func() tea.Msg { return SyncErrorAckMsg{Generation: gen} })
	return nil
}

// showScreen activates screen, binding its listeners and unbinding the
// others. Re-entering the active screen does nothing.
func (p *Panel) showScreen(screen Screen) bool {
	if p.screen == screen {
		return false
	}
	p.screen = screen

	p.loadElements(screen)

	p.hidden[ScreenEnabled] = screen != ScreenEnabled
	p.hidden[ScreenDisabled] = screen != ScreenDisabled
	p.focus = 0
	return true
}

func (p *Panel) loadElements(screen Screen) {
	for _, d := range elementTable {
		if d.screen == screen {
			el := p.doc[d.id]
			p.elements[d.id] = el
			p.listeners[d.id] = p.bindings.add(el, d.event, d.listener)
			if d.init != nil {
				d.init(p)
			}
			continue
		}

		if _, loaded := p.listeners[d.id]; !loaded {
			continue
		}
		p.bindings.remove(p.listeners[d.id])
		delete(p.listeners, d.id)
		delete(p.elements, d.id)
	}
}

func (p *Panel) showUser(user string) {
	if el := p.elements[SignedInAs]; el != nil {
		el.SetAttributes("fxsync-signed-in-as", map[string]string{"email": user})
	}
}

// maybeEnableSyncNow enables sync-now when at least one collection is
// selected. Does nothing off the enabled screen.
func (p *Panel) maybeEnableSyncNow() {
	el := p.elements[SyncNowButton]
	if el == nil {
		return
	}
	el.Disabled = len(p.collections) == 0 || p.state == domain.SyncSyncing
}

func (p *Panel) disableSyncNowAndCollections(disabled bool) {
	for _, id := range []ElementID{CollectionBookmarks, CollectionHistory, SyncNowButton} {
		if el := p.elements[id]; el != nil {
			el.Disabled = disabled
		}
	}
}

func (p *Panel) showSyncNow() {
	if el := p.elements[SyncNowButton]; el != nil {
		el.SetAttributes("fxsync-sync-now", nil)
	}
	p.disableSyncNowAndCollections(false)
	p.maybeEnableSyncNow()
}

func (p *Panel) showSyncing() {
	if el := p.elements[SyncNowButton]; el != nil {
		el.SetAttributes("fxsync-syncing", nil)
	}
	p.disableSyncNowAndCollections(true)
}

// === Collections ===

func (p *Panel) onSettingChanged(key string, value any) {
	enabled, _ := value.(bool)
	if enabled {
		p.collections[key] = true
	} else {
		delete(p.collections, key)
	}

	switch key {
	case domain.BookmarksSetting:
		p.onBookmarksChange()
	case domain.HistorySetting:
		p.onHistoryChange()
	}
	p.maybeEnableSyncNow()
}

func (p *Panel) onBookmarksChange() {
	if el := p.elements[CollectionBookmarks]; el != nil {
		el.Checked = p.collections[domain.BookmarksSetting]
	}
}

func (p *Panel) onHistoryChange() {
	if el := p.elements[CollectionHistory]; el != nil {
		el.Checked = p.collections[domain.HistorySetting]
	}
}

func (p *Panel) onBookmarksChecked() tea.Cmd {
	checked := p.elements[CollectionBookmarks].Checked
	if checked {
		p.collections[domain.BookmarksSetting] = true
	} else {
		delete(p.collections, domain.BookmarksSetting)
	}
	p.settings.Set(map[string]any{domain.BookmarksSetting: checked})
	return nil
}

// onHistoryChecked persists an uncheck right away. Checking requires a fresh
// authentication; the setting is only written once the user logs in.
func (p *Panel) onHistoryChecked() tea.Cmd {
	if !p.elements[CollectionHistory].Checked {
		delete(p.collections, domain.HistorySetting)
		p.settings.Set(map[string]any{domain.HistorySetting: false})
		return nil
	}

	bus := p.bus
	err := p.identity.Watch(domain.WatchOptions{
		WantIssuer: domain.IssuerFirefoxAccounts,
		OnLogin:    func(string) { bus.Send(IdentityLoginMsg{}) },
		OnLogout:   func() {},
		OnReady:    func() {},
		OnError:    func(err error) { bus.Send(IdentityErrorMsg{Err: err}) },
	})
	if err != nil {
		p.logger.Debug("identity watch failed", "error", err)
	}

	p.identity.Request(domain.RequestOptions{
		OnCancel:              func() {},
		RefreshAuthentication: HistoryRefreshWindow,
	})
	return nil
}

// === Actions ===

func (p *Panel) enable() tea.Cmd {
	p.logger.Info("enabling sync")
	return bridgeCmd(p.bridge.Enable)
}

func (p *Panel) disable() tea.Cmd {
	p.dialog = dialog.NewConfirm(dialog.SignOutConfirm,
		p.l10n.Format("signout-confirm-title", nil),
		p.l10n.Format("signout-confirm-body", nil),
		p.l10n.Format("dialog-yes", nil),
		p.l10n.Format("dialog-no", nil),
		bridgeCmd(p.bridge.Disable))
	return nil
}

func (p *Panel) sync() tea.Cmd {
	p.logger.Info("sync requested")
	return bridgeCmd(p.bridge.Sync)
}

// Activate delivers the element event: press for buttons, toggle for
// checkboxes after flipping their checked state. Disabled or unloaded
// elements ignore it.
func (p *Panel) Activate(id ElementID) tea.Cmd {
	el, ok := p.elements[id]
	if !ok || el.Disabled {
		return nil
	}

	event := EventPress
	if el.Checkbox {
		el.Checked = !el.Checked
		event = EventToggle
	}

	b := p.bindings.lookup(id, event)
	if b == nil {
		return nil
	}
	return b.handler(p)
}

// focusables returns the bound elements of the active screen in table order
func (p *Panel) focusables() []ElementID {
	var ids []ElementID
	for _, d := range elementTable {
		if d.screen == p.screen && d.event != "" {
			ids = append(ids, d.id)
		}
	}
	return ids
}

func (p *Panel) moveFocus(delta int) {
	ids := p.focusables()
	if len(ids) == 0 {
		return
	}
	p.focus = (p.focus + delta + len(ids)) % len(ids)
}

// Focused returns the element holding keyboard focus
func (p *Panel) Focused() ElementID {
	ids := p.focusables()
	if len(ids) == 0 {
		return ""
	}
	return ids[p.focus%len(ids)]
}

func (p *Panel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if p.dialog.Open() {
		var cmd tea.Cmd
		p.dialog, cmd = p.dialog.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(msg, Keys.Next):
		p.moveFocus(1)
	case key.Matches(msg, Keys.Prev):
		p.moveFocus(-1)
	case key.Matches(msg, Keys.Activate):
		if id := p.Focused(); id != "" {
			return p.Activate(id)
		}
	case key.Matches(msg, Keys.SignIn):
		return p.Activate(SignInButton)
	case key.Matches(msg, Keys.SyncNow):
		return p.Activate(SyncNowButton)
	case key.Matches(msg, Keys.SignOut):
		return p.Activate(SignOutButton)
	case key.Matches(msg, Keys.Bookmarks):
		return p.Activate(CollectionBookmarks)
	case key.Matches(msg, Keys.History):
		return p.Activate(CollectionHistory)
	case key.Matches(msg, Keys.Refresh):
		return p.Refresh()
	}
	return nil
}

// === Accessors ===

// Screen returns the active screen
func (p *Panel) Screen() Screen { return p.screen }

// State returns the last recorded sync state
func (p *Panel) State() domain.SyncState { return p.state }

// Hidden reports whether a screen section is hidden
func (p *Panel) Hidden(screen Screen) bool { return p.hidden[screen] }

// Element returns a control of the active screen, nil if not loaded
func (p *Panel) Element(id ElementID) *Element { return p.elements[id] }

// BindingCount returns the number of bound listeners
func (p *Panel) BindingCount() int { return len(p.bindings) }

// Binding returns the listener bound to an element event, nil if unbound
func (p *Panel) Binding(id ElementID, event EventType) *Binding {
	return p.bindings.lookup(id, event)
}

// Collections returns the enabled collection settings
func (p *Panel) Collections() []string {
	var keys []string
	for _, k := range domain.CollectionSettings {
		if p.collections[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// Dialog returns the current dialog
func (p *Panel) Dialog() dialog.Model { return p.dialog }

// DialogOpen reports whether a dialog captures input
func (p *Panel) DialogOpen() bool { return p.dialog.Open() }
