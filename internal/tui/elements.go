package tui

import tea "github.com/charmbracelet/bubbletea"

// Screen is one of the two mutually exclusive panel sections
type Screen string

const (
	ScreenNone     Screen = ""
	ScreenDisabled Screen = "disabled"
	ScreenEnabled  Screen = "enabled"
)

// ElementID names a control of the panel
type ElementID string

const (
	SignInButton        ElementID = "sign-in-button"
	SignedInAs          ElementID = "signed-in-as"
	SyncNowButton       ElementID = "sync-now-button"
	SignOutButton       ElementID = "sign-out-button"
	CollectionBookmarks ElementID = "collection-bookmarks"
	CollectionHistory   ElementID = "collection-history"
)

// EventType is the kind of user interaction a binding listens to
type EventType string

const (
	EventPress  EventType = "press"  // buttons
	EventToggle EventType = "toggle" // checkboxes, fired after Checked flips
)

// Handler reacts to an element event or initializes an element
type Handler func(p *Panel) tea.Cmd

// Element is a panel control
type Element struct {
	ID       ElementID
	Checkbox bool
	Checked  bool
	Disabled bool

	// Localization binding, resolved at render time
	L10nID   string
	L10nArgs map[string]string
}

// SetAttributes binds the element text to a localization id
func (e *Element) SetAttributes(id string, args map[string]string) {
	e.L10nID = id
	e.L10nArgs = args
}

// descriptor declares an element of a screen, its event listener and initializer
type descriptor struct {
	screen   Screen
	id       ElementID
	event    EventType
	listener Handler
	init     func(p *Panel)
}

// elementTable is interpreted by showScreen to bind and unbind listeners
var elementTable = []descriptor{
	{screen: ScreenDisabled, id: SignInButton, event: EventPress, listener: (*Panel).enable},
	{screen: ScreenEnabled, id: SignedInAs},
	{screen: ScreenEnabled, id: SyncNowButton, event: EventPress, listener: (*Panel).sync},
	{screen: ScreenEnabled, id: SignOutButton, event: EventPress, listener: (*Panel).disable},
	{screen: ScreenEnabled, id: CollectionBookmarks, event: EventToggle, listener: (*Panel).onBookmarksChecked, init: (*Panel).onBookmarksChange},
	{screen: ScreenEnabled, id: CollectionHistory, event: EventToggle, listener: (*Panel).onHistoryChecked, init: (*Panel).onHistoryChange},
}

// newDocument creates every control of the panel with its default text
func newDocument() map[ElementID]*Element {
	return map[ElementID]*Element{
		SignInButton:        {ID: SignInButton, L10nID: "fxsync-sign-in"},
		SignedInAs:          {ID: SignedInAs, L10nID: "fxsync-signed-in-as"},
		SyncNowButton:       {ID: SyncNowButton, L10nID: "fxsync-sync-now"},
		SignOutButton:       {ID: SignOutButton, L10nID: "fxsync-sign-out"},
		CollectionBookmarks: {ID: CollectionBookmarks, Checkbox: true, L10nID: "fxsync-collection-bookmarks"},
		CollectionHistory:   {ID: CollectionHistory, Checkbox: true, L10nID: "fxsync-collection-history"},
	}
}

// bindingKey identifies an (element, event) pair
type bindingKey struct {
	element ElementID
	event   EventType
}

// Binding attaches a handler to an element event
type Binding struct {
	Element ElementID
	Event   EventType
	handler Handler
}

// bindings is the listener registry. It holds at most one binding per
// (element, event) pair.
type bindings map[bindingKey]*Binding

// add binds handler and returns the binding needed to remove it
func (bs bindings) add(el *Element, event EventType, handler Handler) *Binding {
	if el == nil || event == "" || handler == nil {
		return nil
	}
	k := bindingKey{element: el.ID, event: event}
	b := &Binding{Element: el.ID, Event: event, handler: handler}
	bs[k] = b
	return b
}

// remove unbinds b only if it is the binding currently registered
func (bs bindings) remove(b *Binding) bool {
	if b == nil {
		return false
	}
	k := bindingKey{element: b.Element, event: b.Event}
	if bs[k] != b {
		return false
	}
	delete(bs, k)
	return true
}

// lookup returns the binding for an element event
func (bs bindings) lookup(id ElementID, event EventType) *Binding {
	return bs[bindingKey{element: id, event: event}]
}
