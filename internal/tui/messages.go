package tui

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// OpenNewClientFormMsg tells the clients screen to open the new client form
type OpenNewClientFormMsg struct{}

// ShowClientEventsMsg switches to the events screen filtered to one client
type ShowClientEventsMsg struct {
	ClientID string
	Name     string
}

// firstRunCheckMsg reports whether the store has any clients
type firstRunCheckMsg struct {
	hasClients bool
}

// voiceTickMsg polls active voice sessions
type voiceTickMsg struct{}
