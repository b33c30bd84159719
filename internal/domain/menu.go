package domain

type MenuState string

const (
	MenuNoSelection  MenuState = "no_selection"
	MenuHasSelection MenuState = "has_selection"
)

func (s MenuState) Valid() bool {
	switch s {
	case MenuNoSelection, MenuHasSelection:
		return true
	default:
		return false
	}
}

type MenuContext string

const (
	MenuContextPage      MenuContext = "page"
	MenuContextSelection MenuContext = "selection"
)

type MenuEntry struct {
	ID       string
	Title    string
	Contexts []MenuContext
}

const (
	MenuEntryIDOpen      = "open"
	MenuEntryIDGetAnswer = "get-answer"
)

func openEntry() MenuEntry {
	return MenuEntry{
		ID:       MenuEntryIDOpen,
		Title:    "QuizPilot",
		Contexts: []MenuContext{MenuContextPage, MenuContextSelection},
	}
}

func answerEntry() MenuEntry {
	return MenuEntry{
		ID:       MenuEntryIDGetAnswer,
		Title:    "Get AI Answer",
		Contexts: []MenuContext{MenuContextSelection},
	}
}

// Entries lists the menu entries that must exist for the state. The static
// entry is always present; the answer action only while a selection exists.
func (s MenuState) Entries() []MenuEntry {
	if s == MenuHasSelection {
		return []MenuEntry{openEntry(), answerEntry()}
	}
	return []MenuEntry{openEntry()}
}
