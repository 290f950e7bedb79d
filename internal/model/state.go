package model

// Tab is the active dashboard tab.
type Tab string

const (
	TabMovies    Tab = "movies"
	TabFavorites Tab = "favorites"
)

// SortKey selects the comparator for the visible list.
type SortKey string

const (
	SortTitleAsc  SortKey = "title_asc"
	SortTitleDesc SortKey = "title_desc"
	SortPopAsc    SortKey = "pop_asc"
	SortPopDesc   SortKey = "pop_desc"
)

// ValidSortKeys are the accepted sort keys.
var ValidSortKeys = map[SortKey]bool{
	SortTitleAsc:  true,
	SortTitleDesc: true,
	SortPopAsc:    true,
	SortPopDesc:   true,
}

// ValidTabs are the accepted tabs.
var ValidTabs = map[Tab]bool{
	TabMovies:    true,
	TabFavorites: true,
}

// UIState is the persisted dashboard view state.
type UIState struct {
	Tab   Tab     `json:"tab"   yaml:"tab"`
	Page  int     `json:"page"  yaml:"page"`
	Query string  `json:"query" yaml:"query"`
	Sort  SortKey `json:"sort"  yaml:"sort"`
}

// DefaultUIState returns the state used when nothing valid is persisted.
func DefaultUIState() UIState {
	return UIState{Tab: TabMovies, Page: 1, Query: "", Sort: SortPopDesc}
}

// AuthUser is the signed-in user as exposed to the dashboard.
type AuthUser struct {
	Name  string `json:"name"  yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// RegisteredUser is the locally registered credential.
type RegisteredUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}
