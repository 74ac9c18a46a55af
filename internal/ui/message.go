package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/cinex/internal/discovery"
	"github.com/desertthunder/cinex/internal/favorites"
	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgHomeLoaded MsgKind = iota
	MsgPageLoaded
	MsgGenresLoaded
	MsgDetailLoaded
	MsgProgressUpdate
	MsgFavoritesChanged
	MsgToastExpired
	MsgTrailerOpened
)

type homeLoaded struct {
	result *tasks.HomeResult
	err    error
}

type pageLoaded struct {
	req  discovery.PageRequest
	page *models.Page
	err  error
}

type genresLoaded struct {
	genres []models.Genre
	err    error
}

type detailLoaded struct {
	id     int
	result *tasks.DetailResult
	err    error
}

type progressReceived struct {
	ch     <-chan tasks.ProgressUpdate
	update tasks.ProgressUpdate
}

// homeLoadedMsg is the constructor for [MsgHomeLoaded]
func homeLoadedMsg(result *tasks.HomeResult, err error) Msg {
	return Msg{kind: MsgHomeLoaded, data: homeLoaded{result, err}}
}

// pageLoadedMsg is the constructor for [MsgPageLoaded]
func pageLoadedMsg(req discovery.PageRequest, page *models.Page, err error) Msg {
	return Msg{kind: MsgPageLoaded, data: pageLoaded{req, page, err}}
}

// genresLoadedMsg is the constructor for [MsgGenresLoaded]
func genresLoadedMsg(genres []models.Genre, err error) Msg {
	return Msg{kind: MsgGenresLoaded, data: genresLoaded{genres, err}}
}

// detailLoadedMsg is the constructor for [MsgDetailLoaded]
func detailLoadedMsg(id int, result *tasks.DetailResult, err error) Msg {
	return Msg{kind: MsgDetailLoaded, data: detailLoaded{id, result, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(ch <-chan tasks.ProgressUpdate, update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: progressReceived{ch, update}}
}

// favoritesChangedMsg is the constructor for [MsgFavoritesChanged]
func favoritesChangedMsg(e favorites.Event) Msg {
	return Msg{kind: MsgFavoritesChanged, data: e}
}

// toastExpiredMsg is the constructor for [MsgToastExpired]
func toastExpiredMsg(id int) Msg {
	return Msg{kind: MsgToastExpired, data: id}
}

// trailerOpenedMsg is the constructor for [MsgTrailerOpened]
func trailerOpenedMsg(err error) Msg {
	return Msg{kind: MsgTrailerOpened, data: err}
}
