package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/cinex/internal/discovery"
	"github.com/desertthunder/cinex/internal/favorites"
	"github.com/desertthunder/cinex/internal/formatter"
	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/preferences"
	"github.com/desertthunder/cinex/internal/services"
	"github.com/desertthunder/cinex/internal/shared"
	"github.com/desertthunder/cinex/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	HomeView ViewState = iota
	BrowseView
	SearchView
	GenreView
	FavoritesView
	DetailView
	ConfirmView
)

// ToastDuration is how long a notification stays on screen.
const ToastDuration = 3 * time.Second

// Options carries the dependencies of the TUI.
type Options struct {
	Provider        services.Provider
	Engine          tasks.Engine
	Favorites       *favorites.Manager
	Events          <-chan favorites.Event // favorites notifications, usually fed by [EventNotifier]
	Preferences     *preferences.Preferences
	ScrollThreshold int  // rows from the end of a list that count as near the end
	DarkFallback    bool // theme used when none is stored
	Logger          *log.Logger
	OpenURL         func(string) error // defaults to [shared.OpenBrowser]
}

// EventNotifier returns a channel and a [favorites.Notifier] that feeds it without blocking.
func EventNotifier(size int) (<-chan favorites.Event, favorites.Notifier) {
	ch := make(chan favorites.Event, size)
	return ch, func(e favorites.Event) {
		select {
		case ch <- e:
		default:
		}
	}
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	history   []ViewState
	provider  services.Provider
	engine    tasks.Engine
	agg       *discovery.Aggregator
	scroll    *discovery.ScrollCoordinator
	favs      *favorites.Manager
	events    <-chan favorites.Event
	prefs     *preferences.Preferences
	threshold int
	logger    *log.Logger
	openURL   func(string) error

	width      int
	height     int
	homeList   list.Model
	browseList list.Model
	genreList  list.Model
	favList    list.Model
	search     textinput.Model
	recentIdx  int
	spinner    spinner.Model

	home        *tasks.HomeResult
	homeErr     error
	genres      []models.Genre
	genresErr   error
	window      string
	genreFilter int // index into genres plus one; 0 shows every genre

	detailMovie  models.Movie
	detail       *tasks.DetailResult
	detailErr    error
	progressChan <-chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate

	toast   string
	toastID int

	dark   bool
	styles *Palette
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	openURL := opts.OpenURL
	if openURL == nil {
		openURL = shared.OpenBrowser
	}

	agg := discovery.NewAggregator(opts.Provider, logger)

	in := textinput.New()
	in.Placeholder = "Search for movies..."
	in.CharLimit = 100
	in.SetValue(opts.Preferences.LastSearch())

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	dark := opts.Preferences.DarkMode(opts.DarkFallback)

	return &Model{
		ctx:        ctx,
		view:       HomeView,
		provider:   opts.Provider,
		engine:     opts.Engine,
		agg:        agg,
		scroll:     discovery.NewScrollCoordinator(agg),
		favs:       opts.Favorites,
		events:     opts.Events,
		prefs:      opts.Preferences,
		threshold:  opts.ScrollThreshold,
		logger:     logger,
		openURL:    openURL,
		homeList:   newList("Popular This Week"),
		browseList: newList(""),
		genreList:  newList("Genres"),
		favList:    newList("Favorites"),
		search:     in,
		spinner:    sp,
		window:     discovery.WindowWeek,
		dark:       dark,
		styles:     Theme(dark),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init loads the home screen and starts listening for favorites notifications.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadHome(), m.spinner.Tick, m.waitForEvent())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m, m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgHomeLoaded:
		d := msg.data.(homeLoaded)
		m.home, m.homeErr = d.result, d.err
		if d.err != nil {
			m.logger.Error("failed to load home screen", "error", d.err)
			return nil
		}
		m.refreshHome()
		return nil

	case MsgPageLoaded:
		d := msg.data.(pageLoaded)
		return m.completePage(d)

	case MsgGenresLoaded:
		d := msg.data.(genresLoaded)
		m.genresErr = d.err
		if d.err != nil {
			m.logger.Error("failed to load genres", "error", d.err)
			return nil
		}
		m.genres = d.genres
		m.genreList.SetItems(genreItems(d.genres))
		return nil

	case MsgDetailLoaded:
		d := msg.data.(detailLoaded)
		if d.id != m.detailMovie.ID {
			return nil
		}
		m.detail, m.detailErr = d.result, d.err
		m.progressChan = nil
		if d.err != nil {
			m.logger.Error("failed to load movie", "id", d.id, "error", d.err)
		}
		return nil

	case MsgProgressUpdate:
		d := msg.data.(progressReceived)
		if d.ch != m.progressChan {
			return nil
		}
		m.progress = d.update
		return waitForProgress(d.ch)

	case MsgFavoritesChanged:
		e := msg.data.(favorites.Event)
		m.refreshLists()
		return tea.Batch(m.showToast(e.Message()), m.waitForEvent())

	case MsgToastExpired:
		if msg.data.(int) == m.toastID {
			m.toast = ""
		}
		return nil

	case MsgTrailerOpened:
		if err, _ := msg.data.(error); err != nil {
			m.logger.Error("failed to open trailer", "error", err)
			return m.showToast("Could not open the trailer in a browser")
		}
		return nil
	}
	return nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.forceQuit) {
		return m, tea.Quit
	}

	switch m.view {
	case SearchView:
		return m.handleSearchKeys(msg)
	case ConfirmView:
		return m.handleConfirmKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.theme):
		m.dark = m.prefs.ToggleDarkMode(m.dark)
		m.styles = Theme(m.dark)
		return m, nil
	case key.Matches(msg, m.keys.search):
		m.open(SearchView)
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.trending):
		return m, m.activate(discovery.Trending(m.window))
	case key.Matches(msg, m.keys.genres):
		m.open(GenreView)
		if len(m.genres) == 0 {
			return m, m.loadGenres()
		}
		return m, nil
	case key.Matches(msg, m.keys.favorites):
		m.refreshFavorites()
		m.open(FavoritesView)
		return m, nil
	case key.Matches(msg, m.keys.back):
		m.back()
		return m, nil
	}

	switch m.view {
	case HomeView:
		return m.handleHomeKeys(msg)
	case BrowseView:
		return m.handleBrowseKeys(msg)
	case GenreView:
		return m.handleGenreKeys(msg)
	case FavoritesView:
		return m.handleFavoritesKeys(msg)
	case DetailView:
		return m.handleDetailKeys(msg)
	}
	return m, nil
}

func (m *Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if movie, ok := selectedMovie(m.homeList); ok {
			return m, m.openDetail(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if movie, ok := selectedMovie(m.homeList); ok {
			m.favs.Toggle(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.retry) && m.homeErr != nil:
		m.homeErr = nil
		return m, m.loadHome()
	}

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' && m.home != nil {
		if i := int(s[0] - '1'); i < len(m.home.Genres) {
			return m, m.activate(discovery.Discover(m.home.Genres[i].ID, 0, ""))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.homeList, cmd = m.homeList.Update(msg)
	return m, cmd
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	filter := m.agg.Snapshot().Filter

	switch {
	case key.Matches(msg, m.keys.enter):
		if movie, ok := selectedMovie(m.browseList); ok {
			return m, m.openDetail(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if movie, ok := selectedMovie(m.browseList); ok {
			m.favs.Toggle(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.retry):
		if req, ok := m.agg.BeginRetry(); ok {
			return m, m.fetchPage(req)
		}
		return m, nil
	case key.Matches(msg, m.keys.window) && filter.Kind == discovery.KindTrending:
		m.window = discovery.WindowDay
		if filter.TimeWindow == discovery.WindowDay {
			m.window = discovery.WindowWeek
		}
		return m, m.activate(discovery.Trending(m.window))
	case key.Matches(msg, m.keys.filter) && filter.Kind == discovery.KindTrending:
		if len(m.genres) == 0 {
			return m, m.loadGenres()
		}
		m.genreFilter = (m.genreFilter + 1) % (len(m.genres) + 1)
		m.browseList.Select(0)
		m.refreshBrowse()
		m.scroll.Rearm()
		return m, m.checkScroll()
	}

	var cmd tea.Cmd
	m.browseList, cmd = m.browseList.Update(msg)
	return m, tea.Batch(cmd, m.checkScroll())
}

func (m *Model) handleGenreKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.genreList.SelectedItem().(genreItem); ok {
			return m, m.activate(discovery.Discover(item.genre.ID, 0, ""))
		}
		return m, nil
	case key.Matches(msg, m.keys.retry) && m.genresErr != nil:
		m.genresErr = nil
		return m, m.loadGenres()
	}

	var cmd tea.Cmd
	m.genreList, cmd = m.genreList.Update(msg)
	return m, cmd
}

func (m *Model) handleFavoritesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if movie, ok := selectedMovie(m.favList); ok {
			return m, m.openDetail(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if movie, ok := selectedMovie(m.favList); ok {
			m.favs.Remove(movie.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.clear):
		if m.favs.Len() > 0 {
			m.open(ConfirmView)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.favList, cmd = m.favList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.favorite):
		movie := m.detailMovie
		if m.detail != nil && m.detail.Detail != nil {
			movie = m.detail.Detail.Movie
		}
		m.favs.Toggle(movie)
		return m, nil
	case key.Matches(msg, m.keys.trailer):
		if m.detail == nil || m.detail.Trailer == nil {
			return m, m.showToast("No trailer available")
		}
		return m, m.openTrailer(m.detail.Trailer.Key)
	case key.Matches(msg, m.keys.retry) && m.detailErr != nil:
		return m, m.loadDetail(m.detailMovie.ID)
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.search.Blur()
		m.back()
		return m, nil
	case key.Matches(msg, m.keys.recent):
		recent := m.prefs.RecentSearches()
		if len(recent) > 0 {
			m.search.SetValue(recent[m.recentIdx%len(recent)])
			m.search.CursorEnd()
			m.recentIdx++
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		text := m.search.Value()
		if !m.prefs.SubmitSearch(text) {
			return m, m.showToast(fmt.Sprintf("Enter at least %d characters", discovery.MinSearchLength))
		}
		m.search.Blur()
		m.recentIdx = 0
		return m, m.activate(discovery.Search(text))
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.favs.Clear()
		m.back()
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		m.back()
	}
	return m, nil
}

// open switches to view, remembering the current one for [Model.back].
func (m *Model) open(view ViewState) {
	if m.view == view {
		return
	}
	m.history = append(m.history, m.view)
	m.view = view
}

func (m *Model) back() {
	if len(m.history) == 0 {
		m.view = HomeView
		return
	}
	m.view = m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
}

// activate switches the browse view to filter and returns the fetch of its first page, if one is needed.
func (m *Model) activate(filter discovery.QueryFilter) tea.Cmd {
	req, ok, err := m.agg.Begin(filter)
	if err != nil {
		return m.showToast(err.Error())
	}

	m.open(BrowseView)
	m.browseList.Title = m.browseTitle(filter)
	if !ok {
		m.refreshBrowse()
		return nil
	}

	m.genreFilter = 0
	m.browseList.Select(0)
	m.refreshBrowse()
	m.scroll.Rearm()
	return m.fetchPage(req)
}

// completePage applies a fetched page. A page that fills the list without moving the selection away from the end
// triggers the next one.
func (m *Model) completePage(d pageLoaded) tea.Cmd {
	if !m.agg.Complete(d.req, d.page, d.err) {
		return nil
	}
	m.refreshBrowse()
	if d.err != nil {
		m.logger.Error("failed to load page", "filter", d.req.Filter.String(), "page", d.req.Page, "error", d.err)
		return nil
	}
	m.scroll.Rearm()
	return m.checkScroll()
}

// checkScroll reports the browse selection's proximity to the end and returns a fetch when a page is begun.
func (m *Model) checkScroll() tea.Cmd {
	if m.view != BrowseView {
		return nil
	}
	near := discovery.NearEnd(m.browseList.Index(), len(m.browseList.Items()), m.threshold)
	req, ok := m.scroll.Signal(near)
	if !ok {
		return nil
	}
	return m.fetchPage(req)
}

func (m *Model) fetchPage(req discovery.PageRequest) tea.Cmd {
	agg, ctx := m.agg, m.ctx
	return func() tea.Msg {
		page, err := agg.Fetch(ctx, req)
		return pageLoadedMsg(req, page, err)
	}
}

func (m *Model) loadHome() tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		result, err := engine.Home(ctx, nil)
		return homeLoadedMsg(result, err)
	}
}

func (m *Model) loadGenres() tea.Cmd {
	provider, ctx := m.provider, m.ctx
	return func() tea.Msg {
		genres, err := provider.Genres(ctx)
		return genresLoadedMsg(genres, err)
	}
}

func (m *Model) openDetail(movie models.Movie) tea.Cmd {
	m.detailMovie = movie
	m.open(DetailView)
	return m.loadDetail(movie.ID)
}

// loadDetail runs the detail load and listens to its progress.
func (m *Model) loadDetail(id int) tea.Cmd {
	m.detail, m.detailErr = nil, nil
	m.progress = tasks.ProgressUpdate{Message: "Loading..."}

	ch := make(chan tasks.ProgressUpdate, 8)
	m.progressChan = ch

	engine, ctx := m.engine, m.ctx
	run := func() tea.Msg {
		result, err := engine.Detail(ctx, id, ch)
		close(ch)
		return detailLoadedMsg(id, result, err)
	}
	return tea.Batch(run, waitForProgress(ch))
}

func waitForProgress(ch <-chan tasks.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return progressUpdateMsg(ch, update)
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return nil
		}
		return favoritesChangedMsg(e)
	}
}

func (m *Model) openTrailer(videoKey string) tea.Cmd {
	open := m.openURL
	return func() tea.Msg {
		return trailerOpenedMsg(open(formatter.YouTubeWatchURL(videoKey)))
	}
}

func (m *Model) showToast(text string) tea.Cmd {
	m.toastID++
	m.toast = text
	id := m.toastID
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg { return toastExpiredMsg(id) })
}

func (m *Model) refreshHome() {
	if m.home == nil {
		return
	}
	m.homeList.SetItems(movieItems(m.home.Trending, m.favs.IsFavorite))
}

func (m *Model) refreshBrowse() {
	m.browseList.SetItems(movieItems(m.agg.View(m.filterGenre().ID), m.favs.IsFavorite))
}

func (m *Model) refreshFavorites() {
	m.favList.SetItems(movieItems(m.favs.List(), m.favs.IsFavorite))
}

func (m *Model) refreshLists() {
	m.refreshHome()
	m.refreshBrowse()
	m.refreshFavorites()
}

// filterGenre returns the genre the trending view is narrowed to, or the zero genre.
func (m *Model) filterGenre() models.Genre {
	if m.genreFilter <= 0 || m.genreFilter > len(m.genres) {
		return models.Genre{}
	}
	return m.genres[m.genreFilter-1]
}

func (m *Model) browseTitle(f discovery.QueryFilter) string {
	switch f.Kind {
	case discovery.KindTrending:
		if f.TimeWindow == discovery.WindowDay {
			return "Trending Today"
		}
		return "Trending This Week"
	case discovery.KindSearch:
		return fmt.Sprintf("Results for %q", f.Text)
	case discovery.KindDiscover:
		for _, g := range m.allGenres() {
			if g.ID == f.Genre {
				return g.Name + " Movies"
			}
		}
		return "Discover"
	default:
		return ""
	}
}

func (m *Model) allGenres() []models.Genre {
	if len(m.genres) > 0 {
		return m.genres
	}
	if m.home != nil {
		return m.home.Genres
	}
	return nil
}

func (m *Model) resize() {
	w, h := max(m.width-4, 0), max(m.height-10, 0)
	m.homeList.SetSize(w, max(h-4, 0))
	m.browseList.SetSize(w, h)
	m.genreList.SetSize(w, h)
	m.favList.SetSize(w, h)
	m.search.Width = max(w-4, 10)
	m.help.Width = w
}
