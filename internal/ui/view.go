package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/desertthunder/cinex/internal/discovery"
	"github.com/desertthunder/cinex/internal/formatter"
	"github.com/desertthunder/cinex/internal/models"
	"github.com/desertthunder/cinex/internal/tasks"
)

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case HomeView:
		body = m.renderHome()
	case BrowseView:
		body = m.renderBrowse()
	case SearchView:
		body = m.renderSearch()
	case GenreView:
		body = m.renderGenres()
	case FavoritesView:
		body = m.renderFavorites()
	case DetailView:
		body = m.renderDetail()
	case ConfirmView:
		body = m.renderConfirm()
	}

	parts := []string{body}
	if m.toast != "" {
		parts = append(parts, m.styles.ok.Render(m.toast))
	}
	parts = append(parts, m.renderHelp())
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderHelp() string {
	if m.help.ShowAll {
		return m.help.FullHelpView(m.keys.FullHelp())
	}

	var keys []key.Binding
	switch m.view {
	case HomeView:
		keys = []key.Binding{m.keys.enter, m.keys.favorite, m.keys.search, m.keys.trending, m.keys.genres, m.keys.favorites}
	case BrowseView:
		keys = []key.Binding{m.keys.enter, m.keys.favorite, m.keys.back}
		if m.agg.Snapshot().Filter.Kind == discovery.KindTrending {
			keys = append(keys, m.keys.window, m.keys.filter)
		}
	case SearchView:
		search := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search"))
		keys = []key.Binding{search, m.keys.recent, m.keys.back}
	case GenreView:
		browse := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "browse"))
		keys = []key.Binding{browse, m.keys.back}
	case FavoritesView:
		remove := key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "remove"))
		keys = []key.Binding{m.keys.enter, remove, m.keys.clear, m.keys.back}
	case DetailView:
		keys = []key.Binding{m.keys.trailer, m.keys.favorite, m.keys.back}
	case ConfirmView:
		return m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no})
	}
	keys = append(keys, m.keys.help, m.keys.quit)
	return m.help.ShortHelpView(keys)
}

func (m *Model) loading(text string) string {
	return fmt.Sprintf("%s %s", m.spinner.View(), text)
}

func (m *Model) renderHome() string {
	switch {
	case m.homeErr != nil:
		return m.styles.err.Render(fmt.Sprintf("Failed to load movies: %v", m.homeErr)) + "\n\n" +
			m.styles.help.Render("Press r to retry")
	case m.home == nil:
		return m.styles.title.Render("cinex") + "\n" + m.loading("Loading popular movies...")
	}

	var b strings.Builder
	b.WriteString(m.homeList.View())

	if len(m.home.Genres) > 0 {
		names := make([]string, len(m.home.Genres))
		for i, g := range m.home.Genres {
			names[i] = fmt.Sprintf("%d %s", i+1, g.Name)
		}
		fmt.Fprintf(&b, "\n\n%s %s", m.styles.label.Render("Genres:"), strings.Join(names, " · "))
	}

	if recent := m.prefs.RecentSearches(); len(recent) > 0 {
		fmt.Fprintf(&b, "\n%s %s", m.styles.label.Render("Recent:"), strings.Join(recent, " · "))
	}
	return b.String()
}

func (m *Model) renderBrowse() string {
	snap := m.agg.Snapshot()

	var b strings.Builder
	if g := m.filterGenre(); g.ID != 0 {
		fmt.Fprintf(&b, "%s %s\n", m.styles.label.Render("Genre:"), g.Name)
	}

	if len(m.browseList.Items()) > 0 {
		b.WriteString(m.browseList.View())
		b.WriteString("\n\n")
	} else if snap.State != discovery.Loading && snap.State != discovery.Error {
		b.WriteString(m.styles.title.Render(m.browseList.Title))
		b.WriteString("\n")
		if snap.State == discovery.HasMore {
			b.WriteString(m.styles.help.Render("No matches on the loaded pages yet"))
		} else {
			b.WriteString(m.styles.help.Render("No movies found"))
		}
		return b.String()
	}

	switch snap.State {
	case discovery.Loading:
		if snap.NextPage <= 1 {
			b.WriteString(m.loading("Loading movies..."))
		} else {
			b.WriteString(m.loading("Loading more..."))
		}
	case discovery.Error:
		b.WriteString(m.styles.err.Render(fmt.Sprintf("Failed to load page %d: %v", snap.NextPage, snap.Err)))
		b.WriteString("\n")
		b.WriteString(m.styles.help.Render("Press r to retry"))
	case discovery.Exhausted:
		b.WriteString(m.styles.help.Render(fmt.Sprintf("End of results (%d movies)", len(snap.Accumulated))))
	case discovery.HasMore:
		b.WriteString(m.styles.help.Render(fmt.Sprintf("Page %d of %d", snap.NextPage-1, snap.TotalPages)))
	}
	return b.String()
}

func (m *Model) renderSearch() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Search"))
	b.WriteString("\n")
	b.WriteString(m.search.View())

	if recent := m.prefs.RecentSearches(); len(recent) > 0 {
		fmt.Fprintf(&b, "\n\n%s\n", m.styles.label.Render("Recent searches"))
		for _, q := range recent {
			fmt.Fprintf(&b, "  • %s\n", q)
		}
	}
	return b.String()
}

func (m *Model) renderGenres() string {
	switch {
	case m.genresErr != nil:
		return m.styles.err.Render(fmt.Sprintf("Failed to load genres: %v", m.genresErr)) + "\n\n" +
			m.styles.help.Render("Press r to retry")
	case len(m.genres) == 0:
		return m.loading("Loading genres...")
	}
	return m.genreList.View()
}

func (m *Model) renderFavorites() string {
	if m.favs.Len() == 0 {
		return m.styles.title.Render("Favorites") + "\n" +
			m.styles.help.Render("No favorites yet. Press s on any movie to add it.")
	}
	return m.favList.View()
}

func (m *Model) renderDetail() string {
	if m.detailErr != nil {
		return m.styles.err.Render(fmt.Sprintf("Failed to load %s: %v", m.detailMovie.Title, m.detailErr)) + "\n\n" +
			m.styles.help.Render("Press r to retry, esc to go back")
	}
	if m.detail == nil {
		return m.styles.title.Render(m.detailMovie.Title) + "\n" + m.loading(m.progress.Message)
	}
	return renderMovieDetail(m.styles, m.detail, m.favs.IsFavorite(m.detailMovie.ID))
}

func renderMovieDetail(p *Palette, d *tasks.DetailResult, favorite bool) string {
	movie := d.Detail

	var b strings.Builder
	title := movie.Title
	if y := formatter.ReleaseYear(movie.ReleaseDate); y != "" {
		title = fmt.Sprintf("%s (%s)", title, y)
	}
	if favorite {
		title = p.heart.Render("♥ ") + title
	}
	b.WriteString(p.title.Render(title))
	b.WriteString("\n")

	if movie.Tagline != "" {
		b.WriteString(p.help.Render(movie.Tagline))
		b.WriteString("\n")
	}

	facts := []string{"★ " + formatter.VoteAverage(movie.VoteAverage), formatter.Runtime(movie.Runtime)}
	if len(movie.Genres) > 0 {
		names := make([]string, len(movie.Genres))
		for i, g := range movie.Genres {
			names[i] = g.Name
		}
		facts = append(facts, strings.Join(names, ", "))
	}
	b.WriteString(strings.Join(facts, " • "))
	b.WriteString("\n\n")

	if movie.Overview != "" {
		b.WriteString(movie.Overview)
		b.WriteString("\n\n")
	}

	director := d.Director
	if director == "" {
		director = "Unknown"
	}
	writers := "Unknown"
	if len(d.Writers) > 0 {
		writers = strings.Join(d.Writers, ", ")
	}
	fmt.Fprintf(&b, "%s %s\n", p.label.Render("Director:"), director)
	fmt.Fprintf(&b, "%s %s\n", p.label.Render("Writers: "), writers)

	if len(d.Cast) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.label.Render("Cast"))
		for _, c := range d.Cast {
			if c.Character != "" {
				fmt.Fprintf(&b, "  %s as %s\n", c.Name, c.Character)
			} else {
				fmt.Fprintf(&b, "  %s\n", c.Name)
			}
		}
	}

	if d.Trailer != nil {
		fmt.Fprintf(&b, "\n%s %s\n", p.label.Render("Trailer:"), d.Trailer.Name)
	} else {
		fmt.Fprintf(&b, "\n%s\n", p.help.Render("No trailer available"))
	}

	if len(d.Similar) > 0 {
		fmt.Fprintf(&b, "\n%s\n", p.label.Render("Similar"))
		for _, s := range d.Similar {
			fmt.Fprintf(&b, "  %s%s\n", s.Title, yearOf(s))
		}
	}

	for _, pe := range d.Errors {
		fmt.Fprintf(&b, "\n%s", p.warn.Render(fmt.Sprintf("Could not load %s", pe.Phase.Label())))
	}
	return strings.TrimRight(b.String(), "\n")
}

func yearOf(m models.Movie) string {
	if y := formatter.ReleaseYear(m.ReleaseDate); y != "" {
		return " (" + y + ")"
	}
	return ""
}

func (m *Model) renderConfirm() string {
	title := m.styles.title.Render("Clear all favorites?")
	info := fmt.Sprintf("\nThis removes %d movies from your favorites.\n", m.favs.Len())
	return fmt.Sprintf("%s\n%s", title, info)
}
