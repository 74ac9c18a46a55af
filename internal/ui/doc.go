// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides these views:
//  1. [HomeView] : This week's top trending movies, genre shortcuts and recent searches
//  2. [BrowseView] : An infinitely scrolling list for trending, search or genre results
//  3. [SearchView] : Title search prefilled with the last search
//  4. [GenreView] : Every genre, opening a discover listing
//  5. [FavoritesView] : The favorites list, with removal and a [ConfirmView] before clearing it
//  6. [DetailView] : Cast, crew, trailer and similar titles of one movie
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union
// type. Page fetches run as commands against a discovery aggregator: the browse list reports how close its selection
// is to the end after every key press, and a scroll coordinator turns that into at most one next-page request.
// Detail progress and favorites notifications flow through channels, providing non-blocking status reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
