// Package ui implements the interactive terminal interface for curating a
// listening-history playlist. It is built on the Elm architecture via
// bubbletea, with bubbles providing the list and text input components and
// lipgloss the styling.
package ui
