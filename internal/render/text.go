package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Liked   lipgloss.Style
	Warning lipgloss.Style
	Card    lipgloss.Style
}

var (
	lightPalette = palette{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#16858E")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Liked:   lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#16858E")).
			Padding(0, 1),
	}
	darkPalette = palette{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2CD7C7")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#2C4A54")),
		Liked:   lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F4D03F")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#20B9B4")).
			Padding(0, 1),
	}
)

func paletteFor(theme string) palette {
	if theme == "dark" {
		return darkPalette
	}
	return lightPalette
}

// Text writes page for a terminal using the light or dark palette.
func Text(w io.Writer, page FeedPage, theme string) error {
	p := paletteFor(theme)
	var b strings.Builder

	if page.Placeholder != "" {
		b.WriteString(p.Warning.Render(page.Placeholder))
		b.WriteByte('\n')
		_, err := io.WriteString(w, b.String())
		return err
	}
	if page.Degraded {
		b.WriteString(p.Warning.Render("showing unsorted posts"))
		b.WriteByte('\n')
	}
	if page.Empty != "" {
		b.WriteString(p.Muted.Render(page.Empty))
		b.WriteByte('\n')
	}

	for _, u := range page.Users {
		line := fmt.Sprintf("[%s] %s", u.Initial, p.Title.Render(u.Name))
		if u.Bio != "" {
			line += " " + p.Muted.Render(u.Bio)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	for _, post := range page.Posts {
		b.WriteString(p.Card.Render(postBody(p, post)))
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func postBody(p palette, post PostCard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s %s\n", post.Initial, p.Title.Render(post.Username), p.Muted.Render(post.TimeAgo))
	b.WriteString(post.Text)
	if post.ImageURL != "" {
		b.WriteString("\n" + p.Muted.Render(post.ImageURL))
	}

	likes := fmt.Sprintf("likes %d", post.Likes)
	if post.LikedByViewer {
		likes = p.Liked.Render(likes)
	}
	fmt.Fprintf(&b, "\n%s  %s", likes, p.Muted.Render(post.ID))

	if len(post.Comments) == 0 {
		b.WriteString("\n" + p.Muted.Render(post.CommentsEmpty))
	}
	for _, c := range post.Comments {
		fmt.Fprintf(&b, "\n  [%s] %s: %s %s", c.Initial, c.Username, c.Text, p.Muted.Render(c.TimeAgo))
	}

	return b.String()
}
