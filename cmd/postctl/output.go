package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/pagination"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

const maxCell = 48

func truncate(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if r := []rune(s); len(r) > maxCell {
		return string(r[:maxCell-1]) + "…"
	}
	return s
}

func writePosts(w io.Writer, posts []model.Post) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"ID", "User", "Title", "Body"})
	for _, p := range posts {
		user := ""
		if p.UserID != 0 {
			user = strconv.Itoa(p.UserID)
		}
		table.Append([]string{p.ID.String(), user, truncate(p.Title), truncate(p.Body)})
	}
	table.Render()
}

func writePage(w io.Writer, page pagination.Page[model.Post]) {
	writePosts(w, page.Items)
	fmt.Fprintln(w, footerStyle.Render(fmt.Sprintf("page %d of %d (%d posts)", page.Number, page.Count, page.Total)))
}

func writeSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}
