package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophforum/internal/client/models"
)

const timeLayout = "2006-01-02 15:04"

func printUser(w io.Writer, u *models.User) {
	fmt.Fprintf(w, "ID:       %s\n", u.ID)
	fmt.Fprintf(w, "Email:    %s\n", u.Email)
	fmt.Fprintf(w, "Name:     %s\n", u.Name)
	if u.Username != nil {
		fmt.Fprintf(w, "Username: %s\n", *u.Username)
	}
	fmt.Fprintf(w, "Role:     %s\n", u.Role)
	if u.ProfilePicture != nil {
		fmt.Fprintf(w, "Avatar:   %s\n", *u.ProfilePicture)
	}
	fmt.Fprintf(w, "Joined:   %s\n", u.CreatedAt.Local().Format(timeLayout))
}

func printCommunities(w io.Writer, list []models.Community) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No communities yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPOSTS\tDESCRIPTION")
	for _, c := range list {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name, c.Count.Posts, deref(c.Description))
	}
	return tw.Flush()
}

func printCommunity(w io.Writer, c *models.Community) {
	fmt.Fprintf(w, "%s (%s)\n", c.Name, c.ID)
	if d := deref(c.Description); d != "" {
		fmt.Fprintln(w, d)
	}
	fmt.Fprintf(w, "%d posts, created %s\n", c.Count.Posts, c.CreatedAt.Local().Format(timeLayout))
}

func printPosts(w io.Writer, list []models.Post) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No posts yet")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVOTES\tCOMMENTS\tCOMMUNITY\tAUTHOR\tTITLE")
	for _, p := range list {
		votes := fmt.Sprint(p.Count.Upvotes)
		if p.Upvoted != nil && *p.Upvoted {
			votes += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			p.ID, votes, p.Count.Comments, p.Community.Name, p.Author.DisplayName(), p.Title)
	}
	return tw.Flush()
}

func printPost(w io.Writer, p *models.Post) {
	fmt.Fprintf(w, "%s\n", p.Title)
	fmt.Fprintf(w, "in %s by %s, %s | %d upvotes | %d comments\n\n",
		p.Community.Name, p.Author.DisplayName(), ago(p.CreatedAt), p.Count.Upvotes, p.Count.Comments)
	fmt.Fprintln(w, p.Content)
	fmt.Fprintln(w)
}

// printComments renders threads depth-first, indenting replies.
func printComments(w io.Writer, list []models.Comment, depth int) {
	if depth == 0 && len(list) == 0 {
		fmt.Fprintln(w, "No comments yet")
		return
	}

	indent := strings.Repeat("  ", depth)
	for _, c := range list {
		fmt.Fprintf(w, "%s- %s (%s, %s): %s\n", indent, c.Author.DisplayName(), c.ID, ago(c.CreatedAt), c.Content)
		printComments(w, c.Replies, depth+1)
	}
}

var now = time.Now

func ago(t time.Time) string {
	d := now().Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Local().Format(timeLayout)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
