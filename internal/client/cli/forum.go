package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCommunitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "communities",
		Aliases: []string{"c"},
		Short:   "Browse and create communities",
		Args:    cobra.NoArgs,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all communities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}
			communities, err := app.forumService.Communities(cmd.Context())
			if err != nil {
				return err
			}
			return printCommunities(cmd.OutOrStdout(), communities)
		},
	}

	var description string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a community",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}
			community, err := app.forumService.CreateCommunity(cmd.Context(), args[0], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created community %s (%s)\n", community.Name, community.ID)
			return nil
		},
	}
	create.Flags().StringVarP(&description, "description", "d", "", "short description")

	show := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one community",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}
			community, err := app.forumService.Community(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printCommunity(cmd.OutOrStdout(), community)
			return nil
		},
	}

	cmd.AddCommand(list, create, show)
	return cmd
}

func (c *CLI) newPostsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "posts",
		Aliases: []string{"p"},
		Short:   "Read, write and upvote posts",
		Args:    cobra.NoArgs,
	}

	var community string
	list := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}
			posts, err := app.forumService.Posts(cmd.Context(), community)
			if err != nil {
				return err
			}
			return printPosts(cmd.OutOrStdout(), posts)
		},
	}
	list.Flags().StringVarP(&community, "community", "c", "", "only posts of this community")

	var target, title, content string
	create := &cobra.Command{
		Use:   "create",
		Short: "Publish a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}

			if target, err = app.promptIfEmpty(cmd, target, "Community name"); err != nil {
				return err
			}
			if title, err = app.promptIfEmpty(cmd, title, "Title"); err != nil {
				return err
			}
			if content == "" {
				if content, err = getMultiline(app.reader, "Content", cmd.OutOrStdout()); err != nil {
					return err
				}
			}

			p, err := app.forumService.CreatePost(cmd.Context(), target, title, content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created post %s\n", p.ID)
			return nil
		},
	}
	create.Flags().StringVarP(&target, "community", "c", "", "community name")
	create.Flags().StringVarP(&title, "title", "t", "", "post title")
	create.Flags().StringVar(&content, "content", "", "post body (prompted when empty)")

	show := &cobra.Command{
		Use:   "show <post-id>",
		Short: "Show a post with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}
			p, err := app.forumService.Post(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			comments, err := app.forumService.Comments(cmd.Context(), p.ID)
			if err != nil {
				return err
			}
			printPost(cmd.OutOrStdout(), p)
			printComments(cmd.OutOrStdout(), comments, 0)
			return nil
		},
	}

	upvote := &cobra.Command{
		Use:   "upvote <post-id>",
		Short: "Toggle your upvote on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}
			upvoted, err := app.forumService.ToggleUpvote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if upvoted {
				fmt.Fprintln(cmd.OutOrStdout(), "Upvoted")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Upvote removed")
			}
			return nil
		},
	}

	cmd.AddCommand(list, create, show, upvote)
	return cmd
}

func (c *CLI) newCommentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Read and write comments",
		Args:  cobra.NoArgs,
	}

	list := &cobra.Command{
		Use:   "list <post-id>",
		Short: "Show the comment threads of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}
			comments, err := app.forumService.Comments(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printComments(cmd.OutOrStdout(), comments, 0)
			return nil
		},
	}

	var parent, content string
	create := &cobra.Command{
		Use:   "create <post-id>",
		Short: "Comment on a post or reply to a comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.appFor(cmd)
			if err != nil {
				return err
			}
			if content == "" {
				if content, err = getMultiline(app.reader, "Comment", cmd.OutOrStdout()); err != nil {
					return err
				}
			}

			comment, err := app.forumService.Comment(cmd.Context(), args[0], content, parent)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created comment %s\n", comment.ID)
			return nil
		},
	}
	create.Flags().StringVar(&parent, "parent", "", "id of the comment to reply to")
	create.Flags().StringVar(&content, "content", "", "comment text (prompted when empty)")

	cmd.AddCommand(list, create)
	return cmd
}
