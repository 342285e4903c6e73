package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/postdeck/internal/model"
	"github.com/debemdeboas/postdeck/internal/pagination"
)

func newListCmd(opts *options, defaultPageSize int) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List one page of posts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pageSize <= 0 {
				return pagination.ErrInvalidPageSize
			}
			posts, err := opts.gateway().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("error listing posts: %w", err)
			}
			writePage(cmd.OutOrStdout(), pagination.NewPage(posts, pageSize, page))
			return nil
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number, clamped to the available pages")
	cmd.Flags().IntVar(&pageSize, "page-size", defaultPageSize, "posts per page")
	return cmd
}

func newCreateCmd(opts *options) *cobra.Command {
	var draft model.NewDraft

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := opts.gateway().Create(cmd.Context(), draft)
			if err != nil {
				return fmt.Errorf("error adding post: %w", err)
			}
			writeSuccess(cmd.OutOrStdout(), "Created post %d", post.ID)
			writePosts(cmd.OutOrStdout(), []model.Post{post})
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "post title")
	cmd.Flags().StringVar(&draft.Body, "body", "", "post body")
	return cmd
}

func newUpdateCmd(opts *options) *cobra.Command {
	var draft model.EditDraft

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a post",
		Long:  "Replace a post. Every field is sent; omitted flags send empty values.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParsePostID(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}
			draft.ID = id

			post, err := opts.gateway().Update(cmd.Context(), id, draft)
			if err != nil {
				return fmt.Errorf("error updating post %d: %w", id, err)
			}
			writeSuccess(cmd.OutOrStdout(), "Updated post %d", post.ID)
			writePosts(cmd.OutOrStdout(), []model.Post{post})
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "post title")
	cmd.Flags().StringVar(&draft.Body, "body", "", "post body")
	cmd.Flags().IntVar(&draft.UserID, "user-id", 0, "owning user id")
	return cmd
}

func newDeleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a post",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := model.ParsePostID(args[0])
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}
			if err := opts.gateway().Remove(cmd.Context(), id); err != nil {
				return fmt.Errorf("error deleting post %d: %w", id, err)
			}
			writeSuccess(cmd.OutOrStdout(), "Deleted post %d", id)
			return nil
		},
	}
}
