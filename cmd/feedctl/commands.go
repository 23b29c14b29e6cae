package main

import (
	"fmt"
	"time"

	"github.com/BloggingApp/feed-service/internal/app"
	"github.com/BloggingApp/feed-service/internal/config"
	"github.com/BloggingApp/feed-service/internal/feed"
	"github.com/BloggingApp/feed-service/internal/model"
	"github.com/BloggingApp/feed-service/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	userID   string
	sortMode string
	keyword  string
	imageURL string
	verbose  bool

	logger *zap.Logger
	deps   *app.App

	rootCmd = &cobra.Command{
		Use:           "feedctl",
		Short:         "Inspect and edit the social feed store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction(zap.IncreaseLevel(zap.WarnLevel))
			}
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			deps, err = app.Open(cmd.Context(), cfg, logger)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if deps != nil {
				deps.Close()
			}
			logger.Sync()
		},
	}

	postsCmd = &cobra.Command{
		Use:   "posts",
		Short: "List and change posts",
	}
	postsListCmd = &cobra.Command{
		Use:   "list",
		Short: "Print the feed with the given sort and search",
		Args:  cobra.NoArgs,
		RunE:  runPostsList,
	}
	postsCreateCmd = &cobra.Command{
		Use:   "create [text]",
		Short: "Publish a post as --user",
		Args:  cobra.ExactArgs(1),
		RunE:  runPostsCreate,
	}
	postsLikeCmd = &cobra.Command{
		Use:   "like [postID]",
		Short: "Toggle --user's like on a post",
		Args:  cobra.ExactArgs(1),
		RunE:  runPostsLike,
	}
	postsCommentCmd = &cobra.Command{
		Use:   "comment [postID] [text]",
		Short: "Comment on a post as --user",
		Args:  cobra.ExactArgs(2),
		RunE:  runPostsComment,
	}
	postsDeleteCmd = &cobra.Command{
		Use:   "delete [postID]",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE:  runPostsDelete,
	}

	themeCmd = &cobra.Command{
		Use:   "theme",
		Short: "Print the stored theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), deps.Services.Theme.Get(cmd.Context()))
			return nil
		},
	}
	themeToggleCmd = &cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, err := deps.Services.Theme.Toggle(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme)
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(postsCmd)
	postsCmd.PersistentFlags().StringVar(&sortMode, "sort", string(feed.SortLatest), "Sort mode: latest, oldest or liked")
	postsCmd.PersistentFlags().StringVarP(&keyword, "q", "q", "", "Search keyword")
	postsCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "Acting user id")

	postsCmd.AddCommand(postsListCmd)
	postsCmd.AddCommand(postsCreateCmd)
	postsCreateCmd.Flags().StringVar(&imageURL, "image", "", "Optional image URL")
	postsCmd.AddCommand(postsLikeCmd)
	postsCmd.AddCommand(postsCommentCmd)
	postsCmd.AddCommand(postsDeleteCmd)

	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeToggleCmd)
}

func session() *feed.Session {
	sess := feed.NewSession()
	sess.SetSort(sortMode)
	sess.SetFilter(keyword)
	return sess
}

func actingUser(cmd *cobra.Command) (*model.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("--user is required")
	}
	return deps.Services.Auth.User(cmd.Context(), userID)
}

func printView(cmd *cobra.Command, view model.FeedView) error {
	page := render.Feed(view, userID, time.Now())
	return render.Text(cmd.OutOrStdout(), page, deps.Services.Theme.Get(cmd.Context()))
}

func printMutation(cmd *cobra.Command, result model.MutationResult, err error) error {
	if err != nil {
		return err
	}
	if !result.Applied {
		fmt.Fprintln(cmd.ErrOrStderr(), "post not found, nothing changed")
	}
	return printView(cmd, result.View)
}

func runPostsList(cmd *cobra.Command, args []string) error {
	return printView(cmd, deps.Services.Feed.View(cmd.Context(), session()))
}

func runPostsCreate(cmd *cobra.Command, args []string) error {
	user, err := actingUser(cmd)
	if err != nil {
		return err
	}

	_, view, err := deps.Services.Feed.CreatePost(cmd.Context(), session(), *user, args[0], imageURL)
	if err != nil {
		return err
	}
	return printView(cmd, view)
}

func runPostsLike(cmd *cobra.Command, args []string) error {
	user, err := actingUser(cmd)
	if err != nil {
		return err
	}

	result, err := deps.Services.Feed.ToggleLike(cmd.Context(), session(), args[0], user.ID)
	return printMutation(cmd, result, err)
}

func runPostsComment(cmd *cobra.Command, args []string) error {
	user, err := actingUser(cmd)
	if err != nil {
		return err
	}

	result, err := deps.Services.Feed.AddComment(cmd.Context(), session(), args[0], user.ID, user.DisplayName(), args[1])
	return printMutation(cmd, result, err)
}

// delete runs as an operator: no ownership check.
func runPostsDelete(cmd *cobra.Command, args []string) error {
	result, err := deps.Services.Feed.DeletePost(cmd.Context(), session(), args[0], "")
	return printMutation(cmd, result, err)
}
