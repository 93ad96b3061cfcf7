package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tallysync/tallysync/internal/config"
	"github.com/tallysync/tallysync/internal/picker"
	"github.com/tallysync/tallysync/internal/session"
)

func init() {
	rootCmd.AddCommand(newSyncCmd())
}

func newSyncCmd() *cobra.Command {
	var pick bool
	var save bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy the source directory onto the destination, overwriting existing files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := configFromViper()
			if err != nil {
				return err
			}

			prompt := &picker.Prompt{
				Initial: cfg.Source,
				Input:   cmd.InOrStdin(),
				Output:  cmd.ErrOrStderr(),
			}
			sess := newSession(cfg, prompt)

			if pick {
				if err := pickPaths(cmd, sess, prompt); err != nil {
					return err
				}
			}

			out := sess.Sync(cmd.Context())
			printOutcome(cmd.OutOrStdout(), out)
			if !out.OK() {
				return out.Err
			}

			if save {
				return saveConfig(cmd.ErrOrStderr(), cfg, sess)
			}
			return nil
		},
	}

	cmd.Flags().SortFlags = false
	cmd.Flags().StringP("src", "s", "", "Source directory (defaults to the application root)")
	cmd.Flags().StringP("dst", "d", "", "Destination directory (defaults to <app-root>/src/tally_data)")
	cmd.Flags().StringSliceP("exclude", "x", nil, "Gitignore-style pattern to skip, repeatable")
	cmd.Flags().BoolVarP(&pick, "pick", "p", false, "Prompt for the source and destination before syncing")
	cmd.Flags().BoolVar(&save, "save", false, "Write the source and destination used to the config file")

	return cmd
}

// pickPaths prompts for both directories. Canceling either prompt keeps the
// configured value.
func pickPaths(cmd *cobra.Command, sess *session.Session, prompt *picker.Prompt) error {
	if err := sess.PickSource(cmd.Context()); err != nil && !errors.Is(err, session.ErrPickCanceled) {
		return err
	}

	prompt.Initial = sess.Destination()
	if err := sess.PickDestination(cmd.Context()); err != nil && !errors.Is(err, session.ErrPickCanceled) {
		return err
	}
	return nil
}

func printOutcome(w io.Writer, out session.Outcome) {
	if out.Message == "" {
		return
	}
	if !out.OK() {
		fmt.Fprintln(w, red.Render(out.Message))
		return
	}

	fmt.Fprintln(w, green.Render(out.Message))
	if res := out.Result; res != nil {
		fmt.Fprintln(w, gray.Render(fmt.Sprintf("%s -> %s", res.Source, res.Destination)))
		fmt.Fprintln(w, gray.Render(fmt.Sprintf("%s files, %s dirs, %s in %s",
			humanize.Comma(int64(res.Files)),
			humanize.Comma(int64(res.Dirs)),
			humanize.Bytes(uint64(res.Bytes)),
			res.Elapsed.Round(time.Millisecond),
		)))
	}
}

func saveConfig(w io.Writer, cfg *config.Config, sess *session.Session) error {
	cfg.Source = sess.Path()
	cfg.Destination = sess.Destination()
	if err := cfg.Save(cfg.Path); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Fprintln(w, gray.Render("saved "+cfg.Path))
	return nil
}
