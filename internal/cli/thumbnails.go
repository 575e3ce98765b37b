package cli

import (
	"fmt"

	"posterforge/internal/application"

	"github.com/spf13/cobra"
)

// thumbnailsCommand は、YouTube動画のサムネイルURLを表示するコマンドを作成します
func (c *CLI) thumbnailsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "thumbnails [url]",
		Short: "YouTube動画のサムネイルURLを画質の高い順に表示します",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, thumbnails, err := application.NewThumbnailApplicationService(nil).Lookup(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "動画ID: %s\n", videoID)
			for _, thumbnail := range thumbnails {
				fmt.Fprintf(out, "%-8s %s\n", thumbnail.Quality, thumbnail.URL)
			}
			return nil
		},
	}
}
