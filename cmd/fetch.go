package cmd

import (
	"context"

	"swath-tools/swathio"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch [url] [output_path]",
	Short: "Download a swath granule",
	Long: `Download a granule over HTTP, e.g.
	./swath-tools fetch http://clouds.eos.ubc.ca/~phil/Downloads/a301/A2006303_subset.h5 data.h5`,
	Args:    cobra.ExactArgs(2),
	PreRunE: bindCommandFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		setLogLevels()
		ctx := cmd.Context()
		if timeout := viper.GetDuration("timeout"); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		_, err := swathio.Fetch(ctx, args[0], args[1])
		return err
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().Duration("timeout", 0, "Give up on the download after this long (0 waits forever)")
}
