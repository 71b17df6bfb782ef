package cmd

import (
	"fmt"
	"time"

	"swath-tools/bintools"
	"swath-tools/swathio"

	"github.com/aclements/go-moremath/stats"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench [swath_file]",
	Short: "Compare the speed of the reference and indexed binners",
	Long: `Run every binner on the same swath, check that they agree and
	report the elapsed time of each along with the speedup over the
	reference binner. Without a swath file a synthetic swath of
	--rows x --cols samples is used.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindCommandFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		setLogLevels()

		swath, err := benchSwath(args)
		if err != nil {
			return err
		}
		lonRange, latRange, err := gridRanges(swath)
		if err != nil {
			return err
		}
		res := viper.GetFloat64("resolution")
		runs := viper.GetInt("runs")
		if runs < 1 {
			return fmt.Errorf("runs must be at least 1, got %d", runs)
		}

		var reference *bintools.BinGrid
		var refMean float64
		out := cmd.OutOrStdout()
		for _, name := range []string{"reference", "indexed", "parallel"} {
			binner, err := bintools.ChooseBinner(name, viper.GetInt("numWorkers"))
			if err != nil {
				return err
			}
			grid, times, err := timeBinner(binner, swath, lonRange, latRange, res, runs)
			if err != nil {
				return err
			}
			mean := stats.Mean(times)
			if reference == nil {
				reference, refMean = grid, mean
			} else if !bintools.Equivalent(reference, grid) {
				return fmt.Errorf("%s binner disagrees with the reference binner", name)
			}
			fmt.Fprintf(out, "%-10s elapsed time = %8.5f s (sd %8.5f)  speedup = %8.1f\n",
				name, mean, stats.StdDev(times), refMean/mean)
		}
		return nil
	},
}

func benchSwath(args []string) (*bintools.Swath, error) {
	if len(args) == 1 {
		return swathio.ReadSwath(swathSource(args[0]))
	}
	lonRange := bintools.Range{Min: -150, Max: -120}
	latRange := bintools.Range{Min: 30, Max: 50}
	logrus.Infof("No swath given, using synthetic %dx%d swath", viper.GetInt("rows"), viper.GetInt("cols"))
	return swathio.SyntheticSwath(viper.GetInt("rows"), viper.GetInt("cols"), lonRange, latRange, viper.GetInt64("seed")), nil
}

// timeBinner runs binner runs times, returning the last result and the
// elapsed seconds of each run.
func timeBinner(binner bintools.Binner, swath *bintools.Swath, lonRange, latRange bintools.Range, res float64, runs int) (*bintools.BinGrid, []float64, error) {
	var grid *bintools.BinGrid
	times := make([]float64, 0, runs)
	for i := 0; i < runs; i++ {
		start := time.Now()
		var err error
		grid, err = bintools.BinSwath(binner, swath, lonRange, latRange, res)
		if err != nil {
			return nil, nil, err
		}
		times = append(times, time.Since(start).Seconds())
	}
	return grid, times, nil
}

func init() {
	rootCmd.AddCommand(benchCmd)

	addSwathFlags(benchCmd)
	benchCmd.Flags().Int("runs", 5, "Number of timed runs per binner")
	benchCmd.Flags().Int("rows", 2030, "Rows of the synthetic swath")
	benchCmd.Flags().Int("cols", 1354, "Columns of the synthetic swath")
	benchCmd.Flags().Int64("seed", 1, "Seed of the synthetic swath")
}
