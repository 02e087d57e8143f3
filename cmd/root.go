// Package cmd implements the command-line interface for lcarstv.
package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/CinkadeusBG/LCARSTV/app"
	"github.com/CinkadeusBG/LCARSTV/catalog"
	"github.com/CinkadeusBG/LCARSTV/color"
	"github.com/CinkadeusBG/LCARSTV/constant"
	"github.com/CinkadeusBG/LCARSTV/input"
	"github.com/CinkadeusBG/LCARSTV/key"
	"github.com/CinkadeusBG/LCARSTV/log"
	"github.com/CinkadeusBG/LCARSTV/metadata"
	"github.com/CinkadeusBG/LCARSTV/player"
	"github.com/CinkadeusBG/LCARSTV/station"
	"github.com/CinkadeusBG/LCARSTV/style"
	"github.com/CinkadeusBG/LCARSTV/util"
	"github.com/CinkadeusBG/LCARSTV/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")
	rootCmd.Flags().StringP("tune", "t", "", "Tune to a channel by call sign or name on startup")

	rootCmd.PersistentFlags().StringP("channels", "C", "", "Path to the channel lineup definition")
	lo.Must0(viper.BindPFlag(key.StationChannelsFile, rootCmd.PersistentFlags().Lookup("channels")))

	rootCmd.PersistentFlags().String("commercials", "", "Directory holding the shared commercial pool")
	lo.Must0(viper.BindPFlag(key.CommercialsDir, rootCmd.PersistentFlags().Lookup("commercials")))
}

// rootCmd starts the station: launch the player, tune the first channel and
// run the control loop until quit.
var rootCmd = &cobra.Command{
	Use:   constant.Lcarstv,
	Short: "A perpetual TV station for your local media library",
	Long: "Runs your media directories as an always-on TV station:\n" +
		"channels, zapping, and commercial breaks, played through mpv.",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(runStation(lo.Must(cmd.Flags().GetString("tune"))))
	},
}

func runStation(tuneTo string) error {
	channelsPath := viper.GetString(key.StationChannelsFile)
	if channelsPath == "" {
		channelsPath = where.Channels()
	}

	channels, err := station.LoadLineup(channelsPath)
	if err != nil {
		return err
	}
	log.Infof("lineup loaded: %s", util.Quantify(len(channels), "channel", "channels"))

	mpv := player.NewMPV()
	if err := mpv.Start(); err != nil {
		return err
	}
	defer util.Ignore(mpv.Close)

	catalogs := catalog.NewStore()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	deps := station.Deps{
		Player:   mpv,
		Props:    player.NewPropertyCache(mpv.Conn()),
		Catalogs: catalogs,
		Breaks:   metadata.NewCache(),
		States:   station.NewStateStore(),
		Pool: station.NewPool(
			catalogs,
			viper.GetString(key.CommercialsDir),
			viper.GetStringSlice(key.StationExtensions),
			rng,
		),
		Rand: rng,
	}
	st := station.New(channels, deps, station.TuningFromConfig())

	queue := input.NewQueue()
	if restore, err := input.ListenKeyboard(queue); err != nil {
		log.Warnf("keyboard unavailable, running without zapping: %s", err)
	} else {
		defer restore()
	}

	if tuneTo != "" {
		err = st.TuneTo(tuneTo)
	} else {
		err = st.Start()
	}
	if err != nil {
		return err
	}

	return app.New(st, queue, mpv.Wait()).Run()
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n",
			style.Fg(color.Red)("✗"),
			strings.Trim(err.Error(), " \n"),
		)
		os.Exit(1)
	}
}
