package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "djremote",
	Short: "Stream a screen to a remote machine and accept its mouse/keyboard",
	Long: `DJ Remote Desktop streams one machine's screen to another over a single
persistent TCP connection and replays the viewer's mouse and keyboard on
the shared machine. One server, one client, no relay in between.

Run "djremote serve" on the machine to share and
"djremote connect <host:port>" on the machine that controls it.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConnectCmd())
	rootCmd.AddCommand(newVersionCmd())
}
