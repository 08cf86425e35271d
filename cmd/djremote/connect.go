package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rootuserdj/DJ-Remote-Desktop/internal/client"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/config"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/decoder"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/display"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/input"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/session"
)

func newConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <host:port>",
		Short: "Connect to a server and control its screen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := args[0]
			log := logrus.WithField("role", "client")

			var cli *client.Client
			disp := display.NewEbitenDisplay(func(ev input.Event) {
				cli.ForwardEvent(ev)
			})
			cli = client.New(client.Config{
				Addr:        addr,
				DialTimeout: config.DialTimeout(),
			}, decoder.NewJPEGDecoder(), disp, log)

			// When the session ends for any reason, close the window.
			go watchStatus(cli.Manager(), func(session.Status) {
				disp.Shutdown()
			})

			if err := cli.Connect(); err != nil {
				return err
			}

			// The game loop must own the main goroutine.
			err := disp.Run("DJ Remote Desktop — " + addr)
			cli.Close()
			return err
		},
	}
}
