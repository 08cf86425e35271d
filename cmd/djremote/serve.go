package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rootuserdj/DJ-Remote-Desktop/internal/capture"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/config"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/encoder"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/input"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/metrics"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/permissions"
	"github.com/rootuserdj/DJ-Remote-Desktop/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		listenAddr   string
		fps          int
		initialQ     int
		displayIndex int
		viewOnly     bool
		metricsAddr  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Share this screen and accept remote control",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.WithField("role", "server")

			if !permissions.HasScreenRecording() {
				permissions.RequestScreenRecording()
				return errors.New("grant Screen Recording permission in System Settings and restart")
			}
			if !viewOnly && !permissions.HasAccessibility() {
				permissions.RequestAccessibility()
				return errors.New("grant Accessibility permission in System Settings and restart")
			}

			capturer, err := capture.NewScreenCapturer(displayIndex)
			if err != nil {
				return err
			}

			qcfg := config.Quality()
			qcfg.Initial = initialQ

			// Injection is off only when asked for explicitly; there is no
			// ambient switch to flip at runtime.
			var injector input.Injector
			if !viewOnly {
				sys, err := input.NewSystemInjector()
				if err != nil {
					return err
				}
				injector = sys
			}

			srv, err := server.New(server.Config{
				ListenAddr: listenAddr,
				FPS:        fps,
				ViewOnly:   viewOnly,
				Quality:    qcfg,
			}, capturer, encoder.NewJPEGEncoder(qcfg.Initial), injector, log)
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				metrics.Serve(metricsAddr)
				log.WithField("addr", metricsAddr).Info("metrics endpoint up")
			}

			go watchStatus(srv.Manager(), nil)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigCh
				log.Info("shutting down")
				srv.Stop()
			}()

			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", config.ListenAddr(), "address to listen on")
	cmd.Flags().IntVar(&fps, "fps", config.FPS(), "target frames per second")
	cmd.Flags().IntVar(&initialQ, "quality", config.Quality().Initial, "initial JPEG quality (adapts at runtime)")
	cmd.Flags().IntVar(&displayIndex, "display", config.DisplayIndex(), "display index to capture (0 = primary)")
	cmd.Flags().BoolVar(&viewOnly, "view-only", config.ViewOnly(), "stream the screen but ignore remote input")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", config.MetricsAddr(), "address for the Prometheus /metrics endpoint (empty = off)")
	return cmd
}
