package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"jokebox/internal/client"
	"jokebox/internal/config"
	"jokebox/internal/connectivity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	viewServer string
	viewCache  string
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Page through jokes in the terminal",
	Long: `Fetch the jokes once, cache them locally and show one at a time.

Keys (followed by Enter):
  n  next joke
  r  try again / refresh
  q  quit`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadClient()
		if err != nil {
			logger.Fatal("Invalid configuration", zap.Error(err))
		}
		if cmd.Flags().Changed("server") {
			cfg.ServerURL = viewServer
		}
		if cmd.Flags().Changed("cache") {
			cfg.Cache = viewCache
		}

		// Keep the screen for the joke, only warnings go to stderr.
		log := logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel))

		cache, err := client.OpenCache(cfg)
		if err != nil {
			log.Fatal("Failed to open cache", zap.Error(err))
		}
		defer cache.Close()

		checker, err := connectivity.NewDialChecker(cfg.ServerURL, cfg.RequestTimeout)
		if err != nil {
			log.Fatal("Invalid server url", zap.Error(err))
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		monitor := connectivity.NewMonitor(checker, cfg.ProbeInterval, log)
		monitor.CheckNow(ctx)
		go monitor.Run(ctx)

		app := client.NewApp(client.NewAPI(cfg.ServerURL, cfg.RequestTimeout), cache, monitor, log)
		app.OnChange(func(s client.State) {
			fmt.Print("\n----------------------------------------\n")
			fmt.Print(client.Render(s))
		})
		fmt.Print(client.Render(app.State()))

		app.Mount(ctx)
		defer app.Unmount()

		input := make(chan string)
		go func() {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				input <- strings.TrimSpace(scanner.Text())
			}
			close(input)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case line, ok := <-input:
				if !ok {
					return
				}
				switch line {
				case "n":
					app.Next()
				case "r":
					app.Refresh()
				case "q":
					fmt.Println(" 'q' pressed. Stopping...")
					return
				}
			}
		}
	},
}

func init() {
	viewCmd.Flags().StringVarP(&viewServer, "server", "s", "http://localhost:3000", "Content service base URL (overrides JOKEBOX_SERVER_URL)")
	viewCmd.Flags().StringVar(&viewCache, "cache", "badger", "Cache backend: badger, redis or memory (overrides JOKEBOX_CACHE)")
}
