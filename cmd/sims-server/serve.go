package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sims-ims/sims-client/internal/logging"
	"github.com/sims-ims/sims-client/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	keyListen  = "listen"
	keyDB      = "db"
	keyLogFile = "log-file"

	defaultListen = ":50051"
	defaultDB     = "sims.db"

	shutdownTimeout = 5 * time.Second
)

// configFile is set by the --config flag.
var configFile string

type settings struct {
	Listen  string
	DB      string
	LogFile string
}

// loadSettings resolves flags, SIMS_SERVER_* environment variables and the
// optional config file, in that order of precedence.
func loadSettings(cmd *cobra.Command) (settings, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return settings{}, fmt.Errorf("bind flags: %w", err)
	}
	v.SetEnvPrefix("SIMS_SERVER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("read config: %w", err)
		}
	}
	s := settings{
		Listen:  strings.TrimSpace(v.GetString(keyListen)),
		DB:      strings.TrimSpace(v.GetString(keyDB)),
		LogFile: v.GetString(keyLogFile),
	}
	if s.Listen == "" {
		return settings{}, errors.New("listen address must not be empty")
	}
	if s.DB == "" {
		return settings{}, errors.New("database path must not be empty")
	}
	return s, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if s.LogFile != "" {
		logging.Configure(s.LogFile)
	}

	store, err := server.OpenStore(s.DB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	srv := &http.Server{
		Addr:              s.Listen,
		Handler:           server.NewRouter(store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "sims-server listening on %s (db %s)\n", s.Listen, s.DB)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logging.Error(err)
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error(err)
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
