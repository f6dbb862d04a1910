/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Seednode/slicebox/protocol"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	geminiKey      string
	geminiModel    string
	maxPlayers     int
	port           int
	prefix         string
	profile        bool
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool

	// terminal clients
	logFile      string
	mute         bool
	name         string
	pin          string
	playerID     string
	server       string
	syncInterval time.Duration
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.maxPlayers < 0 {
		return fmt.Errorf("invalid max players (must be 0 or more): %d", c.maxPlayers)
	}
	return nil
}

func (c *Config) validateClient(needPIN, needName bool) error {
	u, err := url.Parse(c.server)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid server url: %q", c.server)
	}
	if needPIN || c.pin != "" {
		if !protocol.ValidPIN(c.pin) {
			return fmt.Errorf("%w: %q", ErrInvalidPIN, c.pin)
		}
	}
	if needName && strings.TrimSpace(c.name) == "" {
		return ErrNoName
	}
	if c.syncInterval < 0 {
		return fmt.Errorf("invalid sync interval: %s", c.syncInterval)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

// bindEnv lets every flag in fs be set through its SLICEBOX_ variable.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SLICEBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "slicebox",
		Short:         "Slice the bad behavior: a classroom party game with a websocket relay and terminal clients.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	pfs := cmd.PersistentFlags()
	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: SLICEBOX_VERBOSE)")
	bindEnv(v, pfs)

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: SLICEBOX_BIND)")
	fs.StringVar(&cfg.geminiKey, "gemini-key", "", "api key enabling /scenarios (env: SLICEBOX_GEMINI_KEY)")
	fs.StringVar(&cfg.geminiModel, "gemini-model", "gemini-3-flash-preview", "model used for /scenarios (env: SLICEBOX_GEMINI_MODEL)")
	fs.IntVar(&cfg.maxPlayers, "max-players", 0, "players allowed per room, 0 for no limit (env: SLICEBOX_MAX_PLAYERS)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: SLICEBOX_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: SLICEBOX_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: SLICEBOX_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle rooms are closed (env: SLICEBOX_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: SLICEBOX_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: SLICEBOX_TLS_KEY)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: SLICEBOX_VERSION)")
	bindEnv(v, fs)

	cmd.AddCommand(
		newArcadeCmd(cfg, v),
		newHostCmd(cfg, v),
		newPlayCmd(cfg, v),
	)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("slicebox v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func clientFlags(cfg *Config, fs *pflag.FlagSet) {
	fs.StringVar(&cfg.logFile, "log-file", "", "write verbose output here while the screen is in use (env: SLICEBOX_LOG_FILE)")
	fs.BoolVar(&cfg.mute, "mute", false, "disable sound (env: SLICEBOX_MUTE)")
}

func roomFlags(cfg *Config, fs *pflag.FlagSet) {
	fs.StringVarP(&cfg.server, "server", "s", "http://localhost:8080", "relay server url (env: SLICEBOX_SERVER)")
	fs.StringVar(&cfg.pin, "pin", "", "six digit room pin (env: SLICEBOX_PIN)")
}

func newArcadeCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arcade",
		Short: "Play the single-player arcade mode in this terminal.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArcade(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	clientFlags(cfg, fs)
	bindEnv(v, fs)

	return cmd
}

func newHostCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Open a room and show the lobby, live rankings and podium.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validateClient(false, false); err != nil {
				return err
			}
			return runHost(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	clientFlags(cfg, fs)
	roomFlags(cfg, fs)
	fs.DurationVar(&cfg.syncInterval, "sync-interval", 0, "re-broadcast the room state this often, 0 to only send it on joins (env: SLICEBOX_SYNC_INTERVAL)")
	bindEnv(v, fs)

	return cmd
}

func newPlayCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join a room as a student.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validateClient(true, true); err != nil {
				return err
			}
			return runPlay(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	clientFlags(cfg, fs)
	roomFlags(cfg, fs)
	fs.StringVarP(&cfg.name, "name", "n", "", "display name (env: SLICEBOX_NAME)")
	fs.StringVar(&cfg.playerID, "player-id", "", "reuse a player id to rejoin after a disconnect (env: SLICEBOX_PLAYER_ID)")
	bindEnv(v, fs)

	return cmd
}
