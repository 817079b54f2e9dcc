package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/calendarplan/calendarplan/internal/config"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	offline    bool
	cfg        config.Application
}

// NewRootCommand builds the calendarplan command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "calendarplan",
		Short: "Calendar assistant backend",
		Long: `calendarplan keeps a calendar that can be edited directly or by chatting
with a language-model assistant. Both the chat and the timeline work on the
same persisted event collection.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "path to the YAML configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error); overrides LOG_LEVEL")
	root.PersistentFlags().BoolVar(&opts.offline, "offline", false, "do not call the language model; the assistant gives a canned reply")

	root.AddCommand(newServeCommand(opts), newChatCommand(opts))
	return root
}

func (o *rootOptions) init() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("Failed to read .env file: %v", err)
	}

	if o.logLevel != "" {
		level, err := log.ParseLevel(o.logLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
