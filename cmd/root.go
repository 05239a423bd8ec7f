package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/opencode-ai/agentchat/internal/app"
	"github.com/opencode-ai/agentchat/internal/config"
	"github.com/opencode-ai/agentchat/internal/db"
	"github.com/opencode-ai/agentchat/internal/errors"
	"github.com/opencode-ai/agentchat/internal/logging"
	"github.com/opencode-ai/agentchat/internal/pubsub"
	"github.com/opencode-ai/agentchat/internal/tui"
	"github.com/opencode-ai/agentchat/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "agentchat",
	Short: "Terminal chat with AI agents",
	Long: `agentchat is a terminal chat client for AI models.
It keeps a history of conversations, lets you switch between the configured
models and streams answers as they are generated.`,
	Example: `
  # Start a new conversation
  agentchat

  # Start with a prefilled message and a model
  agentchat --prompt "Explain this stack trace" --model claude-3.7-sonnet

  # Continue a stored conversation
  agentchat --chat 0c9d...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flag("help").Changed {
			cmd.Help()
			return nil
		}
		if cmd.Flag("version").Changed {
			fmt.Fprintln(cmd.OutOrStdout(), version.Version)
			return nil
		}

		debug, _ := cmd.Flags().GetBool("debug")
		chatID, _ := cmd.Flags().GetString("chat")
		modelID, _ := cmd.Flags().GetString("model")
		prompt, _ := cmd.Flags().GetString("prompt")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cfg, conn, err := bootstrap(cmd, debug)
		if err != nil {
			return err
		}
		defer conn.Close()

		a := app.New(ctx, conn, cfg)
		defer a.Shutdown()

		if modelID != "" && !a.Registry().Contains(modelID) {
			return errors.Newf(errors.ErrBadRequest, "unknown model %q, run `agentchat models` to list the available ones", modelID)
		}
		if chatID != "" {
			if _, err := a.Conversations.Get(ctx, chatID); err != nil {
				return err
			}
		}

		program := tea.NewProgram(
			tui.New(a, tui.Options{
				ConversationID: chatID,
				Prompt:         prompt,
				ModelID:        modelID,
			}),
			tea.WithAltScreen(),
		)

		ch, cancelSubs := setupSubscriptions(ctx, a)
		go func() {
			defer logging.RecoverPanic("TUI-message-handler", func() {
				program.Quit()
			})
			for msg := range ch {
				program.Send(msg)
			}
		}()
		defer cancelSubs()

		logging.Info("Starting agentchat", "version", version.Version, "models", len(a.Registry().AgentNames))
		if _, err := program.Run(); err != nil {
			logging.Error("TUI error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

// loadConfig resolves the working directory, loads the configuration and
// installs the logger.
func loadConfig(cmd *cobra.Command, debug bool) (*config.Config, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		if err := os.Chdir(cwd); err != nil {
			return nil, fmt.Errorf("failed to change directory: %v", err)
		}
	}
	if cwd == "" {
		c, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %v", err)
		}
		cwd = c
	}

	cfg, err := config.Load(cwd, debug)
	if err != nil {
		return nil, err
	}

	logFile := ""
	if cfg.Debug {
		logFile = filepath.Join(cfg.Data.Directory, "debug.log")
	}
	if err := logging.Init(cfg.Log.Level, logFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bootstrap loads the configuration and opens the database.
func bootstrap(cmd *cobra.Command, debug bool) (*config.Config, *sql.DB, error) {
	cfg, err := loadConfig(cmd, debug)
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.Connect(cfg.Data.Directory)
	if err != nil {
		return nil, nil, err
	}
	return cfg, conn, nil
}

func forward[T any](ctx context.Context, wg *sync.WaitGroup, name string, sub <-chan pubsub.Event[T], out chan<- tea.Msg) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer logging.RecoverPanic(name+"-subscription", nil)
		for ev := range sub {
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
}

func setupSubscriptions(ctx context.Context, a *app.App) (chan tea.Msg, func()) {
	ch := make(chan tea.Msg, 100)
	wg := sync.WaitGroup{}
	ctx, cancel := context.WithCancel(ctx)

	forward(ctx, &wg, "logging", logging.Subscribe(ctx), ch)
	forward(ctx, &wg, "conversations", a.Conversations.Subscribe(ctx), ch)
	forward(ctx, &wg, "registry", a.SubscribeRegistry(ctx), ch)

	return ch, func() {
		logging.Info("Cancelling all subscriptions")
		cancel()
		wg.Wait()
		close(ch)
	}
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().BoolP("version", "v", false, "Version")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.Flags().String("chat", "", "Open a stored conversation")
	rootCmd.Flags().StringP("model", "m", "", "Model to select")
	rootCmd.Flags().StringP("prompt", "p", "", "Prefill the message editor")
}
