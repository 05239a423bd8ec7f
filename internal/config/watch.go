package config

import (
	"slices"

	"github.com/fsnotify/fsnotify"
	"github.com/opencode-ai/agentchat/internal/llm/models"
	"github.com/opencode-ai/agentchat/internal/logging"
	"github.com/spf13/viper"
)

// Watch reloads the agent list whenever the global config file changes and
// hands the new registry to onChange. Only the model list is hot-reloaded;
// everything else requires a restart.
func Watch(onChange func(models.Registry)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		registry, changed := reloadAgents()
		if !changed {
			return
		}
		logging.InfoPersist("Model list reloaded", "file", e.Name, "models", len(registry.AgentNames))
		if onChange != nil {
			onChange(registry)
		}
	})
	if viper.ConfigFileUsed() != "" {
		viper.WatchConfig()
	}
}

func reloadAgents() (models.Registry, bool) {
	mu.Lock()
	defer mu.Unlock()
	if cfg == nil {
		return models.Registry{}, false
	}

	var agents []models.ModelID
	if err := viper.UnmarshalKey("agents", &agents); err != nil {
		logging.Warn("Failed to reload agents", "error", err)
		return models.Registry{}, false
	}

	next := *cfg
	next.Agents = agents
	valid := validAgents(&next)
	if slices.Equal(valid, cfg.Agents) {
		return models.Registry{}, false
	}
	cfg.Agents = valid
	return models.NewRegistry(valid...), true
}
