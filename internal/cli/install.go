package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/archive"
	"github.com/skjsjhb/hyaci-launcher/pkg/hooks"
	"github.com/skjsjhb/hyaci-launcher/pkg/installer"
	"github.com/skjsjhb/hyaci-launcher/pkg/options"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		containerName string
		withRuntime   bool
	)

	cmd := &cobra.Command{
		Use:   "install VERSION",
		Short: "Install a game version",
		Long: `Install a game version into a container.
The version manifest and its whole inheritance chain are resolved, then the
client, libraries, assets and natives are downloaded and unpacked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, args[0], containerName, withRuntime)
		},
	}

	cmd.Flags().StringVar(&containerName, "container", "", "Container to install into (default \""+DefaultContainer+"\")")
	cmd.Flags().BoolVar(&withRuntime, "with-runtime", false, "Also install the Java runtime the version asks for")

	return cmd
}

func runInstall(cmd *cobra.Command, id, containerName string, withRuntime bool) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	r, err := e.resolveContainer(containerName)
	if err != nil {
		return err
	}
	scripts, err := e.loadHooks()
	if err != nil {
		return err
	}

	events := installer.Hooks{OnEvent: func(ev installer.Event) {
		// Simple, human-friendly output
		if ev.Msg != "" {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", ev.Phase, ev.Msg, ev.ID)
		} else {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", ev.Phase, ev.ID)
		}
	}}

	in := installer.New(e.catalog, e.dl, archive.NewManager(), scripts, events)
	in.StrictInheritance = e.opts.GetBool(options.StrictInheritance, false)

	ctx := cmd.Context()
	p, err := in.Install(ctx, id, r)
	if err != nil {
		return fmt.Errorf("failed to install %s: %w", id, err)
	}

	if withRuntime {
		java, err := e.ensureRuntime(ctx, p.JREComponent(), p.JREVersion())
		if err != nil {
			return err
		}
		if java != "" {
			logger.Info("Runtime ready", logger.Fields{"component": p.JREComponent(), "java": java})
		}
	}
	return nil
}

// loadHooks registers the scripts of the hooks directory, then the scripts
// named in the configuration, which take precedence.
func (e *env) loadHooks() (*hooks.DefaultHookManager, error) {
	mgr := hooks.NewHookManager()
	dir, err := e.cfg.GetHooksDir()
	if err != nil {
		return nil, err
	}
	if err := hooks.LoadHooksFromDir(mgr, dir); err != nil {
		return nil, err
	}
	if err := mgr.LoadFile(hooks.PreInstall, e.cfg.Settings.PreInstallHook); err != nil {
		return nil, err
	}
	if err := mgr.LoadFile(hooks.PostInstall, e.cfg.Settings.PostInstallHook); err != nil {
		return nil, err
	}
	return mgr, nil
}

// ensureRuntime returns the java executable of component, installing it
// when missing or older than major. An empty component needs no runtime.
func (e *env) ensureRuntime(ctx context.Context, component string, major int) (string, error) {
	if component == "" {
		return "", nil
	}
	if java, err := e.locateRuntime(component, major); err == nil {
		return java, nil
	}
	rt, err := e.installRuntime(ctx, component)
	if err != nil {
		return "", err
	}
	return rt.Executable, nil
}
