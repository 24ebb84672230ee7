package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skjsjhb/hyaci-launcher/internal/logger"
	"github.com/skjsjhb/hyaci-launcher/pkg/catalog"
	"github.com/skjsjhb/hyaci-launcher/pkg/launch"
	"github.com/skjsjhb/hyaci-launcher/pkg/options"
	"github.com/skjsjhb/hyaci-launcher/pkg/profile"
)

// NewLaunchCmd creates the launch command.
func NewLaunchCmd() *cobra.Command {
	var (
		containerName string
		player        string
		demo          bool
		java          string
		printOnly     bool
	)

	cmd := &cobra.Command{
		Use:   "launch VERSION",
		Short: "Launch an installed game version",
		Long: `Launch a game version previously installed into a container.
The Java runtime is taken from --java, then from the managed runtime the
version asks for, then from the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd, args[0], launchFlags{
				container: containerName,
				player:    player,
				demo:      demo,
				java:      java,
				printOnly: printOnly,
			})
		},
	}

	cmd.Flags().StringVar(&containerName, "container", "", "Container the version is installed in (default \""+DefaultContainer+"\")")
	cmd.Flags().StringVar(&player, "player", "", "Offline player name")
	cmd.Flags().BoolVar(&demo, "demo", false, "Launch in demo mode")
	cmd.Flags().StringVar(&java, "java", "", "Path to the java executable")
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the command line, one argument per line, instead of running it")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

type launchFlags struct {
	container string
	player    string
	demo      bool
	java      string
	printOnly bool
}

func runLaunch(cmd *cobra.Command, id string, f launchFlags) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	r, err := e.resolveContainer(f.container)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	strict := e.opts.GetBool(options.StrictInheritance, false)
	p, err := profile.Load(ctx, id, catalog.NewLocalFetcher(r, nil), profile.WithStrictCycles(strict))
	if err != nil {
		return fmt.Errorf("failed to load %s (is it installed?): %w", id, err)
	}

	account, err := launch.NewOfflineAccount(f.player, f.demo)
	if err != nil {
		return err
	}

	javaPath := f.java
	if javaPath == "" && p.JREComponent() != "" {
		if located, err := e.locateRuntime(p.JREComponent(), p.JREVersion()); err == nil {
			javaPath = located
		} else {
			logger.Warn("Managed runtime not found, using java from PATH", logger.Fields{
				"component": p.JREComponent(),
				"hint":      "hyaci jre install " + p.JREComponent(),
			})
		}
	}

	c, err := launch.Build(p, r, launch.Options{
		Account:         account,
		Java:            javaPath,
		LauncherName:    e.cfg.Settings.LauncherName,
		LauncherVersion: e.cfg.Settings.LauncherVersion,
	})
	if err != nil {
		return err
	}

	if f.printOnly {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(c.Argv(), "\n"))
		return nil
	}

	logger.Info("Launching game", logger.Fields{"profile": p.ID(), "player": account.Username(), "java": c.Path})
	g, err := launch.Start(ctx, c, launch.WithBacklog(DefaultBacklog), launch.WithOutput(cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	code, err := g.Wait()
	if err != nil {
		return err
	}
	if code != 0 {
		logs := g.Logs()
		logger.Error("Game exited abnormally", logger.Fields{"code": code, "lines": len(logs)})
		return fmt.Errorf("game exited with code %d", code)
	}
	logger.Info("Game exited", logger.Fields{"profile": p.ID()})
	return nil
}
