package main

import (
	"github.com/spf13/cobra"

	"github.com/brettbedarf/nativefs"
	"github.com/brettbedarf/nativefs/config"
	"github.com/brettbedarf/nativefs/internal/util"
)

// FacadeFactory builds the facade once configuration is loaded
type FacadeFactory func(cfg *config.Config) nativefs.Facade

// app carries state shared by every subcommand of one invocation
type app struct {
	cfgPath   string
	verbose   int
	newFacade FacadeFactory

	cfg *config.Config
	fs  nativefs.Facade
}

func newRootCmd(newFacade FacadeFactory) *cobra.Command {
	a := &app{newFacade: newFacade}

	root := &cobra.Command{
		Use:           "nativefs",
		Short:         "nativefs - convenience operations over the native filesystem",
		Long:          "Create, read, write, copy, move, delete, hash and inspect files and directory trees.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "Path to a YAML or JSON config file")
	root.PersistentFlags().IntVarP(&a.verbose, "verbose", "v", config.InfoVerbose,
		"Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")

	root.AddCommand(
		a.touchCmd(),
		a.createCmd(),
		a.mkdirCmd(),
		a.catCmd(),
		a.linesCmd(),
		a.writeCmd(),
		a.sizeCmd(),
		a.lsCmd(),
		a.hashCmd(),
		a.mvCmd(),
		a.renameCmd(),
		a.cpCmd(),
		a.rmCmd(),
		a.chmodCmd(),
		a.statCmd(),
		a.mimeCmd(),
		a.findCmd(),
		a.exportCmd(),
		a.importCmd(),
	)
	return root
}

// init loads config (defaults, file, env, then flags) and builds the facade
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Merge(&config.ConfigOverride{LogLvl: &a.verbose})
	}
	util.InitializeLogger(cfg.LogLvl)
	logger := util.GetLogger("cli")
	logger.Debug().Str("command", cmd.Name()).Str("config", a.cfgPath).Msg("nativefs initializing")

	a.cfg = cfg
	a.fs = a.newFacade(cfg)
	return nil
}
