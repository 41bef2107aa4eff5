/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by the commands of one root command
type app struct {
	v       *viper.Viper
	cfgFile string
	logger  *slog.Logger
	prof    interface{ Stop() }
}

// NewRootCmd builds the command tree, each call has its own flags and configuration
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	rootCmd := &cobra.Command{
		Use:   "gocross",
		Short: "Cross fields on triangulated surfaces",
		Long: `
Computes a cross field (a direction field with 90 degree rotational symmetry) on the edges of a
triangle mesh, by successive heat diffusion and projection, as a guide for quad meshing.

gocross compute -F mesh.msh --svg crosses.svg`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			if err = a.initConfig(); err != nil {
				return
			}
			a.initLogger(cmd)
			return a.startProfile(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.prof != nil {
				a.prof.Stop()
				a.prof = nil
			}
		},
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.gocross.yaml)")
	pf.BoolP("verbose", "v", false, "log the progress of the computation")
	pf.String("profile", "", "write a cpu or mem profile in the current directory")
	_ = a.v.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = a.v.BindPFlag("profile", pf.Lookup("profile"))

	rootCmd.AddCommand(newComputeCmd(a), newGenerateCmd(a), newInfoCmd(a))
	return rootCmd
}

// Execute runs the command line, interrupts cancel the running computation
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func (a *app) initConfig() (err error) {
	if a.cfgFile != "" {
		// Use config file from the flag.
		a.v.SetConfigFile(a.cfgFile)
	} else {
		// Find home directory.
		var home string
		if home, err = homedir.Dir(); err != nil {
			return
		}
		// Search config in home directory with name ".gocross" (without extension).
		a.v.AddConfigPath(home)
		a.v.SetConfigName(".gocross")
	}
	a.v.SetEnvPrefix("GOCROSS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv() // read in environment variables that match

	if err = a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && a.cfgFile == "" {
			return nil
		}
		return fmt.Errorf("config file: %w", err)
	}
	return
}

func (a *app) initLogger(cmd *cobra.Command) {
	level := slog.LevelWarn
	if a.v.GetBool("verbose") {
		level = slog.LevelInfo
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	if f := a.v.ConfigFileUsed(); f != "" {
		a.logger.Info("using config file", "file", f)
	}
}

func (a *app) startProfile(cmd *cobra.Command) (err error) {
	var mode func(*profile.Profile)
	switch p := a.v.GetString("profile"); p {
	case "":
		return
	case "cpu":
		mode = profile.CPUProfile
	case "mem":
		mode = profile.MemProfile
	default:
		return fmt.Errorf("unknown profile [%s], use cpu or mem", p)
	}
	dir, _ := filepath.Abs(".")
	a.prof = profile.Start(mode, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook)
	return
}

// commandContext falls back to the background context when run without ExecuteContext
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
