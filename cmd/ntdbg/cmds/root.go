// Package cmds assembles the ntdbg command tree: spawn, attach, and the
// interactive repl, all sharing one logrus logger and one viper config
// layer. Grounded on cucaracha's cmd/root.go (cobra + viper wiring).
package cmds

import (
	"fmt"
	"os"

	"github.com/nativedbg/nativedbg/cmd/ntdbg/internal/consolelog"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile    string
	verbose    bool
	cpuProfile bool

	log = logrus.New()

	stopProfile func()
)

// RootCmd is the ntdbg command tree's root.
var RootCmd = &cobra.Command{
	Use:   "ntdbg",
	Short: "A user-mode debugger driven directly by the NT native debug subsystem",
	Long: `ntdbg attaches to or spawns Windows processes through
NtCreateDebugObject/NtWaitForDebugEvent rather than the Win32
DebugActiveProcess/WaitForDebugEvent layer, giving direct access to the
kernel's debug-event stream and full control over continuation.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logrus.InfoLevel
		if verbose {
			level = logrus.DebugLevel
		}
		consolelog.Configure(log, level)

		if cpuProfile {
			stopProfile = profile.Start(profile.CPUProfile).Stop
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if stopProfile != nil {
			stopProfile()
		}
	},
}

// Execute runs the command tree; main.main calls this once.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.ntdbg.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	RootCmd.PersistentFlags().BoolVar(&cpuProfile, "cpu-profile", false, "write a CPU profile for this invocation")

	RootCmd.AddCommand(spawnCmd, attachCmd, replCmd, docsCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ntdbg")
	}

	viper.SetEnvPrefix("NTDBG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}
