// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI version and the Notion API version it sends",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(os.Stdout, viper.GetString("notion.version"))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func printVersion(w io.Writer, apiVersion string) {
	fmt.Fprintf(w, "notion-export %s (%s, Notion-Version %s)\n", version, runtime.Version(), apiVersion)
}
