package cmd

import "github.com/spf13/cobra"

var (
	rootCmd = &cobra.Command{
		Use:   "catodo",
		Short: "A personal todo list backend with cat facts and weather",
		Long:  `Catodo is a small todo list backend. Every item you create gets a random cat fact attached, and listings come back with the current weather.`,
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
