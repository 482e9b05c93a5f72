package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/timada-org/catodo/internal/api"
	"github.com/timada-org/catodo/internal/core"
)

var (
	cfgFile string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the catodo server",

		Run: func(cmd *cobra.Command, args []string) {
			config, err := core.NewConfig(cfgFile)
			if err != nil {
				log.Fatalln(err)
			}

			app, err := api.New(config)
			if err != nil {
				log.Fatalln(err)
			}
			defer app.Close()

			log.Fatal(app.Listen())
		},
	}
)

func init() {
	serveCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "/etc/config/catodo.yml", "config file (default is /etc/config/catodo.yml)")
}
