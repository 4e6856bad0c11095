package cmd

import (
	"log"

	"github.com/mholloway/breakwatch/internal/webui"
	"github.com/spf13/cobra"
)

var webuiOutFlag string

var webuiBuildCmd = &cobra.Command{
	Use:   "webui-build",
	Short: "bundle the browser WASM demo's viewer.js into a single minified asset",
	Run: func(cmd *cobra.Command, args []string) {
		entry := "internal/webui/viewer.js"
		if len(args) > 0 {
			entry = args[0]
		}
		if err := webui.Build(entry, webuiOutFlag); err != nil {
			log.Fatalf("[ERROR] %v", err)
		}
		log.Printf("[INFO] bundled %s -> %s", entry, webuiOutFlag)
	},
}

func init() {
	webuiBuildCmd.Flags().StringVar(&webuiOutFlag, "out", "internal/webui/viewer.bundle.js",
		"bundled output path")
	rootCmd.AddCommand(webuiBuildCmd)
}
