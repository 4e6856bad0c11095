// Package webui bundles the small JavaScript viewer that drives the WASM
// demo (package wasm): a textarea where a user pastes a log sample, a
// button that calls breakwatchAnalyze, and a table rendering the resulting
// break-ins. Build bundles viewer.js into a single minified asset at build
// time instead of shipping it unbundled.
package webui

import (
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
)

// Build bundles entryPoint (viewer.js) into outFile, minified, targeting
// browsers modern enough to run the WASM demo (ES2020 covers every
// browser with Go 1.24's wasm_exec.js support).
func Build(entryPoint, outFile string) error {
	result := api.Build(api.BuildOptions{
		EntryPoints:       []string{entryPoint},
		Outfile:           outFile,
		Bundle:            true,
		Write:             true,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Target:            api.ES2020,
		Platform:          api.PlatformBrowser,
	})

	if len(result.Errors) > 0 {
		msgs := api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
		return fmt.Errorf("webui: bundling %s: %v", entryPoint, msgs)
	}
	return nil
}
