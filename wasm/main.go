//go:build js && wasm

// Package main provides the WASM entry point for breakwatch. It exposes
// the streaming pipeline to JavaScript so the browser demo (internal/webui)
// can run break-in detection over a pasted log sample without a server
// round-trip.
package main

import (
	"bufio"
	"encoding/json"
	"strconv"
	"strings"
	"syscall/js"
	"time"

	"github.com/mholloway/breakwatch/internal/stream"
	"github.com/mholloway/breakwatch/parser"
)

const version = "0.1.0-wasm"

var perf = js.Global().Get("performance")

func now() float64 {
	return perf.Call("now").Float()
}

type wasmBreakin struct {
	Time  string `json:"time"`
	RHost string `json:"rhost"`
	User  string `json:"user"`
}

type wasmResult struct {
	Breakins          []wasmBreakin `json:"breakins"`
	MalformedLines    uint64        `json:"malformedLines"`
	MalformedFailures uint64        `json:"malformedFailures"`
	ElapsedMs         int64         `json:"elapsedMs"`
	Error             string        `json:"error,omitempty"`
}

func main() {
	js.Global().Set("breakwatchAnalyze", js.FuncOf(analyze))
	js.Global().Set("breakwatchVersion", js.FuncOf(getVersion))
	select {}
}

func getVersion(this js.Value, args []js.Value) interface{} {
	return version
}

// analyze(content, year, attempts, seconds) runs the pipeline over content
// entirely in memory and returns a JSON-encoded wasmResult.
func analyze(this js.Value, args []js.Value) interface{} {
	t0 := now()

	if len(args) < 1 {
		return errorJSON("no input provided")
	}
	content := args[0].String()
	if content == "" {
		return errorJSON("empty input")
	}

	year := time.Now().Year()
	if len(args) >= 2 && !args[1].IsUndefined() && !args[1].IsNull() {
		if y, err := strconv.Atoi(args[1].String()); err == nil {
			year = y
		}
	}
	attempts := uint32(5)
	if len(args) >= 3 && !args[2].IsUndefined() && !args[2].IsNull() {
		if a, err := strconv.Atoi(args[2].String()); err == nil && a > 0 {
			attempts = uint32(a)
		}
	}
	seconds := 60.0
	if len(args) >= 4 && !args[3].IsUndefined() && !args[3].IsNull() {
		if s, err := strconv.ParseFloat(args[3].String(), 64); err == nil && s > 0 {
			seconds = s
		}
	}

	lineParser := parser.NewLineParser(year)
	parseFuncs := stream.ParseFuncs{
		Line:    lineParser.Parse,
		Failure: parser.NewFailureParser().Parse,
		Success: parser.NewSuccessParser().Parse,
	}
	opts := stream.PipelineOptions{
		Parallelism:   4,
		SuspectFinder: stream.SuspectFinderOptions{Attempts: attempts, Window: seconds},
	}

	lines := make(chan string, 256)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(strings.NewReader(content))
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	pipeline := stream.New(opts, parseFuncs)
	breakins := pipeline.Run(lines, time.Now(), nil)

	var result wasmResult
	for b := range breakins {
		result.Breakins = append(result.Breakins, wasmBreakin{
			Time:  b.Time.Format(time.RFC3339),
			RHost: b.RHost,
			User:  b.User,
		})
	}

	stats := pipeline.Stats()
	result.MalformedLines = stats.MalformedLines.Load()
	result.MalformedFailures = stats.MalformedFailures.Load()
	result.ElapsedMs = int64(now() - t0)

	out, err := json.Marshal(result)
	if err != nil {
		return errorJSON("encoding result: " + err.Error())
	}
	return string(out)
}

func errorJSON(msg string) string {
	out, _ := json.Marshal(wasmResult{Error: msg})
	return string(out)
}
