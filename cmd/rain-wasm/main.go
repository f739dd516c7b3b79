//go:build js && wasm

// Command rain-wasm mounts the rain behind a web page. Options are read as
// YAML from an optional <script type="text/yaml" id="matrix-rain-config">
// element. The layer mounts into #matrix-rain when present, else the body,
// and the page can control it through window.matrixRain.
package main

import (
	"log"
	"os"
	"syscall/js"

	"github.com/iburimskiy/matrix-rain/internal/browser"
	"github.com/iburimskiy/matrix-rain/internal/config"
	"github.com/iburimskiy/matrix-rain/internal/rain"
)

const (
	configElementID = "matrix-rain-config"
	mountElementID  = "matrix-rain"
)

func main() {
	logger := log.New(os.Stderr, "[rain] ", 0)

	opts := config.Default()
	if el := js.Global().Get("document").Call("getElementById", configElementID); el.Truthy() {
		var err error
		if opts, err = config.Parse([]byte(el.Get("textContent").String())); err != nil {
			logger.Printf("config: %v, using defaults", err)
			opts = config.Default()
		}
	}

	page := browser.NewPage()
	r, err := rain.New(opts, rain.Env{Document: page, Window: page, Log: logger})
	if err != nil {
		logger.Fatal(err)
	}
	parent := page.Body()
	if el, ok := page.ElementByID(mountElementID); ok {
		parent = el
	}
	if _, err := r.Attach(parent); err != nil {
		logger.Fatal(err)
	}

	js.Global().Set("matrixRain", js.ValueOf(map[string]any{
		"start":   js.FuncOf(func(js.Value, []js.Value) any { r.Start(); return nil }),
		"stop":    js.FuncOf(func(js.Value, []js.Value) any { r.Stop(); return nil }),
		"destroy": js.FuncOf(func(js.Value, []js.Value) any { r.Detach(); return nil }),
		"mount": js.FuncOf(func(js.Value, []js.Value) any {
			if _, err := r.Attach(parent); err != nil {
				logger.Print(err)
			}
			return nil
		}),
		"running": js.FuncOf(func(js.Value, []js.Value) any { return r.Running() }),
	}))

	select {}
}
