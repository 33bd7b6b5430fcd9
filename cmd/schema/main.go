// Command schema writes the JSON schema of intellect configuration.
// With --check it only verifies the existing file is up to date with the Config struct.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/intellect/pkg/config"
)

type options struct {
	Check bool `long:"check" description:"verify schema file is up to date, don't write it"`

	Args struct {
		Out string `positional-arg-name:"FILE" description:"schema file"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
	if opts.Args.Out == "" {
		opts.Args.Out = "schema.json"
	}

	if err := run(opts); err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	data, err := render()
	if err != nil {
		return err
	}

	if opts.Check {
		current, err := os.ReadFile(opts.Args.Out)
		if err != nil {
			return fmt.Errorf("read %s: %w", opts.Args.Out, err)
		}
		if !bytes.Equal(bytes.TrimSpace(current), bytes.TrimSpace(data)) {
			return fmt.Errorf("%s is stale, regenerate with go generate ./pkg/config", opts.Args.Out)
		}
		lgr.Printf("[INFO] %s is up to date", opts.Args.Out)
		return nil
	}

	if err := os.WriteFile(opts.Args.Out, data, 0o600); err != nil { //nolint:gosec // schema file is not sensitive
		return fmt.Errorf("write %s: %w", opts.Args.Out, err)
	}
	lgr.Printf("[INFO] schema written to %s", opts.Args.Out)
	return nil
}

func render() ([]byte, error) {
	schema, err := config.GenerateSchema()
	if err != nil {
		return nil, fmt.Errorf("generate schema: %w", err)
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
